package shaders

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// CPU counterparts of the WGSL built-ins the programs use.

func smoothstep(edge0, edge1, x float32) float32 {
	if edge0 == edge1 {
		if x < edge0 {
			return 0
		}
		return 1
	}
	t := mgl32.Clamp((x-edge0)/(edge1-edge0), 0, 1)
	return t * t * (3 - 2*t)
}

func mix4(a, b mgl32.Vec4, t float32) mgl32.Vec4 {
	return a.Mul(1 - t).Add(b.Mul(t))
}

func mul4(a, b mgl32.Vec4) mgl32.Vec4 {
	return mgl32.Vec4{a[0] * b[0], a[1] * b[1], a[2] * b[2], a[3] * b[3]}
}

func reflect3(i, n mgl32.Vec3) mgl32.Vec3 {
	return i.Sub(n.Mul(2 * n.Dot(i)))
}

func normalize3(v mgl32.Vec3) mgl32.Vec3 {
	l := v.Len()
	if l == 0 {
		return v
	}
	return v.Mul(1 / l)
}

func pow(x, y float32) float32 { return math32.Pow(x, y) }

func abs(x float32) float32 { return math32.Abs(x) }

// clipFrom2D turns a 2D homogeneous position into a clip-space vector at
// depth zero, the way the vector programs place their quads.
func clipFrom2D(p mgl32.Vec3) mgl32.Vec4 {
	return mgl32.Vec4{p[0], p[1], 0, p[2]}
}

func vec2(in []float32) mgl32.Vec2 { return mgl32.Vec2{in[0], in[1]} }

func vec3(in []float32) mgl32.Vec3 { return mgl32.Vec3{in[0], in[1], in[2]} }
