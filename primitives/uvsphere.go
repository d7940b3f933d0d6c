package primitives

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/shaderviz/mesh"
)

// UVSphereSolid returns a sphere made of rings stacked along the Y axis,
// each split into segments. rings must be at least 2 and segments at
// least 3.
//
// With TextureCoords the seam column is duplicated so that U runs from 0
// to 1 around the sphere and V from 0 at the bottom pole to 1 at the top.
func UVSphereSolid(rings, segments int, flags Flags) *mesh.Data {
	if rings < 2 || segments < 3 {
		panic(fmt.Sprintf("primitives: UV sphere needs at least 2 rings and 3 segments, got %d and %d", rings, segments))
	}
	textured := flags&TextureCoords != 0

	cols := segments
	if textured {
		cols++
	}

	d := &mesh.Data{}
	add := func(p mgl32.Vec3, uv mgl32.Vec2) uint32 {
		d.Positions3D = append(d.Positions3D, p)
		d.Normals = append(d.Normals, p)
		if textured {
			d.TexCoords = append(d.TexCoords, uv)
		}
		return uint32(len(d.Positions3D) - 1)
	}

	bottom := add(mgl32.Vec3{0, -1, 0}, mgl32.Vec2{0.5, 0})
	for r := 1; r < rings; r++ {
		phi := float32(r)*math32.Pi/float32(rings) - math32.Pi/2
		y := math32.Sin(phi)
		xz := math32.Cos(phi)
		for s := 0; s < cols; s++ {
			theta := float32(s) * 2 * math32.Pi / float32(segments)
			add(mgl32.Vec3{xz * math32.Sin(theta), y, xz * math32.Cos(theta)},
				mgl32.Vec2{float32(s) / float32(segments), float32(r) / float32(rings)})
		}
	}
	top := add(mgl32.Vec3{0, 1, 0}, mgl32.Vec2{0.5, 1})

	ring := func(r, s int) uint32 {
		if !textured {
			s %= segments
		}
		return uint32(1 + (r-1)*cols + s)
	}

	for s := 0; s < segments; s++ {
		d.Indices = append(d.Indices, bottom, ring(1, s+1), ring(1, s))
	}
	for r := 1; r < rings-1; r++ {
		for s := 0; s < segments; s++ {
			a, b := ring(r, s), ring(r, s+1)
			c, e := ring(r+1, s), ring(r+1, s+1)
			d.Indices = append(d.Indices, a, b, e, a, e, c)
		}
	}
	for s := 0; s < segments; s++ {
		d.Indices = append(d.Indices, ring(rings-1, s), ring(rings-1, s+1), top)
	}
	return d
}
