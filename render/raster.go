// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/shaderviz"
	"github.com/gogpu/shaderviz/mesh"
	"github.com/gogpu/shaderviz/shaders"
)

// minW keeps vertices away from the eye plane after near clipping.
const minW = 1e-6

type clipVertex struct {
	pos  mgl32.Vec4
	vary shaders.Varyings
}

type screenVertex struct {
	x, y float64
	z    float64
	invW float64
	vary *shaders.Varyings
}

type rasterizer struct {
	fb       *softFramebuffer
	state    State
	program  shaders.Program
	varyings int
	offsets  [][2]float64
}

func newRasterizer(fb *softFramebuffer, state State, p shaders.Program) *rasterizer {
	return &rasterizer{
		fb:       fb,
		state:    state,
		program:  p,
		varyings: p.VaryingCount(),
		offsets:  sampleOffsets(fb.samples),
	}
}

// draw runs the vertex stage once per vertex and rasterizes every triangle.
func (r *rasterizer) draw(data *mesh.Interleaved) {
	verts := make([]clipVertex, data.VertexCount)
	in := make([][]float32, len(data.Attributes))
	for i := range verts {
		v := data.Vertex(i)
		for j, a := range data.Attributes {
			in[j] = v[data.Offsets[j] : data.Offsets[j]+a.Components()]
		}
		verts[i].pos, verts[i].vary = r.program.Vertex(i, in)
	}

	for e := 0; e+2 < data.ElementCount(); e += 3 {
		r.triangle(verts[data.Element(e)], verts[data.Element(e+1)], verts[data.Element(e+2)])
	}
}

func (r *rasterizer) triangle(a, b, c clipVertex) {
	poly := []clipVertex{a, b, c}
	poly = r.clip(poly, func(p mgl32.Vec4) float32 { return p[2] + p[3] })
	poly = r.clip(poly, func(p mgl32.Vec4) float32 { return p[3] - minW })
	for i := 1; i+1 < len(poly); i++ {
		r.fill(r.project(&poly[0]), r.project(&poly[i]), r.project(&poly[i+1]))
	}
}

// clip keeps the part of a convex polygon where dist >= 0.
func (r *rasterizer) clip(poly []clipVertex, dist func(mgl32.Vec4) float32) []clipVertex {
	if len(poly) == 0 {
		return nil
	}
	out := make([]clipVertex, 0, len(poly)+1)
	for i := range poly {
		cur, next := poly[i], poly[(i+1)%len(poly)]
		dc, dn := dist(cur.pos), dist(next.pos)
		if dc >= 0 {
			out = append(out, cur)
		}
		if (dc >= 0) != (dn >= 0) {
			out = append(out, r.lerp(cur, next, dc/(dc-dn)))
		}
	}
	return out
}

func (r *rasterizer) lerp(a, b clipVertex, t float32) clipVertex {
	v := clipVertex{pos: a.pos.Add(b.pos.Sub(a.pos).Mul(t))}
	for k := 0; k < r.varyings; k++ {
		v.vary[k] = a.vary[k] + (b.vary[k]-a.vary[k])*t
	}
	return v
}

// project maps a clip-space vertex to framebuffer coordinates. Y points
// down and depth is mapped to [0, 1].
func (r *rasterizer) project(v *clipVertex) screenVertex {
	invW := 1 / float64(v.pos[3])
	return screenVertex{
		x:    (float64(v.pos[0])*invW + 1) * 0.5 * float64(r.fb.width),
		y:    (1 - float64(v.pos[1])*invW) * 0.5 * float64(r.fb.height),
		z:    (float64(v.pos[2])*invW + 1) * 0.5,
		invW: invW,
		vary: &v.vary,
	}
}

func edge(a, b *screenVertex, x, y float64) float64 {
	return (b.x-a.x)*(y-a.y) - (b.y-a.y)*(x-a.x)
}

// isTopLeft reports whether the edge a->b of a triangle with positive
// area owns the samples exactly on it.
func isTopLeft(a, b *screenVertex) bool {
	return (a.y == b.y && b.x > a.x) || b.y < a.y
}

func covers(w float64, topLeft bool) bool {
	return w > 0 || (w == 0 && topLeft)
}

func (r *rasterizer) fill(v0, v1, v2 screenVertex) {
	area := edge(&v0, &v1, v2.x, v2.y)
	if area == 0 || math.IsNaN(area) {
		return
	}
	if area < 0 {
		v1, v2 = v2, v1
		area = -area
	}

	fb := r.fb
	minX := max(int(math.Floor(min(v0.x, v1.x, v2.x))), 0)
	maxX := min(int(math.Ceil(max(v0.x, v1.x, v2.x))), fb.width-1)
	minY := max(int(math.Floor(min(v0.y, v1.y, v2.y))), 0)
	maxY := min(int(math.Ceil(max(v0.y, v1.y, v2.y))), fb.height-1)
	if minX > maxX || minY > maxY {
		return
	}

	tl0, tl1, tl2 := isTopLeft(&v1, &v2), isTopLeft(&v2, &v0), isTopLeft(&v0, &v1)
	n := len(r.offsets)
	depths := make([]float32, n)
	covered := make([]bool, n)

	for py := minY; py <= maxY; py++ {
		for px := minX; px <= maxX; px++ {
			hit := false
			for s, off := range r.offsets {
				sx, sy := float64(px)+off[0], float64(py)+off[1]
				w0 := edge(&v1, &v2, sx, sy)
				w1 := edge(&v2, &v0, sx, sy)
				w2 := edge(&v0, &v1, sx, sy)
				covered[s] = false
				if !covers(w0, tl0) || !covers(w1, tl1) || !covers(w2, tl2) {
					continue
				}
				z := (w0*v0.z + w1*v1.z + w2*v2.z) / area
				if z < 0 || z > 1 {
					continue
				}
				depths[s] = float32(z)
				covered[s] = true
				hit = true
			}
			if !hit {
				continue
			}

			color := r.shade(&v0, &v1, &v2, area, float64(px)+0.5, float64(py)+0.5)
			r.write(px, py, color, covered, depths)
		}
	}
}

// interpolate returns perspective-correct varyings at (x, y).
func (r *rasterizer) interpolate(v0, v1, v2 *screenVertex, area, x, y float64, out *shaders.Varyings) {
	b0 := edge(v1, v2, x, y) / area * v0.invW
	b1 := edge(v2, v0, x, y) / area * v1.invW
	b2 := edge(v0, v1, x, y) / area * v2.invW
	sum := b0 + b1 + b2
	if sum == 0 {
		return
	}
	b0, b1, b2 = b0/sum, b1/sum, b2/sum
	for k := 0; k < r.varyings; k++ {
		out[k] = float32(b0*float64(v0.vary[k]) + b1*float64(v1.vary[k]) + b2*float64(v2.vary[k]))
	}
}

// shade runs the fragment stage at a pixel center. Derivatives are the
// differences to the neighboring pixel centers.
func (r *rasterizer) shade(v0, v1, v2 *screenVertex, area, x, y float64) mgl32.Vec4 {
	var v, vx, vy shaders.Varyings
	r.interpolate(v0, v1, v2, area, x, y, &v)
	r.interpolate(v0, v1, v2, area, x+1, y, &vx)
	r.interpolate(v0, v1, v2, area, x, y+1, &vy)
	for k := 0; k < r.varyings; k++ {
		vx[k] -= v[k]
		vy[k] -= v[k]
	}

	c := r.program.Fragment(&v, &vx, &vy)
	for i := range c {
		c[i] = clamp01(c[i])
	}
	return c
}

func clamp01(x float32) float32 {
	if !(x > 0) {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// write applies depth test and blending to the covered samples of a pixel.
func (r *rasterizer) write(px, py int, color mgl32.Vec4, covered []bool, depths []float32) {
	fb := r.fb
	base := (py*fb.width + px) * fb.samples
	for s := range covered {
		if !covered[s] {
			continue
		}
		i := base + s
		if r.state.DepthTest && fb.depth != nil {
			if !(depths[s] < fb.depth[i]) {
				continue
			}
			fb.depth[i] = depths[s]
		}

		out := color
		if r.state.Blend != nil {
			p := fb.color[i*4 : i*4+4 : i*4+4]
			dst := mgl32.Vec4{float32(p[0]) / 255, float32(p[1]) / 255, float32(p[2]) / 255, float32(p[3]) / 255}
			out = blend(r.state.Blend, color, dst)
		}
		fb.color[i*4+0] = shaderviz.Unorm8(out[0])
		fb.color[i*4+1] = shaderviz.Unorm8(out[1])
		fb.color[i*4+2] = shaderviz.Unorm8(out[2])
		fb.color[i*4+3] = shaderviz.Unorm8(out[3])
	}
}
