package mesh

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Interleaved is vertex data packed in one float32 array, one attribute
// after another for each vertex, ready for upload.
type Interleaved struct {
	Attributes []Attribute
	Offsets    []int // per attribute, in float32 components
	Stride     int   // float32 components per vertex

	Vertices    []float32
	VertexCount int
	Indices     []uint32
}

// Interleave packs the requested attributes of d in the given order.
func Interleave(d *Data, attrs ...Attribute) (*Interleaved, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	out := &Interleaved{
		Attributes:  append([]Attribute(nil), attrs...),
		Offsets:     make([]int, len(attrs)),
		VertexCount: d.VertexCount(),
	}
	for i, a := range attrs {
		if !d.Has(a) {
			return nil, fmt.Errorf("%w: %s", ErrMissingAttribute, a)
		}
		out.Offsets[i] = out.Stride
		out.Stride += a.Components()
	}
	if d.IsIndexed() {
		out.Indices = append([]uint32(nil), d.Indices...)
	}

	out.Vertices = make([]float32, 0, out.Stride*out.VertexCount)
	for v := 0; v < out.VertexCount; v++ {
		for _, a := range attrs {
			switch a {
			case Position2D:
				p := d.Positions2D[v]
				out.Vertices = append(out.Vertices, p[0], p[1])
			case Position3D:
				p := d.Positions3D[v]
				out.Vertices = append(out.Vertices, p[0], p[1], p[2])
			case TextureCoordinates:
				t := d.TexCoords[v]
				out.Vertices = append(out.Vertices, t[0], t[1])
			case Normal:
				n := d.Normals[v]
				out.Vertices = append(out.Vertices, n[0], n[1], n[2])
			case Color3:
				c := d.Colors[v]
				out.Vertices = append(out.Vertices, c.R, c.G, c.B)
			case Color4:
				c := d.Colors[v]
				out.Vertices = append(out.Vertices, c.R, c.G, c.B, c.A)
			}
		}
	}
	return out, nil
}

// Vertex returns the components of vertex i.
func (m *Interleaved) Vertex(i int) []float32 {
	return m.Vertices[i*m.Stride : (i+1)*m.Stride]
}

// Attribute returns the components of attribute a in vertex i, or nil if
// the layout does not contain it.
func (m *Interleaved) Attribute(i int, a Attribute) []float32 {
	for j, have := range m.Attributes {
		if have == a {
			v := m.Vertex(i)
			return v[m.Offsets[j] : m.Offsets[j]+a.Components()]
		}
	}
	return nil
}

// ElementCount returns the number of vertices a draw call processes.
func (m *Interleaved) ElementCount() int {
	if m.Indices != nil {
		return len(m.Indices)
	}
	return m.VertexCount
}

// Element returns the vertex index of draw element e.
func (m *Interleaved) Element(e int) int {
	if m.Indices != nil {
		return int(m.Indices[e])
	}
	return e
}

// VertexBytes returns the vertex data as little-endian bytes.
func (m *Interleaved) VertexBytes() []byte {
	buf := make([]byte, len(m.Vertices)*4)
	for i, v := range m.Vertices {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

// IndexBytes returns the index data as little-endian uint32 values.
func (m *Interleaved) IndexBytes() []byte {
	buf := make([]byte, len(m.Indices)*4)
	for i, v := range m.Indices {
		binary.LittleEndian.PutUint32(buf[i*4:], v)
	}
	return buf
}
