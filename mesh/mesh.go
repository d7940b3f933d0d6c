// Package mesh holds indexed triangle mesh data and turns it into
// interleaved vertex buffers for a shader's attribute layout.
package mesh

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/shaderviz"
)

var (
	// ErrMissingAttribute is returned when a layout asks for data the mesh does not have.
	ErrMissingAttribute = errors.New("mesh: missing attribute")

	// ErrAttributeCount is returned when attribute arrays differ in length.
	ErrAttributeCount = errors.New("mesh: attribute count mismatch")

	// ErrIndexRange is returned when an index points past the vertex data.
	ErrIndexRange = errors.New("mesh: index out of range")
)

// Attribute identifies one per-vertex input.
type Attribute uint8

const (
	Position2D Attribute = iota
	Position3D
	TextureCoordinates
	Normal
	Color3
	Color4
)

// Components returns the number of float32 components of the attribute.
func (a Attribute) Components() int {
	switch a {
	case Position2D, TextureCoordinates:
		return 2
	case Color4:
		return 4
	default:
		return 3
	}
}

// Location returns the shader input location the attribute is bound to.
// Positions share location 0; a shader uses one or the other.
func (a Attribute) Location() uint32 {
	switch a {
	case TextureCoordinates:
		return 1
	case Normal:
		return 2
	case Color3, Color4:
		return 3
	default:
		return 0
	}
}

func (a Attribute) String() string {
	switch a {
	case Position2D:
		return "Position2D"
	case Position3D:
		return "Position3D"
	case TextureCoordinates:
		return "TextureCoordinates"
	case Normal:
		return "Normal"
	case Color3:
		return "Color3"
	case Color4:
		return "Color4"
	default:
		return fmt.Sprintf("Attribute(%d)", uint8(a))
	}
}

// Data is a triangle list, optionally indexed. Every non-empty attribute
// array must have the same length as the position array in use.
type Data struct {
	Positions2D []mgl32.Vec2
	Positions3D []mgl32.Vec3
	Normals     []mgl32.Vec3
	TexCoords   []mgl32.Vec2
	Colors      []shaderviz.Color

	// Indices into the vertex arrays, three per triangle. Nil means the
	// vertices themselves form consecutive triangles.
	Indices []uint32
}

// VertexCount returns the number of vertices.
func (d *Data) VertexCount() int {
	if len(d.Positions3D) > 0 {
		return len(d.Positions3D)
	}
	return len(d.Positions2D)
}

// IsIndexed reports whether the mesh has an index buffer.
func (d *Data) IsIndexed() bool { return d.Indices != nil }

// ElementCount returns the number of vertices a draw call processes.
func (d *Data) ElementCount() int {
	if d.IsIndexed() {
		return len(d.Indices)
	}
	return d.VertexCount()
}

// Has reports whether the mesh carries the attribute.
func (d *Data) Has(a Attribute) bool {
	switch a {
	case Position2D:
		return len(d.Positions2D) > 0
	case Position3D:
		return len(d.Positions3D) > 0
	case TextureCoordinates:
		return len(d.TexCoords) > 0
	case Normal:
		return len(d.Normals) > 0
	case Color3, Color4:
		return len(d.Colors) > 0
	}
	return false
}

// Validate checks attribute lengths and index bounds.
func (d *Data) Validate() error {
	n := d.VertexCount()
	check := func(name string, l int) error {
		if l != 0 && l != n {
			return fmt.Errorf("%w: %s has %d entries, positions %d", ErrAttributeCount, name, l, n)
		}
		return nil
	}
	if len(d.Positions2D) > 0 && len(d.Positions3D) > 0 {
		return fmt.Errorf("%w: both 2D and 3D positions set", ErrAttributeCount)
	}
	if err := check("normals", len(d.Normals)); err != nil {
		return err
	}
	if err := check("texture coordinates", len(d.TexCoords)); err != nil {
		return err
	}
	if err := check("colors", len(d.Colors)); err != nil {
		return err
	}
	for i, idx := range d.Indices {
		if int(idx) >= n {
			return fmt.Errorf("%w: index %d at %d, %d vertices", ErrIndexRange, idx, i, n)
		}
	}
	if d.ElementCount()%3 != 0 {
		return fmt.Errorf("mesh: %d elements is not a triangle list", d.ElementCount())
	}
	return nil
}

// Duplicate returns a non-indexed copy where every index is expanded into
// its own vertex. Shaders that derive per-triangle data from the vertex
// position inside the triangle need this.
func Duplicate(d *Data) *Data {
	if !d.IsIndexed() {
		c := *d
		return &c
	}
	out := &Data{}
	for _, i := range d.Indices {
		if len(d.Positions2D) > 0 {
			out.Positions2D = append(out.Positions2D, d.Positions2D[i])
		}
		if len(d.Positions3D) > 0 {
			out.Positions3D = append(out.Positions3D, d.Positions3D[i])
		}
		if len(d.Normals) > 0 {
			out.Normals = append(out.Normals, d.Normals[i])
		}
		if len(d.TexCoords) > 0 {
			out.TexCoords = append(out.TexCoords, d.TexCoords[i])
		}
		if len(d.Colors) > 0 {
			out.Colors = append(out.Colors, d.Colors[i])
		}
	}
	return out
}
