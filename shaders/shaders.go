// Package shaders implements the programs the documentation scenes are
// drawn with.
//
// Every program carries its WGSL source for GPU devices and an equivalent
// CPU evaluation used by the software device. Both follow the same
// conventions: clip-space depth in [-w, w] as produced by the projection
// matrices, texture coordinates with V pointing up, and straight vec4
// colors that are clamped on output.
package shaders

import (
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/naga"

	"github.com/gogpu/shaderviz/mesh"
)

//go:embed wgsl/*.wgsl
var wgslFiles embed.FS

// MaxVaryings is the number of float32 varyings a program may pass from
// its vertex to its fragment stage.
const MaxVaryings = 16

// Varyings carries per-vertex outputs. The software device interpolates
// them perspective-correctly across a triangle.
type Varyings [MaxVaryings]float32

// Texture is a 2D texture bound to a program. Sample filters linearly and
// clamps to the edge; (0, 0) is the top left corner of the image.
type Texture interface {
	Width() int
	Height() int
	Sample(uv mgl32.Vec2) mgl32.Vec4
}

// Program is a shader with its vertex layout and uniform state.
type Program interface {
	// Name identifies the program in logs and pipeline caches.
	Name() string

	// Source returns the complete WGSL module with vs_main and fs_main.
	Source() string

	// Attributes lists the vertex inputs in buffer order.
	Attributes() []mesh.Attribute

	// Uniforms returns the uniform block bound at group 0, binding 0.
	Uniforms() []byte

	// Texture returns the texture bound at binding 1, or nil.
	Texture() Texture

	// VaryingCount is the number of Varyings entries the program uses.
	VaryingCount() int

	// Vertex runs the vertex stage. in holds one slice per attribute in
	// Attributes order; vertexID is the index of the vertex in the draw.
	Vertex(vertexID int, in [][]float32) (mgl32.Vec4, Varyings)

	// Fragment runs the fragment stage. dx and dy are the screen-space
	// derivatives of v, as fwidth sees them.
	Fragment(v, dx, dy *Varyings) mgl32.Vec4
}

// ErrNoTexture is returned when a textured program is drawn without a texture.
var ErrNoTexture = errors.New("shaders: no texture bound")

// Validate reports whether p can be drawn in its current state.
func Validate(p Program) error {
	switch p.(type) {
	case *Vector2D, *DistanceFieldVector2D:
		if p.Texture() == nil {
			return fmt.Errorf("%w: %s", ErrNoTexture, p.Name())
		}
	}
	return nil
}

// Compile translates the program's WGSL to SPIR-V with naga. Devices call
// it once per program to reject broken sources before creating pipelines.
func Compile(p Program) ([]byte, error) {
	spirv, err := naga.Compile(p.Source())
	if err != nil {
		return nil, fmt.Errorf("shaders: compile %s: %w", p.Name(), err)
	}
	return spirv, nil
}

// source joins the shared helpers with the program's own module.
func source(name string) string {
	common, err := wgslFiles.ReadFile("wgsl/common.wgsl")
	if err != nil {
		panic(err)
	}
	body, err := wgslFiles.ReadFile("wgsl/" + name + ".wgsl")
	if err != nil {
		panic(err)
	}
	var b strings.Builder
	b.Write(common)
	b.WriteByte('\n')
	b.Write(body)
	return b.String()
}

// All returns one default-configured instance of every program.
func All() []Program {
	return []Program{
		NewFlat3D(),
		NewPhong(),
		NewMeshVisualizer(),
		NewVertexColor3D(),
		NewVector2D(),
		NewDistanceFieldVector2D(),
	}
}
