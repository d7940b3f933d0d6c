package shaders

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/shaderviz"
	"github.com/gogpu/shaderviz/mesh"
)

var meshVisualizerSource = source("meshvisualizer")

// MeshVisualizer draws a wireframe over a solid fill.
//
// The wireframe is derived from the position of each fragment inside its
// triangle, so the mesh must be drawn non-indexed (see mesh.Duplicate).
type MeshVisualizer struct {
	transformationProjection mgl32.Mat4
	color                    shaderviz.Color
	wireframeColor           shaderviz.Color
	viewportSize             mgl32.Vec2
	wireframeWidth           float32
	smoothness               float32
}

// NewMeshVisualizer returns the shader with a white fill, black wireframe,
// line width 1 and smoothness 2.
func NewMeshVisualizer() *MeshVisualizer {
	return &MeshVisualizer{
		transformationProjection: mgl32.Ident4(),
		color:                    shaderviz.White,
		wireframeColor:           shaderviz.Black,
		wireframeWidth:           1,
		smoothness:               2,
	}
}

func (s *MeshVisualizer) SetTransformationProjectionMatrix(m mgl32.Mat4) *MeshVisualizer {
	s.transformationProjection = m
	return s
}

func (s *MeshVisualizer) SetColor(c shaderviz.Color) *MeshVisualizer {
	s.color = c
	return s
}

func (s *MeshVisualizer) SetWireframeColor(c shaderviz.Color) *MeshVisualizer {
	s.wireframeColor = c
	return s
}

// SetWireframeWidth sets the line width in pixels.
func (s *MeshVisualizer) SetWireframeWidth(w float32) *MeshVisualizer {
	s.wireframeWidth = w
	return s
}

// SetSmoothness sets the width of the line falloff in pixels.
func (s *MeshVisualizer) SetSmoothness(v float32) *MeshVisualizer {
	s.smoothness = v
	return s
}

// SetViewportSize records the framebuffer size the wireframe is drawn into.
func (s *MeshVisualizer) SetViewportSize(size mgl32.Vec2) *MeshVisualizer {
	s.viewportSize = size
	return s
}

// ViewportSize returns the size set by SetViewportSize.
func (s *MeshVisualizer) ViewportSize() mgl32.Vec2 { return s.viewportSize }

func (s *MeshVisualizer) Name() string                 { return "meshvisualizer" }
func (s *MeshVisualizer) Source() string               { return meshVisualizerSource }
func (s *MeshVisualizer) Attributes() []mesh.Attribute { return []mesh.Attribute{mesh.Position3D} }
func (s *MeshVisualizer) Texture() Texture             { return nil }
func (s *MeshVisualizer) VaryingCount() int            { return 3 }

func (s *MeshVisualizer) Uniforms() []byte {
	var w uniformWriter
	w.mat4(s.transformationProjection)
	w.vec4(s.color.Vec4())
	w.vec4(s.wireframeColor.Vec4())
	w.vec2(s.viewportSize)
	w.f32(s.wireframeWidth)
	w.f32(s.smoothness)
	return w.bytes()
}

func (s *MeshVisualizer) Vertex(vertexID int, in [][]float32) (mgl32.Vec4, Varyings) {
	var out Varyings
	out[vertexID%3] = 1
	return s.transformationProjection.Mul4x1(vec3(in[0]).Vec4(1)), out
}

func (s *MeshVisualizer) Fragment(v, dx, dy *Varyings) mgl32.Vec4 {
	lo := max(s.wireframeWidth-s.smoothness*0.25, 0)
	hi := s.wireframeWidth + s.smoothness*0.25

	nearest := float32(1)
	for i := 0; i < 3; i++ {
		d := abs(dx[i]) + abs(dy[i])
		nearest = min(nearest, smoothstep(d*lo, d*hi, v[i]))
	}
	return mix4(s.wireframeColor.Vec4(), s.color.Vec4(), nearest)
}
