package shaders

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/shaderviz/mesh"
)

var vertexColorSource = source("vertexcolor")

// VertexColor3D shades with the interpolated per-vertex RGB color.
type VertexColor3D struct {
	transformationProjection mgl32.Mat4
}

// NewVertexColor3D returns the shader with an identity transformation.
func NewVertexColor3D() *VertexColor3D {
	return &VertexColor3D{transformationProjection: mgl32.Ident4()}
}

func (s *VertexColor3D) SetTransformationProjectionMatrix(m mgl32.Mat4) *VertexColor3D {
	s.transformationProjection = m
	return s
}

func (s *VertexColor3D) Name() string      { return "vertexcolor3d" }
func (s *VertexColor3D) Source() string    { return vertexColorSource }
func (s *VertexColor3D) Texture() Texture  { return nil }
func (s *VertexColor3D) VaryingCount() int { return 3 }

func (s *VertexColor3D) Attributes() []mesh.Attribute {
	return []mesh.Attribute{mesh.Position3D, mesh.Color3}
}

func (s *VertexColor3D) Uniforms() []byte {
	var w uniformWriter
	w.mat4(s.transformationProjection)
	return w.bytes()
}

func (s *VertexColor3D) Vertex(_ int, in [][]float32) (mgl32.Vec4, Varyings) {
	var out Varyings
	copy(out[:3], in[1])
	return s.transformationProjection.Mul4x1(vec3(in[0]).Vec4(1)), out
}

func (s *VertexColor3D) Fragment(v, _, _ *Varyings) mgl32.Vec4 {
	return mgl32.Vec4{v[0], v[1], v[2], 1}
}
