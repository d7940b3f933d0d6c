package shaders

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/shaderviz"
	"github.com/gogpu/shaderviz/mesh"
)

var flatSource = source("flat")

// Flat3D fills geometry with a single color.
type Flat3D struct {
	transformationProjection mgl32.Mat4
	color                    shaderviz.Color
}

// NewFlat3D returns a flat shader with an identity transformation and white color.
func NewFlat3D() *Flat3D {
	return &Flat3D{transformationProjection: mgl32.Ident4(), color: shaderviz.White}
}

func (s *Flat3D) SetTransformationProjectionMatrix(m mgl32.Mat4) *Flat3D {
	s.transformationProjection = m
	return s
}

func (s *Flat3D) SetColor(c shaderviz.Color) *Flat3D {
	s.color = c
	return s
}

func (s *Flat3D) Name() string                 { return "flat3d" }
func (s *Flat3D) Source() string               { return flatSource }
func (s *Flat3D) Attributes() []mesh.Attribute { return []mesh.Attribute{mesh.Position3D} }
func (s *Flat3D) Texture() Texture             { return nil }
func (s *Flat3D) VaryingCount() int            { return 0 }

func (s *Flat3D) Uniforms() []byte {
	var w uniformWriter
	w.mat4(s.transformationProjection)
	w.vec4(s.color.Vec4())
	return w.bytes()
}

func (s *Flat3D) Vertex(_ int, in [][]float32) (mgl32.Vec4, Varyings) {
	return s.transformationProjection.Mul4x1(vec3(in[0]).Vec4(1)), Varyings{}
}

func (s *Flat3D) Fragment(_, _, _ *Varyings) mgl32.Vec4 {
	return s.color.Vec4()
}
