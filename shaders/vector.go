package shaders

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/shaderviz"
	"github.com/gogpu/shaderviz/mesh"
)

var (
	vectorSource              = source("vector")
	distanceFieldVectorSource = source("distancefieldvector")
)

// vectorVertex is the vertex stage shared by both vector programs: a 2D
// homogeneous transform and texture coordinates flipped to image space.
func vectorVertex(m mgl32.Mat3, in [][]float32) (mgl32.Vec4, Varyings) {
	p := m.Mul3x1(vec2(in[0]).Vec3(1))
	var out Varyings
	out[0] = in[1][0]
	out[1] = 1 - in[1][1]
	return clipFrom2D(p), out
}

func sampleRed(t Texture, v *Varyings) float32 {
	if t == nil {
		return 0
	}
	return t.Sample(mgl32.Vec2{v[0], v[1]})[0]
}

// Vector2D renders a single-channel vector texture, blending from the
// background color to the fill color by the texture's red channel.
type Vector2D struct {
	transformationProjection mgl32.Mat3
	backgroundColor          shaderviz.Color
	color                    shaderviz.Color
	texture                  Texture
}

// NewVector2D returns the shader with a transparent background and white fill.
func NewVector2D() *Vector2D {
	return &Vector2D{
		transformationProjection: mgl32.Ident3(),
		backgroundColor:          shaderviz.Transparent,
		color:                    shaderviz.White,
	}
}

func (s *Vector2D) SetTransformationProjectionMatrix(m mgl32.Mat3) *Vector2D {
	s.transformationProjection = m
	return s
}

func (s *Vector2D) SetBackgroundColor(c shaderviz.Color) *Vector2D {
	s.backgroundColor = c
	return s
}

func (s *Vector2D) SetColor(c shaderviz.Color) *Vector2D {
	s.color = c
	return s
}

// BindVectorTexture binds the vector texture.
func (s *Vector2D) BindVectorTexture(t Texture) *Vector2D {
	s.texture = t
	return s
}

func (s *Vector2D) Name() string      { return "vector2d" }
func (s *Vector2D) Source() string    { return vectorSource }
func (s *Vector2D) Texture() Texture  { return s.texture }
func (s *Vector2D) VaryingCount() int { return 2 }

func (s *Vector2D) Attributes() []mesh.Attribute {
	return []mesh.Attribute{mesh.Position2D, mesh.TextureCoordinates}
}

func (s *Vector2D) Uniforms() []byte {
	var w uniformWriter
	w.mat3(s.transformationProjection)
	w.vec4(s.backgroundColor.Vec4())
	w.vec4(s.color.Vec4())
	return w.bytes()
}

func (s *Vector2D) Vertex(_ int, in [][]float32) (mgl32.Vec4, Varyings) {
	return vectorVertex(s.transformationProjection, in)
}

func (s *Vector2D) Fragment(v, _, _ *Varyings) mgl32.Vec4 {
	return mix4(s.backgroundColor.Vec4(), s.color.Vec4(), sampleRed(s.texture, v))
}

// DistanceFieldVector2D renders a distance field texture with a sharp fill
// and an optional outline at any scale.
//
// The outline range is (inner, outer) in distance field units where 0.5 is
// the shape edge. An outline is drawn only when inner > outer.
type DistanceFieldVector2D struct {
	transformationProjection mgl32.Mat3
	color                    shaderviz.Color
	outlineColor             shaderviz.Color
	outlineRange             mgl32.Vec2
	smoothness               float32
	texture                  Texture
}

// NewDistanceFieldVector2D returns the shader with a white fill, no
// outline and smoothness 0.04.
func NewDistanceFieldVector2D() *DistanceFieldVector2D {
	return &DistanceFieldVector2D{
		transformationProjection: mgl32.Ident3(),
		color:                    shaderviz.White,
		outlineColor:             shaderviz.Transparent,
		outlineRange:             mgl32.Vec2{0.5, 1},
		smoothness:               0.04,
	}
}

func (s *DistanceFieldVector2D) SetTransformationProjectionMatrix(m mgl32.Mat3) *DistanceFieldVector2D {
	s.transformationProjection = m
	return s
}

func (s *DistanceFieldVector2D) SetColor(c shaderviz.Color) *DistanceFieldVector2D {
	s.color = c
	return s
}

func (s *DistanceFieldVector2D) SetOutlineColor(c shaderviz.Color) *DistanceFieldVector2D {
	s.outlineColor = c
	return s
}

func (s *DistanceFieldVector2D) SetOutlineRange(start, end float32) *DistanceFieldVector2D {
	s.outlineRange = mgl32.Vec2{start, end}
	return s
}

func (s *DistanceFieldVector2D) SetSmoothness(v float32) *DistanceFieldVector2D {
	s.smoothness = v
	return s
}

// BindVectorTexture binds the distance field texture.
func (s *DistanceFieldVector2D) BindVectorTexture(t Texture) *DistanceFieldVector2D {
	s.texture = t
	return s
}

func (s *DistanceFieldVector2D) Name() string      { return "distancefieldvector2d" }
func (s *DistanceFieldVector2D) Source() string    { return distanceFieldVectorSource }
func (s *DistanceFieldVector2D) Texture() Texture  { return s.texture }
func (s *DistanceFieldVector2D) VaryingCount() int { return 2 }

func (s *DistanceFieldVector2D) Attributes() []mesh.Attribute {
	return []mesh.Attribute{mesh.Position2D, mesh.TextureCoordinates}
}

func (s *DistanceFieldVector2D) Uniforms() []byte {
	var w uniformWriter
	w.mat3(s.transformationProjection)
	w.vec4(s.color.Vec4())
	w.vec4(s.outlineColor.Vec4())
	w.vec2(s.outlineRange)
	w.f32(s.smoothness)
	return w.bytes()
}

func (s *DistanceFieldVector2D) Vertex(_ int, in [][]float32) (mgl32.Vec4, Varyings) {
	return vectorVertex(s.transformationProjection, in)
}

func (s *DistanceFieldVector2D) Fragment(v, _, _ *Varyings) mgl32.Vec4 {
	intensity := sampleRed(s.texture, v)
	sm := s.smoothness
	r := s.outlineRange
	color := s.color.Vec4().Mul(smoothstep(r[0]-sm, r[0]+sm, intensity))

	if r[0] > r[1] {
		mid := (r[0] + r[1]) * 0.5
		half := (r[0] - r[1]) * 0.5
		color = color.Add(s.outlineColor.Vec4().Mul(smoothstep(half+sm, half-sm, abs(mid-intensity))))
	}
	return color
}
