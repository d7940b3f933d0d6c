package shaders

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/shaderviz"
	"github.com/gogpu/shaderviz/mesh"
)

var phongSource = source("phong")

// Phong lights geometry with one point light in camera space.
//
// Defaults: black ambient, white diffuse, white specular, white light at
// the origin, shininess 80, identity matrices.
type Phong struct {
	transformation mgl32.Mat4
	projection     mgl32.Mat4
	normalMatrix   mgl32.Mat3
	lightPosition  mgl32.Vec3
	ambientColor   shaderviz.Color
	diffuseColor   shaderviz.Color
	specularColor  shaderviz.Color
	lightColor     shaderviz.Color
	shininess      float32
}

// NewPhong returns a Phong shader with default material and light.
func NewPhong() *Phong {
	return &Phong{
		transformation: mgl32.Ident4(),
		projection:     mgl32.Ident4(),
		normalMatrix:   mgl32.Ident3(),
		ambientColor:   shaderviz.Black,
		diffuseColor:   shaderviz.White,
		specularColor:  shaderviz.White,
		lightColor:     shaderviz.White,
		shininess:      80,
	}
}

func (s *Phong) SetTransformationMatrix(m mgl32.Mat4) *Phong { s.transformation = m; return s }
func (s *Phong) SetProjectionMatrix(m mgl32.Mat4) *Phong     { s.projection = m; return s }
func (s *Phong) SetNormalMatrix(m mgl32.Mat3) *Phong         { s.normalMatrix = m; return s }
func (s *Phong) SetLightPosition(p mgl32.Vec3) *Phong        { s.lightPosition = p; return s }
func (s *Phong) SetAmbientColor(c shaderviz.Color) *Phong    { s.ambientColor = c; return s }
func (s *Phong) SetDiffuseColor(c shaderviz.Color) *Phong    { s.diffuseColor = c; return s }
func (s *Phong) SetSpecularColor(c shaderviz.Color) *Phong   { s.specularColor = c; return s }
func (s *Phong) SetLightColor(c shaderviz.Color) *Phong      { s.lightColor = c; return s }
func (s *Phong) SetShininess(v float32) *Phong               { s.shininess = v; return s }

func (s *Phong) Name() string      { return "phong" }
func (s *Phong) Source() string    { return phongSource }
func (s *Phong) Texture() Texture  { return nil }
func (s *Phong) VaryingCount() int { return 9 }

func (s *Phong) Attributes() []mesh.Attribute {
	return []mesh.Attribute{mesh.Position3D, mesh.Normal}
}

func (s *Phong) Uniforms() []byte {
	var w uniformWriter
	w.mat4(s.transformation)
	w.mat4(s.projection)
	w.mat3(s.normalMatrix)
	w.vec3(s.lightPosition)
	w.vec4(s.ambientColor.Vec4())
	w.vec4(s.diffuseColor.Vec4())
	w.vec4(s.specularColor.Vec4())
	w.vec4(s.lightColor.Vec4())
	w.f32(s.shininess)
	return w.bytes()
}

func (s *Phong) Vertex(_ int, in [][]float32) (mgl32.Vec4, Varyings) {
	transformed := s.transformation.Mul4x1(vec3(in[0]).Vec4(1))
	p := transformed.Vec3().Mul(1 / transformed[3])
	normal := s.normalMatrix.Mul3x1(vec3(in[1]))
	light := s.lightPosition.Sub(p)

	var out Varyings
	copy(out[0:3], normal[:])
	copy(out[3:6], light[:])
	out[6], out[7], out[8] = -p[0], -p[1], -p[2]
	return s.projection.Mul4x1(transformed), out
}

func (s *Phong) Fragment(v, _, _ *Varyings) mgl32.Vec4 {
	color := s.ambientColor.Vec4()

	n := normalize3(mgl32.Vec3{v[0], v[1], v[2]})
	l := normalize3(mgl32.Vec3{v[3], v[4], v[5]})
	intensity := max(0, n.Dot(l))
	color = color.Add(mul4(s.diffuseColor.Vec4(), s.lightColor.Vec4()).Mul(intensity))

	if intensity > 0.001 {
		reflection := reflect3(l.Mul(-1), n)
		camera := normalize3(mgl32.Vec3{v[6], v[7], v[8]})
		specularity := pow(max(0, camera.Dot(reflection)), s.shininess)
		color = color.Add(s.specularColor.Vec4().Mul(specularity))
	}
	return color
}
