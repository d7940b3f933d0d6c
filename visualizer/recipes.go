package visualizer

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/shaderviz"
	"github.com/gogpu/shaderviz/mesh"
	"github.com/gogpu/shaderviz/primitives"
	"github.com/gogpu/shaderviz/shaders"
)

// ImageSize is the width and height of the documentation images.
const ImageSize = 256

// Constants is the camera and palette every scene shares. A Driver builds
// it once and each Scene hands out copies.
type Constants struct {
	Projection     mgl32.Mat4
	Transformation mgl32.Mat4
	BaseColor      shaderviz.Color
	OutlineColor   shaderviz.Color
}

// DefaultConstants returns a 35° perspective with near and far planes at
// 0.001 and 100, a camera five units in front of the subject and the
// documentation accent colors.
func DefaultConstants() Constants {
	return Constants{
		Projection:     mgl32.Perspective(mgl32.DegToRad(35), 1, 0.001, 100),
		Transformation: mgl32.Translate3D(0, 0, -5),
		BaseColor:      shaderviz.RGBHex(0x2f83cc),
		OutlineColor:   shaderviz.RGBHex(0xdcdcdc),
	}
}

// Texture inputs of the vector scenes.
const (
	VectorTexture              = "vector.png"
	VectorDistanceFieldTexture = "vector-distancefield.png"
)

// Recipe describes one image: Draw builds the scene into the cleared
// render target, and Name is the output file stem.
type Recipe struct {
	Name string
	Draw func(s *Scene) error
}

// Recipes returns the documentation scenes in the order they are rendered.
func Recipes() []Recipe {
	return []Recipe{
		{Name: "phong", Draw: Phong},
		{Name: "meshvisualizer", Draw: MeshVisualizer},
		{Name: "flat", Draw: Flat},
		{Name: "vertexcolor", Draw: VertexColor},
		{Name: "vector", Draw: Vector},
		{Name: "distancefieldvector", Draw: DistanceFieldVector},
	}
}

// Phong draws a lit UV sphere.
func Phong(s *Scene) error {
	m, err := s.Mesh(primitives.UVSphereSolid(16, 32, 0), mesh.Position3D, mesh.Normal)
	if err != nil {
		return err
	}
	c := s.Constants()
	p := shaders.NewPhong().
		SetAmbientColor(shaderviz.RGBHex(0x22272e)).
		SetDiffuseColor(c.BaseColor).
		SetShininess(200).
		SetLightPosition(mgl32.Vec3{5, 5, 7}).
		SetProjectionMatrix(c.Projection).
		SetTransformationMatrix(c.Transformation).
		SetNormalMatrix(c.Transformation.Mat3())
	return s.Draw(p, m)
}

// MeshVisualizer draws a tilted icosphere with its wireframe.
func MeshVisualizer(s *Scene) error {
	// The wireframe needs per-triangle barycentric coordinates, so every
	// triangle gets its own vertices.
	m, err := s.Mesh(mesh.Duplicate(primitives.IcosphereSolid(1)), mesh.Position3D)
	if err != nil {
		return err
	}
	c := s.Constants()
	mvp := c.Projection.Mul4(c.Transformation).
		Mul4(mgl32.HomogRotate3DZ(mgl32.DegToRad(13.7))).
		Mul4(mgl32.HomogRotate3DX(mgl32.DegToRad(-12.6)))
	size := float32(s.Size())
	p := shaders.NewMeshVisualizer().
		SetColor(c.BaseColor).
		SetWireframeColor(c.OutlineColor).
		SetViewportSize(mgl32.Vec2{size, size}).
		SetTransformationProjectionMatrix(mvp)
	return s.Draw(p, m)
}

// Flat draws a single-colored UV sphere.
func Flat(s *Scene) error {
	m, err := s.Mesh(primitives.UVSphereSolid(16, 32, 0), mesh.Position3D)
	if err != nil {
		return err
	}
	c := s.Constants()
	p := shaders.NewFlat3D().
		SetColor(c.BaseColor).
		SetTransformationProjectionMatrix(c.Projection.Mul4(c.Transformation))
	return s.Draw(p, m)
}

// VertexColor draws a UV sphere whose vertices near a target direction
// shift in hue.
func VertexColor(s *Scene) error {
	sphere := primitives.UVSphereSolid(32, 64, 0)
	sphere.Colors = HueRamp(sphere.Positions3D, mgl32.Vec3{2, 2, 7}.Normalize())

	m, err := s.Mesh(sphere, mesh.Position3D, mesh.Color3)
	if err != nil {
		return err
	}
	c := s.Constants()
	p := shaders.NewVertexColor3D().
		SetTransformationProjectionMatrix(c.Projection.Mul4(c.Transformation))
	return s.Draw(p, m)
}

// HueRamp colors positions by their distance to target: hue goes from
// 240° far away to 420° (60°) at the target, with saturation and value
// of 0.75.
func HueRamp(positions []mgl32.Vec3, target mgl32.Vec3) []shaderviz.Color {
	colors := make([]shaderviz.Color, len(positions))
	for i, p := range positions {
		t := math32.Max(1-p.Sub(target).Len(), 0)
		colors[i] = shaderviz.FromHSV(240+(420-240)*t, 0.75, 0.75)
	}
	return colors
}

// Vector draws a square textured with a vector image.
func Vector(s *Scene) error {
	tex, err := s.LoadTexture(VectorTexture)
	if err != nil {
		return err
	}
	m, err := s.Mesh(primitives.SquareSolid(primitives.TextureCoords), mesh.Position2D, mesh.TextureCoordinates)
	if err != nil {
		return err
	}
	p := shaders.NewVector2D().
		SetColor(s.Constants().BaseColor).
		BindVectorTexture(tex).
		SetTransformationProjectionMatrix(mgl32.Ident3())
	return s.DrawBlended(p, m)
}

// DistanceFieldVector draws a square textured with a distance field,
// filled and outlined.
func DistanceFieldVector(s *Scene) error {
	tex, err := s.LoadTexture(VectorDistanceFieldTexture)
	if err != nil {
		return err
	}
	m, err := s.Mesh(primitives.SquareSolid(primitives.TextureCoords), mesh.Position2D, mesh.TextureCoordinates)
	if err != nil {
		return err
	}
	c := s.Constants()
	p := shaders.NewDistanceFieldVector2D().
		SetColor(c.BaseColor).
		SetOutlineColor(c.OutlineColor).
		SetOutlineRange(0.6, 0.4).
		BindVectorTexture(tex).
		SetTransformationProjectionMatrix(mgl32.Ident3())
	return s.DrawBlended(p, m)
}
