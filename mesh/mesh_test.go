package mesh

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/shaderviz"
)

func quad() *Data {
	return &Data{
		Positions2D: []mgl32.Vec2{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}},
		TexCoords:   []mgl32.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}},
		Indices:     []uint32{0, 1, 2, 0, 2, 3},
	}
}

func TestAttributeLayout(t *testing.T) {
	assert.Equal(t, 2, Position2D.Components())
	assert.Equal(t, 3, Position3D.Components())
	assert.Equal(t, 4, Color4.Components())
	assert.Equal(t, uint32(0), Position3D.Location())
	assert.Equal(t, uint32(1), TextureCoordinates.Location())
	assert.Equal(t, uint32(2), Normal.Location())
	assert.Equal(t, uint32(3), Color3.Location())
	assert.Equal(t, "Normal", Normal.String())
}

func TestValidate(t *testing.T) {
	require.NoError(t, quad().Validate())

	bad := quad()
	bad.TexCoords = bad.TexCoords[:3]
	assert.ErrorIs(t, bad.Validate(), ErrAttributeCount)

	bad = quad()
	bad.Indices[5] = 9
	assert.ErrorIs(t, bad.Validate(), ErrIndexRange)

	bad = quad()
	bad.Indices = bad.Indices[:4]
	assert.Error(t, bad.Validate())
}

func TestInterleave(t *testing.T) {
	m, err := Interleave(quad(), Position2D, TextureCoordinates)
	require.NoError(t, err)

	assert.Equal(t, 4, m.Stride)
	assert.Equal(t, []int{0, 2}, m.Offsets)
	assert.Equal(t, 4, m.VertexCount)
	assert.Equal(t, 6, m.ElementCount())
	assert.Equal(t, []float32{1, 1, 1, 1}, m.Vertex(2))
	assert.Equal(t, []float32{0, 1}, m.Attribute(3, TextureCoordinates))
	assert.Nil(t, m.Attribute(0, Normal))
	assert.Equal(t, 3, m.Element(5))
	assert.Len(t, m.VertexBytes(), 4*4*4)
	assert.Len(t, m.IndexBytes(), 6*4)
}

func TestInterleaveMissingAttribute(t *testing.T) {
	_, err := Interleave(quad(), Position2D, Normal)
	assert.ErrorIs(t, err, ErrMissingAttribute)
}

func TestInterleaveColors(t *testing.T) {
	d := &Data{
		Positions3D: []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		Colors:      []shaderviz.Color{shaderviz.RGB(1, 0, 0), shaderviz.RGB(0, 1, 0), shaderviz.RGB(0, 0, 1)},
	}
	m, err := Interleave(d, Position3D, Color3)
	require.NoError(t, err)
	assert.Equal(t, 6, m.Stride)
	assert.Equal(t, []float32{0, 1, 0}, m.Attribute(1, Color3))
	assert.Nil(t, m.Indices)
	assert.Equal(t, 2, m.Element(2))
}

func TestDuplicate(t *testing.T) {
	d := Duplicate(quad())
	require.NoError(t, d.Validate())
	assert.False(t, d.IsIndexed())
	assert.Equal(t, 6, d.VertexCount())
	assert.Equal(t, mgl32.Vec2{1, 1}, d.Positions2D[4])
	assert.Equal(t, mgl32.Vec2{0, 1}, d.TexCoords[5])
}
