package primitives

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/shaderviz/mesh"
)

func assertUnitOutward(t *testing.T, d *mesh.Data) {
	t.Helper()
	require.NoError(t, d.Validate())
	for i, p := range d.Positions3D {
		assert.InDelta(t, 1, p.Len(), 1e-4, "vertex %d", i)
		assert.True(t, p.ApproxEqualThreshold(d.Normals[i], 1e-5), "normal %d", i)
	}
	for tri := 0; tri < len(d.Indices); tri += 3 {
		a := d.Positions3D[d.Indices[tri]]
		b := d.Positions3D[d.Indices[tri+1]]
		c := d.Positions3D[d.Indices[tri+2]]
		n := b.Sub(a).Cross(c.Sub(a))
		assert.Greater(t, n.Dot(a.Add(b).Add(c)), float32(0), "triangle %d faces inward", tri/3)
	}
}

func TestUVSphereSolid(t *testing.T) {
	tests := []struct {
		rings, segments int
		vertices, tris  int
	}{
		{16, 32, 2 + 15*32, 2*32 + 14*32*2},
		{32, 64, 2 + 31*64, 2*64 + 30*64*2},
		{2, 3, 2 + 3, 6},
	}
	for _, tt := range tests {
		d := UVSphereSolid(tt.rings, tt.segments, 0)
		assert.Equal(t, tt.vertices, d.VertexCount())
		assert.Equal(t, tt.tris*3, len(d.Indices))
		assert.Empty(t, d.TexCoords)
		assertUnitOutward(t, d)
	}
}

func TestUVSphereSolidTextured(t *testing.T) {
	d := UVSphereSolid(4, 8, TextureCoords)
	assert.Equal(t, 2+3*9, d.VertexCount())
	require.Len(t, d.TexCoords, d.VertexCount())
	for _, uv := range d.TexCoords {
		assert.True(t, uv[0] >= 0 && uv[0] <= 1 && uv[1] >= 0 && uv[1] <= 1, "uv %v", uv)
	}
	assertUnitOutward(t, d)
}

func TestUVSphereSolidPanics(t *testing.T) {
	assert.Panics(t, func() { UVSphereSolid(1, 8, 0) })
	assert.Panics(t, func() { UVSphereSolid(4, 2, 0) })
}

func TestIcosphereSolid(t *testing.T) {
	tests := []struct {
		subdivisions, vertices, tris int
	}{
		{0, 12, 20},
		{1, 42, 80},
		{2, 162, 320},
	}
	for _, tt := range tests {
		d := IcosphereSolid(tt.subdivisions)
		assert.Equal(t, tt.vertices, d.VertexCount(), "subdivisions %d", tt.subdivisions)
		assert.Equal(t, tt.tris*3, len(d.Indices))
		assertUnitOutward(t, d)
	}
}

func TestSquareSolid(t *testing.T) {
	d := SquareSolid(TextureCoords)
	require.NoError(t, d.Validate())
	assert.Equal(t, 4, d.VertexCount())
	for i, p := range d.Positions2D {
		// Texture coordinates are the positions mapped from [-1, 1] to [0, 1].
		want := mgl32.Vec2{(p[0] + 1) / 2, (p[1] + 1) / 2}
		assert.Equal(t, want, d.TexCoords[i])
	}

	plain := SquareSolid(0)
	assert.Nil(t, plain.TexCoords)
	assert.Equal(t, 6, len(plain.Indices))
}
