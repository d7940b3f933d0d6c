package primitives

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/shaderviz/mesh"
)

// SquareSolid returns the 2D square spanning [-1, 1] on both axes as two
// triangles. With TextureCoords the corners map to [0, 1] with V pointing
// up, matching Y.
func SquareSolid(flags Flags) *mesh.Data {
	d := &mesh.Data{
		Positions2D: []mgl32.Vec2{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}},
		Indices:     []uint32{0, 1, 2, 0, 2, 3},
	}
	if flags&TextureCoords != 0 {
		d.TexCoords = []mgl32.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	}
	return d
}
