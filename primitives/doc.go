// Package primitives generates the unit meshes the documentation scenes
// are built from: UV spheres, icospheres and a square.
//
// All 3D primitives are centered at the origin with radius 1 and carry
// per-vertex normals. Triangles wind counter-clockwise seen from outside.
package primitives

// Flags adjust what a generator emits.
type Flags uint8

const (
	// TextureCoords adds texture coordinates to the output.
	TextureCoords Flags = 1 << iota
)
