package primitives

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/shaderviz/mesh"
)

var icosahedronPositions = [12]mgl32.Vec3{
	{0, -0.525731, 0.850651},
	{0.850651, 0, 0.525731},
	{0.850651, 0, -0.525731},
	{-0.850651, 0, -0.525731},
	{-0.850651, 0, 0.525731},
	{-0.525731, 0.850651, 0},
	{0.525731, 0.850651, 0},
	{0.525731, -0.850651, 0},
	{-0.525731, -0.850651, 0},
	{0, -0.525731, -0.850651},
	{0, 0.525731, -0.850651},
	{0, 0.525731, 0.850651},
}

var icosahedronIndices = [60]uint32{
	1, 2, 6, 1, 7, 2, 3, 4, 5, 4, 3, 8,
	6, 5, 11, 5, 6, 10, 9, 10, 2, 10, 9, 3,
	7, 8, 9, 8, 7, 0, 11, 0, 1, 0, 11, 4,
	6, 2, 10, 1, 6, 11, 3, 5, 10, 5, 4, 11,
	2, 7, 9, 7, 1, 0, 3, 9, 8, 4, 8, 0,
}

// IcosphereSolid returns an icosahedron subdivided the given number of
// times, with every vertex projected onto the unit sphere. Shared edges
// reuse their midpoint vertex, so one subdivision yields 42 vertices and
// 80 triangles.
func IcosphereSolid(subdivisions int) *mesh.Data {
	positions := append([]mgl32.Vec3(nil), icosahedronPositions[:]...)
	indices := append([]uint32(nil), icosahedronIndices[:]...)

	for i := range positions {
		positions[i] = positions[i].Normalize()
	}
	orientOutward(positions, indices)

	for n := 0; n < subdivisions; n++ {
		midpoints := make(map[[2]uint32]uint32)
		midpoint := func(a, b uint32) uint32 {
			key := [2]uint32{min(a, b), max(a, b)}
			if i, ok := midpoints[key]; ok {
				return i
			}
			p := positions[a].Add(positions[b]).Mul(0.5).Normalize()
			positions = append(positions, p)
			i := uint32(len(positions) - 1)
			midpoints[key] = i
			return i
		}

		next := make([]uint32, 0, len(indices)*4)
		for t := 0; t < len(indices); t += 3 {
			a, b, c := indices[t], indices[t+1], indices[t+2]
			ab, bc, ca := midpoint(a, b), midpoint(b, c), midpoint(c, a)
			next = append(next,
				a, ab, ca,
				ab, b, bc,
				ca, bc, c,
				ab, bc, ca)
		}
		indices = next
	}

	return &mesh.Data{
		Positions3D: positions,
		Normals:     append([]mgl32.Vec3(nil), positions...),
		Indices:     indices,
	}
}

// orientOutward flips triangles whose winding faces the origin.
func orientOutward(positions []mgl32.Vec3, indices []uint32) {
	for t := 0; t < len(indices); t += 3 {
		a, b, c := positions[indices[t]], positions[indices[t+1]], positions[indices[t+2]]
		n := b.Sub(a).Cross(c.Sub(a))
		if n.Dot(a.Add(b).Add(c)) < 0 {
			indices[t+1], indices[t+2] = indices[t+2], indices[t+1]
		}
	}
}
