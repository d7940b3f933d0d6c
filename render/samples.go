package render

// samplePatterns holds the standard multisample positions in 1/16 pixel
// units relative to the pixel center, Y pointing down.
var samplePatterns = map[int][][2]int8{
	1: {{0, 0}},
	2: {{4, 4}, {-4, -4}},
	4: {{-2, -6}, {6, -2}, {-6, 2}, {2, 6}},
	8: {
		{1, -3}, {-1, 3}, {5, 1}, {-3, -5},
		{-5, 5}, {-7, -1}, {3, 7}, {7, -7},
	},
	16: {
		{1, 1}, {-1, -3}, {-3, 2}, {4, -1},
		{-5, -2}, {2, 5}, {5, 3}, {3, -5},
		{-2, 6}, {0, -7}, {-4, -6}, {-6, 4},
		{-8, 0}, {7, -4}, {6, 7}, {-7, -8},
	},
}

// sampleOffsets returns the sample positions for a count as offsets from
// the pixel's top left corner.
func sampleOffsets(count int) [][2]float64 {
	pattern := samplePatterns[count]
	out := make([][2]float64, len(pattern))
	for i, p := range pattern {
		out[i] = [2]float64{0.5 + float64(p[0])/16, 0.5 + float64(p[1])/16}
	}
	return out
}
