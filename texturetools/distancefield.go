// Package texturetools converts images into textures the vector shaders
// consume.
package texturetools

import (
	"fmt"
	"image"
	"image/color"

	"github.com/chewxy/math32"
)

// DistanceField computes a signed distance field from a black and white
// image, downsampling it to size.
//
// A source pixel is inside the shape when its luminance is above one
// half. Each output pixel takes the source pixel under its center and
// searches radius source pixels around it for the nearest pixel on the
// other side of the edge. The distance is stored normalized to radius:
// 0.5 on the edge, rising to 1 deep inside and falling to 0 far outside.
//
// Larger radii give smoother outlines at the cost of a quadratic search.
func DistanceField(src image.Image, size image.Point, radius int) (*image.Gray, error) {
	b := src.Bounds()
	if size.X <= 0 || size.Y <= 0 {
		return nil, fmt.Errorf("texturetools: invalid output size %v", size)
	}
	if size.X > b.Dx() || size.Y > b.Dy() {
		return nil, fmt.Errorf("texturetools: output %v larger than input %v", size, b.Size())
	}
	if radius <= 0 {
		return nil, fmt.Errorf("texturetools: radius must be positive, got %d", radius)
	}

	w, h := b.Dx(), b.Dy()
	inside := make([]bool, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			g := color.GrayModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.Gray)
			inside[y*w+x] = g.Y > 127
		}
	}

	out := image.NewGray(image.Rect(0, 0, size.X, size.Y))
	scaleX := float32(w) / float32(size.X)
	scaleY := float32(h) / float32(size.Y)
	maxSq := radius * radius

	for oy := 0; oy < size.Y; oy++ {
		for ox := 0; ox < size.X; ox++ {
			cx := int((float32(ox) + 0.5) * scaleX)
			cy := int((float32(oy) + 0.5) * scaleY)
			in := inside[cy*w+cx]

			best := maxSq
			for dy := -radius; dy <= radius; dy++ {
				y := cy + dy
				if y < 0 || y >= h {
					continue
				}
				for dx := -radius; dx <= radius; dx++ {
					x := cx + dx
					if x < 0 || x >= w {
						continue
					}
					d := dx*dx + dy*dy
					if d < best && inside[y*w+x] != in {
						best = d
					}
				}
			}

			dist := math32.Sqrt(float32(best)) / float32(radius)
			v := 0.5 - dist*0.5
			if in {
				v = 0.5 + dist*0.5
			}
			out.Pix[oy*out.Stride+ox] = uint8(math32.Round(math32.Min(math32.Max(v, 0), 1) * 255))
		}
	}
	return out, nil
}
