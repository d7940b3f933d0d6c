package shaderviz

import (
	"image/color"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Color is a linear RGBA color with float32 components in [0, 1].
// It is the layout shader uniforms expect.
type Color struct {
	R, G, B, A float32
}

// RGB creates an opaque color from RGB components.
func RGB(r, g, b float32) Color {
	return Color{R: r, G: g, B: b, A: 1}
}

// RGBA creates a color from RGBA components.
func RGBA(r, g, b, a float32) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// RGBHex creates an opaque color from a 0xRRGGBB literal.
func RGBHex(v uint32) Color {
	return Color{
		R: float32((v>>16)&0xff) / 255,
		G: float32((v>>8)&0xff) / 255,
		B: float32(v&0xff) / 255,
		A: 1,
	}
}

// Hex creates a color from a hex string.
// Supports formats: "RGB", "RGBA", "RRGGBB", "RRGGBBAA", with an optional
// leading '#'. Malformed input yields opaque black.
func Hex(hex string) Color {
	if hex != "" && hex[0] == '#' {
		hex = hex[1:]
	}

	var r, g, b, a uint32
	a = 255

	switch len(hex) {
	case 3:
		parseHex(hex[0:1], &r)
		parseHex(hex[1:2], &g)
		parseHex(hex[2:3], &b)
		r, g, b = r*17, g*17, b*17
	case 4:
		parseHex(hex[0:1], &r)
		parseHex(hex[1:2], &g)
		parseHex(hex[2:3], &b)
		parseHex(hex[3:4], &a)
		r, g, b, a = r*17, g*17, b*17, a*17
	case 6:
		parseHex(hex[0:2], &r)
		parseHex(hex[2:4], &g)
		parseHex(hex[4:6], &b)
	case 8:
		parseHex(hex[0:2], &r)
		parseHex(hex[2:4], &g)
		parseHex(hex[4:6], &b)
		parseHex(hex[6:8], &a)
	default:
		return Black
	}

	return Color{
		R: float32(r) / 255,
		G: float32(g) / 255,
		B: float32(b) / 255,
		A: float32(a) / 255,
	}
}

func parseHex(s string, val *uint32) {
	*val = 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		*val *= 16
		switch {
		case '0' <= c && c <= '9':
			*val += uint32(c - '0')
		case 'a' <= c && c <= 'f':
			*val += uint32(c - 'a' + 10)
		case 'A' <= c && c <= 'F':
			*val += uint32(c - 'A' + 10)
		default:
			return
		}
	}
}

// FromHSV creates an opaque color from hue in degrees, saturation and value.
// Hue wraps around, so 420° is the same as 60°.
func FromHSV(hue, saturation, value float32) Color {
	h := math32.Mod(hue, 360)
	if h < 0 {
		h += 360
	}
	h /= 60

	hi := int(h) % 6
	f := h - math32.Floor(h)

	p := value * (1 - saturation)
	q := value * (1 - f*saturation)
	t := value * (1 - (1-f)*saturation)

	switch hi {
	case 0:
		return RGB(value, t, p)
	case 1:
		return RGB(q, value, p)
	case 2:
		return RGB(p, value, t)
	case 3:
		return RGB(p, q, value)
	case 4:
		return RGB(t, p, value)
	default:
		return RGB(value, p, q)
	}
}

// FromColor converts a standard color.Color to a Color.
func FromColor(c color.Color) Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Color{
		R: float32(n.R) / 255,
		G: float32(n.G) / 255,
		B: float32(n.B) / 255,
		A: float32(n.A) / 255,
	}
}

// RGBA implements the color.Color interface (premultiplied 16-bit).
func (c Color) RGBA() (r, g, b, a uint32) {
	return c.NRGBA().RGBA()
}

// NRGBA converts the color to 8-bit non-premultiplied RGBA.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{
		R: Unorm8(c.R),
		G: Unorm8(c.G),
		B: Unorm8(c.B),
		A: Unorm8(c.A),
	}
}

// Premultiply returns the color with RGB multiplied by alpha.
func (c Color) Premultiply() Color {
	return Color{R: c.R * c.A, G: c.G * c.A, B: c.B * c.A, A: c.A}
}

// Lerp performs linear interpolation between two colors.
func (c Color) Lerp(other Color, t float32) Color {
	return Color{
		R: c.R + (other.R-c.R)*t,
		G: c.G + (other.G-c.G)*t,
		B: c.B + (other.B-c.B)*t,
		A: c.A + (other.A-c.A)*t,
	}
}

// Scale multiplies all four components by s.
func (c Color) Scale(s float32) Color {
	return Color{R: c.R * s, G: c.G * s, B: c.B * s, A: c.A * s}
}

// Add returns the component-wise sum.
func (c Color) Add(o Color) Color {
	return Color{R: c.R + o.R, G: c.G + o.G, B: c.B + o.B, A: c.A + o.A}
}

// Vec4 returns the color as a shader vector.
func (c Color) Vec4() mgl32.Vec4 { return mgl32.Vec4{c.R, c.G, c.B, c.A} }

// Vec3 returns the RGB part as a shader vector.
func (c Color) Vec3() mgl32.Vec3 { return mgl32.Vec3{c.R, c.G, c.B} }

// ColorFromVec4 is the inverse of Color.Vec4.
func ColorFromVec4(v mgl32.Vec4) Color { return Color{R: v[0], G: v[1], B: v[2], A: v[3]} }

// Unorm8 converts a normalized float to an 8-bit unsigned normalized
// value, clamping to [0, 1] and rounding to nearest.
func Unorm8(x float32) uint8 {
	if !(x > 0) {
		return 0
	}
	if x >= 1 {
		return 255
	}
	return uint8(x*255 + 0.5)
}

// Common colors
var (
	Black       = RGB(0, 0, 0)
	White       = RGB(1, 1, 1)
	Transparent = RGBA(0, 0, 0, 0)
)
