package render

import (
	"image"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/draw"
)

// ToNRGBA converts an image to tightly packed 8-bit RGBA with its origin at
// (0, 0). Gray and RGB inputs become opaque. An *image.NRGBA that is
// already packed is returned as is.
func ToNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	if n, ok := img.(*image.NRGBA); ok && b.Min == (image.Point{}) && n.Stride == 4*b.Dx() {
		return n
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// Bilinear samples img at normalized coordinates with linear filtering
// and clamp-to-edge addressing. (0, 0) is the top left corner.
func Bilinear(img *image.NRGBA, uv mgl32.Vec2) mgl32.Vec4 {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if w == 0 || h == 0 {
		return mgl32.Vec4{}
	}

	x := uv[0]*float32(w) - 0.5
	y := uv[1]*float32(h) - 0.5
	x0f, y0f := math32.Floor(x), math32.Floor(y)
	fx, fy := x-x0f, y-y0f
	x0, y0 := int(x0f), int(y0f)

	texel := func(tx, ty int) mgl32.Vec4 {
		tx = min(max(tx, 0), w-1)
		ty = min(max(ty, 0), h-1)
		i := ty*img.Stride + tx*4
		p := img.Pix[i : i+4 : i+4]
		return mgl32.Vec4{float32(p[0]) / 255, float32(p[1]) / 255, float32(p[2]) / 255, float32(p[3]) / 255}
	}

	top := texel(x0, y0).Mul(1 - fx).Add(texel(x0+1, y0).Mul(fx))
	bottom := texel(x0, y0+1).Mul(1 - fx).Add(texel(x0+1, y0+1).Mul(fx))
	return top.Mul(1 - fy).Add(bottom.Mul(fy))
}

type softTexture struct {
	dev *SoftwareDevice
	img *image.NRGBA
}

func (t *softTexture) Width() int  { return t.img.Rect.Dx() }
func (t *softTexture) Height() int { return t.img.Rect.Dy() }

func (t *softTexture) Sample(uv mgl32.Vec2) mgl32.Vec4 { return Bilinear(t.img, uv) }

func (t *softTexture) Destroy() {}
