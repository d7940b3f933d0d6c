package render

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/shaderviz"
	"github.com/gogpu/shaderviz/mesh"
	"github.com/gogpu/shaderviz/shaders"
)

func newFramebuffer(t *testing.T, d Device, w, h, samples int) Framebuffer {
	t.Helper()
	fb, err := d.CreateFramebuffer(FramebufferDescriptor{Width: w, Height: h, Samples: samples, Depth: true})
	if err != nil {
		t.Fatalf("CreateFramebuffer: %v", err)
	}
	if s := fb.Status(); s != FramebufferComplete {
		t.Fatalf("Status() = %v, want Complete", s)
	}
	return fb
}

// quadMesh returns a quad covering the whole viewport at clip depth z.
func quadMesh(t *testing.T, d Device, z float32) Mesh {
	t.Helper()
	data := &mesh.Data{
		Positions3D: []mgl32.Vec3{{-1, -1, z}, {1, -1, z}, {1, 1, z}, {-1, 1, z}},
		Indices:     []uint32{0, 1, 2, 0, 2, 3},
	}
	return uploadMesh(t, d, data, mesh.Position3D)
}

func uploadMesh(t *testing.T, d Device, data *mesh.Data, attrs ...mesh.Attribute) Mesh {
	t.Helper()
	in, err := mesh.Interleave(data, attrs...)
	if err != nil {
		t.Fatalf("Interleave: %v", err)
	}
	m, err := d.CreateMesh(in)
	if err != nil {
		t.Fatalf("CreateMesh: %v", err)
	}
	return m
}

func resolve(t *testing.T, d Device, fb Framebuffer) *image.NRGBA {
	t.Helper()
	if fb.Samples() > 1 {
		dst := newFramebuffer(t, d, fb.Width(), fb.Height(), 1)
		if err := d.Blit(fb, dst); err != nil {
			t.Fatalf("Blit: %v", err)
		}
		fb = dst
	}
	img, err := d.Read(fb)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	return img
}

func assertUniform(t *testing.T, img *image.NRGBA, want color.NRGBA) {
	t.Helper()
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if got := img.NRGBAAt(x, y); got != want {
				t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestSoftwareFramebufferStatus(t *testing.T) {
	d := NewSoftwareDevice()
	tests := []struct {
		name string
		desc FramebufferDescriptor
		want FramebufferStatus
	}{
		{"single sample", FramebufferDescriptor{Width: 4, Height: 4}, FramebufferComplete},
		{"16 samples", FramebufferDescriptor{Width: 4, Height: 4, Samples: 16, Depth: true}, FramebufferComplete},
		{"zero width", FramebufferDescriptor{Width: 0, Height: 4}, FramebufferIncompleteAttachment},
		{"too many samples", FramebufferDescriptor{Width: 4, Height: 4, Samples: 32}, FramebufferUnsupported},
		{"odd samples", FramebufferDescriptor{Width: 4, Height: 4, Samples: 3}, FramebufferUnsupported},
		{"too large", FramebufferDescriptor{Width: 1 << 14, Height: 4}, FramebufferUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb, err := d.CreateFramebuffer(tt.desc)
			if err != nil {
				t.Fatalf("CreateFramebuffer: %v", err)
			}
			if got := fb.Status(); got != tt.want {
				t.Errorf("Status() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSoftwareClearRead(t *testing.T) {
	d := NewSoftwareDevice()
	fb := newFramebuffer(t, d, 8, 4, 1)
	if err := d.Clear(fb, ClearColor|ClearDepth, shaderviz.RGBHex(0x2f83cc), 1); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	img := resolve(t, d, fb)
	if img.Bounds() != image.Rect(0, 0, 8, 4) || img.Stride != 8*4 {
		t.Fatalf("Read() bounds %v stride %d, want tightly packed 8x4", img.Bounds(), img.Stride)
	}
	assertUniform(t, img, color.NRGBA{0x2f, 0x83, 0xcc, 0xff})
}

func TestSoftwareReadMultisampled(t *testing.T) {
	d := NewSoftwareDevice()
	fb := newFramebuffer(t, d, 4, 4, 16)
	if _, err := d.Read(fb); !errors.Is(err, ErrMultisampleRead) {
		t.Errorf("Read(multisampled) error = %v, want ErrMultisampleRead", err)
	}
}

func TestSoftwareBlit(t *testing.T) {
	d := NewSoftwareDevice()
	ms := newFramebuffer(t, d, 4, 4, 16)
	if err := d.Clear(ms, ClearColor, shaderviz.RGB(1, 0, 0), 1); err != nil {
		t.Fatal(err)
	}
	assertUniform(t, resolve(t, d, ms), color.NRGBA{255, 0, 0, 255})

	small := newFramebuffer(t, d, 2, 2, 1)
	if err := d.Blit(ms, small); !errors.Is(err, ErrSizeMismatch) {
		t.Errorf("Blit(size mismatch) error = %v, want ErrSizeMismatch", err)
	}
}

func TestSoftwareDrawFullscreen(t *testing.T) {
	for _, samples := range []int{1, 4, 16} {
		d := NewSoftwareDevice()
		fb := newFramebuffer(t, d, 16, 16, samples)
		_ = d.Clear(fb, ClearColor|ClearDepth, shaderviz.Black, 1)

		p := shaders.NewFlat3D().SetColor(shaderviz.RGB(0, 1, 0))
		if err := d.Draw(fb, State{DepthTest: true}, p, quadMesh(t, d, 0)); err != nil {
			t.Fatalf("Draw: %v", err)
		}
		assertUniform(t, resolve(t, d, fb), color.NRGBA{0, 255, 0, 255})
	}
}

func TestSoftwareMultisampleEdge(t *testing.T) {
	d := NewSoftwareDevice()
	fb := newFramebuffer(t, d, 32, 32, 16)
	_ = d.Clear(fb, ClearColor|ClearDepth, shaderviz.Black, 1)

	// Lower left half of the viewport, split along the diagonal.
	data := &mesh.Data{Positions3D: []mgl32.Vec3{{-1, -1, 0}, {1, -1, 0}, {-1, 1, 0}}}
	p := shaders.NewFlat3D().SetColor(shaderviz.White)
	if err := d.Draw(fb, State{}, p, uploadMesh(t, d, data, mesh.Position3D)); err != nil {
		t.Fatal(err)
	}

	img := resolve(t, d, fb)
	partial := 0
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			if r := img.NRGBAAt(x, y).R; r > 0 && r < 255 {
				partial++
			}
		}
	}
	if partial < 16 {
		t.Errorf("%d partially covered pixels on the diagonal, want at least 16", partial)
	}
	if got := img.NRGBAAt(1, 30).R; got != 255 {
		t.Errorf("inside pixel = %d, want 255", got)
	}
	if got := img.NRGBAAt(30, 1).R; got != 0 {
		t.Errorf("outside pixel = %d, want 0", got)
	}
}

func TestSoftwareSharedEdgeCoveredOnce(t *testing.T) {
	for _, samples := range []int{1, 16} {
		d := NewSoftwareDevice()
		fb := newFramebuffer(t, d, 17, 13, samples)
		_ = d.Clear(fb, ClearColor, shaderviz.Transparent, 1)

		additive := DefaultBlendState()
		additive.Color.DstFactor = gputypes.BlendFactorOne
		additive.Alpha.DstFactor = gputypes.BlendFactorOne

		p := shaders.NewFlat3D().SetColor(shaderviz.RGBA(0.25, 0.25, 0.25, 0.25))
		if err := d.Draw(fb, State{Blend: &additive}, p, quadMesh(t, d, 0)); err != nil {
			t.Fatal(err)
		}
		assertUniform(t, resolve(t, d, fb), color.NRGBA{64, 64, 64, 64})
	}
}

func TestSoftwareDepthTest(t *testing.T) {
	red := shaders.NewFlat3D().SetColor(shaderviz.RGB(1, 0, 0))
	blue := shaders.NewFlat3D().SetColor(shaderviz.RGB(0, 0, 1))

	tests := []struct {
		name  string
		state State
		want  color.NRGBA
	}{
		{"enabled keeps nearer", State{DepthTest: true}, color.NRGBA{255, 0, 0, 255}},
		{"disabled overwrites", State{}, color.NRGBA{0, 0, 255, 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewSoftwareDevice()
			fb := newFramebuffer(t, d, 8, 8, 4)
			_ = d.Clear(fb, ClearColor|ClearDepth, shaderviz.Black, 1)
			if err := d.Draw(fb, tt.state, red, quadMesh(t, d, -0.5)); err != nil {
				t.Fatal(err)
			}
			if err := d.Draw(fb, tt.state, blue, quadMesh(t, d, 0.5)); err != nil {
				t.Fatal(err)
			}
			assertUniform(t, resolve(t, d, fb), tt.want)
		})
	}
}

func TestSoftwareBlendPremultiplied(t *testing.T) {
	d := NewSoftwareDevice()
	fb := newFramebuffer(t, d, 4, 4, 1)
	_ = d.Clear(fb, ClearColor, shaderviz.RGB(0, 0, 1), 1)

	premul := gputypes.BlendStatePremultiplied()
	p := shaders.NewFlat3D().SetColor(shaderviz.RGBA(1, 0, 0, 0.5))
	if err := d.Draw(fb, State{Blend: &premul}, p, quadMesh(t, d, 0)); err != nil {
		t.Fatal(err)
	}
	assertUniform(t, resolve(t, d, fb), color.NRGBA{255, 0, 128, 255})
}

func TestSoftwareNearClip(t *testing.T) {
	d := NewSoftwareDevice()
	fb := newFramebuffer(t, d, 16, 16, 1)
	_ = d.Clear(fb, ClearColor|ClearDepth, shaderviz.Black, 1)

	proj := mgl32.Perspective(mgl32.DegToRad(35), 1, 0.001, 100)
	p := shaders.NewFlat3D().SetColor(shaderviz.White).SetTransformationProjectionMatrix(proj)
	// A floor triangle with one vertex behind the camera.
	data := &mesh.Data{Positions3D: []mgl32.Vec3{{-2, -0.5, -3}, {2, -0.5, -3}, {0, -0.5, 3}}}
	if err := d.Draw(fb, State{DepthTest: true}, p, uploadMesh(t, d, data, mesh.Position3D)); err != nil {
		t.Fatal(err)
	}

	img := resolve(t, d, fb)
	lit := 0
	for i := 0; i < len(img.Pix); i += 4 {
		if img.Pix[i] == 255 {
			lit++
		}
	}
	if lit == 0 {
		t.Error("clipped triangle produced no pixels")
	}
}

func TestSoftwareDrawErrors(t *testing.T) {
	d := NewSoftwareDevice()
	fb := newFramebuffer(t, d, 4, 4, 1)
	quad := quadMesh(t, d, 0)

	if err := d.Draw(fb, State{}, shaders.NewPhong(), quad); !errors.Is(err, ErrLayoutMismatch) {
		t.Errorf("Draw(layout mismatch) error = %v, want ErrLayoutMismatch", err)
	}

	other := NewSoftwareDevice()
	otherFB := newFramebuffer(t, other, 4, 4, 1)
	if err := d.Draw(otherFB, State{}, shaders.NewFlat3D(), quad); !errors.Is(err, ErrForeignResource) {
		t.Errorf("Draw(foreign framebuffer) error = %v, want ErrForeignResource", err)
	}

	if err := d.Draw(fb, State{}, shaders.NewVector2D(), quad); err == nil {
		t.Error("Draw(vector without texture) should fail")
	}

	bad := DefaultBlendState()
	bad.Color.Operation = gputypes.BlendOperation(0xff)
	if err := d.Draw(fb, State{Blend: &bad}, shaders.NewFlat3D(), quad); !errors.Is(err, ErrUnsupportedBlend) {
		t.Errorf("Draw(bad blend) error = %v, want ErrUnsupportedBlend", err)
	}

	fb.Destroy()
	if err := d.Clear(fb, ClearColor, shaderviz.Black, 1); !errors.Is(err, ErrDestroyed) {
		t.Errorf("Clear(destroyed) error = %v, want ErrDestroyed", err)
	}

	_ = d.Close()
	if _, err := d.CreateFramebuffer(FramebufferDescriptor{Width: 1, Height: 1}); !errors.Is(err, ErrDeviceClosed) {
		t.Errorf("CreateFramebuffer(closed) error = %v, want ErrDeviceClosed", err)
	}
}

func TestSoftwareVectorTexture(t *testing.T) {
	d := NewSoftwareDevice()
	fb := newFramebuffer(t, d, 8, 8, 1)
	_ = d.Clear(fb, ClearColor|ClearDepth, shaderviz.Black, 1)

	// Top half white, bottom half black.
	src := image.NewGray(image.Rect(0, 0, 8, 8))
	for y := 0; y < 4; y++ {
		for x := 0; x < 8; x++ {
			src.Pix[y*8+x] = 255
		}
	}
	tex, err := d.CreateTexture(src)
	if err != nil {
		t.Fatal(err)
	}

	sq := &mesh.Data{
		Positions2D: []mgl32.Vec2{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}},
		TexCoords:   []mgl32.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}},
		Indices:     []uint32{0, 1, 2, 0, 2, 3},
	}
	p := shaders.NewVector2D().SetColor(shaderviz.White).BindVectorTexture(tex)
	if err := d.Draw(fb, State{}, p, uploadMesh(t, d, sq, mesh.Position2D, mesh.TextureCoordinates)); err != nil {
		t.Fatal(err)
	}

	img := resolve(t, d, fb)
	if got := img.NRGBAAt(4, 0); got != (color.NRGBA{255, 255, 255, 255}) {
		t.Errorf("top pixel = %v, want white", got)
	}
	if got := img.NRGBAAt(4, 7); got != (color.NRGBA{0, 0, 0, 0}) {
		t.Errorf("bottom pixel = %v, want transparent", got)
	}
}

func TestBilinear(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	copy(img.Pix, []uint8{0, 0, 0, 255, 255, 255, 255, 255})

	tests := []struct {
		u    float32
		want float32
	}{
		{0, 0}, {0.25, 0}, {0.5, 0.5}, {0.75, 1}, {1, 1}, {-3, 0}, {4, 1},
	}
	for _, tt := range tests {
		got := Bilinear(img, mgl32.Vec2{tt.u, 0.5})
		if d := got[0] - tt.want; d > 1e-5 || d < -1e-5 {
			t.Errorf("Bilinear(u=%v).R = %v, want %v", tt.u, got[0], tt.want)
		}
	}
}

func TestToNRGBA(t *testing.T) {
	gray := image.NewGray(image.Rect(2, 3, 4, 5))
	gray.SetGray(2, 3, color.Gray{Y: 200})
	got := ToNRGBA(gray)
	if got.Bounds() != image.Rect(0, 0, 2, 2) {
		t.Fatalf("bounds = %v", got.Bounds())
	}
	if c := got.NRGBAAt(0, 0); c != (color.NRGBA{200, 200, 200, 255}) {
		t.Errorf("pixel = %v", c)
	}
	if ToNRGBA(got) != got {
		t.Error("packed NRGBA should be returned as is")
	}
}
