// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/shaderviz"
	"github.com/gogpu/shaderviz/mesh"
	"github.com/gogpu/shaderviz/shaders"
)

const (
	softwareMaxSamples     = 16
	softwareMaxTextureSize = 8192
)

// ErrDeviceClosed is returned by a closed software device.
var ErrDeviceClosed = errors.New("render: device closed")

// SoftwareDevice is a deterministic CPU implementation of Device.
//
// Triangles are rasterized with the standard sample patterns for 1 to 16
// samples per pixel. Each covered pixel runs the fragment stage once at
// its center; coverage, depth test and blending are evaluated per sample.
// Every sample stores RGBA8 color and float32 depth, and Blit averages
// the samples of a pixel.
type SoftwareDevice struct {
	closed bool
}

// NewSoftwareDevice creates a software device.
func NewSoftwareDevice() *SoftwareDevice {
	return &SoftwareDevice{}
}

// Name returns "software".
func (d *SoftwareDevice) Name() string { return "software" }

// Capabilities describes the software limits.
func (d *SoftwareDevice) Capabilities() DeviceCapabilities {
	return DeviceCapabilities{
		MaxSamples:     softwareMaxSamples,
		MaxTextureSize: softwareMaxTextureSize,
		DeviceName:     "software rasterizer",
	}
}

type softFramebuffer struct {
	dev     *SoftwareDevice
	label   string
	width   int
	height  int
	samples int
	status  FramebufferStatus

	color []uint8   // RGBA8 per sample, (y*width+x)*samples+s
	depth []float32 // per sample, nil without a depth attachment
}

func (f *softFramebuffer) Width() int                { return f.width }
func (f *softFramebuffer) Height() int               { return f.height }
func (f *softFramebuffer) Samples() int              { return f.samples }
func (f *softFramebuffer) Status() FramebufferStatus { return f.status }

func (f *softFramebuffer) Destroy() {
	f.status = FramebufferDestroyed
	f.color = nil
	f.depth = nil
}

// CreateFramebuffer allocates a framebuffer. It only fails on a closed device.
func (d *SoftwareDevice) CreateFramebuffer(desc FramebufferDescriptor) (Framebuffer, error) {
	if d.closed {
		return nil, ErrDeviceClosed
	}
	fb := &softFramebuffer{
		dev:     d,
		label:   desc.Label,
		width:   desc.Width,
		height:  desc.Height,
		samples: max(desc.Samples, 1),
		status:  StatusFor(desc, d.Capabilities()),
	}
	if fb.status != FramebufferComplete {
		return fb, nil
	}
	n := fb.width * fb.height * fb.samples
	fb.color = make([]uint8, n*4)
	if desc.Depth {
		fb.depth = make([]float32, n)
		for i := range fb.depth {
			fb.depth[i] = 1
		}
	}
	return fb, nil
}

type softMesh struct {
	dev       *SoftwareDevice
	data      *mesh.Interleaved
	destroyed bool
}

func (m *softMesh) Layout() []mesh.Attribute { return m.data.Attributes }
func (m *softMesh) ElementCount() int        { return m.data.ElementCount() }
func (m *softMesh) Destroy()                 { m.destroyed = true }

// CreateMesh keeps a reference to the interleaved data.
func (d *SoftwareDevice) CreateMesh(m *mesh.Interleaved) (Mesh, error) {
	if d.closed {
		return nil, ErrDeviceClosed
	}
	if m.Indices != nil {
		for _, i := range m.Indices {
			if int(i) >= m.VertexCount {
				return nil, fmt.Errorf("%w: index %d, %d vertices", mesh.ErrIndexRange, i, m.VertexCount)
			}
		}
	}
	return &softMesh{dev: d, data: m}, nil
}

// CreateTexture converts img to RGBA8.
func (d *SoftwareDevice) CreateTexture(img image.Image) (Texture, error) {
	if d.closed {
		return nil, ErrDeviceClosed
	}
	b := img.Bounds()
	if b.Dx() > softwareMaxTextureSize || b.Dy() > softwareMaxTextureSize {
		return nil, fmt.Errorf("render: texture %dx%d exceeds %d", b.Dx(), b.Dy(), softwareMaxTextureSize)
	}
	return &softTexture{dev: d, img: ToNRGBA(img)}, nil
}

func (d *SoftwareDevice) framebuffer(fb Framebuffer) (*softFramebuffer, error) {
	if d.closed {
		return nil, ErrDeviceClosed
	}
	f, ok := fb.(*softFramebuffer)
	if !ok || f.dev != d {
		return nil, ErrForeignResource
	}
	if f.status == FramebufferDestroyed {
		return nil, ErrDestroyed
	}
	if f.status != FramebufferComplete {
		return nil, &StatusError{Status: f.status}
	}
	return f, nil
}

// Clear fills every sample of the selected attachments.
func (d *SoftwareDevice) Clear(fb Framebuffer, mask ClearMask, color shaderviz.Color, depth float32) error {
	f, err := d.framebuffer(fb)
	if err != nil {
		return err
	}
	if mask&ClearColor != 0 {
		c := color.NRGBA()
		for i := 0; i < len(f.color); i += 4 {
			f.color[i], f.color[i+1], f.color[i+2], f.color[i+3] = c.R, c.G, c.B, c.A
		}
	}
	if mask&ClearDepth != 0 && f.depth != nil {
		for i := range f.depth {
			f.depth[i] = depth
		}
	}
	return nil
}

// Draw rasterizes the triangles of m.
func (d *SoftwareDevice) Draw(fb Framebuffer, state State, p shaders.Program, m Mesh) error {
	f, err := d.framebuffer(fb)
	if err != nil {
		return err
	}
	sm, ok := m.(*softMesh)
	if !ok || sm.dev != d {
		return ErrForeignResource
	}
	if sm.destroyed {
		return ErrDestroyed
	}
	if err := CheckDraw(fb, state, p, m); err != nil {
		return err
	}
	if t := p.Texture(); t != nil {
		if st, ok := t.(*softTexture); !ok || st.dev != d {
			return ErrForeignResource
		}
	}

	newRasterizer(f, state, p).draw(sm.data)
	return nil
}

// Blit resolves src into dst by averaging samples, or copies when the
// sample counts match.
func (d *SoftwareDevice) Blit(src, dst Framebuffer) error {
	s, err := d.framebuffer(src)
	if err != nil {
		return err
	}
	t, err := d.framebuffer(dst)
	if err != nil {
		return err
	}
	if s.width != t.width || s.height != t.height {
		return fmt.Errorf("%w: %dx%d to %dx%d", ErrSizeMismatch, s.width, s.height, t.width, t.height)
	}
	if s.samples == t.samples {
		copy(t.color, s.color)
		return nil
	}
	if t.samples != 1 {
		return fmt.Errorf("render: cannot blit %d samples into %d", s.samples, t.samples)
	}

	n := s.samples
	for px := 0; px < s.width*s.height; px++ {
		base := px * n * 4
		for c := 0; c < 4; c++ {
			sum := 0
			for i := 0; i < n; i++ {
				sum += int(s.color[base+i*4+c])
			}
			t.color[px*4+c] = uint8((sum + n/2) / n)
		}
	}
	return nil
}

// Read copies a single-sampled color attachment.
func (d *SoftwareDevice) Read(fb Framebuffer) (*image.NRGBA, error) {
	f, err := d.framebuffer(fb)
	if err != nil {
		return nil, err
	}
	if f.samples != 1 {
		return nil, ErrMultisampleRead
	}
	img := image.NewNRGBA(image.Rect(0, 0, f.width, f.height))
	copy(img.Pix, f.color)
	return img, nil
}

// Close marks the device closed. Resources become unusable.
func (d *SoftwareDevice) Close() error {
	d.closed = true
	return nil
}

var _ Device = (*SoftwareDevice)(nil)
