// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"errors"
	"image"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/shaderviz"
	"github.com/gogpu/shaderviz/mesh"
	"github.com/gogpu/shaderviz/shaders"
)

var (
	// ErrDestroyed is returned when a destroyed resource is used.
	ErrDestroyed = errors.New("render: resource destroyed")

	// ErrForeignResource is returned when a resource created by one device
	// is passed to another.
	ErrForeignResource = errors.New("render: resource belongs to another device")

	// ErrLayoutMismatch is returned when a mesh does not provide the
	// attributes a program consumes, in the program's order.
	ErrLayoutMismatch = errors.New("render: mesh layout does not match program")

	// ErrMultisampleRead is returned when reading a multisampled framebuffer
	// without resolving it first.
	ErrMultisampleRead = errors.New("render: cannot read a multisampled framebuffer")

	// ErrSizeMismatch is returned when blitting between framebuffers of
	// different sizes.
	ErrSizeMismatch = errors.New("render: framebuffer size mismatch")

	// ErrUnsupportedBlend is returned for blend factors or operations the
	// device does not implement.
	ErrUnsupportedBlend = errors.New("render: unsupported blend state")
)

// DeviceHandle provides GPU device access from a host application that
// already owns a device. It is an alias for gpucontext.DeviceProvider.
type DeviceHandle = gpucontext.DeviceProvider

// Device is a windowless graphics context.
//
// Devices are not safe for concurrent use.
type Device interface {
	// Name returns the registry name of the device.
	Name() string

	// Capabilities describes the limits of the device.
	Capabilities() DeviceCapabilities

	// CreateFramebuffer allocates a color and optional depth attachment.
	// Unsupported descriptors still return a framebuffer; its Status
	// reports why it cannot be drawn to.
	CreateFramebuffer(desc FramebufferDescriptor) (Framebuffer, error)

	// CreateMesh uploads interleaved vertex and index data.
	CreateMesh(m *mesh.Interleaved) (Mesh, error)

	// CreateTexture uploads an image as an RGBA8 texture sampled with
	// linear filtering and clamp-to-edge addressing.
	CreateTexture(img image.Image) (Texture, error)

	// Clear fills the selected attachments of fb.
	Clear(fb Framebuffer, mask ClearMask, color shaderviz.Color, depth float32) error

	// Draw runs one draw call of m with program p into fb.
	Draw(fb Framebuffer, state State, p shaders.Program, m Mesh) error

	// Blit resolves or copies the color attachment of src into dst.
	Blit(src, dst Framebuffer) error

	// Read returns the color attachment of a single-sampled framebuffer as
	// tightly packed RGBA8 rows, top row first. The bytes are returned as
	// stored, without any alpha conversion.
	Read(fb Framebuffer) (*image.NRGBA, error)

	// Close releases the device.
	Close() error
}

// DeviceCapabilities describes the limits of a device.
type DeviceCapabilities struct {
	// MaxSamples is the largest supported framebuffer sample count.
	MaxSamples int

	// MaxTextureSize is the maximum texture and framebuffer dimension.
	MaxTextureSize int

	// VendorName is the GPU vendor name, empty for software devices.
	VendorName string

	// DeviceName is the adapter or implementation name.
	DeviceName string
}

// State is the fixed-function state of one draw call.
type State struct {
	// DepthTest enables the less-than depth test and depth writes.
	DepthTest bool

	// Blend is the blend state, or nil to overwrite the destination.
	Blend *gputypes.BlendState
}

// Mesh is vertex data uploaded to a device.
type Mesh interface {
	// Layout returns the attributes in buffer order.
	Layout() []mesh.Attribute

	// ElementCount is the number of vertices one draw processes.
	ElementCount() int

	// Destroy releases the mesh.
	Destroy()
}

// Texture is an image uploaded to a device.
type Texture interface {
	shaders.Texture

	// Destroy releases the texture.
	Destroy()
}

// layoutMatches reports whether a mesh layout feeds a program.
func layoutMatches(have, want []mesh.Attribute) bool {
	if len(have) != len(want) {
		return false
	}
	for i := range have {
		if have[i] != want[i] {
			return false
		}
	}
	return true
}

// CheckDraw validates a draw call independent of the device. Devices call
// it before touching any resources.
func CheckDraw(fb Framebuffer, state State, p shaders.Program, m Mesh) error {
	if fb == nil || m == nil || p == nil {
		return errors.New("render: nil framebuffer, mesh or program")
	}
	if s := fb.Status(); s != FramebufferComplete {
		return &StatusError{Status: s}
	}
	if !layoutMatches(m.Layout(), p.Attributes()) {
		return ErrLayoutMismatch
	}
	if err := shaders.Validate(p); err != nil {
		return err
	}
	if state.Blend != nil {
		if err := checkBlend(*state.Blend); err != nil {
			return err
		}
	}
	return nil
}
