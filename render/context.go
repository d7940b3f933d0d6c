package render

import (
	"fmt"
	"image"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/shaderviz"
	"github.com/gogpu/shaderviz/shaders"
)

// Feature is a toggleable piece of render state.
type Feature uint8

const (
	// DepthTest enables the depth test for subsequent draws.
	DepthTest Feature = iota + 1

	// Blending enables the blend function for subsequent draws.
	Blending
)

func (f Feature) String() string {
	switch f {
	case DepthTest:
		return "DepthTest"
	case Blending:
		return "Blending"
	default:
		return fmt.Sprintf("Feature(%d)", uint8(f))
	}
}

// Context is the mutable render state bound to a device.
//
// A new context has every feature disabled, a transparent black clear
// color, clear depth 1 and the replacing blend function.
type Context struct {
	device Device

	depthTest bool
	blending  bool
	blend     gputypes.BlendState

	clearColor shaderviz.Color
	clearDepth float32
}

// NewContext wraps a device.
func NewContext(d Device) *Context {
	return &Context{
		device:     d,
		blend:      DefaultBlendState(),
		clearColor: shaderviz.Transparent,
		clearDepth: 1,
	}
}

// Device returns the underlying device.
func (c *Context) Device() Device { return c.device }

// Enable turns a feature on.
func (c *Context) Enable(f Feature) { c.set(f, true) }

// Disable turns a feature off.
func (c *Context) Disable(f Feature) { c.set(f, false) }

// IsEnabled reports whether a feature is on.
func (c *Context) IsEnabled(f Feature) bool {
	switch f {
	case DepthTest:
		return c.depthTest
	case Blending:
		return c.blending
	}
	return false
}

func (c *Context) set(f Feature, on bool) {
	switch f {
	case DepthTest:
		c.depthTest = on
	case Blending:
		c.blending = on
	default:
		panic(fmt.Sprintf("render: unknown feature %v", f))
	}
}

// WithFeature enables f for the duration of fn and restores its previous
// state afterwards, also when fn panics.
func (c *Context) WithFeature(f Feature, fn func() error) error {
	prev := c.IsEnabled(f)
	c.Enable(f)
	defer c.set(f, prev)
	return fn()
}

// SetBlendFunction sets the source and destination factors for both color
// and alpha.
func (c *Context) SetBlendFunction(src, dst gputypes.BlendFactor) {
	c.blend.Color.SrcFactor, c.blend.Color.DstFactor = src, dst
	c.blend.Alpha.SrcFactor, c.blend.Alpha.DstFactor = src, dst
}

// SetBlendEquation sets the blend operation for both color and alpha.
func (c *Context) SetBlendEquation(op gputypes.BlendOperation) {
	c.blend.Color.Operation = op
	c.blend.Alpha.Operation = op
}

// SetClearColor sets the color Clear fills with.
func (c *Context) SetClearColor(col shaderviz.Color) { c.clearColor = col }

// ClearColor returns the current clear color.
func (c *Context) ClearColor() shaderviz.Color { return c.clearColor }

// State snapshots the current state for a draw call.
func (c *Context) State() State {
	s := State{DepthTest: c.depthTest}
	if c.blending {
		b := c.blend
		s.Blend = &b
	}
	return s
}

// Clear clears the selected attachments with the current clear values.
func (c *Context) Clear(fb Framebuffer, mask ClearMask) error {
	return c.device.Clear(fb, mask, c.clearColor, c.clearDepth)
}

// Draw draws m with program p into fb using the current state.
func (c *Context) Draw(fb Framebuffer, p shaders.Program, m Mesh) error {
	return c.device.Draw(fb, c.State(), p, m)
}

// Blit resolves src into dst.
func (c *Context) Blit(src, dst Framebuffer) error {
	return c.device.Blit(src, dst)
}

// Read reads back a single-sampled framebuffer.
func (c *Context) Read(fb Framebuffer) (*image.NRGBA, error) {
	return c.device.Read(fb)
}

// Close closes the device.
func (c *Context) Close() error {
	return c.device.Close()
}
