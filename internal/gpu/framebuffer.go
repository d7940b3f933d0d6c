//go:build !nogpu

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/shaderviz/render"
)

// framebuffer holds the color and optional depth/stencil textures of one
// offscreen target. Single-sampled color textures also carry CopySrc and
// CopyDst so they can be read back and blitted into.
type framebuffer struct {
	dev     *Device
	label   string
	width   uint32
	height  uint32
	samples uint32
	status  render.FramebufferStatus

	colorTex  hal.Texture
	colorView hal.TextureView
	depthTex  hal.Texture
	depthView hal.TextureView
}

func (f *framebuffer) Width() int                       { return int(f.width) }
func (f *framebuffer) Height() int                      { return int(f.height) }
func (f *framebuffer) Samples() int                     { return int(f.samples) }
func (f *framebuffer) Status() render.FramebufferStatus { return f.status }

func (f *framebuffer) createTextures(device hal.Device, depth bool) error {
	size := hal.Extent3D{Width: f.width, Height: f.height, DepthOrArrayLayers: 1}

	usage := gputypes.TextureUsageRenderAttachment
	if f.samples == 1 {
		usage |= gputypes.TextureUsageCopySrc | gputypes.TextureUsageCopyDst
	}
	colorTex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         f.label + "_color",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   f.samples,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         usage,
	})
	if err != nil {
		return fmt.Errorf("gpu: create color texture: %w", err)
	}
	f.colorTex = colorTex

	colorView, err := device.CreateTextureView(colorTex, &hal.TextureViewDescriptor{
		Label: f.label + "_color_view",
	})
	if err != nil {
		f.destroyTextures(device)
		return fmt.Errorf("gpu: create color view: %w", err)
	}
	f.colorView = colorView

	if !depth {
		return nil
	}
	depthTex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         f.label + "_depth",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   f.samples,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatDepth24PlusStencil8,
		Usage:         gputypes.TextureUsageRenderAttachment,
	})
	if err != nil {
		f.destroyTextures(device)
		return fmt.Errorf("gpu: create depth texture: %w", err)
	}
	f.depthTex = depthTex

	depthView, err := device.CreateTextureView(depthTex, &hal.TextureViewDescriptor{
		Label: f.label + "_depth_view",
	})
	if err != nil {
		f.destroyTextures(device)
		return fmt.Errorf("gpu: create depth view: %w", err)
	}
	f.depthView = depthView
	return nil
}

// destroyTextures releases the textures in reverse creation order.
func (f *framebuffer) destroyTextures(device hal.Device) {
	if f.depthView != nil {
		device.DestroyTextureView(f.depthView)
		f.depthView = nil
	}
	if f.depthTex != nil {
		device.DestroyTexture(f.depthTex)
		f.depthTex = nil
	}
	if f.colorView != nil {
		device.DestroyTextureView(f.colorView)
		f.colorView = nil
	}
	if f.colorTex != nil {
		device.DestroyTexture(f.colorTex)
		f.colorTex = nil
	}
}

// passDescriptor returns a render pass that keeps the current contents of
// every attachment. Callers switch load operations to clear as needed.
func (f *framebuffer) passDescriptor(label string) *hal.RenderPassDescriptor {
	desc := &hal.RenderPassDescriptor{
		Label: label,
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:    f.colorView,
			LoadOp:  gputypes.LoadOpLoad,
			StoreOp: gputypes.StoreOpStore,
		}},
	}
	if f.depthView != nil {
		desc.DepthStencilAttachment = &hal.RenderPassDepthStencilAttachment{
			View:              f.depthView,
			DepthLoadOp:       gputypes.LoadOpLoad,
			DepthStoreOp:      gputypes.StoreOpStore,
			DepthClearValue:   1.0,
			StencilLoadOp:     gputypes.LoadOpClear,
			StencilStoreOp:    gputypes.StoreOpDiscard,
			StencilClearValue: 0,
		}
	}
	return desc
}

// upload replaces the color texture with tightly packed RGBA8 rows.
func (f *framebuffer) upload(queue hal.Queue, pix []byte) {
	queue.WriteTexture(
		&hal.ImageCopyTexture{Texture: f.colorTex, MipLevel: 0},
		pix,
		&hal.ImageDataLayout{Offset: 0, BytesPerRow: f.width * 4, RowsPerImage: f.height},
		&hal.Extent3D{Width: f.width, Height: f.height, DepthOrArrayLayers: 1},
	)
}

func (f *framebuffer) Destroy() {
	if f.status == render.FramebufferDestroyed {
		return
	}
	if !f.dev.closed {
		f.destroyTextures(f.dev.device)
	}
	f.status = render.FramebufferDestroyed
}
