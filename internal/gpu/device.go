//go:build !nogpu

package gpu

import (
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	_ "github.com/gogpu/wgpu/hal/vulkan" // registers the Vulkan backend

	"github.com/gogpu/shaderviz"
	"github.com/gogpu/shaderviz/mesh"
	"github.com/gogpu/shaderviz/render"
	"github.com/gogpu/shaderviz/shaders"
)

// Name is the registry name of the device.
const Name = "gpu"

const (
	// maxSamples is the largest sample count every WebGPU adapter accepts.
	maxSamples = 4

	maxTextureSize = 8192

	// copyPitchAlignment is the BytesPerRow alignment WebGPU and DX12
	// require for texture to buffer copies.
	copyPitchAlignment = 256

	fenceTimeout = 5 * time.Second
)

// ErrDeviceClosed is returned by every method of a closed Device.
var ErrDeviceClosed = errors.New("gpu: device closed")

// Device is a render.Device backed by a HAL device and queue.
type Device struct {
	instance hal.Instance
	device   hal.Device
	queue    hal.Queue
	adapter  string

	// external is set when the device belongs to a host application and
	// must not be destroyed by Close.
	external bool
	closed   bool

	pipelines *pipelineCache
	sampler   hal.Sampler
}

// Open creates a headless device on the first discrete or integrated
// Vulkan adapter, falling back to whatever adapter is listed first.
func Open() (*Device, error) {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return nil, fmt.Errorf("gpu: vulkan backend not available")
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("gpu: create instance: %w", err)
	}
	d, err := openInstance(instance)
	if err != nil {
		instance.Destroy()
		return nil, err
	}
	return d, nil
}

func openInstance(instance hal.Instance) (*Device, error) {
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		return nil, fmt.Errorf("gpu: no GPU adapters found")
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		return nil, fmt.Errorf("gpu: open device: %w", err)
	}
	d, err := newDevice(openDev.Device, openDev.Queue, selected.Info.Name)
	if err != nil {
		openDev.Device.Destroy()
		return nil, err
	}
	d.instance = instance
	slogger().Info("gpu: device opened", "adapter", selected.Info.Name)
	return d, nil
}

// SetDeviceProvider wraps the device and queue of a host application.
// The provider must expose HalDevice() and HalQueue() returning
// hal.Device and hal.Queue. Closing the returned Device leaves the
// provider's device alive.
func SetDeviceProvider(provider any) (*Device, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, fmt.Errorf("gpu: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("gpu: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("gpu: provider HalQueue is not hal.Queue")
	}
	d, err := newDevice(device, queue, "external")
	if err != nil {
		return nil, err
	}
	d.external = true
	return d, nil
}

func newDevice(device hal.Device, queue hal.Queue, adapter string) (*Device, error) {
	sampler, err := device.CreateSampler(&hal.SamplerDescriptor{
		Label:        "shaderviz_sampler",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeLinear,
		MinFilter:    gputypes.FilterModeLinear,
		MipmapFilter: gputypes.FilterModeLinear,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create sampler: %w", err)
	}
	return &Device{
		device:    device,
		queue:     queue,
		adapter:   adapter,
		sampler:   sampler,
		pipelines: newPipelineCache(device),
	}, nil
}

// Name implements render.Device.
func (d *Device) Name() string { return Name }

// Capabilities implements render.Device.
func (d *Device) Capabilities() render.DeviceCapabilities {
	return render.DeviceCapabilities{
		MaxSamples:     maxSamples,
		MaxTextureSize: maxTextureSize,
		DeviceName:     d.adapter,
	}
}

// CreateFramebuffer implements render.Device.
func (d *Device) CreateFramebuffer(desc render.FramebufferDescriptor) (render.Framebuffer, error) {
	if d.closed {
		return nil, ErrDeviceClosed
	}
	fb := &framebuffer{
		dev:     d,
		label:   desc.Label,
		width:   uint32(max(desc.Width, 0)),
		height:  uint32(max(desc.Height, 0)),
		samples: uint32(max(desc.Samples, 1)),
		status:  render.StatusFor(desc, d.Capabilities()),
	}
	if fb.status != render.FramebufferComplete {
		return fb, nil
	}
	if err := fb.createTextures(d.device, desc.Depth); err != nil {
		return nil, err
	}
	return fb, nil
}

// CreateMesh implements render.Device.
func (d *Device) CreateMesh(m *mesh.Interleaved) (render.Mesh, error) {
	if d.closed {
		return nil, ErrDeviceClosed
	}
	return newMesh(d, m)
}

// CreateTexture implements render.Device.
func (d *Device) CreateTexture(img image.Image) (render.Texture, error) {
	if d.closed {
		return nil, ErrDeviceClosed
	}
	return newTexture(d, img)
}

// Clear implements render.Device. It records an empty render pass whose
// load operations do the clearing.
func (d *Device) Clear(fb render.Framebuffer, mask render.ClearMask, color shaderviz.Color, depth float32) error {
	f, err := d.framebuffer(fb)
	if err != nil {
		return err
	}
	return d.submit("clear", func(enc hal.CommandEncoder) error {
		desc := f.passDescriptor("clear_pass")
		if mask&render.ClearColor != 0 {
			desc.ColorAttachments[0].LoadOp = gputypes.LoadOpClear
			desc.ColorAttachments[0].ClearValue = gputypes.Color{
				R: float64(color.R), G: float64(color.G), B: float64(color.B), A: float64(color.A),
			}
		}
		if mask&render.ClearDepth != 0 && desc.DepthStencilAttachment != nil {
			desc.DepthStencilAttachment.DepthLoadOp = gputypes.LoadOpClear
			desc.DepthStencilAttachment.DepthClearValue = depth
		}
		enc.BeginRenderPass(desc).End()
		return nil
	})
}

// Draw implements render.Device.
func (d *Device) Draw(fb render.Framebuffer, state render.State, p shaders.Program, m render.Mesh) error {
	f, err := d.framebuffer(fb)
	if err != nil {
		return err
	}
	gm, ok := m.(*gpuMesh)
	if !ok || gm.dev != d {
		return render.ErrForeignResource
	}
	if gm.destroyed {
		return render.ErrDestroyed
	}
	if err := render.CheckDraw(fb, state, p, m); err != nil {
		return err
	}
	var tex *gpuTexture
	if t := p.Texture(); t != nil {
		if tex, ok = t.(*gpuTexture); !ok || tex.dev != d {
			return render.ErrForeignResource
		}
		if tex.destroyed {
			return render.ErrDestroyed
		}
	}

	pipe, err := d.pipelines.get(pipelineKey{
		program:   p.Name(),
		samples:   f.samples,
		depth:     f.depthTex != nil,
		depthTest: state.DepthTest,
		blend:     blendKey(state.Blend),
		blended:   state.Blend != nil,
		textured:  tex != nil,
		layout:    layoutKey(gm.layout, gm.stride),
	}, p, gm)
	if err != nil {
		return err
	}

	bind, err := d.createBindings(pipe, p.Uniforms(), tex)
	if err != nil {
		return err
	}
	defer bind.destroy(d.device)

	return d.submit("draw_"+p.Name(), func(enc hal.CommandEncoder) error {
		rp := enc.BeginRenderPass(f.passDescriptor("draw_pass"))
		rp.SetPipeline(pipe.pipeline)
		rp.SetBindGroup(0, bind.group, nil)
		rp.SetVertexBuffer(0, gm.vertices, 0)
		if gm.indices != nil {
			rp.SetIndexBuffer(gm.indices, gputypes.IndexFormatUint32, 0)
			rp.DrawIndexed(uint32(gm.count), 1, 0, 0, 0)
		} else {
			rp.Draw(uint32(gm.count), 1, 0, 0)
		}
		rp.End()
		return nil
	})
}

// Blit implements render.Device. A multisampled source is resolved into a
// single-sampled destination by a render pass; framebuffers with equal
// sample counts are copied through a staging buffer.
func (d *Device) Blit(src, dst render.Framebuffer) error {
	s, err := d.framebuffer(src)
	if err != nil {
		return err
	}
	t, err := d.framebuffer(dst)
	if err != nil {
		return err
	}
	if s.width != t.width || s.height != t.height {
		return fmt.Errorf("%w: %dx%d to %dx%d", render.ErrSizeMismatch, s.width, s.height, t.width, t.height)
	}
	switch {
	case s.samples > 1 && t.samples == 1:
		return d.submit("resolve", func(enc hal.CommandEncoder) error {
			enc.BeginRenderPass(&hal.RenderPassDescriptor{
				Label: "resolve_pass",
				ColorAttachments: []hal.RenderPassColorAttachment{{
					View:          s.colorView,
					ResolveTarget: t.colorView,
					LoadOp:        gputypes.LoadOpLoad,
					StoreOp:       gputypes.StoreOpStore,
				}},
			}).End()
			return nil
		})
	case s.samples == 1 && t.samples == 1:
		pix, err := d.readPixels(s)
		if err != nil {
			return err
		}
		t.upload(d.queue, pix)
		return nil
	default:
		return fmt.Errorf("gpu: cannot blit %d samples into %d", s.samples, t.samples)
	}
}

// Read implements render.Device.
func (d *Device) Read(fb render.Framebuffer) (*image.NRGBA, error) {
	f, err := d.framebuffer(fb)
	if err != nil {
		return nil, err
	}
	if f.samples != 1 {
		return nil, render.ErrMultisampleRead
	}
	pix, err := d.readPixels(f)
	if err != nil {
		return nil, err
	}
	img := image.NewNRGBA(image.Rect(0, 0, int(f.width), int(f.height)))
	copy(img.Pix, pix)
	return img, nil
}

// Close releases cached pipelines and, unless the device came from a
// provider, the device and instance themselves.
func (d *Device) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	d.pipelines.destroy()
	if d.sampler != nil {
		d.device.DestroySampler(d.sampler)
		d.sampler = nil
	}
	if !d.external {
		d.device.Destroy()
		if d.instance != nil {
			d.instance.Destroy()
		}
	}
	return nil
}

func (d *Device) framebuffer(fb render.Framebuffer) (*framebuffer, error) {
	if d.closed {
		return nil, ErrDeviceClosed
	}
	f, ok := fb.(*framebuffer)
	if !ok || f.dev != d {
		return nil, render.ErrForeignResource
	}
	if f.status == render.FramebufferDestroyed {
		return nil, render.ErrDestroyed
	}
	if f.status != render.FramebufferComplete {
		return nil, &render.StatusError{Status: f.status}
	}
	return f, nil
}

// submit encodes one command buffer, submits it and waits for the fence.
func (d *Device) submit(label string, record func(enc hal.CommandEncoder) error) error {
	encoder, err := d.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: label})
	if err != nil {
		return fmt.Errorf("gpu: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding(label); err != nil {
		return fmt.Errorf("gpu: begin encoding: %w", err)
	}
	if err := record(encoder); err != nil {
		encoder.DiscardEncoding()
		return err
	}
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("gpu: end encoding: %w", err)
	}
	defer d.device.FreeCommandBuffer(cmdBuf)

	fence, err := d.device.CreateFence()
	if err != nil {
		return fmt.Errorf("gpu: create fence: %w", err)
	}
	defer d.device.DestroyFence(fence)

	if err := d.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("gpu: submit: %w", err)
	}
	fenceOK, err := d.device.Wait(fence, 1, fenceTimeout)
	if err != nil || !fenceOK {
		return fmt.Errorf("gpu: wait for %s: ok=%v err=%w", label, fenceOK, err)
	}
	return nil
}

// readPixels copies a single-sampled color texture to the CPU as tightly
// packed rows.
func (d *Device) readPixels(f *framebuffer) ([]byte, error) {
	bytesPerRow := f.width * 4
	alignedBytesPerRow := (bytesPerRow + copyPitchAlignment - 1) &^ (copyPitchAlignment - 1)
	stagingSize := uint64(alignedBytesPerRow) * uint64(f.height)

	staging, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "readback_staging",
		Size:  stagingSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create staging buffer: %w", err)
	}
	defer d.device.DestroyBuffer(staging)

	err = d.submit("readback", func(enc hal.CommandEncoder) error {
		// Attachments sit in COLOR_ATTACHMENT_OPTIMAL after a pass while the
		// copy needs TRANSFER_SRC_OPTIMAL.
		enc.TransitionTextures([]hal.TextureBarrier{{
			Texture: f.colorTex,
			Usage: hal.TextureUsageTransition{
				OldUsage: gputypes.TextureUsageRenderAttachment,
				NewUsage: gputypes.TextureUsageCopySrc,
			},
		}})
		enc.CopyTextureToBuffer(f.colorTex, staging, []hal.BufferTextureCopy{{
			BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: alignedBytesPerRow, RowsPerImage: f.height},
			TextureBase:  hal.ImageCopyTexture{Texture: f.colorTex, MipLevel: 0},
			Size:         hal.Extent3D{Width: f.width, Height: f.height, DepthOrArrayLayers: 1},
		}})
		enc.TransitionTextures([]hal.TextureBarrier{{
			Texture: f.colorTex,
			Usage: hal.TextureUsageTransition{
				OldUsage: gputypes.TextureUsageCopySrc,
				NewUsage: gputypes.TextureUsageRenderAttachment,
			},
		}})
		return nil
	})
	if err != nil {
		return nil, err
	}

	readback := make([]byte, stagingSize)
	if err := d.queue.ReadBuffer(staging, 0, readback); err != nil {
		return nil, fmt.Errorf("gpu: readback: %w", err)
	}
	if alignedBytesPerRow == bytesPerRow {
		return readback, nil
	}
	tight := make([]byte, uint64(bytesPerRow)*uint64(f.height))
	for row := uint32(0); row < f.height; row++ {
		src := row * alignedBytesPerRow
		dst := row * bytesPerRow
		copy(tight[dst:dst+bytesPerRow], readback[src:src+bytesPerRow])
	}
	return tight, nil
}

var _ render.Device = (*Device)(nil)
