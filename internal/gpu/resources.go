//go:build !nogpu

package gpu

import (
	"encoding/binary"
	"fmt"
	"image"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/shaderviz/mesh"
	"github.com/gogpu/shaderviz/render"
)

type gpuMesh struct {
	dev       *Device
	layout    []mesh.Attribute
	offsets   []int
	stride    int
	count     int
	vertices  hal.Buffer
	indices   hal.Buffer
	destroyed bool
}

func newMesh(d *Device, m *mesh.Interleaved) (*gpuMesh, error) {
	gm := &gpuMesh{
		dev:     d,
		layout:  append([]mesh.Attribute(nil), m.Attributes...),
		offsets: append([]int(nil), m.Offsets...),
		stride:  m.Stride,
		count:   m.ElementCount(),
	}
	var err error
	gm.vertices, err = d.createBuffer("mesh_vertices", m.VertexBytes(),
		gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst)
	if err != nil {
		return nil, err
	}
	if m.Indices != nil {
		gm.indices, err = d.createBuffer("mesh_indices", m.IndexBytes(),
			gputypes.BufferUsageIndex|gputypes.BufferUsageCopyDst)
		if err != nil {
			d.device.DestroyBuffer(gm.vertices)
			return nil, err
		}
	}
	return gm, nil
}

func (m *gpuMesh) Layout() []mesh.Attribute { return m.layout }
func (m *gpuMesh) ElementCount() int        { return m.count }

func (m *gpuMesh) Destroy() {
	if m.destroyed {
		return
	}
	m.destroyed = true
	if m.dev.closed {
		return
	}
	if m.indices != nil {
		m.dev.device.DestroyBuffer(m.indices)
	}
	m.dev.device.DestroyBuffer(m.vertices)
}

// vertexLayout describes the interleaved buffer to the pipeline.
func (m *gpuMesh) vertexLayout() []gputypes.VertexBufferLayout {
	attrs := make([]gputypes.VertexAttribute, len(m.layout))
	for i, a := range m.layout {
		attrs[i] = gputypes.VertexAttribute{
			Format:         vertexFormat(a.Components()),
			Offset:         uint64(m.offsets[i] * 4),
			ShaderLocation: a.Location(),
		}
	}
	return []gputypes.VertexBufferLayout{{
		ArrayStride: uint64(m.stride * 4),
		StepMode:    gputypes.VertexStepModeVertex,
		Attributes:  attrs,
	}}
}

func vertexFormat(components int) gputypes.VertexFormat {
	switch components {
	case 1:
		return gputypes.VertexFormatFloat32
	case 2:
		return gputypes.VertexFormatFloat32x2
	case 3:
		return gputypes.VertexFormatFloat32x3
	default:
		return gputypes.VertexFormatFloat32x4
	}
}

// gpuTexture is an RGBA8 texture. It keeps the uploaded pixels so that
// Sample works the same as on the software device.
type gpuTexture struct {
	dev       *Device
	img       *image.NRGBA
	tex       hal.Texture
	view      hal.TextureView
	destroyed bool
}

func newTexture(d *Device, src image.Image) (*gpuTexture, error) {
	img := render.ToNRGBA(src)
	w, h := uint32(img.Rect.Dx()), uint32(img.Rect.Dy())
	if w == 0 || h == 0 || w > maxTextureSize || h > maxTextureSize {
		return nil, fmt.Errorf("gpu: unsupported texture size %dx%d", w, h)
	}
	tex, err := d.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "vector_texture",
		Size:          hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create texture: %w", err)
	}
	view, err := d.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         "vector_texture_view",
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		d.device.DestroyTexture(tex)
		return nil, fmt.Errorf("gpu: create texture view: %w", err)
	}
	d.queue.WriteTexture(
		&hal.ImageCopyTexture{Texture: tex, MipLevel: 0},
		img.Pix,
		&hal.ImageDataLayout{Offset: 0, BytesPerRow: uint32(img.Stride), RowsPerImage: h},
		&hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	)
	return &gpuTexture{dev: d, img: img, tex: tex, view: view}, nil
}

func (t *gpuTexture) Width() int                      { return t.img.Rect.Dx() }
func (t *gpuTexture) Height() int                     { return t.img.Rect.Dy() }
func (t *gpuTexture) Sample(uv mgl32.Vec2) mgl32.Vec4 { return render.Bilinear(t.img, uv) }

func (t *gpuTexture) Destroy() {
	if t.destroyed {
		return
	}
	t.destroyed = true
	if t.dev.closed {
		return
	}
	t.dev.device.DestroyTextureView(t.view)
	t.dev.device.DestroyTexture(t.tex)
}

// bindings are the per-draw uniform buffer and bind group.
type bindings struct {
	uniforms hal.Buffer
	group    hal.BindGroup
}

func (b *bindings) destroy(device hal.Device) {
	if b.group != nil {
		device.DestroyBindGroup(b.group)
	}
	if b.uniforms != nil {
		device.DestroyBuffer(b.uniforms)
	}
}

func (d *Device) createBindings(pipe *pipeline, uniforms []byte, tex *gpuTexture) (*bindings, error) {
	ub, err := d.createBuffer("uniforms", uniforms, gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
	if err != nil {
		return nil, err
	}
	entries := []gputypes.BindGroupEntry{
		{Binding: 0, Resource: gputypes.BufferBinding{
			Buffer: ub.NativeHandle(), Offset: 0, Size: uint64(len(uniforms)),
		}},
	}
	if tex != nil {
		entries = append(entries, textureEntries(tex.view, d.sampler)...)
	}
	group, err := d.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:   "draw_bind",
		Layout:  pipe.bindLayout,
		Entries: entries,
	})
	if err != nil {
		d.device.DestroyBuffer(ub)
		return nil, fmt.Errorf("gpu: create bind group: %w", err)
	}
	return &bindings{uniforms: ub, group: group}, nil
}

// textureEntries binds a texture view at 1 and its sampler at 2.
func textureEntries(view hal.TextureView, sampler hal.Sampler) []gputypes.BindGroupEntry {
	return []gputypes.BindGroupEntry{
		{Binding: 1, Resource: gputypes.TextureViewBinding{
			TextureView: view.NativeHandle(),
		}},
		{Binding: 2, Resource: gputypes.SamplerBinding{
			Sampler: sampler.NativeHandle(),
		}},
	}
}

// createBuffer creates a buffer sized for data and uploads it.
func (d *Device) createBuffer(label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	size := uint64(len(data))
	// Buffer sizes must be multiples of 4 for WriteBuffer.
	if rem := size % 4; rem != 0 {
		size += 4 - rem
		data = append(data, make([]byte, 4-rem)...)
	}
	buf, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  size,
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create %s: %w", label, err)
	}
	d.queue.WriteBuffer(buf, 0, data)
	return buf, nil
}

// layoutKey identifies a vertex layout for pipeline caching.
func layoutKey(attrs []mesh.Attribute, stride int) string {
	b := make([]byte, 0, len(attrs)+4)
	for _, a := range attrs {
		b = append(b, byte(a))
	}
	return string(binary.LittleEndian.AppendUint32(b, uint32(stride)))
}
