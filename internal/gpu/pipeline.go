//go:build !nogpu

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/shaderviz/shaders"
)

// pipelineKey is everything a render pipeline is specialized on.
type pipelineKey struct {
	program   string
	samples   uint32
	depth     bool
	depthTest bool
	blend     gputypes.BlendState
	blended   bool
	textured  bool
	layout    string
}

func blendKey(b *gputypes.BlendState) gputypes.BlendState {
	if b == nil {
		return gputypes.BlendState{}
	}
	return *b
}

type pipeline struct {
	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.RenderPipeline
}

func (p *pipeline) destroy(device hal.Device) {
	if p.pipeline != nil {
		device.DestroyRenderPipeline(p.pipeline)
	}
	if p.pipeLayout != nil {
		device.DestroyPipelineLayout(p.pipeLayout)
	}
	if p.bindLayout != nil {
		device.DestroyBindGroupLayout(p.bindLayout)
	}
	if p.shader != nil {
		device.DestroyShaderModule(p.shader)
	}
}

// pipelineCache creates render pipelines on first use.
type pipelineCache struct {
	device    hal.Device
	pipelines map[pipelineKey]*pipeline
	validated map[string]bool
}

func newPipelineCache(device hal.Device) *pipelineCache {
	return &pipelineCache{
		device:    device,
		pipelines: make(map[pipelineKey]*pipeline),
		validated: make(map[string]bool),
	}
}

func (c *pipelineCache) get(key pipelineKey, p shaders.Program, m *gpuMesh) (*pipeline, error) {
	if pipe, ok := c.pipelines[key]; ok {
		return pipe, nil
	}
	if !c.validated[key.program] {
		if _, err := shaders.Compile(p); err != nil {
			return nil, err
		}
		c.validated[key.program] = true
	}
	pipe, err := c.create(key, p, m)
	if err != nil {
		return nil, err
	}
	c.pipelines[key] = pipe
	slogger().Debug("gpu: pipeline created", "program", key.program, "samples", key.samples, "depth_test", key.depthTest)
	return pipe, nil
}

func (c *pipelineCache) create(key pipelineKey, p shaders.Program, m *gpuMesh) (*pipeline, error) {
	pipe := &pipeline{}
	var err error

	pipe.shader, err = c.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  key.program + "_shader",
		Source: hal.ShaderSource{WGSL: p.Source()},
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: compile %s shader: %w", key.program, err)
	}

	entries := []gputypes.BindGroupLayoutEntry{
		{
			Binding:    0,
			Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
			Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
		},
	}
	if key.textured {
		entries = append(entries,
			gputypes.BindGroupLayoutEntry{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			gputypes.BindGroupLayoutEntry{
				Binding:    2,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		)
	}
	pipe.bindLayout, err = c.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label:   key.program + "_bind_layout",
		Entries: entries,
	})
	if err != nil {
		pipe.destroy(c.device)
		return nil, fmt.Errorf("gpu: create %s bind group layout: %w", key.program, err)
	}

	pipe.pipeLayout, err = c.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            key.program + "_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{pipe.bindLayout},
	})
	if err != nil {
		pipe.destroy(c.device)
		return nil, fmt.Errorf("gpu: create %s pipeline layout: %w", key.program, err)
	}

	target := gputypes.ColorTargetState{
		Format:    gputypes.TextureFormatRGBA8Unorm,
		WriteMask: gputypes.ColorWriteMaskAll,
	}
	if key.blended {
		blend := key.blend
		target.Blend = &blend
	}

	desc := &hal.RenderPipelineDescriptor{
		Label:  key.program + "_pipeline",
		Layout: pipe.pipeLayout,
		Vertex: hal.VertexState{
			Module:     pipe.shader,
			EntryPoint: "vs_main",
			Buffers:    m.vertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     pipe.shader,
			EntryPoint: "fs_main",
			Targets:    []gputypes.ColorTargetState{target},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: key.samples,
			Mask:  0xFFFFFFFF,
		},
	}
	if key.depth {
		desc.DepthStencil = depthState(key.depthTest)
	}

	pipe.pipeline, err = c.device.CreateRenderPipeline(desc)
	if err != nil {
		pipe.destroy(c.device)
		return nil, fmt.Errorf("gpu: create %s pipeline: %w", key.program, err)
	}
	return pipe, nil
}

// depthState is a less-than test with depth writes when enabled, and a
// pass-through otherwise. Stencil is never used.
func depthState(test bool) *hal.DepthStencilState {
	keep := hal.StencilFaceState{
		Compare:     gputypes.CompareFunctionAlways,
		FailOp:      hal.StencilOperationKeep,
		DepthFailOp: hal.StencilOperationKeep,
		PassOp:      hal.StencilOperationKeep,
	}
	ds := &hal.DepthStencilState{
		Format:            gputypes.TextureFormatDepth24PlusStencil8,
		DepthWriteEnabled: false,
		DepthCompare:      gputypes.CompareFunctionAlways,
		StencilFront:      keep,
		StencilBack:       keep,
	}
	if test {
		ds.DepthWriteEnabled = true
		ds.DepthCompare = gputypes.CompareFunctionLess
	}
	return ds
}

func (c *pipelineCache) destroy() {
	for k, p := range c.pipelines {
		p.destroy(c.device)
		delete(c.pipelines, k)
	}
}
