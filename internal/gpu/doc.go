//go:build !nogpu

// Package gpu implements render.Device on top of the wgpu HAL.
//
// A Device either opens its own headless Vulkan adapter or borrows the
// device and queue of a host application through SetDeviceProvider.
// Framebuffers are RGBA8Unorm color textures with an optional
// Depth24PlusStencil8 attachment; multisampled framebuffers are resolved
// by a render pass and read back through a staging buffer.
//
// Every command is encoded into its own command buffer and waited on
// before the call returns, so the device behaves like an immediate-mode
// context. That is slow but matches the one-shot nature of offline image
// generation.
//
// WebGPU only guarantees 1 and 4 samples per pixel, so Capabilities
// reports 4 as the maximum.
package gpu
