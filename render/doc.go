// Package render provides windowless rendering devices and the state
// machine the documentation scenes are drawn through.
//
// # Overview
//
// A [Device] owns offscreen framebuffers, meshes and textures and executes
// draw calls with an explicit [State]. A [Context] wraps a device with the
// mutable render state (depth test, blending, clear color) and turns it
// into a State for each draw.
//
// # Devices
//
// Devices are opened by name through a registry in the style of
// database/sql drivers. The built-in "software" device is always
// available: a deterministic CPU rasterizer with up to 16 samples per
// pixel. Importing github.com/gogpu/shaderviz/gpu registers a "gpu" device
// backed by wgpu/hal that [OpenWindowless] prefers when it can be opened.
//
// # Conventions
//
// Framebuffer and image rows are top-down: row 0 is the top of the image
// and corresponds to normalized device Y = +1. Depth is cleared to 1 and
// tested with less-than.
package render
