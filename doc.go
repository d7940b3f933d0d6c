// Package shaderviz generates the reference images used in the shader
// documentation.
//
// # Overview
//
// The generator renders a fixed batch of six scenes, one per built-in
// shader, into a 256×256 multisampled offscreen target. Each scene is
// resolved to a single-sampled target, read back as RGBA8 and written as
// a PNG next to the documentation sources:
//
//	../shaders-phong.png
//	../shaders-meshvisualizer.png
//	../shaders-flat.png
//	../shaders-vertexcolor.png
//	../shaders-vector.png
//	../shaders-distancefieldvector.png
//
// # Architecture
//
// The module is organized into:
//   - Root: shared colors and the package-wide logger
//   - mesh, primitives: vertex data and the sphere/square generators
//   - shaders: the six shader programs (WGSL source plus a CPU evaluation)
//   - render: windowless device abstraction and the software rasterizer
//   - gpu: opt-in wgpu/hal device (import for side effects)
//   - imageio: importer and converter plugins looked up by name
//   - texturetools: distance field generation for vector textures
//   - visualizer: the batch driver behind cmd/shaderviz
//
// # Logging
//
// Nothing is logged by default. Call [SetLogger] to route the log records
// of every sub-package to a [log/slog] handler.
package shaderviz
