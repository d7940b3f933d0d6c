// Package visualizer renders the shader documentation images.
//
// A Driver opens a windowless render context, allocates a 256×256
// multisampled color and depth target plus a resolve target, and then
// runs each Recipe in a fixed order:
//
//  1. clear color and depth of the multisampled target
//  2. build the mesh, shader and material state and issue one draw call
//  3. resolve into the single-sampled target
//  4. read the pixels back and export them with the image converter
//
// The images land in ../shaders-<name>.png. The two vector scenes read
// vector.png and vector-distancefield.png from the working directory; when
// one is missing the scene is logged and skipped and the batch goes on.
//
// Typical use:
//
//	d, err := visualizer.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer d.Close()
//	report, err := d.Run()
package visualizer
