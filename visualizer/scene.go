package visualizer

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/shaderviz/imageio"
	"github.com/gogpu/shaderviz/mesh"
	"github.com/gogpu/shaderviz/render"
	"github.com/gogpu/shaderviz/shaders"
)

// ErrTexture is returned by Scene.LoadTexture when an input image is
// missing or cannot be decoded. The driver skips the scene instead of
// failing the batch.
var ErrTexture = errors.New("visualizer: cannot load texture")

// Scene is what a recipe draws with. Resources created through a Scene
// are released when the recipe returns.
type Scene struct {
	ctx      *render.Context
	target   render.Framebuffer
	importer imageio.Importer
	inputDir string
	size     int
	consts   *Constants

	release []func()
}

// Size returns the width and height of the image.
func (s *Scene) Size() int { return s.size }

// Constants returns a copy of the shared camera and palette.
func (s *Scene) Constants() Constants { return *s.consts }

// Context returns the render context.
func (s *Scene) Context() *render.Context { return s.ctx }

// Mesh interleaves the given attributes of d and uploads them.
func (s *Scene) Mesh(d *mesh.Data, attrs ...mesh.Attribute) (render.Mesh, error) {
	data, err := mesh.Interleave(d, attrs...)
	if err != nil {
		return nil, err
	}
	m, err := s.ctx.Device().CreateMesh(data)
	if err != nil {
		return nil, err
	}
	s.release = append(s.release, m.Destroy)
	return m, nil
}

// LoadTexture reads name from the input directory with the driver's
// importer and uploads it. Failures wrap ErrTexture.
func (s *Scene) LoadTexture(name string) (render.Texture, error) {
	path := filepath.Join(s.inputDir, name)
	if err := s.importer.OpenFile(path); err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrTexture, name, err)
	}
	img, err := s.importer.Image2D(0)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrTexture, name, err)
	}
	tex, err := s.ctx.Device().CreateTexture(img)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrTexture, name, err)
	}
	s.release = append(s.release, tex.Destroy)
	return tex, nil
}

// Draw issues one draw call with the current state.
func (s *Scene) Draw(p shaders.Program, m render.Mesh) error {
	return s.ctx.Draw(s.target, p, m)
}

// DrawBlended issues one draw call with premultiplied-over blending:
// source factor one, destination factor one minus source alpha, added
// for both color and alpha. Blending is off again when it returns.
func (s *Scene) DrawBlended(p shaders.Program, m render.Mesh) error {
	s.ctx.SetBlendFunction(gputypes.BlendFactorOne, gputypes.BlendFactorOneMinusSrcAlpha)
	s.ctx.SetBlendEquation(gputypes.BlendOperationAdd)
	return s.ctx.WithFeature(render.Blending, func() error {
		return s.Draw(p, m)
	})
}

// close releases resources in reverse creation order.
func (s *Scene) close() {
	for i := len(s.release) - 1; i >= 0; i-- {
		s.release[i]()
	}
	s.release = nil
}
