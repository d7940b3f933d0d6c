package visualizer

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/gogpu/shaderviz"
	"github.com/gogpu/shaderviz/imageio"
	"github.com/gogpu/shaderviz/render"
)

var (
	// ErrPlugin is returned by New when an image plugin cannot be loaded.
	ErrPlugin = errors.New("visualizer: cannot load image plugin")

	// ErrNoContext is returned by New when no windowless context can be
	// created.
	ErrNoContext = errors.New("visualizer: cannot create windowless context")
)

// Driver renders recipes offscreen and writes them as image files.
//
// The driver owns a multisampled color and depth target plus a
// single-sampled resolve target, and reuses them for every scene. It is
// not safe for concurrent use.
type Driver struct {
	cfg     Config
	log     *slog.Logger
	recipes []Recipe
	consts  Constants

	ctx       *render.Context
	converter imageio.Converter
	importer  imageio.Importer

	multisample render.Framebuffer
	resolve     render.Framebuffer
}

// New loads the image plugins, opens a windowless context and allocates
// the render targets. Plugin and context failures are returned wrapped
// in ErrPlugin and ErrNoContext; an incomplete render target panics.
func New(opts ...Option) (*Driver, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	log := o.logger
	if log == nil {
		log = shaderviz.Logger()
	}
	d := &Driver{cfg: o.cfg, log: log, recipes: o.recipes, consts: DefaultConstants(), ctx: o.context}

	converter, err := imageio.LoadConverter(d.cfg.Converter)
	if err != nil {
		d.closeContext()
		log.Error("Cannot load image converter plugin", "err", err)
		return nil, fmt.Errorf("%w: %w", ErrPlugin, err)
	}
	d.converter = converter

	if d.ctx == nil {
		d.ctx, err = render.OpenWindowless(d.cfg.Providers...)
		if err != nil {
			log.Error("Cannot create windowless context", "err", err)
			return nil, fmt.Errorf("%w: %w", ErrNoContext, err)
		}
	}

	importer, err := imageio.LoadImporter(d.cfg.Importer)
	if err != nil {
		d.closeContext()
		log.Error("Cannot load image importer plugin", "err", err)
		return nil, fmt.Errorf("%w: %w", ErrPlugin, err)
	}
	d.importer = importer

	if err := d.createTargets(); err != nil {
		d.closeContext()
		return nil, err
	}

	d.ctx.Enable(render.DepthTest)
	d.ctx.SetClearColor(d.cfg.ClearColor)
	return d, nil
}

func (d *Driver) createTargets() error {
	dev := d.ctx.Device()
	samples := d.cfg.Samples
	if caps := dev.Capabilities(); samples > caps.MaxSamples {
		d.log.Warn("sample count clamped", "requested", samples, "max", caps.MaxSamples, "device", dev.Name())
		samples = caps.MaxSamples
	}

	var err error
	d.multisample, err = dev.CreateFramebuffer(render.FramebufferDescriptor{
		Label:   "multisample",
		Width:   d.cfg.Size,
		Height:  d.cfg.Size,
		Samples: samples,
		Depth:   true,
	})
	if err != nil {
		return err
	}
	mustBeComplete(d.multisample)

	d.resolve, err = dev.CreateFramebuffer(render.FramebufferDescriptor{
		Label:  "resolve",
		Width:  d.cfg.Size,
		Height: d.cfg.Size,
	})
	if err != nil {
		d.multisample.Destroy()
		return err
	}
	mustBeComplete(d.resolve)

	d.log.Debug("render targets created", "size", d.cfg.Size, "samples", d.multisample.Samples())
	return nil
}

func mustBeComplete(fb render.Framebuffer) {
	if s := fb.Status(); s != render.FramebufferComplete {
		panic(&render.StatusError{Status: s})
	}
}

// Context returns the render context the driver draws with.
func (d *Driver) Context() *render.Context { return d.ctx }

// Samples returns the sample count of the multisampled target after
// clamping to the device.
func (d *Driver) Samples() int { return d.multisample.Samples() }

// Run renders every recipe in order. A scene whose texture cannot be
// loaded is logged, listed in the report as skipped and produces no
// file. Any other failure stops the batch.
func (d *Driver) Run() (*Report, error) {
	report := &Report{}
	for _, r := range d.recipes {
		path, err := d.renderScene(r)
		switch {
		case errors.Is(err, ErrTexture):
			d.log.Error("scene skipped", "scene", r.Name, "err", err)
			report.Skipped = append(report.Skipped, Skipped{Name: r.Name, Err: err})
		case err != nil:
			return report, fmt.Errorf("visualizer: scene %s: %w", r.Name, err)
		default:
			d.log.Info("image written", "scene", r.Name, "path", path)
			report.Written = append(report.Written, Written{Name: r.Name, Path: path})
		}
	}
	return report, nil
}

// OutputPath returns the file a recipe with the given name is written to.
func (d *Driver) OutputPath(name string) string {
	return filepath.Join(d.cfg.OutputDir, d.cfg.Prefix+name+"."+d.converter.Extension())
}

// renderScene runs clear, draw, resolve, read back and export for one
// recipe and returns the written path.
func (d *Driver) renderScene(r Recipe) (string, error) {
	if err := d.ctx.Clear(d.multisample, render.ClearColor|render.ClearDepth); err != nil {
		return "", err
	}

	scene := &Scene{
		ctx:      d.ctx,
		target:   d.multisample,
		importer: d.importer,
		inputDir: d.cfg.InputDir,
		size:     d.cfg.Size,
		consts:   &d.consts,
	}
	err := func() error {
		defer scene.close()
		return r.Draw(scene)
	}()
	if err != nil {
		return "", err
	}

	if err := d.ctx.Blit(d.multisample, d.resolve); err != nil {
		return "", err
	}
	img, err := d.ctx.Read(d.resolve)
	if err != nil {
		return "", err
	}
	d.log.Debug("scene rendered", "scene", r.Name, "device", d.ctx.Device().Name())

	path := d.OutputPath(r.Name)
	if err := d.converter.ExportToFile(img, path); err != nil {
		return "", err
	}
	return path, nil
}

// Close releases the importer, the render targets and the context.
func (d *Driver) Close() error {
	if d.importer != nil {
		d.importer.Close()
		d.importer = nil
	}
	if d.resolve != nil {
		d.resolve.Destroy()
		d.resolve = nil
	}
	if d.multisample != nil {
		d.multisample.Destroy()
		d.multisample = nil
	}
	return d.closeContext()
}

func (d *Driver) closeContext() error {
	if d.ctx == nil {
		return nil
	}
	err := d.ctx.Close()
	d.ctx = nil
	return err
}
