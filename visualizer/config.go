package visualizer

import (
	"log/slog"

	"github.com/gogpu/shaderviz"
	"github.com/gogpu/shaderviz/imageio"
	"github.com/gogpu/shaderviz/render"
)

// Config controls a Driver.
type Config struct {
	// Size is the width and height of every image.
	Size int

	// Samples is the requested sample count of the render target. Devices
	// that support fewer samples are clamped with a warning.
	Samples int

	// OutputDir is where images are written, InputDir where textures are
	// read from. Both are relative to the working directory.
	OutputDir string
	InputDir  string

	// Prefix is prepended to every output file name.
	Prefix string

	// Importer and Converter name the imageio plugins.
	Importer  string
	Converter string

	// Providers restricts and orders the windowless device providers.
	// Empty means every registered provider in priority order.
	Providers []string

	ClearColor shaderviz.Color
}

// DefaultConfig returns the configuration the documentation images are
// generated with.
func DefaultConfig() Config {
	return Config{
		Size:       ImageSize,
		Samples:    16,
		OutputDir:  "..",
		InputDir:   ".",
		Prefix:     "shaders-",
		Importer:   imageio.PngImporter,
		Converter:  imageio.PngImageConverter,
		ClearColor: shaderviz.Black,
	}
}

// Option configures a Driver during creation.
//
// Example:
//
//	d, err := visualizer.New(
//	    visualizer.WithOutputDir("out"),
//	    visualizer.WithProviders("software"),
//	)
type Option func(*options)

type options struct {
	cfg     Config
	logger  *slog.Logger
	context *render.Context
	recipes []Recipe
}

func defaultOptions() options {
	return options{
		cfg:     DefaultConfig(),
		recipes: Recipes(),
	}
}

// WithConfig replaces the whole configuration.
func WithConfig(cfg Config) Option {
	return func(o *options) { o.cfg = cfg }
}

// WithOutputDir sets the directory images are written to.
func WithOutputDir(dir string) Option {
	return func(o *options) { o.cfg.OutputDir = dir }
}

// WithInputDir sets the directory textures are loaded from.
func WithInputDir(dir string) Option {
	return func(o *options) { o.cfg.InputDir = dir }
}

// WithSize sets the image size.
func WithSize(size int) Option {
	return func(o *options) { o.cfg.Size = size }
}

// WithSamples sets the requested sample count.
func WithSamples(n int) Option {
	return func(o *options) { o.cfg.Samples = n }
}

// WithProviders restricts device selection to the named providers.
func WithProviders(names ...string) Option {
	return func(o *options) { o.cfg.Providers = names }
}

// WithPlugins sets the importer and converter plugin names.
func WithPlugins(importer, converter string) Option {
	return func(o *options) {
		o.cfg.Importer = importer
		o.cfg.Converter = converter
	}
}

// WithLogger sets the logger. The default is shaderviz.Logger().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithContext renders with an already opened context instead of calling
// render.OpenWindowless. The driver takes ownership of it.
func WithContext(ctx *render.Context) Option {
	return func(o *options) { o.context = ctx }
}

// WithRecipes replaces the scene list.
func WithRecipes(recipes ...Recipe) Option {
	return func(o *options) { o.recipes = recipes }
}
