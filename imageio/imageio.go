// Package imageio is a small plugin registry for image importers and
// converters.
//
// Plugins are looked up by name, the way the documentation tools ask for
// "PngImporter" or "PngImageConverter". The built-in plugins cover PNG,
// BMP, TIFF and WebP, plus AnyImageImporter, which sniffs the file
// contents and delegates to the matching importer.
//
//	importer, err := imageio.LoadImporter("PngImporter")
//	if err != nil {
//	    // plugin not registered
//	}
//	defer importer.Close()
//	if err := importer.OpenFile("vector.png"); err != nil {
//	    // missing or corrupt file
//	}
//	img, err := importer.Image2D(0)
package imageio

import (
	"errors"
	"image"
)

var (
	// ErrNotOpened is returned when reading from an importer with no file open.
	ErrNotOpened = errors.New("imageio: no file opened")

	// ErrImageIndex is returned for an image index outside the opened file.
	ErrImageIndex = errors.New("imageio: image index out of range")

	// ErrUnknownFormat is returned when content sniffing finds no importer.
	ErrUnknownFormat = errors.New("imageio: unknown image format")

	// ErrEmptyImage is returned when exporting an image with no pixels.
	ErrEmptyImage = errors.New("imageio: empty image")
)

// Importer decodes images from files or memory.
//
// An importer holds at most one opened file. Opening another file
// replaces it; a failed open leaves the importer closed.
type Importer interface {
	// Name returns the registry name of the plugin.
	Name() string

	// OpenFile reads and decodes the file at path.
	OpenFile(path string) error

	// OpenData decodes an in-memory file.
	OpenData(data []byte) error

	// IsOpened reports whether a file is open.
	IsOpened() bool

	// Image2DCount returns the number of 2D images in the opened file.
	Image2DCount() int

	// Image2D returns the image with the given index.
	Image2D(id int) (image.Image, error)

	// Close releases the opened file. Closing a closed importer is a no-op.
	Close()
}

// Converter encodes images.
type Converter interface {
	// Name returns the registry name of the plugin.
	Name() string

	// Extension is the conventional file extension, without the dot.
	Extension() string

	// ExportToData encodes img into memory.
	ExportToData(img image.Image) ([]byte, error)

	// ExportToFile encodes img and writes it to path, replacing any
	// existing file.
	ExportToFile(img image.Image, path string) error
}
