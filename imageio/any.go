package imageio

import (
	"fmt"
	"image"
	"os"

	"github.com/h2non/filetype"
)

// sniffedImporters maps filetype extensions to importer names.
var sniffedImporters = map[string]string{
	"png":  PngImporter,
	"bmp":  BmpImporter,
	"tif":  TiffImporter,
	"webp": WebPImporter,
}

// anyImporter detects the format from the file contents and delegates to
// the matching registered importer.
type anyImporter struct {
	delegate Importer
}

func (a *anyImporter) Name() string { return AnyImageImporter }

func (a *anyImporter) OpenFile(path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		a.Close()
		return fmt.Errorf("imageio: %s: %w", AnyImageImporter, err)
	}
	if err := a.OpenData(data); err != nil {
		return fmt.Errorf("%w (%s)", err, path)
	}
	return nil
}

func (a *anyImporter) OpenData(data []byte) error {
	a.Close()
	kind, err := filetype.Match(data)
	if err != nil {
		return fmt.Errorf("imageio: %s: %w", AnyImageImporter, err)
	}
	name, ok := sniffedImporters[kind.Extension]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownFormat, kind.MIME.Value)
	}
	delegate, err := LoadImporter(name)
	if err != nil {
		return err
	}
	if err := delegate.OpenData(data); err != nil {
		return err
	}
	a.delegate = delegate
	return nil
}

func (a *anyImporter) IsOpened() bool { return a.delegate != nil && a.delegate.IsOpened() }

func (a *anyImporter) Image2DCount() int {
	if a.delegate == nil {
		return 0
	}
	return a.delegate.Image2DCount()
}

func (a *anyImporter) Image2D(id int) (image.Image, error) {
	if a.delegate == nil {
		return nil, ErrNotOpened
	}
	return a.delegate.Image2D(id)
}

func (a *anyImporter) Close() {
	if a.delegate != nil {
		a.delegate.Close()
		a.delegate = nil
	}
}

// Detected returns the name of the importer the opened file was
// delegated to, or "" when nothing is open.
func (a *anyImporter) Detected() string {
	if a.delegate == nil {
		return ""
	}
	return a.delegate.Name()
}
