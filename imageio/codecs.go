package imageio

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

// Plugin names.
const (
	PngImporter        = "PngImporter"
	PngImageConverter  = "PngImageConverter"
	BmpImporter        = "BmpImporter"
	BmpImageConverter  = "BmpImageConverter"
	TiffImporter       = "TiffImporter"
	TiffImageConverter = "TiffImageConverter"
	WebPImporter       = "WebPImporter"
	AnyImageImporter   = "AnyImageImporter"
)

func init() {
	RegisterImporter(PngImporter, func() Importer { return newSingleImporter(PngImporter, png.Decode) })
	RegisterImporter(BmpImporter, func() Importer { return newSingleImporter(BmpImporter, bmp.Decode) })
	RegisterImporter(TiffImporter, func() Importer { return newSingleImporter(TiffImporter, tiff.Decode) })
	RegisterImporter(WebPImporter, func() Importer { return newSingleImporter(WebPImporter, webp.Decode) })
	RegisterImporter(AnyImageImporter, func() Importer { return &anyImporter{} })

	RegisterConverter(PngImageConverter, func() Converter {
		return &encoder{name: PngImageConverter, ext: "png", encode: png.Encode}
	})
	RegisterConverter(BmpImageConverter, func() Converter {
		return &encoder{name: BmpImageConverter, ext: "bmp", encode: bmp.Encode}
	})
	RegisterConverter(TiffImageConverter, func() Converter {
		return &encoder{name: TiffImageConverter, ext: "tiff", encode: func(w io.Writer, img image.Image) error {
			return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
		}}
	})
}

type decodeFunc func(io.Reader) (image.Image, error)

// singleImporter decodes formats that hold exactly one image.
type singleImporter struct {
	name   string
	decode decodeFunc
	img    image.Image
}

func newSingleImporter(name string, decode decodeFunc) *singleImporter {
	return &singleImporter{name: name, decode: decode}
}

func (s *singleImporter) Name() string { return s.name }

func (s *singleImporter) OpenFile(path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		s.Close()
		return fmt.Errorf("imageio: %s: %w", s.name, err)
	}
	if err := s.OpenData(data); err != nil {
		return fmt.Errorf("%w (%s)", err, path)
	}
	return nil
}

func (s *singleImporter) OpenData(data []byte) error {
	s.Close()
	img, err := s.decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("imageio: %s: decode: %w", s.name, err)
	}
	s.img = img
	return nil
}

func (s *singleImporter) IsOpened() bool { return s.img != nil }

func (s *singleImporter) Image2DCount() int {
	if s.img == nil {
		return 0
	}
	return 1
}

func (s *singleImporter) Image2D(id int) (image.Image, error) {
	if s.img == nil {
		return nil, ErrNotOpened
	}
	if id != 0 {
		return nil, fmt.Errorf("%w: %d of 1", ErrImageIndex, id)
	}
	return s.img, nil
}

func (s *singleImporter) Close() { s.img = nil }

// encoder wraps a stdlib-style encode function.
type encoder struct {
	name   string
	ext    string
	encode func(io.Writer, image.Image) error
}

func (e *encoder) Name() string      { return e.name }
func (e *encoder) Extension() string { return e.ext }

func (e *encoder) ExportToData(img image.Image) ([]byte, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, ErrEmptyImage
	}
	var buf bytes.Buffer
	if err := e.encode(&buf, img); err != nil {
		return nil, fmt.Errorf("imageio: %s: encode: %w", e.name, err)
	}
	return buf.Bytes(), nil
}

func (e *encoder) ExportToFile(img image.Image, path string) error {
	data, err := e.ExportToData(img)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // output images are world-readable
		return fmt.Errorf("imageio: %s: %w", e.name, err)
	}
	return nil
}
