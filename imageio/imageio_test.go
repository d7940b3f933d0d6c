package imageio

import (
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	img.SetNRGBA(2, 1, color.NRGBA{B: 255, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{G: 200, A: 255})
	return img
}

func TestRegistry(t *testing.T) {
	for _, name := range []string{PngImporter, BmpImporter, TiffImporter, WebPImporter, AnyImageImporter} {
		imp, err := LoadImporter(name)
		require.NoError(t, err, name)
		assert.Equal(t, name, imp.Name())
		assert.False(t, imp.IsOpened())
	}
	for _, name := range []string{PngImageConverter, BmpImageConverter, TiffImageConverter} {
		conv, err := LoadConverter(name)
		require.NoError(t, err, name)
		assert.Equal(t, name, conv.Name())
	}

	assert.Contains(t, Importers(), PngImporter)
	assert.Contains(t, Converters(), PngImageConverter)
}

func TestRegistryUnknown(t *testing.T) {
	_, err := LoadImporter("JpegImporter")
	assert.ErrorContains(t, err, "forgotten import")
	_, err = LoadConverter("JpegImageConverter")
	assert.ErrorContains(t, err, "forgotten import")
}

func TestRegisterPanics(t *testing.T) {
	assert.Panics(t, func() { RegisterImporter(PngImporter, func() Importer { return nil }) })
	assert.Panics(t, func() { RegisterConverter("NilConverter", nil) })

	RegisterImporter("TestImporter", func() Importer { return newSingleImporter("TestImporter", nil) })
	defer UnregisterImporter("TestImporter")
	assert.Contains(t, Importers(), "TestImporter")
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		converter, importer string
	}{
		{PngImageConverter, PngImporter},
		{BmpImageConverter, BmpImporter},
		{TiffImageConverter, TiffImporter},
		{PngImageConverter, AnyImageImporter},
		{BmpImageConverter, AnyImageImporter},
		{TiffImageConverter, AnyImageImporter},
	}
	for _, tt := range tests {
		t.Run(tt.converter+"/"+tt.importer, func(t *testing.T) {
			conv, err := LoadConverter(tt.converter)
			require.NoError(t, err)
			path := filepath.Join(t.TempDir(), "out."+conv.Extension())
			require.NoError(t, conv.ExportToFile(testImage(), path))

			imp, err := LoadImporter(tt.importer)
			require.NoError(t, err)
			defer imp.Close()
			require.NoError(t, imp.OpenFile(path))
			assert.Equal(t, 1, imp.Image2DCount())

			img, err := imp.Image2D(0)
			require.NoError(t, err)
			assert.Equal(t, image.Rect(0, 0, 3, 2), img.Bounds())
			r, g, b, a := img.At(1, 0).RGBA()
			assert.Equal(t, [4]uint32{0, 200 * 0x101, 0, 0xffff}, [4]uint32{r, g, b, a})
		})
	}
}

func TestAnyImporterDetected(t *testing.T) {
	conv, _ := LoadConverter(PngImageConverter)
	data, err := conv.ExportToData(testImage())
	require.NoError(t, err)

	imp, _ := LoadImporter(AnyImageImporter)
	require.NoError(t, imp.OpenData(data))
	assert.Equal(t, PngImporter, imp.(*anyImporter).Detected())

	imp.Close()
	assert.False(t, imp.IsOpened())
	assert.Equal(t, "", imp.(*anyImporter).Detected())
}

func TestAnyImporterUnknown(t *testing.T) {
	imp, _ := LoadImporter(AnyImageImporter)
	err := imp.OpenData([]byte("definitely not an image"))
	assert.True(t, errors.Is(err, ErrUnknownFormat), "got %v", err)
	assert.False(t, imp.IsOpened())
}

func TestImporterErrors(t *testing.T) {
	imp, _ := LoadImporter(PngImporter)

	_, err := imp.Image2D(0)
	assert.ErrorIs(t, err, ErrNotOpened)

	err = imp.OpenFile(filepath.Join(t.TempDir(), "missing.png"))
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.False(t, imp.IsOpened())

	corrupt := filepath.Join(t.TempDir(), "corrupt.png")
	require.NoError(t, os.WriteFile(corrupt, []byte("\x89PNG\r\n\x1a\ngarbage"), 0o600))
	err = imp.OpenFile(corrupt)
	assert.ErrorContains(t, err, "decode")
	assert.ErrorContains(t, err, "corrupt.png")

	conv, _ := LoadConverter(PngImageConverter)
	require.NoError(t, imp.OpenData(mustPNG(t, conv)))
	_, err = imp.Image2D(1)
	assert.ErrorIs(t, err, ErrImageIndex)
}

func TestExportEmpty(t *testing.T) {
	conv, _ := LoadConverter(PngImageConverter)
	_, err := conv.ExportToData(image.NewNRGBA(image.Rect(0, 0, 0, 0)))
	assert.ErrorIs(t, err, ErrEmptyImage)
}

// TestPngPreservesBytes checks that NRGBA pixels survive encoding
// unchanged, including translucent ones.
func TestPngPreservesBytes(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	copy(img.Pix, []byte{10, 20, 30, 40, 255, 0, 128, 255})

	conv, _ := LoadConverter(PngImageConverter)
	imp, _ := LoadImporter(PngImporter)
	require.NoError(t, imp.OpenData(mustPNG(t, conv, img)))
	got, err := imp.Image2D(0)
	require.NoError(t, err)
	n, ok := got.(*image.NRGBA)
	require.True(t, ok, "decoded %T", got)
	assert.Equal(t, img.Pix, n.Pix)
}

func mustPNG(t *testing.T, conv Converter, imgs ...image.Image) []byte {
	t.Helper()
	var img image.Image = testImage()
	if len(imgs) > 0 {
		img = imgs[0]
	}
	data, err := conv.ExportToData(img)
	require.NoError(t, err)
	return data
}
