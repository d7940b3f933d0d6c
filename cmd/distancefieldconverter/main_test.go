package main

import (
	"image"
	"testing"

	"github.com/gogpu/shaderviz/imageio"
)

func TestParseSize(t *testing.T) {
	tests := []struct {
		in      string
		want    image.Point
		wantErr bool
	}{
		{"256x256", image.Pt(256, 256), false},
		{"64x32", image.Pt(64, 32), false},
		{"256", image.Point{}, true},
		{"wide", image.Point{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseSize(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseSize(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("parseSize(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestConverterFor(t *testing.T) {
	tests := map[string]string{
		"out.png":  imageio.PngImageConverter,
		"out.bmp":  imageio.BmpImageConverter,
		"out.tif":  imageio.TiffImageConverter,
		"out.tiff": imageio.TiffImageConverter,
		"out":      imageio.PngImageConverter,
	}
	for path, want := range tests {
		if got := converterFor(path); got != want {
			t.Errorf("converterFor(%q) = %q, want %q", path, got, want)
		}
	}
}
