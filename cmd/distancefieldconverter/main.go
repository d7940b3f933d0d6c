// Command distancefieldconverter turns a high-resolution black and white
// image into a signed distance field texture.
//
//	distancefieldconverter -size 256x256 -radius 16 vector.png vector-distancefield.png
package main

import (
	"flag"
	"fmt"
	"image"
	"log"
	"os"
	"strings"

	"github.com/gogpu/shaderviz/imageio"
	"github.com/gogpu/shaderviz/texturetools"
)

func main() {
	var (
		size     = flag.String("size", "256x256", "output size, WIDTHxHEIGHT")
		radius   = flag.Int("radius", 16, "search radius in input pixels")
		importer = flag.String("importer", imageio.AnyImageImporter, "importer plugin")
		conv     = flag.String("converter", "", "converter plugin (default: by output extension)")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] input output\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(2)
	}
	input, output := flag.Arg(0), flag.Arg(1)

	outSize, err := parseSize(*size)
	if err != nil {
		log.Fatal(err)
	}

	imp, err := imageio.LoadImporter(*importer)
	if err != nil {
		log.Fatalf("Cannot load importer plugin: %v", err)
	}
	defer imp.Close()
	if err := imp.OpenFile(input); err != nil {
		log.Fatalf("Cannot open %s: %v", input, err)
	}
	src, err := imp.Image2D(0)
	if err != nil {
		log.Fatalf("Cannot read %s: %v", input, err)
	}

	name := *conv
	if name == "" {
		name = converterFor(output)
	}
	converter, err := imageio.LoadConverter(name)
	if err != nil {
		log.Fatalf("Cannot load converter plugin: %v", err)
	}

	field, err := texturetools.DistanceField(src, outSize, *radius)
	if err != nil {
		log.Fatal(err)
	}
	if err := converter.ExportToFile(field, output); err != nil {
		log.Fatalf("Cannot save %s: %v", output, err)
	}
	log.Printf("Distance field saved to %s (%dx%d, radius %d)\n", output, outSize.X, outSize.Y, *radius)
}

func parseSize(s string) (image.Point, error) {
	var p image.Point
	if _, err := fmt.Sscanf(s, "%dx%d", &p.X, &p.Y); err != nil {
		return p, fmt.Errorf("invalid size %q: %w", s, err)
	}
	return p, nil
}

func converterFor(path string) string {
	switch {
	case strings.HasSuffix(path, ".bmp"):
		return imageio.BmpImageConverter
	case strings.HasSuffix(path, ".tif"), strings.HasSuffix(path, ".tiff"):
		return imageio.TiffImageConverter
	default:
		return imageio.PngImageConverter
	}
}
