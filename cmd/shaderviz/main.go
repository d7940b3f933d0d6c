// Command shaderviz renders the shader documentation images.
//
// It is run from the documentation source directory: textures are read
// from the working directory and the images are written to the parent
// directory as shaders-<name>.png.
package main

import (
	"log/slog"
	"os"

	"github.com/gogpu/shaderviz"
	_ "github.com/gogpu/shaderviz/gpu" // registers the GPU device
	"github.com/gogpu/shaderviz/visualizer"
)

func main() {
	os.Exit(run())
}

func run() int {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	shaderviz.SetLogger(logger)

	d, err := visualizer.New(visualizer.WithLogger(logger))
	if err != nil {
		// New already logged the cause.
		return 1
	}
	defer d.Close()

	report, err := d.Run()
	if err != nil {
		logger.Error("rendering failed", "err", err)
		return 1
	}
	logger.Info("done", "written", len(report.Written), "skipped", len(report.Skipped))
	return 0
}
