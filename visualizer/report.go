package visualizer

import (
	"fmt"
	"strings"
)

// Written is a scene whose image was exported.
type Written struct {
	Name string
	Path string
}

// Skipped is a scene that produced no image.
type Skipped struct {
	Name string
	Err  error
}

// Report lists the outcome of every scene of a Run.
type Report struct {
	Written []Written
	Skipped []Skipped
}

// Paths returns the written file paths in render order.
func (r *Report) Paths() []string {
	paths := make([]string, len(r.Written))
	for i, w := range r.Written {
		paths[i] = w.Path
	}
	return paths
}

// OK reports whether every scene was written.
func (r *Report) OK() bool { return len(r.Skipped) == 0 }

func (r *Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d written, %d skipped", len(r.Written), len(r.Skipped))
	for _, s := range r.Skipped {
		fmt.Fprintf(&b, "\n  %s: %v", s.Name, s.Err)
	}
	return b.String()
}
