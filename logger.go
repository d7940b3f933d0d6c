package shaderviz

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip message formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for shaderviz and all its sub-packages.
// By default nothing is logged. Pass nil to restore the silent default.
//
// Log levels used by shaderviz:
//   - [slog.LevelDebug]: device details (adapter, pipeline and buffer sizes)
//   - [slog.LevelInfo]: lifecycle events (device selected, image written)
//   - [slog.LevelWarn]: fallbacks (GPU unavailable, sample count clamped)
//   - [slog.LevelError]: a scene that could not be rendered
//
// Example:
//
//	shaderviz.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger. Sub-packages call this to share the
// same configuration without import cycles.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
