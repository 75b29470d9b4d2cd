package life

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// The Enabled method returns false so the caller skips message
// formatting entirely, making disabled logging effectively zero-cost.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// newNopLogger creates a logger that silently discards all output.
func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	l := newNopLogger()
	loggerPtr.Store(l)
}

// SetLogger configures the logger for life and its sub-packages.
// By default no log output is produced. Pass nil to restore the
// default silent behavior.
//
// Log levels used:
//   - [slog.LevelDebug]: internal diagnostics (table sizes, dispatch counts)
//   - [slog.LevelInfo]: lifecycle events (GPU adapter selected)
//   - [slog.LevelWarn]: non-fatal issues (CPU fallback, release errors)
//
// Example:
//
//	life.SetLogger(slog.Default())
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)

	// Propagate to every attached accelerator that accepts a logger.
	settersMu.Lock()
	defer settersMu.Unlock()
	for ls := range setters {
		ls.SetLogger(l)
	}
}

// Logger returns the current logger. Sub-packages call this to share
// the same logger configuration without introducing import cycles.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// loggerSetter is implemented by accelerators that accept a logger.
type loggerSetter interface {
	SetLogger(*slog.Logger)
}

// setters tracks attached accelerators so SetLogger can reach them
// after attachment, not just at attach time.
var (
	settersMu sync.Mutex
	setters   = make(map[loggerSetter]struct{})
)

// propagateLogger passes the current logger to an accelerator if it
// implements the loggerSetter interface, and registers it so later
// SetLogger calls reach it too. Called when an accelerator is attached
// to an Engine.
func propagateLogger(a Accelerator) {
	ls, ok := a.(loggerSetter)
	if !ok {
		return
	}
	settersMu.Lock()
	setters[ls] = struct{}{}
	settersMu.Unlock()
	ls.SetLogger(Logger())
}

// releaseLogger drops an accelerator from the propagation registry.
// Called when the Engine releases the accelerator.
func releaseLogger(a Accelerator) {
	if ls, ok := a.(loggerSetter); ok {
		settersMu.Lock()
		delete(setters, ls)
		settersMu.Unlock()
	}
}
