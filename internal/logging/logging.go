// Package logging provides the debug-gated slog handler shared by every
// long-lived component.
package logging

import (
	"context"
	"log/slog"
	"os"
)

// DebugEnabledFunc reports whether debug logging is enabled. It is a
// function, not a bool, so that a component checks the current setting at
// log time rather than at logger-construction time.
type DebugEnabledFunc func() bool

// debugGateHandler suppresses LevelDebug records unless debugEnabled
// reports true; every other level always passes through.
type debugGateHandler struct {
	handler      slog.Handler
	debugEnabled DebugEnabledFunc
}

func (h *debugGateHandler) Enabled(_ context.Context, level slog.Level) bool {
	if level == slog.LevelDebug {
		if h.debugEnabled == nil {
			return false
		}
		return h.debugEnabled()
	}
	return true
}

func (h *debugGateHandler) Handle(ctx context.Context, r slog.Record) error {
	return h.handler.Handle(ctx, r)
}

func (h *debugGateHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &debugGateHandler{handler: h.handler.WithAttrs(attrs), debugEnabled: h.debugEnabled}
}

func (h *debugGateHandler) WithGroup(name string) slog.Handler {
	return &debugGateHandler{handler: h.handler.WithGroup(name), debugEnabled: h.debugEnabled}
}

// NewHandler builds a text handler writing to stderr whose debug records
// are gated by debugEnabled.
func NewHandler(debugEnabled DebugEnabledFunc) slog.Handler {
	base := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
	return &debugGateHandler{handler: base, debugEnabled: debugEnabled}
}

// LogHolder is embedded by components that log, giving them a Logger()
// accessor and a SetLogger override point without forcing every
// constructor to take a *slog.Logger parameter.
type LogHolder struct {
	handler slog.Handler
}

// SetLogger overrides the handler backing Logger().
func (h *LogHolder) SetLogger(handler slog.Handler) {
	h.handler = handler
}

// Logger returns the component's logger, defaulting to slog.Default() if
// SetLogger was never called.
func (h *LogHolder) Logger() *slog.Logger {
	if h.handler == nil {
		return slog.Default()
	}
	return slog.New(h.handler)
}
