package logger

import (
	"context"
	"log/slog"
	"runtime"
)

type sourceThresholdHandler struct {
	next slog.Handler
	from slog.Level
}

// NewSourceThresholdHandler wraps next so that records at or above from carry a
// source attribute. The wrapped handler must not set AddSource itself.
func NewSourceThresholdHandler(next slog.Handler, from slog.Level) slog.Handler {
	return &sourceThresholdHandler{next: next, from: from}
}

func (h *sourceThresholdHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= h.from {
		// skip runtime.Callers, Handle and the slog frame
		var pcs [1]uintptr
		runtime.Callers(3, pcs[:])
		f, _ := runtime.CallersFrames(pcs[:]).Next()
		r.AddAttrs(slog.Any(slog.SourceKey, &slog.Source{
			Function: f.Function,
			File:     f.File,
			Line:     f.Line,
		}))
	}
	return h.next.Handle(ctx, r)
}

func (h *sourceThresholdHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &sourceThresholdHandler{next: h.next.WithAttrs(attrs), from: h.from}
}

func (h *sourceThresholdHandler) WithGroup(name string) slog.Handler {
	return &sourceThresholdHandler{next: h.next.WithGroup(name), from: h.from}
}

func (h *sourceThresholdHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}
