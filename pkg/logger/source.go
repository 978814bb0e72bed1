package logger

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"

	"github.com/google/uuid"
)

// customSourceHandler decorates records with a trimmed source attribute.
// The skip offset is added on top of the frames slog itself introduces.
type customSourceHandler struct {
	inner slog.Handler
	skip  int
}

func newCustomSourceHandler(inner slog.Handler, skip int) slog.Handler {
	return &customSourceHandler{inner: inner, skip: skip}
}

func (h *customSourceHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *customSourceHandler) Handle(ctx context.Context, record slog.Record) error {
	if record.PC != 0 {
		frames := runtime.CallersFrames([]uintptr{record.PC})
		frame, _ := frames.Next()
		if frame.File != "" {
			record.AddAttrs(slog.String("source", fmt.Sprintf("%s:%d", filepath.Base(frame.File), frame.Line)))
		}
	}
	return h.inner.Handle(ctx, record)
}

func (h *customSourceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &customSourceHandler{inner: h.inner.WithAttrs(attrs), skip: h.skip}
}

func (h *customSourceHandler) WithGroup(name string) slog.Handler {
	return &customSourceHandler{inner: h.inner.WithGroup(name), skip: h.skip}
}

// generateRequestID produces an ID for requests that arrive without one
func generateRequestID() string {
	return uuid.New().String()
}
