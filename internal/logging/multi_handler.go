package logging

import (
	"context"
	"log/slog"
)

// MultiHandler fans each record out to every sink, so the console view
// and a persistent log file can record the same run.
type MultiHandler struct {
	sinks []slog.Handler
}

// NewMultiHandler builds a handler that forwards to every given sink.
func NewMultiHandler(sinks ...slog.Handler) *MultiHandler {
	return &MultiHandler{sinks: sinks}
}

// Enabled reports whether any sink accepts the level.
func (h *MultiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, s := range h.sinks {
		if s.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle forwards the record to every sink that accepts its level. All
// sinks are attempted; the first failure is returned.
func (h *MultiHandler) Handle(ctx context.Context, r slog.Record) error {
	var firstErr error
	for _, s := range h.sinks {
		if !s.Enabled(ctx, r.Level) {
			continue
		}
		if err := s.Handle(ctx, r); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// WithAttrs applies the attributes to every sink.
func (h *MultiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	sinks := make([]slog.Handler, len(h.sinks))
	for i, s := range h.sinks {
		sinks[i] = s.WithAttrs(attrs)
	}
	return NewMultiHandler(sinks...)
}

// WithGroup applies the group to every sink.
func (h *MultiHandler) WithGroup(name string) slog.Handler {
	sinks := make([]slog.Handler, len(h.sinks))
	for i, s := range h.sinks {
		sinks[i] = s.WithGroup(name)
	}
	return NewMultiHandler(sinks...)
}
