// Package telemetry turns decoder events into structured logs and
// Prometheus metrics.
package telemetry

import (
	"context"
	"log/slog"

	pdf417go "github.com/ericlevine/pdf417go"
)

// SlogObserver writes every event to a slog.Logger. Decoded barcodes are
// logged at Info, everything else at Debug.
type SlogObserver struct {
	logger *slog.Logger
}

// NewSlogObserver returns an observer logging to logger, or to
// slog.Default() when logger is nil.
func NewSlogObserver(logger *slog.Logger) *SlogObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogObserver{logger: logger}
}

// Observe logs e.
func (o *SlogObserver) Observe(e pdf417go.Event) {
	level := slog.LevelDebug
	if e.Stage == pdf417go.StageResult && !e.Failed() {
		level = slog.LevelInfo
	}
	ctx := context.Background()
	if !o.logger.Enabled(ctx, level) {
		return
	}

	attrs := make([]slog.Attr, 0, len(e.Attrs)+3)
	attrs = append(attrs, slog.String("stage", string(e.Stage)), slog.Bool("failed", e.Failed()))
	if e.Failed() {
		attrs = append(attrs, slog.String("error", e.Err.Error()))
	}
	attrs = append(attrs, e.Attrs...)
	o.logger.LogAttrs(ctx, level, e.Message, attrs...)
}
