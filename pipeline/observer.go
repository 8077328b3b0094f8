package pipeline

import (
	"context"
	"log/slog"
	"time"
)

// StageEvent describes a finished stage.
type StageEvent struct {
	RunID    string
	Stage    string
	Rows     int
	Duration time.Duration
	Err      error
}

// Observer is notified around every pipeline stage.
type Observer interface {
	StageStarted(ctx context.Context, runID, stage string)
	StageFinished(ctx context.Context, ev StageEvent)
}

type nopObserver struct{}

func (nopObserver) StageStarted(context.Context, string, string) {}
func (nopObserver) StageFinished(context.Context, StageEvent)    {}

// LogObserver writes stage events to a structured logger.
type LogObserver struct {
	Logger *slog.Logger
}

func (o LogObserver) StageStarted(ctx context.Context, runID, stage string) {
	o.Logger.DebugContext(ctx, "stage started", "run_id", runID, "stage", stage)
}

func (o LogObserver) StageFinished(ctx context.Context, ev StageEvent) {
	if ev.Err != nil {
		o.Logger.WarnContext(ctx, "stage failed",
			"run_id", ev.RunID, "stage", ev.Stage, "duration", ev.Duration, "error", ev.Err)
		return
	}
	o.Logger.InfoContext(ctx, "stage finished",
		"run_id", ev.RunID, "stage", ev.Stage, "rows", ev.Rows, "duration", ev.Duration)
}
