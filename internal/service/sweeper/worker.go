package sweeper

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// TimeoutSweeper is the part of the engine the worker drives.
type TimeoutSweeper interface {
	SweepTimeouts(ctx context.Context) int
}

// Worker ends timed-out matches on a fixed tick.
type Worker struct {
	engine   TimeoutSweeper
	interval time.Duration
	log      *zap.Logger
}

func NewWorker(engine TimeoutSweeper, interval time.Duration, log *zap.Logger) *Worker {
	if interval <= 0 {
		interval = 250 * time.Millisecond
	}
	return &Worker{engine: engine, interval: interval, log: log}
}

// Run blocks until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.log.Info("timeout sweeper started", zap.Duration("interval", w.interval))
	for {
		select {
		case <-ctx.Done():
			w.log.Info("timeout sweeper stopped")
			return nil
		case <-ticker.C:
			if n := w.engine.SweepTimeouts(ctx); n > 0 {
				w.log.Info("turn timeouts applied", zap.Int("matches", n))
			}
		}
	}
}
