package service

import (
	"context"
	"log/slog"
	"time"

	"wellbuddie/internal/privacy"
)

// Purger is the retention operation the worker drives.
type Purger interface {
	Purge(ctx context.Context, now time.Time) (privacy.PurgeResult, error)
}

// RetentionWorker runs a purge immediately and then once per interval until
// its context is cancelled.
type RetentionWorker struct {
	purger   Purger
	interval time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

// WorkerOption configures a RetentionWorker.
type WorkerOption func(*RetentionWorker)

func WithWorkerLogger(l *slog.Logger) WorkerOption {
	return func(w *RetentionWorker) {
		if l != nil {
			w.logger = l
		}
	}
}

func WithWorkerClock(now func() time.Time) WorkerOption {
	return func(w *RetentionWorker) {
		if now != nil {
			w.now = now
		}
	}
}

func NewRetentionWorker(purger Purger, interval time.Duration, opts ...WorkerOption) *RetentionWorker {
	w := &RetentionWorker{
		purger:   purger,
		interval: interval,
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run blocks until ctx is done. A failed sweep is logged and retried on the
// next tick. It always returns nil so it can sit in an errgroup.
func (w *RetentionWorker) Run(ctx context.Context) error {
	if w.interval <= 0 {
		w.logger.WarnContext(ctx, "retention worker disabled", "interval", w.interval)
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			w.logger.InfoContext(ctx, "retention worker stopped")
			return nil
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *RetentionWorker) sweep(ctx context.Context) {
	start := w.now()
	res, err := w.purger.Purge(ctx, start)
	if err != nil {
		w.logger.ErrorContext(ctx, "retention sweep failed", "error", err)
		return
	}
	w.logger.InfoContext(ctx, "retention sweep complete",
		"assessments_purged", res.Assessments,
		"chats_purged", res.Chats,
		"duration", w.now().Sub(start))
}
