package worker

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// RunExpirer moves runs stuck in "created" to "dispatch_failed".
type RunExpirer interface {
	ExpireCreated(ctx context.Context, olderThan time.Duration) ([]string, error)
}

// StaleRunWorker catches runs whose process died between saving the run and
// handing it to the workflow engine.
type StaleRunWorker struct {
	runs         RunExpirer
	staleAfter   time.Duration
	tickInterval time.Duration

	// OnExpired, if set, is called with the ids expired in one sweep.
	OnExpired func(ids []string)
}

func NewStaleRunWorker(runs RunExpirer, staleAfter, tick time.Duration) *StaleRunWorker {
	return &StaleRunWorker{
		runs:         runs,
		staleAfter:   staleAfter,
		tickInterval: tick,
	}
}

func (w *StaleRunWorker) Start(ctx context.Context) {
	logrus.WithFields(logrus.Fields{
		"stale_after": w.staleAfter.String(),
		"tick":        w.tickInterval.String(),
	}).Info("stale run worker started")

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			logrus.Info("stale run worker stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *StaleRunWorker) sweep(ctx context.Context) {
	ids, err := w.runs.ExpireCreated(ctx, w.staleAfter)
	if err != nil {
		if ctx.Err() == nil {
			logrus.WithError(err).Error("stale run sweep failed")
		}
		return
	}
	if len(ids) == 0 {
		return
	}

	for _, id := range ids {
		logrus.WithField("run_id", id).Warn("run never dispatched, marked dispatch_failed")
	}
	if w.OnExpired != nil {
		w.OnExpired(ids)
	}
}
