package review

import (
	"context"
	"time"

	"github.com/lthibault/jitterbug/v2"
	"go.uber.org/zap"
)

// Refresher periodically re-fetches the tracked list in the background.
// Fetch failures are logged and never roll anything back; no optimistic
// mutation was made on this path.
type Refresher[T any] struct {
	controller *Controller[T]
	fetch      func(ctx context.Context) ([]T, error)
	interval   time.Duration
	logger     *zap.SugaredLogger
}

func NewRefresher[T any](controller *Controller[T], interval time.Duration, fetch func(ctx context.Context) ([]T, error)) *Refresher[T] {
	return &Refresher[T]{
		controller: controller,
		fetch:      fetch,
		interval:   interval,
		logger:     zap.S().Named("refresher"),
	}
}

// Run blocks until the context is cancelled.
func (r *Refresher[T]) Run(ctx context.Context) {
	updateTicker := jitterbug.New(r.interval, &jitterbug.Norm{Stdev: 30 * time.Millisecond, Mean: 0})
	defer updateTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-updateTicker.C:
			items, err := r.fetch(ctx)
			if err != nil {
				r.logger.Warnf("background refresh failed: %v", err)
				continue
			}
			if !r.controller.ReplaceIfIdle(items) {
				r.logger.Debugf("background refresh skipped, action in flight")
			}
		}
	}
}
