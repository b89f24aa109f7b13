package worker

import (
	"context"
	"time"

	"github.com/squirrito-app/squirrito/pkg/usecase"
	"github.com/squirrito-app/squirrito/pkg/utils/logging"
)

// BestPickWorker recomputes the joke of the day in the background.
//
// Architecture assumptions:
// - Single server instance (no distributed locking)
// - The pick is cheap to recompute, so a failed cycle just waits for the next
type BestPickWorker struct {
	bestPick *usecase.BestPickUseCase
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
}

func NewBestPickWorker(bestPick *usecase.BestPickUseCase, interval time.Duration) *BestPickWorker {
	return &BestPickWorker{
		bestPick: bestPick,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the refresh loop without blocking server startup
func (w *BestPickWorker) Start(ctx context.Context) error {
	logging.Default().Info("best pick worker starting", "interval", w.interval.String())

	go w.run(ctx)

	return nil
}

// Stop signals the worker to stop and waits for completion
func (w *BestPickWorker) Stop() {
	logging.Default().Info("best pick worker stopping")
	close(w.stopCh)
	<-w.doneCh
	logging.Default().Info("best pick worker stopped")
}

func (w *BestPickWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	if err := w.bestPick.Refresh(ctx); err != nil {
		logging.Default().Error("initial best pick refresh failed (will retry next interval)",
			"error", err.Error())
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := w.bestPick.Refresh(ctx); err != nil {
				// Log error but continue worker
				logging.Default().Error("best pick refresh failed (will retry next interval)",
					"error", err.Error())
			}

		case <-w.stopCh:
			logging.Default().Info("best pick worker received stop signal")
			return

		case <-ctx.Done():
			logging.Default().Info("best pick worker context cancelled")
			return
		}
	}
}
