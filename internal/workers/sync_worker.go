package workers

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/go-stock-keeper/internal/logger"
)

// DefaultSyncInterval is used when the configured interval is not positive.
const DefaultSyncInterval = time.Minute

type syncWorker struct {
	syncer   Syncer
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup

	logger *logger.Logger
}

// NewSyncWorker creates a worker that calls syncer.SyncOfflineData right
// after Start and then on every tick of interval.
func NewSyncWorker(syncer Syncer, interval time.Duration, logger *logger.Logger) Worker {
	if interval <= 0 {
		interval = DefaultSyncInterval
	}
	return &syncWorker{syncer: syncer, interval: interval, logger: logger}
}

func (w *syncWorker) Start(ctx context.Context) {
	w.Stop()

	w.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.wg.Add(1)
	w.mu.Unlock()

	go func() {
		defer w.wg.Done()
		t := time.NewTicker(w.interval)
		defer t.Stop()

		w.sync(jobCtx)
		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				w.sync(jobCtx)
			}
		}
	}()
}

func (w *syncWorker) Stop() {
	w.mu.Lock()
	cancel := w.cancel
	w.cancel = nil
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	w.wg.Wait()
}

func (w *syncWorker) sync(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if err := w.syncer.SyncOfflineData(ctx); err != nil {
		w.logger.Err(err).Str("func", "syncWorker.sync").Msg("background sync failed")
	}
}
