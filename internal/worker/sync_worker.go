package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/mfalves/plantledger/internal/service"
)

// SyncWorker periodically runs a sync cycle so locally created records
// become durable without the user having to trigger anything. A failed
// cycle is not retried immediately; the unsynced flags keep the batch
// alive for the next tick.
type SyncWorker struct {
	syncer   *service.SyncService
	logger   *slog.Logger
	interval time.Duration
}

// NewSyncWorker creates a new sync worker
func NewSyncWorker(syncer *service.SyncService, logger *slog.Logger, interval time.Duration) *SyncWorker {
	return &SyncWorker{syncer: syncer, logger: logger, interval: interval}
}

// Start begins the sync loop. It runs until the context is cancelled.
func (w *SyncWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("sync worker started", slog.Duration("interval", w.interval))

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("sync worker stopped")
			return
		case <-ticker.C:
			if err := w.syncer.Sync(ctx); err != nil {
				w.logger.Warn("scheduled sync cycle failed", slog.String("error", err.Error()))
			}
		}
	}
}
