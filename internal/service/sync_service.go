package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mfalves/plantledger/internal/domain"
	"github.com/mfalves/plantledger/internal/observability/metrics"
	"github.com/mfalves/plantledger/internal/reliability/retry"
	"github.com/mfalves/plantledger/internal/state"
)

// SyncService pushes locally created records to the remote store. The
// whole batch succeeds or the whole batch is retried next cycle; nothing
// is marked synced that the remote did not confirm.
type SyncService struct {
	container *state.Container
	remote    domain.Remote
	logger    *slog.Logger
	retryCfg  *retry.Config
}

// NewSyncService creates a sync service.
func NewSyncService(container *state.Container, remote domain.Remote, logger *slog.Logger) *SyncService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SyncService{
		container: container,
		remote:    remote,
		logger:    logger,
		retryCfg:  retry.DefaultConfig(),
	}
}

// Sync runs one cycle. Safe to invoke repeatedly: the pending predicate
// is "sync flag is false", so an empty cycle is a no-op and a retried
// batch is absorbed by the idempotent remote.
func (s *SyncService) Sync(ctx context.Context) error {
	if !s.container.Online() {
		s.logger.Debug("sync skipped, offline")
		metrics.ObserveSyncCycle("offline")
		return nil
	}

	s.container.SetSyncing(true)
	defer s.container.SetSyncing(false)

	batch := s.container.CollectUnsynced()
	if batch.Empty() {
		metrics.ObserveSyncCycle("noop")
		return nil
	}

	_, err := retry.Do(ctx, s.retryCfg, s.logger, "sync_upload", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.remote.Upload(ctx, batch.Activities, batch.Sales, batch.CashMovements)
	})
	if err != nil {
		// Leave every sync flag untouched so the next cycle retries the
		// full batch.
		s.logger.Warn("sync upload failed",
			slog.Int("records", batch.Size()),
			slog.String("error", err.Error()),
		)
		metrics.ObserveSyncCycle("failure")
		return fmt.Errorf("sync upload failed: %w", err)
	}

	s.container.MarkSynced(batch)
	s.logger.Info("sync cycle completed", slog.Int("records", batch.Size()))
	metrics.ObserveSyncCycle("success")
	return nil
}
