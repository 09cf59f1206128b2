package remote

import (
	"context"
	"log/slog"

	"github.com/mfalves/plantledger/internal/domain"
)

// Noop accepts every batch without transmitting anywhere. It stands in
// when no remote store is configured, keeping the sync interface stable
// so a real transport can be substituted without touching callers.
type Noop struct {
	logger *slog.Logger
}

// NewNoop creates a no-op remote.
func NewNoop(logger *slog.Logger) *Noop {
	if logger == nil {
		logger = slog.Default()
	}
	return &Noop{logger: logger}
}

// Upload acknowledges the batch unconditionally.
func (n *Noop) Upload(_ context.Context, activities []domain.Activity, sales []domain.Sale, movements []domain.CashMovement) error {
	n.logger.Debug("noop remote acknowledged batch",
		slog.Int("records", len(activities)+len(sales)+len(movements)),
	)
	return nil
}
