// Package remote implements the sync counterpart of the ledger. The
// Redis store keeps one hash per record kind, keyed by record id, so a
// retried batch simply overwrites itself — the idempotence the sync
// contract relies on.
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mfalves/plantledger/internal/domain"
)

const uploadTimeout = 5 * time.Second

// RedisRemote implements domain.Remote on a Redis instance.
type RedisRemote struct {
	client *redis.Client
	logger *slog.Logger
}

// NewRedisRemote connects to the remote store.
func NewRedisRemote(url string, logger *slog.Logger) (*RedisRemote, error) {
	if logger == nil {
		logger = slog.Default()
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to reach remote store: %w", err)
	}
	return &RedisRemote{client: client, logger: logger}, nil
}

// Upload transmits one batch. Each record lands under its own id inside
// a per-tenant, per-kind hash; re-uploading a record is a plain
// overwrite.
func (r *RedisRemote) Upload(ctx context.Context, activities []domain.Activity, sales []domain.Sale, movements []domain.CashMovement) error {
	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	pipe := r.client.TxPipeline()
	for _, a := range activities {
		if err := queue(pipe, ctx, "activities", a.PlantationCode, a.ID, a); err != nil {
			return err
		}
	}
	for _, s := range sales {
		if err := queue(pipe, ctx, "sales", s.PlantationCode, s.ID, s); err != nil {
			return err
		}
	}
	for _, m := range movements {
		if err := queue(pipe, ctx, "cash", m.PlantationCode, m.ID, m); err != nil {
			return err
		}
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to upload batch: %w", err)
	}
	r.logger.Debug("batch uploaded",
		slog.Int("activities", len(activities)),
		slog.Int("sales", len(sales)),
		slog.Int("cash_movements", len(movements)),
	)
	return nil
}

func queue(pipe redis.Pipeliner, ctx context.Context, kind, tenant, id string, record any) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal %s record: %w", kind, err)
	}
	key := fmt.Sprintf("plantledger:%s:%s", kind, tenant)
	pipe.HSet(ctx, key, id, data)
	return nil
}

// Close releases the connection.
func (r *RedisRemote) Close() error {
	return r.client.Close()
}
