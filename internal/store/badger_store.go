package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
	"github.com/mfalves/plantledger/internal/domain"
)

// stateKey is the fixed, versioned key the whole snapshot lives under.
// Older-version keys are treated as unrelated and ignored.
const stateKey = "plantledger:state:v2"

// BadgerStore implements domain.SnapshotStore on an embedded BadgerDB.
// The aggregate is serialized as one JSON document; there are no partial
// writes and no cross-version migrations.
type BadgerStore struct {
	db     *badger.DB
	logger *slog.Logger
}

// Options configures the store. InMemory is for tests.
type Options struct {
	Path     string
	InMemory bool
}

// NewBadgerStore opens (or creates) the local database.
func NewBadgerStore(opts Options, logger *slog.Logger) (*BadgerStore, error) {
	if logger == nil {
		logger = slog.Default()
	}

	bopts := badger.DefaultOptions(opts.Path).WithLogger(nil)
	if opts.InMemory {
		bopts = bopts.WithInMemory(true)
	} else {
		bopts = bopts.WithSyncWrites(true)
	}

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot store: %w", err)
	}
	return &BadgerStore{db: db, logger: logger}, nil
}

// Load reads the snapshot. A missing or undecodable snapshot falls back
// to the bootstrap defaults; load never fails the process on bad data.
func (s *BadgerStore) Load() (*domain.AppState, error) {
	var raw []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(stateKey))
		if err != nil {
			return err
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			s.logger.Info("no snapshot found, seeding defaults", slog.String("key", stateKey))
			return DefaultState(), nil
		}
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	state := &domain.AppState{}
	if err := json.Unmarshal(raw, state); err != nil {
		s.logger.Warn("snapshot corrupt, seeding defaults",
			slog.String("key", stateKey),
			slog.String("error", err.Error()),
		)
		return DefaultState(), nil
	}
	return state, nil
}

// Save overwrites the snapshot with the full aggregate.
func (s *BadgerStore) Save(state *domain.AppState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(stateKey), raw)
	})
	if err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// Close releases the database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}
