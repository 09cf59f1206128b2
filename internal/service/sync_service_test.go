package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/mfalves/plantledger/internal/domain"
	"github.com/mfalves/plantledger/internal/state"
)

type nullStore struct{}

func (nullStore) Load() (*domain.AppState, error) { return nil, nil }
func (nullStore) Save(st *domain.AppState) error  { return nil }
func (nullStore) Close() error                    { return nil }

type fakeRemote struct {
	mu      sync.Mutex
	fail    bool
	uploads int
	records int
}

func (f *fakeRemote) Upload(ctx context.Context, activities []domain.Activity, sales []domain.Sale, movements []domain.CashMovement) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads++
	if f.fail {
		return errors.New("remote unavailable")
	}
	f.records += len(activities) + len(sales) + len(movements)
	return nil
}

func (f *fakeRemote) uploadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.uploads
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func syncFixture(online bool) *state.Container {
	st := &domain.AppState{
		Plantations: []domain.Plantation{{Code: "BST-001", Status: domain.PlantationActive}},
		Users: []domain.User{
			{ID: "u-2", Username: "admin", Role: domain.RoleAdmin, Password: "admin", PlantationCode: "BST-001"},
		},
		Activities:    []domain.Activity{{ID: "a-1", PlantationCode: "BST-001"}},
		Sales:         []domain.Sale{{ID: "s-1", PlantationCode: "BST-001"}},
		CashMovements: []domain.CashMovement{{ID: "m-1", PlantationCode: "BST-001", Type: domain.CashIn}},
		Online:        online,
	}
	return state.NewContainer(st, nullStore{}, discardLogger())
}

func TestSyncMarksAcknowledgedBatch(t *testing.T) {
	container := syncFixture(true)
	remote := &fakeRemote{}
	svc := NewSyncService(container, remote, discardLogger())

	if err := svc.Sync(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if remote.uploadCount() != 1 {
		t.Fatalf("expected one upload, got %d", remote.uploadCount())
	}
	if pending := container.CollectUnsynced(); !pending.Empty() {
		t.Fatalf("expected nothing pending after sync, got %d", pending.Size())
	}
	if container.Snapshot().Syncing {
		t.Fatal("syncing flag must be cleared")
	}
}

func TestSyncOfflineIsNoop(t *testing.T) {
	container := syncFixture(false)
	remote := &fakeRemote{}
	svc := NewSyncService(container, remote, discardLogger())

	if err := svc.Sync(context.Background()); err != nil {
		t.Fatalf("offline sync must not fail: %v", err)
	}
	if remote.uploadCount() != 0 {
		t.Fatal("offline sync must not reach the remote")
	}
	if pending := container.CollectUnsynced(); pending.Size() != 3 {
		t.Fatalf("offline sync must leave flags untouched, got %d pending", pending.Size())
	}
}

func TestSyncFailureLeavesFlagsUntouched(t *testing.T) {
	container := syncFixture(true)
	remote := &fakeRemote{fail: true}
	svc := NewSyncService(container, remote, discardLogger())

	if err := svc.Sync(context.Background()); err == nil {
		t.Fatal("expected an error from a failed upload")
	}
	if pending := container.CollectUnsynced(); pending.Size() != 3 {
		t.Fatalf("failed sync must keep the full batch pending, got %d", pending.Size())
	}
	if container.Snapshot().Syncing {
		t.Fatal("syncing flag must be cleared even on failure")
	}
}

func TestSyncEmptyBatchSkipsUpload(t *testing.T) {
	container := syncFixture(true)
	remote := &fakeRemote{}
	svc := NewSyncService(container, remote, discardLogger())

	if err := svc.Sync(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	uploadsAfterFirst := remote.uploadCount()

	// Second cycle has nothing pending.
	if err := svc.Sync(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if remote.uploadCount() != uploadsAfterFirst {
		t.Fatal("an empty cycle must not upload")
	}
}
