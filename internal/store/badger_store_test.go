package store

import (
	"io"
	"log/slog"
	"testing"

	"github.com/mfalves/plantledger/internal/domain"
)

func openTestStore(t *testing.T) *BadgerStore {
	t.Helper()
	s, err := NewBadgerStore(Options{InMemory: true}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLoadEmptyStoreReturnsDefaults(t *testing.T) {
	s := openTestStore(t)

	st, err := s.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(st.Plantations) != 1 || st.Plantations[0].Code != "BST-001" {
		t.Fatalf("expected the seeded plantation, got %v", st.Plantations)
	}
	if len(st.Users) != 3 {
		t.Fatalf("expected 3 seeded users, got %d", len(st.Users))
	}

	var super *domain.User
	for i := range st.Users {
		if st.Users[i].Username == "MiguelF" {
			super = &st.Users[i]
		}
	}
	if super == nil {
		t.Fatal("expected the seeded super-admin")
	}
	if super.Role != domain.RoleSuperAdmin || super.PlantationCode != domain.SystemTenant {
		t.Fatalf("super-admin seeded wrong: %+v", super)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := openTestStore(t)

	st, err := s.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	st.Activities = append(st.Activities, domain.Activity{
		ID:             "a-1",
		PlantationCode: "BST-001",
		Type:           domain.ActivityHarvest,
		Name:           "Harvest lot 4",
	})
	st.Syncing = true

	if err := s.Save(st); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loaded, err := s.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(loaded.Activities) != 1 || loaded.Activities[0].ID != "a-1" {
		t.Fatalf("activity not round-tripped: %v", loaded.Activities)
	}
	if !loaded.Syncing {
		t.Fatal("session flags must round-trip with the snapshot")
	}
}

func TestSaveOverwritesWholeSnapshot(t *testing.T) {
	s := openTestStore(t)

	st, _ := s.Load()
	st.Sales = []domain.Sale{{ID: "s-1", PlantationCode: "BST-001"}}
	if err := s.Save(st); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	st.Sales = nil
	if err := s.Save(st); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loaded, _ := s.Load()
	if len(loaded.Sales) != 0 {
		t.Fatalf("expected the second snapshot to win, got %v", loaded.Sales)
	}
}
