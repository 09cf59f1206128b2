package state

import (
	"testing"

	"github.com/mfalves/plantledger/internal/domain"
)

func TestCollectUnsyncedPartitionsByFlag(t *testing.T) {
	st := testState()
	st.Activities = []domain.Activity{
		{ID: "a-1", Synced: true},
		{ID: "a-2"},
	}
	st.Sales = []domain.Sale{{ID: "s-1"}}
	st.CashMovements = []domain.CashMovement{{ID: "m-1", Synced: true}}
	c := NewContainer(st, &fakeStore{}, testLogger())

	b := c.CollectUnsynced()
	if b.Size() != 2 {
		t.Fatalf("expected 2 pending records, got %d", b.Size())
	}
	if len(b.Activities) != 1 || b.Activities[0].ID != "a-2" {
		t.Fatalf("expected only a-2 pending, got %v", b.Activities)
	}
	if len(b.CashMovements) != 0 {
		t.Fatal("synced movement must not be collected")
	}
}

func TestMarkSyncedFlipsOnlyBatchRecords(t *testing.T) {
	st := testState()
	st.Activities = []domain.Activity{{ID: "a-1"}}
	c := NewContainer(st, &fakeStore{}, testLogger())

	batch := c.CollectUnsynced()

	// A record created after the batch was collected stays pending.
	admin := c.Session("u-2")
	if _, err := c.CreateActivity(admin, validActivity()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c.MarkSynced(batch)

	pending := c.CollectUnsynced()
	if pending.Size() != 1 {
		t.Fatalf("expected the late record to stay pending, got %d", pending.Size())
	}
	for _, a := range c.Snapshot().Activities {
		if a.ID == "a-1" && !a.Synced {
			t.Fatal("acknowledged record must be flagged synced")
		}
	}
}

func TestMarkSyncedIsIdempotent(t *testing.T) {
	st := testState()
	st.Sales = []domain.Sale{{ID: "s-1"}}
	c := NewContainer(st, &fakeStore{}, testLogger())

	batch := c.CollectUnsynced()
	c.MarkSynced(batch)
	c.MarkSynced(batch)

	if got := c.CollectUnsynced(); !got.Empty() {
		t.Fatalf("expected nothing pending, got %d", got.Size())
	}
}
