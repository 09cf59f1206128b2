package state

import (
	"github.com/mfalves/plantledger/internal/domain"
	"github.com/mfalves/plantledger/internal/observability/metrics"
)

// Batch is the set of unsynced records collected for one upload.
type Batch struct {
	Activities    []domain.Activity
	Sales         []domain.Sale
	CashMovements []domain.CashMovement
}

// Empty reports whether there is nothing to upload.
func (b Batch) Empty() bool {
	return len(b.Activities) == 0 && len(b.Sales) == 0 && len(b.CashMovements) == 0
}

// Size is the total record count of the batch.
func (b Batch) Size() int {
	return len(b.Activities) + len(b.Sales) + len(b.CashMovements)
}

// Online reports the connectivity flag.
func (c *Container) Online() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.st.Online
}

// SetSyncing flips the in-progress-sync flag. The flag is cosmetic
// session state; it is persisted with the snapshot like everything else.
func (c *Container) SetSyncing(syncing bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	next := c.st.Clone()
	next.Syncing = syncing
	c.st = next
	c.persist()
}

// CollectUnsynced partitions each collection by the sync flag and
// returns the pending side. The predicate is "flag is false", not a
// queue, which is what makes repeated cycles safe.
func (c *Container) CollectUnsynced() Batch {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var b Batch
	for _, a := range c.st.Activities {
		if !a.Synced {
			b.Activities = append(b.Activities, a)
		}
	}
	for _, s := range c.st.Sales {
		if !s.Synced {
			b.Sales = append(b.Sales, s)
		}
	}
	for _, m := range c.st.CashMovements {
		if !m.Synced {
			b.CashMovements = append(b.CashMovements, m)
		}
	}
	metrics.SetUnsynced(b.Size())
	return b
}

// MarkSynced flips the sync flag on every record of the acknowledged
// batch. Records created after the batch was collected keep their
// pending flag and are picked up next cycle.
func (c *Container) MarkSynced(b Batch) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ids := map[string]bool{}
	for _, a := range b.Activities {
		ids[a.ID] = true
	}
	for _, s := range b.Sales {
		ids[s.ID] = true
	}
	for _, m := range b.CashMovements {
		ids[m.ID] = true
	}

	next := c.st.Clone()
	for i := range next.Activities {
		if ids[next.Activities[i].ID] {
			next.Activities[i].Synced = true
		}
	}
	for i := range next.Sales {
		if ids[next.Sales[i].ID] {
			next.Sales[i].Synced = true
		}
	}
	for i := range next.CashMovements {
		if ids[next.CashMovements[i].ID] {
			next.CashMovements[i].Synced = true
		}
	}
	c.st = next
	c.persist()

	metrics.ObserveSyncedRecords("activity", len(b.Activities))
	metrics.ObserveSyncedRecords("sale", len(b.Sales))
	metrics.ObserveSyncedRecords("cash_movement", len(b.CashMovements))

	remaining := 0
	for _, a := range next.Activities {
		if !a.Synced {
			remaining++
		}
	}
	for _, s := range next.Sales {
		if !s.Synced {
			remaining++
		}
	}
	for _, m := range next.CashMovements {
		if !m.Synced {
			remaining++
		}
	}
	metrics.SetUnsynced(remaining)
}
