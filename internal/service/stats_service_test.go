package service

import (
	"testing"

	"github.com/mfalves/plantledger/internal/domain"
	"github.com/mfalves/plantledger/internal/security/access"
)

func TestBalance(t *testing.T) {
	movements := []domain.CashMovement{
		{Type: domain.CashIn, Amount: 100},
		{Type: domain.CashOut, Amount: 30},
		{Type: domain.CashWithdrawal, Amount: 20},
	}
	if got := Balance(movements); got != 50 {
		t.Fatalf("expected balance 50, got %v", got)
	}
}

func TestBalanceEmpty(t *testing.T) {
	if got := Balance(nil); got != 0 {
		t.Fatalf("expected 0 for empty ledger, got %v", got)
	}
}

func TestComputeStats(t *testing.T) {
	scoped := access.ScopedState{
		Activities: []domain.Activity{
			{Type: domain.ActivityHarvest, Cost: 100},
			{Type: domain.ActivityHarvest, Cost: 50},
			{Type: domain.ActivityProduction, Cost: 10, Quantity: 180, InputQuantity: 1000},
		},
		Sales: []domain.Sale{
			{Total: 37.5},
			{Total: 12.5},
		},
		CashMovements: []domain.CashMovement{
			{Type: domain.CashIn, Amount: 100},
			{Type: domain.CashOut, Amount: 30},
			{Type: domain.CashWithdrawal, Amount: 20},
		},
	}

	stats := ComputeStats(scoped)

	if got := stats.Activities[domain.ActivityHarvest]; got.Count != 2 || got.Cost != 150 {
		t.Fatalf("unexpected harvest stats: %+v", got)
	}
	if stats.SalesCount != 2 {
		t.Fatalf("expected 2 sales, got %d", stats.SalesCount)
	}
	if stats.Revenue != 50 {
		t.Fatalf("expected revenue 50, got %v", stats.Revenue)
	}
	if stats.CashBalance != 50 {
		t.Fatalf("expected cash balance 50, got %v", stats.CashBalance)
	}
	if stats.YieldPercent != 18 {
		t.Fatalf("expected 18%% yield, got %v", stats.YieldPercent)
	}
}

func TestComputeStatsYieldRounding(t *testing.T) {
	scoped := access.ScopedState{
		Activities: []domain.Activity{
			{Type: domain.ActivityProduction, Quantity: 1, InputQuantity: 3},
		},
	}
	if got := ComputeStats(scoped).YieldPercent; got != 33.33 {
		t.Fatalf("expected 33.33, got %v", got)
	}
}

func TestComputeStatsNoProduction(t *testing.T) {
	scoped := access.ScopedState{
		Activities: []domain.Activity{{Type: domain.ActivityHarvest}},
	}
	if got := ComputeStats(scoped).YieldPercent; got != 0 {
		t.Fatalf("expected 0 yield without production, got %v", got)
	}
}
