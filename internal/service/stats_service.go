package service

import (
	"math"

	"github.com/mfalves/plantledger/internal/domain"
	"github.com/mfalves/plantledger/internal/security/access"
)

// ActivityStats aggregates one activity type.
type ActivityStats struct {
	Count int     `json:"count"`
	Cost  float64 `json:"cost"`
}

// Stats is the dashboard aggregate computed over a scoped view, so a
// tenant only ever sees its own numbers.
type Stats struct {
	Activities   map[domain.ActivityType]ActivityStats `json:"activities"`
	SalesCount   int                                   `json:"salesCount"`
	Revenue      float64                               `json:"revenue"`
	CashBalance  float64                               `json:"cashBalance"`
	YieldPercent float64                               `json:"yieldPercent"`
}

// ComputeStats derives the aggregate numbers from a scoped state.
func ComputeStats(scoped access.ScopedState) Stats {
	out := Stats{Activities: map[domain.ActivityType]ActivityStats{}}

	var producedQty, producedInput float64
	for _, a := range scoped.Activities {
		s := out.Activities[a.Type]
		s.Count++
		s.Cost += a.Cost
		out.Activities[a.Type] = s
		if a.Type == domain.ActivityProduction && a.InputQuantity > 0 {
			producedQty += a.Quantity
			producedInput += a.InputQuantity
		}
	}
	if producedInput > 0 {
		out.YieldPercent = round2(producedQty / producedInput * 100)
	}

	for _, s := range scoped.Sales {
		out.SalesCount++
		out.Revenue += s.Total
	}
	out.Revenue = round2(out.Revenue)

	out.CashBalance = round2(Balance(scoped.CashMovements))
	return out
}

// Balance folds the cash ledger: IN adds, everything else subtracts.
func Balance(movements []domain.CashMovement) float64 {
	total := 0.0
	for _, m := range movements {
		total += m.Signed()
	}
	return total
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
