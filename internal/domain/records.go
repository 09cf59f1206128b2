package domain

import (
	"math"
	"time"
)

// ActivityType classifies a logged field operation.
type ActivityType string

const (
	ActivityCreation    ActivityType = "CREATION"
	ActivityMaintenance ActivityType = "MAINTENANCE"
	ActivityHarvest     ActivityType = "HARVEST"
	ActivityProduction  ActivityType = "PRODUCTION"
	ActivityPackaging   ActivityType = "PACKAGING"
)

// Activity is a logged agricultural operation. PlantationCode, ID,
// Synced and UpdatedAt are stamped by the mutation pipeline from the
// authenticated session, never taken from client input.
type Activity struct {
	ID             string       `json:"id"`
	PlantationCode string       `json:"plantationCode"`
	Type           ActivityType `json:"type"`
	Name           string       `json:"name"`
	Date           string       `json:"date"`
	Zone           string       `json:"zone"`
	Quantity       float64      `json:"quantity,omitempty"`
	Unit           string       `json:"unit,omitempty"`
	InputQuantity  float64      `json:"inputQuantity,omitempty"`
	InputUnit      string       `json:"inputUnit,omitempty"`
	Workers        []string     `json:"workers"`
	Cost           float64      `json:"cost"`
	Observations   string       `json:"observations,omitempty"`
	Synced         bool         `json:"synced"`
	UpdatedAt      time.Time    `json:"updatedAt"`
}

// Yield returns the production yield as a percentage rounded to two
// decimals, or 0 for non-production records or missing input quantity.
func (a *Activity) Yield() float64 {
	if a.Type != ActivityProduction || a.InputQuantity <= 0 {
		return 0
	}
	return math.Round(a.Quantity/a.InputQuantity*100*100) / 100
}

// Sale records a sale of a catalog product. Total is derived and never
// accepted from the client.
type Sale struct {
	ID             string    `json:"id"`
	PlantationCode string    `json:"plantationCode"`
	Date           string    `json:"date"`
	Client         string    `json:"client"`
	Product        string    `json:"product"`
	Quantity       float64   `json:"quantity"`
	UnitPrice      float64   `json:"unitPrice"`
	Total          float64   `json:"total"`
	Synced         bool      `json:"synced"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// ProductCatalog is the fixed set of sellable products.
var ProductCatalog = []string{
	"Coffee Cherry",
	"Green Coffee",
	"Roasted Coffee",
	"Ground Coffee",
	"Compost",
}

// CatalogProduct reports whether name is a sellable product.
func CatalogProduct(name string) bool {
	for _, p := range ProductCatalog {
		if p == name {
			return true
		}
	}
	return false
}

// CashMovementType classifies a cash ledger entry. Amounts are stored as
// non-negative magnitudes; the sign is implied by the type.
type CashMovementType string

const (
	CashIn         CashMovementType = "IN"
	CashOut        CashMovementType = "OUT"
	CashWithdrawal CashMovementType = "WITHDRAWAL"
)

// CashMovement is one entry of the tenant's cash ledger.
type CashMovement struct {
	ID             string           `json:"id"`
	PlantationCode string           `json:"plantationCode"`
	Date           string           `json:"date"`
	Type           CashMovementType `json:"type"`
	Amount         float64          `json:"amount"`
	Reason         string           `json:"reason"`
	Synced         bool             `json:"synced"`
	UpdatedAt      time.Time        `json:"updatedAt"`
}

// Signed returns the movement amount with its sign applied.
func (m *CashMovement) Signed() float64 {
	if m.Type == CashIn {
		return m.Amount
	}
	return -m.Amount
}
