package state

import (
	"strings"
	"time"

	"github.com/mfalves/plantledger/internal/domain"
)

// ActivityInput is the client payload for a new activity. Identity,
// tenant and sync stamps are never part of the input.
type ActivityInput struct {
	Type          domain.ActivityType `json:"type" validate:"required"`
	Name          string              `json:"name" validate:"required"`
	Date          string              `json:"date" validate:"required"`
	Zone          string              `json:"zone" validate:"required"`
	Quantity      float64             `json:"quantity"`
	Unit          string              `json:"unit"`
	InputQuantity float64             `json:"inputQuantity"`
	InputUnit     string              `json:"inputUnit"`
	Workers       []string            `json:"workers"`
	Cost          float64             `json:"cost" validate:"gte=0"`
	Observations  string              `json:"observations"`
}

func (in ActivityInput) validate() error {
	switch in.Type {
	case domain.ActivityCreation, domain.ActivityMaintenance, domain.ActivityHarvest,
		domain.ActivityProduction, domain.ActivityPackaging:
	default:
		return domain.Invalid("type", "unknown activity type")
	}
	if strings.TrimSpace(in.Name) == "" {
		return domain.Invalid("name", "required")
	}
	if in.Date == "" {
		return domain.Invalid("date", "required")
	}
	if strings.TrimSpace(in.Zone) == "" {
		return domain.Invalid("zone", "required")
	}
	if in.Cost < 0 {
		return domain.Invalid("cost", "must not be negative")
	}
	if in.Type == domain.ActivityProduction {
		if in.Quantity <= 0 {
			return domain.Invalid("quantity", "production requires a positive quantity")
		}
		if in.InputQuantity <= 0 {
			return domain.Invalid("inputQuantity", "production requires a positive input quantity")
		}
	}
	return nil
}

// SaleInput is the client payload for a new sale. Any client-supplied
// total is ignored; the pipeline recomputes it.
type SaleInput struct {
	Date      string  `json:"date" validate:"required"`
	Client    string  `json:"client" validate:"required"`
	Product   string  `json:"product" validate:"required"`
	Quantity  float64 `json:"quantity" validate:"gt=0"`
	UnitPrice float64 `json:"unitPrice" validate:"gt=0"`
}

func (in SaleInput) validate() error {
	if in.Date == "" {
		return domain.Invalid("date", "required")
	}
	if strings.TrimSpace(in.Client) == "" {
		return domain.Invalid("client", "required")
	}
	if !domain.CatalogProduct(in.Product) {
		return domain.Invalid("product", "not in catalog")
	}
	if in.Quantity <= 0 {
		return domain.Invalid("quantity", "must be positive")
	}
	if in.UnitPrice <= 0 {
		return domain.Invalid("unitPrice", "must be positive")
	}
	return nil
}

// CashMovementInput is the client payload for a cash ledger entry.
type CashMovementInput struct {
	Date   string                  `json:"date" validate:"required"`
	Type   domain.CashMovementType `json:"type" validate:"required"`
	Amount float64                 `json:"amount" validate:"gte=0"`
	Reason string                  `json:"reason" validate:"required"`
}

func (in CashMovementInput) validate() error {
	if in.Date == "" {
		return domain.Invalid("date", "required")
	}
	switch in.Type {
	case domain.CashIn, domain.CashOut, domain.CashWithdrawal:
	default:
		return domain.Invalid("type", "unknown movement type")
	}
	if in.Amount < 0 {
		return domain.Invalid("amount", "must not be negative")
	}
	if strings.TrimSpace(in.Reason) == "" {
		return domain.Invalid("reason", "required")
	}
	return nil
}

// UserInput is the payload for account creation.
type UserInput struct {
	Username       string      `json:"username" validate:"required"`
	Password       string      `json:"password" validate:"required"`
	Role           domain.Role `json:"role" validate:"required"`
	PlantationCode string      `json:"plantationCode"`
}

func (in UserInput) validate() error {
	if strings.TrimSpace(in.Username) == "" {
		return domain.Invalid("username", "required")
	}
	if in.Password == "" {
		return domain.Invalid("password", "required")
	}
	switch in.Role {
	case domain.RoleAdmin, domain.RoleEmployee:
	case domain.RoleSuperAdmin:
		return domain.Invalid("role", "cannot create super-admin accounts")
	default:
		return domain.Invalid("role", "unknown role")
	}
	return nil
}

// PlantationInput is the super-admin provisioning payload.
type PlantationInput struct {
	Code       string                  `json:"code" validate:"required"`
	Name       string                  `json:"name" validate:"required"`
	Owner      string                  `json:"owner" validate:"required"`
	Email      string                  `json:"email" validate:"required,email"`
	Status     domain.PlantationStatus `json:"status"`
	ExpiryDate time.Time               `json:"expiryDate"`
}

func (in PlantationInput) validate() error {
	if strings.TrimSpace(in.Code) == "" || in.Code == domain.SystemTenant {
		return domain.Invalid("code", "required")
	}
	if strings.TrimSpace(in.Name) == "" {
		return domain.Invalid("name", "required")
	}
	if strings.TrimSpace(in.Owner) == "" {
		return domain.Invalid("owner", "required")
	}
	switch in.Status {
	case "", domain.PlantationActive, domain.PlantationSuspended, domain.PlantationTrial:
	default:
		return domain.Invalid("status", "unknown status")
	}
	return nil
}
