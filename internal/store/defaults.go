package store

import (
	"time"

	"github.com/google/uuid"
	"github.com/mfalves/plantledger/internal/domain"
)

// DefaultState builds the bootstrap aggregate used when no snapshot
// exists or the persisted one cannot be decoded: the SYSTEM tenant with
// its super-admin plus the demo plantation and its accounts.
func DefaultState() *domain.AppState {
	return &domain.AppState{
		Plantations: []domain.Plantation{
			{
				Code:       "BST-001",
				Name:       "Boa Vista",
				Owner:      "Carlos Mendes",
				Email:      "carlos@boavista.farm",
				Status:     domain.PlantationActive,
				ExpiryDate: time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC),
			},
		},
		Users: []domain.User{
			{
				ID:             uuid.NewString(),
				Username:       "MiguelF",
				Role:           domain.RoleSuperAdmin,
				Password:       "miguel123",
				PlantationCode: domain.SystemTenant,
			},
			{
				ID:             uuid.NewString(),
				Username:       "admin",
				Role:           domain.RoleAdmin,
				Password:       "admin",
				PlantationCode: "BST-001",
			},
			{
				ID:             uuid.NewString(),
				Username:       "joao",
				Role:           domain.RoleEmployee,
				Password:       "joao123",
				PlantationCode: "BST-001",
			},
		},
		Language: "pt",
		Theme:    "light",
		Online:   true,
	}
}
