package domain

import "time"

// PlantationStatus is the lifecycle state of a tenant.
type PlantationStatus string

const (
	PlantationActive    PlantationStatus = "ACTIVE"
	PlantationSuspended PlantationStatus = "SUSPENDED"
	PlantationTrial     PlantationStatus = "TRIAL"
)

// SystemTenant is the sentinel tenant code for the super-admin account.
// It never matches a real plantation.
const SystemTenant = "SYSTEM"

// Plantation is the tenant: the unit of data isolation. Plantations are
// provisioned by the super-admin (directly or via a share link) and are
// never physically deleted; suspension and expiry are status changes.
type Plantation struct {
	Code       string           `json:"code"`
	Name       string           `json:"name"`
	Owner      string           `json:"owner"`
	Email      string           `json:"email"`
	Status     PlantationStatus `json:"status"`
	ExpiryDate time.Time        `json:"expiryDate"`
}

// Suspended reports whether the tenant is blocked from all mutations.
func (p *Plantation) Suspended() bool {
	return p.Status == PlantationSuspended
}
