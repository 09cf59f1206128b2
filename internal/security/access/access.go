package access

import (
	"strings"

	"github.com/mfalves/plantledger/internal/domain"
)

// SuperAdminUsername is the reserved system account. A login with this
// username is always resolved against the SYSTEM tenant regardless of
// the plantation code supplied on the form.
const SuperAdminUsername = "MiguelF"

// ResolveTenant returns the plantation of the current session, or nil
// when no user is authenticated or the data is corrupt.
func ResolveTenant(state *domain.AppState) *domain.Plantation {
	if state.CurrentUser == nil {
		return nil
	}
	return ResolveTenantFor(state, state.CurrentUser)
}

// ResolveTenantFor returns the plantation a given user belongs to.
func ResolveTenantFor(state *domain.AppState, user *domain.User) *domain.Plantation {
	if user == nil || user.PlantationCode == domain.SystemTenant {
		return nil
	}
	return state.PlantationByCode(user.PlantationCode)
}

// IsSuspended reports whether the current session's workspace is
// blocked. Super-admins are never suspended.
func IsSuspended(state *domain.AppState) bool {
	return IsSuspendedFor(state, state.CurrentUser)
}

// IsSuspendedFor is IsSuspended for an explicit session user.
func IsSuspendedFor(state *domain.AppState, user *domain.User) bool {
	if user == nil || user.IsSuperAdmin() {
		return false
	}
	tenant := ResolveTenantFor(state, user)
	return tenant != nil && tenant.Suspended()
}

// ScopedState is the subset of the aggregate visible to a session.
// For non-super-admin roles every record list is filtered to the
// session's tenant; the super-admin instead receives the administrative
// view over all plantations and users.
type ScopedState struct {
	Role          domain.Role           `json:"role"`
	Plantations   []domain.Plantation   `json:"plantations"`
	Users         []domain.User         `json:"users"`
	Activities    []domain.Activity     `json:"activities"`
	Sales         []domain.Sale         `json:"sales"`
	CashMovements []domain.CashMovement `json:"cashMovements"`
	Suspended     bool                  `json:"suspended"`
}

// ScopeState derives the session view. Tenant isolation exists only
// here, at read time; the storage layer is a single global aggregate.
func ScopeState(state *domain.AppState) ScopedState {
	return ScopeStateFor(state, state.CurrentUser)
}

// ScopeStateFor is ScopeState for an explicit session user.
func ScopeStateFor(state *domain.AppState, user *domain.User) ScopedState {
	if user == nil {
		return ScopedState{}
	}

	if user.IsSuperAdmin() {
		return ScopedState{
			Role:          user.Role,
			Plantations:   append([]domain.Plantation(nil), state.Plantations...),
			Users:         append([]domain.User(nil), state.Users...),
			Activities:    append([]domain.Activity(nil), state.Activities...),
			Sales:         append([]domain.Sale(nil), state.Sales...),
			CashMovements: append([]domain.CashMovement(nil), state.CashMovements...),
		}
	}

	code := user.PlantationCode
	out := ScopedState{
		Role:      user.Role,
		Suspended: IsSuspendedFor(state, user),
	}
	if tenant := state.PlantationByCode(code); tenant != nil {
		out.Plantations = []domain.Plantation{*tenant}
	}
	for _, u := range state.Users {
		if u.PlantationCode == code {
			out.Users = append(out.Users, u)
		}
	}
	for _, a := range state.Activities {
		if a.PlantationCode == code {
			out.Activities = append(out.Activities, a)
		}
	}
	for _, s := range state.Sales {
		if s.PlantationCode == code {
			out.Sales = append(out.Sales, s)
		}
	}
	for _, m := range state.CashMovements {
		if m.PlantationCode == code {
			out.CashMovements = append(out.CashMovements, m)
		}
	}
	return out
}

// Authenticate matches credentials against the user list. Usernames
// compare case-insensitively, passwords exactly. The plantation code
// must match exactly unless it is empty (wildcard) or the username is
// the reserved super-admin, whose tenant is forced to SYSTEM. Failure
// is always the same generic error.
func Authenticate(username, password, code string, users []domain.User) (*domain.User, error) {
	if strings.EqualFold(username, SuperAdminUsername) {
		code = domain.SystemTenant
	}
	for i := range users {
		u := &users[i]
		if !strings.EqualFold(u.Username, username) {
			continue
		}
		if u.Password != password {
			continue
		}
		if code != "" && u.PlantationCode != code {
			continue
		}
		match := *u
		return &match, nil
	}
	return nil, domain.ErrInvalidCredentials
}
