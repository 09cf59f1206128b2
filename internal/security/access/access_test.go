package access

import (
	"errors"
	"testing"

	"github.com/mfalves/plantledger/internal/domain"
)

func fixtureUsers() []domain.User {
	return []domain.User{
		{ID: "u-1", Username: "MiguelF", Role: domain.RoleSuperAdmin, Password: "miguel123", PlantationCode: domain.SystemTenant},
		{ID: "u-2", Username: "admin", Role: domain.RoleAdmin, Password: "admin", PlantationCode: "BST-001"},
		{ID: "u-3", Username: "joao", Role: domain.RoleEmployee, Password: "joao123", PlantationCode: "BST-001"},
		{ID: "u-4", Username: "rita", Role: domain.RoleAdmin, Password: "rita123", PlantationCode: "SR-002"},
	}
}

func fixtureState() *domain.AppState {
	return &domain.AppState{
		Plantations: []domain.Plantation{
			{Code: "BST-001", Name: "Boa Vista", Status: domain.PlantationActive},
			{Code: "SR-002", Name: "Santa Rosa", Status: domain.PlantationSuspended},
		},
		Users: fixtureUsers(),
		Activities: []domain.Activity{
			{ID: "a-1", PlantationCode: "BST-001", Type: domain.ActivityHarvest},
			{ID: "a-2", PlantationCode: "SR-002", Type: domain.ActivityHarvest},
		},
		Sales: []domain.Sale{
			{ID: "s-1", PlantationCode: "BST-001"},
		},
		CashMovements: []domain.CashMovement{
			{ID: "m-1", PlantationCode: "SR-002", Type: domain.CashIn, Amount: 10},
		},
	}
}

func TestAuthenticate(t *testing.T) {
	users := fixtureUsers()

	tests := []struct {
		name     string
		username string
		password string
		code     string
		wantID   string
		wantErr  bool
	}{
		{name: "admin with matching code", username: "admin", password: "admin", code: "BST-001", wantID: "u-2"},
		{name: "empty code is a wildcard", username: "joao", password: "joao123", code: "", wantID: "u-3"},
		{name: "username matches case-insensitively", username: "ADMIN", password: "admin", code: "BST-001", wantID: "u-2"},
		{name: "super-admin ignores supplied code", username: "MiguelF", password: "miguel123", code: "BST-001", wantID: "u-1"},
		{name: "super-admin lowercase username", username: "miguelf", password: "miguel123", code: "whatever", wantID: "u-1"},
		{name: "wrong code", username: "admin", password: "admin", code: "SR-002", wantErr: true},
		{name: "wrong password", username: "admin", password: "nope", code: "BST-001", wantErr: true},
		{name: "password is case-sensitive", username: "joao", password: "JOAO123", code: "", wantErr: true},
		{name: "unknown user", username: "ghost", password: "x", code: "", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			user, err := Authenticate(tc.username, tc.password, tc.code, users)
			if tc.wantErr {
				if !errors.Is(err, domain.ErrInvalidCredentials) {
					t.Fatalf("expected ErrInvalidCredentials, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if user.ID != tc.wantID {
				t.Fatalf("expected user %s, got %s", tc.wantID, user.ID)
			}
		})
	}
}

func TestScopeStateForFiltersByTenant(t *testing.T) {
	st := fixtureState()
	employee := &st.Users[2] // joao, BST-001

	scoped := ScopeStateFor(st, employee)

	if len(scoped.Activities) != 1 || scoped.Activities[0].ID != "a-1" {
		t.Fatalf("expected only the BST-001 activity, got %v", scoped.Activities)
	}
	if len(scoped.Sales) != 1 {
		t.Fatalf("expected one sale, got %d", len(scoped.Sales))
	}
	if len(scoped.CashMovements) != 0 {
		t.Fatalf("expected no cash movements from another tenant, got %d", len(scoped.CashMovements))
	}
	for _, u := range scoped.Users {
		if u.PlantationCode != "BST-001" {
			t.Fatalf("user %s leaked across tenants", u.Username)
		}
	}
	if len(scoped.Plantations) != 1 || scoped.Plantations[0].Code != "BST-001" {
		t.Fatalf("expected only own plantation, got %v", scoped.Plantations)
	}
}

func TestScopeStateForSuperAdminSeesEverything(t *testing.T) {
	st := fixtureState()
	super := &st.Users[0]

	scoped := ScopeStateFor(st, super)

	if len(scoped.Plantations) != len(st.Plantations) {
		t.Fatalf("expected %d plantations, got %d", len(st.Plantations), len(scoped.Plantations))
	}
	if len(scoped.Users) != len(st.Users) {
		t.Fatalf("expected %d users, got %d", len(st.Users), len(scoped.Users))
	}
	if len(scoped.Activities) != len(st.Activities) {
		t.Fatalf("expected %d activities, got %d", len(st.Activities), len(scoped.Activities))
	}
	if scoped.Suspended {
		t.Fatal("super-admin view must never be suspended")
	}
}

func TestScopeStateForNilUser(t *testing.T) {
	st := fixtureState()
	scoped := ScopeStateFor(st, nil)
	if len(scoped.Activities) != 0 || len(scoped.Users) != 0 {
		t.Fatalf("expected empty view for nil user, got %+v", scoped)
	}
}

func TestIsSuspendedFor(t *testing.T) {
	st := fixtureState()

	if IsSuspendedFor(st, &st.Users[2]) {
		t.Fatal("active tenant must not be suspended")
	}
	if !IsSuspendedFor(st, &st.Users[3]) {
		t.Fatal("suspended tenant session must be suspended")
	}
	if IsSuspendedFor(st, &st.Users[0]) {
		t.Fatal("super-admin must never be suspended")
	}
	if IsSuspendedFor(st, nil) {
		t.Fatal("nil user must not be suspended")
	}
}

func TestResolveTenantFor(t *testing.T) {
	st := fixtureState()

	if tenant := ResolveTenantFor(st, &st.Users[1]); tenant == nil || tenant.Code != "BST-001" {
		t.Fatalf("expected BST-001, got %v", tenant)
	}
	if tenant := ResolveTenantFor(st, &st.Users[0]); tenant != nil {
		t.Fatalf("system tenant must resolve to nil, got %v", tenant)
	}
}
