package sharelink

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/mfalves/plantledger/internal/domain"
)

func samplePayload() *Payload {
	return &Payload{
		Plantations: []domain.Plantation{
			{Code: "NV-003", Name: "Nova Vida", Status: domain.PlantationTrial},
		},
		Users: []domain.User{
			{ID: "u-9", Username: "ana", Role: domain.RoleAdmin, Password: "ana123", PlantationCode: "NV-003"},
		},
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	encoded, err := Encode(samplePayload())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	decoded, err := Decode(encoded)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(decoded.Plantations) != 1 || decoded.Plantations[0].Code != "NV-003" {
		t.Fatalf("plantation lost in round trip: %v", decoded.Plantations)
	}
	if len(decoded.Users) != 1 || decoded.Users[0].Username != "ana" {
		t.Fatalf("user lost in round trip: %v", decoded.Users)
	}
}

func TestDecodeURLSafeAlphabet(t *testing.T) {
	raw, err := json.Marshal(samplePayload())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	encoded := base64.URLEncoding.EncodeToString(raw)

	if _, err := Decode(encoded); err != nil {
		t.Fatalf("URL-safe payload must decode: %v", err)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := Decode("not base64 at all!!!"); err == nil {
		t.Fatal("expected an error for a malformed payload")
	}
	if _, err := Decode(base64.StdEncoding.EncodeToString([]byte("not json"))); err == nil {
		t.Fatal("expected an error for a non-JSON payload")
	}
}

func TestMergeAddsNewEntries(t *testing.T) {
	st := &domain.AppState{
		Plantations: []domain.Plantation{{Code: "BST-001"}},
		Users:       []domain.User{{ID: "u-2", Username: "admin", PlantationCode: "BST-001"}},
	}

	plantations, users := Merge(st, samplePayload())
	if plantations != 1 || users != 1 {
		t.Fatalf("expected 1/1 added, got %d/%d", plantations, users)
	}
	if st.PlantationByCode("NV-003") == nil {
		t.Fatal("merged plantation missing")
	}
}

func TestMergeExistingEntriesWin(t *testing.T) {
	st := &domain.AppState{
		Plantations: []domain.Plantation{{Code: "NV-003", Name: "Original"}},
		Users:       []domain.User{{ID: "u-2", Username: "Ana", PlantationCode: "NV-003"}},
	}

	plantations, users := Merge(st, samplePayload())
	if plantations != 0 {
		t.Fatalf("duplicate code must be skipped, got %d added", plantations)
	}
	// Username comparison is case-insensitive: "ana" collides with "Ana".
	if users != 0 {
		t.Fatalf("duplicate username must be skipped, got %d added", users)
	}
	if st.PlantationByCode("NV-003").Name != "Original" {
		t.Fatal("existing plantation must not be replaced")
	}
}

func TestMergeNeverTouchesSystemTenant(t *testing.T) {
	st := &domain.AppState{
		Users: []domain.User{{ID: "u-1", Username: "MiguelF", PlantationCode: domain.SystemTenant}},
	}
	payload := &Payload{
		Plantations: []domain.Plantation{{Code: domain.SystemTenant, Name: "fake system"}},
		Users: []domain.User{
			{ID: "x-1", Username: "intruder", PlantationCode: domain.SystemTenant},
		},
	}

	plantations, users := Merge(st, payload)
	if plantations != 0 || users != 0 {
		t.Fatalf("SYSTEM entries must be ignored, got %d/%d", plantations, users)
	}
	if len(st.Users) != 1 {
		t.Fatalf("expected the aggregate untouched, got %d users", len(st.Users))
	}
}
