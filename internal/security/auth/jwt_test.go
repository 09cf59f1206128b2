package auth

import (
	"testing"

	"github.com/mfalves/plantledger/internal/domain"
)

func testUser() *domain.User {
	return &domain.User{
		ID:             "u-2",
		Username:       "admin",
		Role:           domain.RoleAdmin,
		PlantationCode: "BST-001",
	}
}

func TestGenerateAndValidateToken(t *testing.T) {
	tm := NewTokenManager("test-secret", "plantledger")

	token, err := tm.GenerateToken(testUser())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := tm.ValidateToken(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.UserID != "u-2" || claims.Username != "admin" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.Role != domain.RoleAdmin || claims.PlantationCode != "BST-001" {
		t.Fatalf("role/tenant claims wrong: %+v", claims)
	}
}

func TestTokensHaveNoExpiry(t *testing.T) {
	tm := NewTokenManager("test-secret", "plantledger")

	token, err := tm.GenerateToken(testUser())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	claims, err := tm.ValidateToken(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.ExpiresAt != nil {
		t.Fatal("sessions have no timeout, tokens must carry no expiry claim")
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, err := NewTokenManager("secret-a", "plantledger").GenerateToken(testUser())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := NewTokenManager("secret-b", "plantledger").ValidateToken(token); err == nil {
		t.Fatal("expected validation to fail with a different secret")
	}
}

func TestGenerateTokenRequiresUser(t *testing.T) {
	tm := NewTokenManager("test-secret", "plantledger")
	if _, err := tm.GenerateToken(nil); err == nil {
		t.Fatal("expected an error for nil user")
	}
	if _, err := tm.GenerateToken(&domain.User{}); err == nil {
		t.Fatal("expected an error for a user without id")
	}
}

func TestExtractToken(t *testing.T) {
	if got, err := ExtractToken("Bearer abc123"); err != nil || got != "abc123" {
		t.Fatalf("expected abc123, got %q err %v", got, err)
	}
	if _, err := ExtractToken("abc123"); err == nil {
		t.Fatal("expected an error for a bare token")
	}
	if _, err := ExtractToken("Basic abc123"); err == nil {
		t.Fatal("expected an error for a non-bearer scheme")
	}
}
