// Package sharelink implements the shareable configuration payload used
// to provision a tenant onto a fresh device: base64-encoded UTF-8 JSON
// carrying a plantation and its users, consumed once at load time.
//
// The payload is trusted as-is: no signature, no expiry. The merge is
// additive only and never touches the SYSTEM tenant, which bounds what
// a crafted link can do.
package sharelink

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mfalves/plantledger/internal/domain"
)

// Payload is the wire shape of a share link.
type Payload struct {
	Plantations []domain.Plantation `json:"plantations"`
	Users       []domain.User       `json:"users"`
}

// Encode serializes a payload for embedding in a URL parameter.
func Encode(p *Payload) (string, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("failed to marshal share payload: %w", err)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// Decode parses a share-link parameter.
func Decode(encoded string) (*Payload, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		// URL transports sometimes re-encode with the URL-safe alphabet.
		raw, err = base64.URLEncoding.DecodeString(strings.TrimSpace(encoded))
		if err != nil {
			return nil, fmt.Errorf("failed to decode share payload: %w", err)
		}
	}
	p := &Payload{}
	if err := json.Unmarshal(raw, p); err != nil {
		return nil, fmt.Errorf("failed to parse share payload: %w", err)
	}
	return p, nil
}

// Merge unions the payload into the aggregate. Existing plantation codes
// and usernames win; the seeded SYSTEM tenant and its accounts are never
// replaced. Returns the number of plantations and users added.
func Merge(state *domain.AppState, p *Payload) (int, int) {
	addedPlantations := 0
	for _, pl := range p.Plantations {
		if pl.Code == "" || pl.Code == domain.SystemTenant {
			continue
		}
		if state.PlantationByCode(pl.Code) != nil {
			continue
		}
		state.Plantations = append(state.Plantations, pl)
		addedPlantations++
	}

	addedUsers := 0
	for _, u := range p.Users {
		if u.Username == "" || u.PlantationCode == domain.SystemTenant {
			continue
		}
		if hasUsername(state.Users, u.Username) {
			continue
		}
		state.Users = append(state.Users, u)
		addedUsers++
	}
	return addedPlantations, addedUsers
}

func hasUsername(users []domain.User, name string) bool {
	for _, u := range users {
		if strings.EqualFold(u.Username, name) {
			return true
		}
	}
	return false
}
