package domain

import "context"

// AppState is the single root aggregate. It is created at process start
// from the persisted snapshot (or bootstrap defaults), mutated only
// through whole-replacement updates in the state container, and written
// back after every mutation. Domain records are stored globally and
// partitioned at read time by tenant code.
type AppState struct {
	Plantations   []Plantation   `json:"plantations"`
	Users         []User         `json:"users"`
	CurrentUser   *User          `json:"currentUser"`
	Activities    []Activity     `json:"activities"`
	Sales         []Sale         `json:"sales"`
	CashMovements []CashMovement `json:"cashMovements"`
	Notifications []Notification `json:"notifications"`
	Language      string         `json:"language"`
	Theme         string         `json:"theme"`
	Online        bool           `json:"online"`
	Syncing       bool           `json:"syncing"`
}

// Clone returns a deep copy of the aggregate so mutators can derive a
// new state value without touching the published one.
func (s *AppState) Clone() *AppState {
	out := *s
	out.Plantations = append([]Plantation(nil), s.Plantations...)
	out.Users = append([]User(nil), s.Users...)
	out.Activities = append([]Activity(nil), s.Activities...)
	out.Sales = append([]Sale(nil), s.Sales...)
	out.CashMovements = append([]CashMovement(nil), s.CashMovements...)
	out.Notifications = append([]Notification(nil), s.Notifications...)
	for i, a := range s.Activities {
		out.Activities[i].Workers = append([]string(nil), a.Workers...)
	}
	if s.CurrentUser != nil {
		u := *s.CurrentUser
		out.CurrentUser = &u
	}
	return &out
}

// UserByID looks up a user in the aggregate.
func (s *AppState) UserByID(id string) *User {
	for i := range s.Users {
		if s.Users[i].ID == id {
			return &s.Users[i]
		}
	}
	return nil
}

// PlantationByCode looks up a tenant by its code.
func (s *AppState) PlantationByCode(code string) *Plantation {
	for i := range s.Plantations {
		if s.Plantations[i].Code == code {
			return &s.Plantations[i]
		}
	}
	return nil
}

// SnapshotStore persists the whole aggregate as one blob under a fixed
// versioned key.
type SnapshotStore interface {
	Load() (*AppState, error)
	Save(state *AppState) error
	Close() error
}

// Remote is the sync counterpart: a store that accepts batches of
// unsynced records. Implementations must be idempotent for retried
// batches; the whole batch succeeds or the whole batch is retried.
type Remote interface {
	Upload(ctx context.Context, activities []Activity, sales []Sale, movements []CashMovement) error
}
