package domain

// Role is the closed set of access levels.
type Role string

const (
	RoleSuperAdmin Role = "SUPER_ADMIN"
	RoleAdmin      Role = "ADMIN"
	RoleEmployee   Role = "EMPLOYEE"
)

// User represents an account. Every non-super-admin user belongs to
// exactly one plantation; the super-admin belongs to the SYSTEM tenant.
//
// Passwords are stored and compared in plain text. Deployments run
// on-premise per plantation; credentials gate screens, not secrets.
type User struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	Role           Role   `json:"role"`
	Password       string `json:"password"`
	PlantationCode string `json:"plantationCode"`
}

// IsSuperAdmin reports whether the user bypasses tenant scoping.
func (u *User) IsSuperAdmin() bool {
	return u.Role == RoleSuperAdmin
}
