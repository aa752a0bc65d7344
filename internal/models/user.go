package models

import "time"

// Roles
const (
	RoleOperator = "operator"
	RoleVerifier = "verifier"
	RoleAuditor  = "auditor"
	RoleAdmin    = "admin"
)

func IsValidRole(role string) bool {
	switch role {
	case RoleOperator, RoleVerifier, RoleAuditor, RoleAdmin:
		return true
	}
	return false
}

// User is an account in the registry. Accounts are deactivated, never
// hard-deleted. PasswordHash is a bcrypt hash and is stripped from API
// responses.
type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash,omitempty"`
	Role         string    `json:"role"`
	Registered   time.Time `json:"registered"`
	Active       bool      `json:"active"`
}

// Public returns a copy safe to return to clients.
func (u User) Public() User {
	u.PasswordHash = ""
	return u
}
