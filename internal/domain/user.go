package domain

import "time"

// Roles known to the API. Stored as plain strings.
const (
	RoleUser  = "User"
	RoleAdmin = "Admin"
)

// User is the domain entity for a user account. Users are seeded at startup
// (or by migration) and have no mutation endpoints; inactive users cannot
// authenticate.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Role         string
	IsActive     bool
	CreatedAt    time.Time
}
