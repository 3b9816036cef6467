package auth

import "time"

// User is a platform account. The role token is assigned at registration and
// validated against the closed role enumeration before it ever reaches a
// session.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Role         string
	FullName     string
	Phone        string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
