package domain

import "time"

// User is the domain model for account holders. Each user owns zero or more
// tasks; the password hash never leaves the service boundary.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
