package domain

import "time"

// User is the account a task or history row is scoped to. Accounts are seeded
// out of band (see scripts/genhash.go); there is no signup endpoint.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}
