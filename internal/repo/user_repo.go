package repo

import (
	"context"

	dom "github.com/Arieh-code/task-managment-project/internal/domain"
)

// UserRepo provides user lookup. Accounts are seeded out of band, so there is
// no create method here.
type UserRepo interface {
	GetByUsername(ctx context.Context, username string) (dom.User, error)
}

// PGUserRepo implements UserRepo with Postgres.
type PGUserRepo struct {
	db Querier
}

// NewPGUserRepo returns a new PGUserRepo.
func NewPGUserRepo(db Querier) *PGUserRepo {
	return &PGUserRepo{db: db}
}

// GetByUsername returns the user by username.
func (r *PGUserRepo) GetByUsername(ctx context.Context, username string) (dom.User, error) {
	var u dom.User
	err := r.db.QueryRow(ctx,
		`SELECT id, username, password_hash, created_at FROM users WHERE username = $1`,
		username,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	return u, err
}
