package repo

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is the subset of pgx the repositories need. Both *pgxpool.Pool and
// pgx.Tx satisfy it, so the same repo code runs against the pool or inside a
// transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store bundles the task and history repositories and runs a mutation plus
// its ledger side effect atomically. A task write and its history write
// either both commit or both roll back.
type Store interface {
	Tasks() TaskRepo
	History() HistoryRepo
	InTx(ctx context.Context, fn func(tasks TaskRepo, history HistoryRepo) error) error
}

// PGStore implements Store over a pgx pool.
type PGStore struct {
	db *pgxpool.Pool
}

func NewPGStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) Tasks() TaskRepo { return NewPGTaskRepo(s.db) }

func (s *PGStore) History() HistoryRepo { return NewPGHistoryRepo(s.db) }

// InTx runs fn with tx-bound repositories inside one transaction.
func (s *PGStore) InTx(ctx context.Context, fn func(tasks TaskRepo, history HistoryRepo) error) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewPGTaskRepo(tx), NewPGHistoryRepo(tx)); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
