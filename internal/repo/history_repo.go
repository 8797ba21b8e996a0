package repo

import (
	"context"
	"fmt"
	"strings"
	"time"

	dom "github.com/Arieh-code/task-managment-project/internal/domain"
)

// HistoryFilter narrows a completed-history listing. Nil month/year means no
// period filter (the page-view "default to current month" behavior was not
// carried to the API).
type HistoryFilter struct {
	Month      *int
	Year       *int
	Importance *dom.Importance
}

// HistoryRepo is the completion ledger. It has no public complete API of its
// own: the two mutations are only ever driven by task transitions.
type HistoryRepo interface {
	Append(ctx context.Context, taskID int64, completedAt time.Time) (dom.CompletedTaskHistory, error)
	DeleteForTask(ctx context.Context, taskID int64) error
	CountForTask(ctx context.Context, taskID int64) (int, error)
	ListForOwner(ctx context.Context, userID int64, f HistoryFilter) ([]dom.CompletedTaskView, error)
}

type PGHistoryRepo struct {
	db Querier
}

func NewPGHistoryRepo(db Querier) *PGHistoryRepo {
	return &PGHistoryRepo{db: db}
}

func (r *PGHistoryRepo) Append(ctx context.Context, taskID int64, completedAt time.Time) (dom.CompletedTaskHistory, error) {
	query := `
		INSERT INTO completed_task_history (task_id, completed_date)
		VALUES ($1, $2)
		RETURNING id, task_id, completed_date`
	var h dom.CompletedTaskHistory
	err := r.db.QueryRow(ctx, query, taskID, completedAt).Scan(&h.ID, &h.TaskID, &h.CompletedDate)
	return h, err
}

// DeleteForTask removes every ledger row for the task, not just the most
// recent one. Policy choice inherited from the product.
func (r *PGHistoryRepo) DeleteForTask(ctx context.Context, taskID int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM completed_task_history WHERE task_id = $1`, taskID)
	return err
}

func (r *PGHistoryRepo) CountForTask(ctx context.Context, taskID int64) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM completed_task_history WHERE task_id = $1`, taskID,
	).Scan(&n)
	return n, err
}

// ListForOwner joins ledger rows to their tasks and scopes by owner. Orphaned
// rows (task deleted) drop out of the join and are never visible here.
func (r *PGHistoryRepo) ListForOwner(ctx context.Context, userID int64, f HistoryFilter) ([]dom.CompletedTaskView, error) {
	var b strings.Builder
	b.WriteString(`
		SELECT h.id, t.title, t.importance, h.completed_date
		FROM completed_task_history h
		JOIN tasks t ON t.id = h.task_id
		WHERE t.user_id = $1`)
	args := []any{userID}
	if f.Year != nil {
		args = append(args, *f.Year)
		fmt.Fprintf(&b, " AND EXTRACT(YEAR FROM h.completed_date) = $%d", len(args))
	}
	if f.Month != nil {
		args = append(args, *f.Month)
		fmt.Fprintf(&b, " AND EXTRACT(MONTH FROM h.completed_date) = $%d", len(args))
	}
	if f.Importance != nil {
		args = append(args, *f.Importance)
		fmt.Fprintf(&b, " AND t.importance = $%d", len(args))
	}
	b.WriteString(" ORDER BY h.completed_date DESC")

	rows, err := r.db.Query(ctx, b.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.CompletedTaskView
	for rows.Next() {
		var v dom.CompletedTaskView
		if err := rows.Scan(&v.ID, &v.TaskTitle, &v.TaskImportance, &v.CompletedDate); err != nil {
			return nil, err
		}
		list = append(list, v)
	}
	return list, rows.Err()
}
