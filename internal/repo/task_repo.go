package repo

import (
	"context"
	"fmt"
	"strings"

	dom "github.com/Arieh-code/task-managment-project/internal/domain"
)

// TaskFilter narrows a task listing. Nil fields mean no filter. Sort is
// "end_date" (ascending) or "importance"; importance ordering is raw label
// text descending, which happens to read Urgent, Medium, Low but is
// lexicographic, not a severity rank.
type TaskFilter struct {
	Completed  *bool
	Importance *dom.Importance
	Sort       string
}

// TaskRepo provides task persistence. Every method is scoped to the owning
// user: a task id belonging to another user behaves as if it did not exist.
type TaskRepo interface {
	Create(ctx context.Context, t dom.Task) (dom.Task, error)
	GetByID(ctx context.Context, userID, id int64) (dom.Task, error)
	List(ctx context.Context, userID int64, f TaskFilter) ([]dom.Task, error)
	Update(ctx context.Context, userID, id int64, patch dom.Task) (dom.Task, error)
	Delete(ctx context.Context, userID, id int64) (bool, error)
}

type PGTaskRepo struct {
	db Querier
}

func NewPGTaskRepo(db Querier) *PGTaskRepo {
	return &PGTaskRepo{db: db}
}

const taskColumns = `id, user_id, title, description, completed, importance, end_date, created_at, updated_at`

func (r *PGTaskRepo) Create(ctx context.Context, t dom.Task) (dom.Task, error) {
	query := `
		INSERT INTO tasks (user_id, title, description, completed, importance, end_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + taskColumns
	var out dom.Task
	err := r.db.QueryRow(ctx, query,
		t.UserID, t.Title, t.Description, t.Completed, t.Importance, t.EndDate,
	).Scan(
		&out.ID, &out.UserID, &out.Title, &out.Description, &out.Completed,
		&out.Importance, &out.EndDate, &out.CreatedAt, &out.UpdatedAt,
	)
	return out, err
}

func (r *PGTaskRepo) GetByID(ctx context.Context, userID, id int64) (dom.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 AND user_id = $2`
	var t dom.Task
	err := r.db.QueryRow(ctx, query, id, userID).Scan(
		&t.ID, &t.UserID, &t.Title, &t.Description, &t.Completed,
		&t.Importance, &t.EndDate, &t.CreatedAt, &t.UpdatedAt,
	)
	return t, err
}

func (r *PGTaskRepo) List(ctx context.Context, userID int64, f TaskFilter) ([]dom.Task, error) {
	var b strings.Builder
	b.WriteString(`SELECT ` + taskColumns + ` FROM tasks WHERE user_id = $1`)
	args := []any{userID}
	if f.Completed != nil {
		args = append(args, *f.Completed)
		fmt.Fprintf(&b, " AND completed = $%d", len(args))
	}
	if f.Importance != nil {
		args = append(args, *f.Importance)
		fmt.Fprintf(&b, " AND importance = $%d", len(args))
	}
	switch f.Sort {
	case "end_date":
		b.WriteString(" ORDER BY end_date ASC")
	case "importance":
		b.WriteString(" ORDER BY importance DESC")
	default:
		b.WriteString(" ORDER BY created_at DESC")
	}

	rows, err := r.db.Query(ctx, b.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.Task
	for rows.Next() {
		var t dom.Task
		if err := rows.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Completed,
			&t.Importance, &t.EndDate, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func (r *PGTaskRepo) Update(ctx context.Context, userID, id int64, patch dom.Task) (dom.Task, error) {
	query := `
		UPDATE tasks
		SET title = $3, description = $4, completed = $5, importance = $6, end_date = $7, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + taskColumns
	var t dom.Task
	err := r.db.QueryRow(ctx, query, id, userID,
		patch.Title, patch.Description, patch.Completed, patch.Importance, patch.EndDate,
	).Scan(
		&t.ID, &t.UserID, &t.Title, &t.Description, &t.Completed,
		&t.Importance, &t.EndDate, &t.CreatedAt, &t.UpdatedAt,
	)
	return t, err
}

// Delete removes the task row. History rows survive via ON DELETE SET NULL on
// the foreign key. Returns false when no row matched.
func (r *PGTaskRepo) Delete(ctx context.Context, userID, id int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
