// Package repotest provides in-memory implementations of the repo interfaces
// for tests. They mirror the SQL behavior closely enough to back service and
// handler tests without a database: deletes clear task references on ledger
// rows the way the ON DELETE SET NULL constraint does, and MemStore.InTx
// rolls the whole mutation back when the callback fails.
package repotest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	dom "github.com/Arieh-code/task-managment-project/internal/domain"
	"github.com/Arieh-code/task-managment-project/internal/repo"

	"github.com/jackc/pgx/v5"
)

// MemStore implements repo.Store over map-backed repositories.
type MemStore struct {
	tasks   *MemTaskRepo
	history *MemHistoryRepo
}

func NewMemStore() *MemStore {
	history := newMemHistoryRepo()
	tasks := newMemTaskRepo(history)
	history.tasks = tasks
	return &MemStore{tasks: tasks, history: history}
}

func (s *MemStore) Tasks() repo.TaskRepo { return s.tasks }

func (s *MemStore) History() repo.HistoryRepo { return s.history }

// InTx snapshots both repositories, runs fn, and restores the snapshots when
// fn fails, so a failed ledger write also rolls back the task write.
func (s *MemStore) InTx(ctx context.Context, fn func(tasks repo.TaskRepo, history repo.HistoryRepo) error) error {
	taskSnap := s.tasks.snapshot()
	historySnap := s.history.snapshot()
	if err := fn(s.tasks, s.history); err != nil {
		s.tasks.restore(taskSnap)
		s.history.restore(historySnap)
		return err
	}
	return nil
}

type MemTaskRepo struct {
	mu      sync.Mutex
	nextID  int64
	tasks   map[int64]dom.Task
	history *MemHistoryRepo
}

func newMemTaskRepo(history *MemHistoryRepo) *MemTaskRepo {
	return &MemTaskRepo{nextID: 1, tasks: make(map[int64]dom.Task), history: history}
}

type taskSnapshot struct {
	nextID int64
	tasks  map[int64]dom.Task
}

func (r *MemTaskRepo) snapshot() taskSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	tasks := make(map[int64]dom.Task, len(r.tasks))
	for id, t := range r.tasks {
		tasks[id] = t
	}
	return taskSnapshot{nextID: r.nextID, tasks: tasks}
}

func (r *MemTaskRepo) restore(s taskSnapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID = s.nextID
	r.tasks = s.tasks
}

func (r *MemTaskRepo) Create(ctx context.Context, t dom.Task) (dom.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	t.ID = r.nextID
	r.nextID++
	t.CreatedAt = now
	t.UpdatedAt = now
	r.tasks[t.ID] = t
	return t, nil
}

func (r *MemTaskRepo) GetByID(ctx context.Context, userID, id int64) (dom.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok || t.UserID != userID {
		return dom.Task{}, pgx.ErrNoRows
	}
	return t, nil
}

func (r *MemTaskRepo) List(ctx context.Context, userID int64, f repo.TaskFilter) ([]dom.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []dom.Task
	for _, t := range r.tasks {
		if t.UserID != userID {
			continue
		}
		if f.Completed != nil && t.Completed != *f.Completed {
			continue
		}
		if f.Importance != nil && t.Importance != *f.Importance {
			continue
		}
		list = append(list, t)
	}
	switch f.Sort {
	case "end_date":
		sort.Slice(list, func(i, j int) bool { return list[i].EndDate.Before(list[j].EndDate) })
	case "importance":
		// Raw label text descending, matching ORDER BY importance DESC.
		sort.Slice(list, func(i, j int) bool {
			return strings.Compare(string(list[i].Importance), string(list[j].Importance)) > 0
		})
	default:
		sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	}
	return list, nil
}

func (r *MemTaskRepo) Update(ctx context.Context, userID, id int64, patch dom.Task) (dom.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok || t.UserID != userID {
		return dom.Task{}, pgx.ErrNoRows
	}
	patch.ID = t.ID
	patch.UserID = t.UserID
	patch.CreatedAt = t.CreatedAt
	patch.UpdatedAt = time.Now().UTC()
	r.tasks[id] = patch
	return patch, nil
}

func (r *MemTaskRepo) Delete(ctx context.Context, userID, id int64) (bool, error) {
	r.mu.Lock()
	t, ok := r.tasks[id]
	if !ok || t.UserID != userID {
		r.mu.Unlock()
		return false, nil
	}
	delete(r.tasks, id)
	r.mu.Unlock()
	if r.history != nil {
		r.history.orphan(id)
	}
	return true, nil
}

type MemHistoryRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   []dom.CompletedTaskHistory
	// task metadata for the owner join in ListForOwner.
	tasks *MemTaskRepo
}

func newMemHistoryRepo() *MemHistoryRepo {
	return &MemHistoryRepo{nextID: 1}
}

type historySnapshot struct {
	nextID int64
	rows   []dom.CompletedTaskHistory
}

func (r *MemHistoryRepo) snapshot() historySnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	rows := make([]dom.CompletedTaskHistory, len(r.rows))
	copy(rows, r.rows)
	return historySnapshot{nextID: r.nextID, rows: rows}
}

func (r *MemHistoryRepo) restore(s historySnapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID = s.nextID
	r.rows = s.rows
}

func (r *MemHistoryRepo) Append(ctx context.Context, taskID int64, completedAt time.Time) (dom.CompletedTaskHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := taskID
	h := dom.CompletedTaskHistory{ID: r.nextID, TaskID: &id, CompletedDate: completedAt}
	r.nextID++
	r.rows = append(r.rows, h)
	return h, nil
}

func (r *MemHistoryRepo) DeleteForTask(ctx context.Context, taskID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.rows[:0]
	for _, h := range r.rows {
		if h.TaskID == nil || *h.TaskID != taskID {
			kept = append(kept, h)
		}
	}
	r.rows = kept
	return nil
}

func (r *MemHistoryRepo) CountForTask(ctx context.Context, taskID int64) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, h := range r.rows {
		if h.TaskID != nil && *h.TaskID == taskID {
			n++
		}
	}
	return n, nil
}

func (r *MemHistoryRepo) ListForOwner(ctx context.Context, userID int64, f repo.HistoryFilter) ([]dom.CompletedTaskView, error) {
	r.mu.Lock()
	rows := make([]dom.CompletedTaskHistory, len(r.rows))
	copy(rows, r.rows)
	r.mu.Unlock()

	var list []dom.CompletedTaskView
	for _, h := range rows {
		if h.TaskID == nil {
			continue // orphaned rows drop out of the join
		}
		t, err := r.tasks.GetByID(ctx, userID, *h.TaskID)
		if err != nil {
			continue
		}
		if f.Year != nil && h.CompletedDate.Year() != *f.Year {
			continue
		}
		if f.Month != nil && int(h.CompletedDate.Month()) != *f.Month {
			continue
		}
		if f.Importance != nil && t.Importance != *f.Importance {
			continue
		}
		list = append(list, dom.CompletedTaskView{
			ID:             h.ID,
			TaskTitle:      t.Title,
			TaskImportance: t.Importance,
			CompletedDate:  h.CompletedDate,
		})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CompletedDate.After(list[j].CompletedDate) })
	return list, nil
}

// Rows returns a snapshot of all ledger rows, orphaned ones included.
func (r *MemHistoryRepo) Rows() []dom.CompletedTaskHistory {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]dom.CompletedTaskHistory, len(r.rows))
	copy(out, r.rows)
	return out
}

func (r *MemHistoryRepo) orphan(taskID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.rows {
		if r.rows[i].TaskID != nil && *r.rows[i].TaskID == taskID {
			r.rows[i].TaskID = nil
		}
	}
}

type MemUserRepo struct {
	mu    sync.Mutex
	users map[string]dom.User
}

func NewMemUserRepo() *MemUserRepo {
	return &MemUserRepo{users: make(map[string]dom.User)}
}

// Put seeds a user.
func (r *MemUserRepo) Put(u dom.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.ID == 0 {
		u.ID = int64(len(r.users) + 1)
	}
	r.users[u.Username] = u
}

func (r *MemUserRepo) GetByUsername(ctx context.Context, username string) (dom.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[username]
	if !ok {
		return dom.User{}, pgx.ErrNoRows
	}
	return u, nil
}
