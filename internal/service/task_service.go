package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/Arieh-code/task-managment-project/internal/cache"
	dom "github.com/Arieh-code/task-managment-project/internal/domain"
	"github.com/Arieh-code/task-managment-project/internal/repo"

	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/singleflight"
)

var (
	ErrNotFound     = errors.New("task not found")
	ErrInvalidTitle = errors.New("title must not be empty")
)

// UpdateTaskPatch carries the fields of a partial update. Nil means "do not
// change".
type UpdateTaskPatch struct {
	Title       *string
	Description *string
	Completed   *bool
	Importance  *dom.Importance
	EndDate     *time.Time
}

// TaskService owns the task lifecycle. Completion state is mirrored into the
// history ledger here, never in the repositories: active→completed appends
// one ledger row stamped with the transition time, completed→active deletes
// every ledger row for the task. Each mutation runs with its ledger side
// effect inside one store transaction, so a task is never persisted as
// completed without its ledger row.
type TaskService struct {
	store repo.Store
	cache *cache.TaskCache
	log   *slog.Logger
	sf    singleflight.Group
	now   func() time.Time
}

// NewTaskService creates a TaskService. If c is nil, caching is disabled.
func NewTaskService(store repo.Store, c *cache.TaskCache, log *slog.Logger) *TaskService {
	if log == nil {
		log = slog.Default()
	}
	return &TaskService{
		store: store,
		cache: c,
		log:   log,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *TaskService) Create(ctx context.Context, userID int64, title, desc string, importance dom.Importance, completed bool, endDate *time.Time) (dom.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return dom.Task{}, ErrInvalidTitle
	}
	now := s.now()
	deadline, err := dom.EffectiveDeadline(importance, endDate, now)
	if err != nil {
		return dom.Task{}, err
	}

	var t dom.Task
	err = s.store.InTx(ctx, func(tasks repo.TaskRepo, history repo.HistoryRepo) error {
		var err error
		t, err = tasks.Create(ctx, dom.Task{
			UserID:      userID,
			Title:       title,
			Description: strings.TrimSpace(desc),
			Completed:   completed,
			Importance:  importance,
			EndDate:     deadline,
		})
		if err != nil {
			return err
		}
		if completed {
			if _, err := history.Append(ctx, t.ID, now); err != nil {
				s.log.Error("append history on create", "user_id", userID, "task_id", t.ID, "err", err)
				return err
			}
		}
		return nil
	})
	if err != nil {
		return dom.Task{}, err
	}
	s.invalidateCache(ctx, userID)
	return t, nil
}

// Update applies a partial update. The end date is never recomputed here even
// when the importance changes; only an explicit end_date in the patch moves
// it.
func (s *TaskService) Update(ctx context.Context, userID, id int64, patch UpdateTaskPatch) (dom.Task, error) {
	var t dom.Task
	err := s.store.InTx(ctx, func(tasks repo.TaskRepo, history repo.HistoryRepo) error {
		existing, err := tasks.GetByID(ctx, userID, id)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}
		next := existing
		if patch.Title != nil {
			title := strings.TrimSpace(*patch.Title)
			if title == "" {
				return ErrInvalidTitle
			}
			next.Title = title
		}
		if patch.Description != nil {
			next.Description = strings.TrimSpace(*patch.Description)
		}
		if patch.Importance != nil {
			if !patch.Importance.Valid() {
				return dom.ErrUnknownImportance
			}
			next.Importance = *patch.Importance
		}
		if patch.EndDate != nil {
			next.EndDate = *patch.EndDate
		}
		if patch.Completed != nil {
			next.Completed = *patch.Completed
		}

		t, err = tasks.Update(ctx, userID, id, next)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}

		switch {
		case !existing.Completed && t.Completed:
			if _, err := history.Append(ctx, t.ID, s.now()); err != nil {
				s.log.Error("append history on update", "user_id", userID, "task_id", t.ID, "err", err)
				return err
			}
		case existing.Completed && !t.Completed:
			if err := history.DeleteForTask(ctx, t.ID); err != nil {
				s.log.Error("delete history on update", "user_id", userID, "task_id", t.ID, "err", err)
				return err
			}
		}
		return nil
	})
	if err != nil {
		return dom.Task{}, err
	}
	s.invalidateCache(ctx, userID)
	return t, nil
}

// Delete removes the task. Ledger rows are kept with their task reference
// cleared by the store, so completed history survives task deletion.
func (s *TaskService) Delete(ctx context.Context, userID, id int64) error {
	deleted, err := s.store.Tasks().Delete(ctx, userID, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	s.invalidateCache(ctx, userID)
	return nil
}

func (s *TaskService) List(ctx context.Context, userID int64, f repo.TaskFilter) ([]dom.Task, error) {
	if s.cache == nil {
		return s.store.Tasks().List(ctx, userID, f)
	}
	variant := filterVariant(f)
	key := strconv.FormatInt(userID, 10) + ":" + variant
	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		if list, err := s.cache.GetList(ctx, userID, variant); err == nil && list != nil {
			return list, nil
		}
		list, err := s.store.Tasks().List(ctx, userID, f)
		if err != nil {
			return nil, err
		}
		_ = s.cache.SetList(ctx, userID, variant, list)
		return list, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]dom.Task), nil
}

func (s *TaskService) invalidateCache(ctx context.Context, userID int64) {
	if s.cache != nil {
		_ = s.cache.InvalidateUser(ctx, userID)
	}
}

func filterVariant(f repo.TaskFilter) string {
	var parts []string
	if f.Completed != nil {
		parts = append(parts, "c="+strconv.FormatBool(*f.Completed))
	}
	if f.Importance != nil {
		parts = append(parts, "i="+string(*f.Importance))
	}
	if f.Sort != "" {
		parts = append(parts, "s="+f.Sort)
	}
	return strings.Join(parts, ",")
}
