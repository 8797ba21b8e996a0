package service

import (
	"context"
	"errors"
	"testing"
	"time"

	dom "github.com/Arieh-code/task-managment-project/internal/domain"
	"github.com/Arieh-code/task-managment-project/internal/repo"
	"github.com/Arieh-code/task-managment-project/internal/repo/repotest"
)

func newTestService(t *testing.T) (*TaskService, *repotest.MemStore, *repotest.MemHistoryRepo) {
	t.Helper()
	store := repotest.NewMemStore()
	return NewTaskService(store, nil, nil), store, store.History().(*repotest.MemHistoryRepo)
}

var errLedgerDown = errors.New("ledger unavailable")

// brokenLedgerStore runs transactions against the in-memory store but fails
// every history append, to exercise rollback of the surrounding mutation.
type brokenLedgerStore struct {
	*repotest.MemStore
}

func (s *brokenLedgerStore) InTx(ctx context.Context, fn func(tasks repo.TaskRepo, history repo.HistoryRepo) error) error {
	return s.MemStore.InTx(ctx, func(tasks repo.TaskRepo, history repo.HistoryRepo) error {
		return fn(tasks, brokenLedger{history})
	})
}

type brokenLedger struct {
	repo.HistoryRepo
}

func (brokenLedger) Append(ctx context.Context, taskID int64, completedAt time.Time) (dom.CompletedTaskHistory, error) {
	return dom.CompletedTaskHistory{}, errLedgerDown
}

func TestCreate_DerivesDeadlineFromImportance(t *testing.T) {
	svc, _, _ := newTestService(t)
	now := time.Date(2025, 5, 1, 9, 30, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	cases := []struct {
		importance dom.Importance
		wantDays   int
	}{
		{dom.ImportanceLow, 30},
		{dom.ImportanceMedium, 14},
		{dom.ImportanceUrgent, 3},
	}
	for _, tc := range cases {
		task, err := svc.Create(context.Background(), 1, "t", "", tc.importance, false, nil)
		if err != nil {
			t.Fatalf("Create(%s): %v", tc.importance, err)
		}
		want := now.AddDate(0, 0, tc.wantDays)
		if !task.EndDate.Equal(want) {
			t.Fatalf("end date for %s = %v, want %v", tc.importance, task.EndDate, want)
		}
	}
}

func TestCreate_ExplicitEndDateKept(t *testing.T) {
	svc, _, _ := newTestService(t)
	explicit := time.Date(2025, 12, 24, 0, 0, 0, 0, time.UTC)

	task, err := svc.Create(context.Background(), 1, "t", "", dom.ImportanceUrgent, false, &explicit)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !task.EndDate.Equal(explicit) {
		t.Fatalf("end date = %v, want explicit %v", task.EndDate, explicit)
	}
}

func TestCreate_UnknownImportanceRejected(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.Create(context.Background(), 1, "t", "", dom.Importance("Easy"), false, nil)
	if !errors.Is(err, dom.ErrUnknownImportance) {
		t.Fatalf("err = %v, want ErrUnknownImportance", err)
	}
}

func TestCreate_CompletedWritesHistory(t *testing.T) {
	svc, _, history := newTestService(t)

	task, err := svc.Create(context.Background(), 1, "done already", "", dom.ImportanceLow, true, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	n, _ := history.CountForTask(context.Background(), task.ID)
	if n != 1 {
		t.Fatalf("history count = %d, want 1", n)
	}
}

func TestCreate_RollsBackTaskWhenLedgerFails(t *testing.T) {
	base := repotest.NewMemStore()
	svc := NewTaskService(&brokenLedgerStore{base}, nil, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, 1, "done already", "", dom.ImportanceLow, true, nil)
	if !errors.Is(err, errLedgerDown) {
		t.Fatalf("err = %v, want errLedgerDown", err)
	}

	// The task write must roll back with the failed ledger write: no task
	// may persist as completed without its ledger row.
	list, err := base.Tasks().List(ctx, 1, repo.TaskFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("tasks after failed create = %d, want 0", len(list))
	}
	if rows := base.History().(*repotest.MemHistoryRepo).Rows(); len(rows) != 0 {
		t.Fatalf("ledger rows after failed create = %d, want 0", len(rows))
	}
}

func TestUpdate_RollsBackCompletionWhenLedgerFails(t *testing.T) {
	base := repotest.NewMemStore()
	svc := NewTaskService(&brokenLedgerStore{base}, nil, nil)
	ctx := context.Background()

	task, err := svc.Create(ctx, 1, "t", "", dom.ImportanceLow, false, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	done := true
	if _, err := svc.Update(ctx, 1, task.ID, UpdateTaskPatch{Completed: &done}); !errors.Is(err, errLedgerDown) {
		t.Fatalf("err = %v, want errLedgerDown", err)
	}

	got, err := base.Tasks().GetByID(ctx, 1, task.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Completed {
		t.Fatal("task persisted as completed although the ledger write failed")
	}
	if n, _ := base.History().CountForTask(ctx, task.ID); n != 0 {
		t.Fatalf("ledger rows after rolled-back completion = %d, want 0", n)
	}
}

func TestUpdate_CompletionTransitions(t *testing.T) {
	svc, _, history := newTestService(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, 1, "t", "", dom.ImportanceLow, false, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	boolPtr := func(b bool) *bool { return &b }

	// active -> completed appends exactly one row.
	if _, err := svc.Update(ctx, 1, task.ID, UpdateTaskPatch{Completed: boolPtr(true)}); err != nil {
		t.Fatalf("Update to completed: %v", err)
	}
	if n, _ := history.CountForTask(ctx, task.ID); n != 1 {
		t.Fatalf("history count after completion = %d, want 1", n)
	}

	// Updating without touching the flag leaves the ledger alone.
	title := "renamed"
	if _, err := svc.Update(ctx, 1, task.ID, UpdateTaskPatch{Title: &title}); err != nil {
		t.Fatalf("Update title: %v", err)
	}
	if n, _ := history.CountForTask(ctx, task.ID); n != 1 {
		t.Fatalf("history count after title update = %d, want 1", n)
	}

	// Setting completed=true again is not a transition.
	if _, err := svc.Update(ctx, 1, task.ID, UpdateTaskPatch{Completed: boolPtr(true)}); err != nil {
		t.Fatalf("Update completed=true again: %v", err)
	}
	if n, _ := history.CountForTask(ctx, task.ID); n != 1 {
		t.Fatalf("history count after no-op completion = %d, want 1", n)
	}

	// completed -> active removes every row for the task.
	if _, err := svc.Update(ctx, 1, task.ID, UpdateTaskPatch{Completed: boolPtr(false)}); err != nil {
		t.Fatalf("Update to active: %v", err)
	}
	if n, _ := history.CountForTask(ctx, task.ID); n != 0 {
		t.Fatalf("history count after un-completion = %d, want 0", n)
	}
}

func TestUpdate_UncompletionDeletesEveryLedgerRow(t *testing.T) {
	svc, _, history := newTestService(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, 1, "t", "", dom.ImportanceLow, false, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	boolPtr := func(b bool) *bool { return &b }
	if _, err := svc.Update(ctx, 1, task.ID, UpdateTaskPatch{Completed: boolPtr(true)}); err != nil {
		t.Fatalf("Update to completed: %v", err)
	}
	// A second row for the same task, as left behind by an earlier
	// complete/uncomplete cycle that predates the delete-all policy.
	if _, err := history.Append(ctx, task.ID, time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if n, _ := history.CountForTask(ctx, task.ID); n != 2 {
		t.Fatalf("history count before un-completion = %d, want 2", n)
	}

	if _, err := svc.Update(ctx, 1, task.ID, UpdateTaskPatch{Completed: boolPtr(false)}); err != nil {
		t.Fatalf("Update to active: %v", err)
	}
	if n, _ := history.CountForTask(ctx, task.ID); n != 0 {
		t.Fatalf("history count after un-completion = %d, want 0 (all rows, not just the latest)", n)
	}
}

func TestUpdate_ImportanceChangeKeepsEndDate(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, 1, "t", "", dom.ImportanceLow, false, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	urgent := dom.ImportanceUrgent
	updated, err := svc.Update(ctx, 1, task.ID, UpdateTaskPatch{Importance: &urgent})
	if err != nil {
		t.Fatalf("Update importance: %v", err)
	}
	if updated.Importance != dom.ImportanceUrgent {
		t.Fatalf("importance = %s, want Urgent", updated.Importance)
	}
	if !updated.EndDate.Equal(task.EndDate) {
		t.Fatalf("end date changed on importance update: %v -> %v", task.EndDate, updated.EndDate)
	}
}

func TestUpdate_OtherUsersTaskLooksMissing(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, 1, "mine", "", dom.ImportanceLow, false, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	done := true
	if _, err := svc.Update(ctx, 2, task.ID, UpdateTaskPatch{Completed: &done}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if err := svc.Delete(ctx, 2, task.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("delete err = %v, want ErrNotFound", err)
	}
}

func TestDelete_KeepsOrphanedHistory(t *testing.T) {
	svc, _, history := newTestService(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, 1, "t", "", dom.ImportanceMedium, true, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := svc.Delete(ctx, 1, task.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	rows := history.Rows()
	if len(rows) != 1 {
		t.Fatalf("ledger rows after delete = %d, want 1", len(rows))
	}
	if rows[0].TaskID != nil {
		t.Fatalf("task reference = %v, want cleared", *rows[0].TaskID)
	}

	// The orphaned row no longer resolves through the owner join.
	views, err := history.ListForOwner(ctx, 1, repo.HistoryFilter{})
	if err != nil {
		t.Fatalf("ListForOwner: %v", err)
	}
	if len(views) != 0 {
		t.Fatalf("joined history rows = %d, want 0", len(views))
	}
}

func TestList_ScopedToOwner(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, 1, "a1", "", dom.ImportanceLow, false, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Create(ctx, 1, "a2", "", dom.ImportanceLow, false, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Create(ctx, 2, "b1", "", dom.ImportanceLow, false, nil); err != nil {
		t.Fatal(err)
	}

	listA, err := svc.List(ctx, 1, repo.TaskFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(listA) != 2 {
		t.Fatalf("user 1 tasks = %d, want 2", len(listA))
	}
	listB, err := svc.List(ctx, 2, repo.TaskFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(listB) != 1 {
		t.Fatalf("user 2 tasks = %d, want 1", len(listB))
	}
}

func TestList_SortByImportanceIsLabelText(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	for _, imp := range []dom.Importance{dom.ImportanceMedium, dom.ImportanceUrgent, dom.ImportanceLow} {
		if _, err := svc.Create(ctx, 1, string(imp), "", imp, false, nil); err != nil {
			t.Fatal(err)
		}
	}

	list, err := svc.List(ctx, 1, repo.TaskFilter{Sort: "importance"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	var got []string
	for _, task := range list {
		got = append(got, string(task.Importance))
	}
	// Descending label text: U > M > L byte-wise.
	want := []string{"Urgent", "Medium", "Low"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}
