package service

import (
	"context"
	"testing"
	"time"

	dom "github.com/Arieh-code/task-managment-project/internal/domain"
	"github.com/Arieh-code/task-managment-project/internal/repo"
)

func seedCompleted(t *testing.T, svc *TaskService, userID int64, title string, imp dom.Importance, completedAt time.Time) dom.Task {
	t.Helper()
	svc.now = func() time.Time { return completedAt }
	task, err := svc.Create(context.Background(), userID, title, "", imp, true, nil)
	if err != nil {
		t.Fatalf("seed %q: %v", title, err)
	}
	return task
}

func TestListCompleted_MonthYearFilter(t *testing.T) {
	taskSvc, _, history := newTestService(t)
	histSvc := NewHistoryService(history, nil)
	ctx := context.Background()

	seedCompleted(t, taskSvc, 1, "january", dom.ImportanceLow, time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC))
	seedCompleted(t, taskSvc, 1, "march", dom.ImportanceLow, time.Date(2025, 3, 2, 10, 0, 0, 0, time.UTC))
	seedCompleted(t, taskSvc, 1, "march last year", dom.ImportanceLow, time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC))

	month, year := 3, 2025
	list, err := histSvc.ListCompleted(ctx, 1, repo.HistoryFilter{Month: &month, Year: &year}, false)
	if err != nil {
		t.Fatalf("ListCompleted: %v", err)
	}
	if len(list) != 1 || list[0].TaskTitle != "march" {
		t.Fatalf("filtered list = %+v, want only %q", list, "march")
	}

	// No period filter returns everything.
	all, err := histSvc.ListCompleted(ctx, 1, repo.HistoryFilter{}, false)
	if err != nil {
		t.Fatalf("ListCompleted: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("unfiltered list = %d rows, want 3", len(all))
	}
}

func TestListCompleted_ImportanceFilter(t *testing.T) {
	taskSvc, _, history := newTestService(t)
	histSvc := NewHistoryService(history, nil)
	ctx := context.Background()

	when := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	seedCompleted(t, taskSvc, 1, "u", dom.ImportanceUrgent, when)
	seedCompleted(t, taskSvc, 1, "l", dom.ImportanceLow, when)

	urgent := dom.ImportanceUrgent
	list, err := histSvc.ListCompleted(ctx, 1, repo.HistoryFilter{Importance: &urgent}, false)
	if err != nil {
		t.Fatalf("ListCompleted: %v", err)
	}
	if len(list) != 1 || list[0].TaskImportance != dom.ImportanceUrgent {
		t.Fatalf("list = %+v, want only the urgent row", list)
	}
}

func TestListCompleted_SeverityRankSortsLowLast(t *testing.T) {
	taskSvc, _, history := newTestService(t)
	histSvc := NewHistoryService(history, nil)
	ctx := context.Background()

	when := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	seedCompleted(t, taskSvc, 1, "low", dom.ImportanceLow, when)
	seedCompleted(t, taskSvc, 1, "urgent", dom.ImportanceUrgent, when.Add(time.Hour))
	seedCompleted(t, taskSvc, 1, "medium", dom.ImportanceMedium, when.Add(2*time.Hour))

	list, err := histSvc.ListCompleted(ctx, 1, repo.HistoryFilter{}, true)
	if err != nil {
		t.Fatalf("ListCompleted: %v", err)
	}
	var got []string
	for _, v := range list {
		got = append(got, v.TaskTitle)
	}
	// The rank map has no entry for Low ("Easy" is ranked instead), so Low
	// rows fall into the unmatched bucket and sort last.
	want := []string{"urgent", "medium", "low"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestListCompleted_ScopedToOwner(t *testing.T) {
	taskSvc, _, history := newTestService(t)
	histSvc := NewHistoryService(history, nil)
	ctx := context.Background()

	when := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	seedCompleted(t, taskSvc, 1, "mine", dom.ImportanceLow, when)
	seedCompleted(t, taskSvc, 2, "theirs", dom.ImportanceLow, when)

	list, err := histSvc.ListCompleted(ctx, 1, repo.HistoryFilter{}, false)
	if err != nil {
		t.Fatalf("ListCompleted: %v", err)
	}
	if len(list) != 1 || list[0].TaskTitle != "mine" {
		t.Fatalf("list = %+v, want only the caller's row", list)
	}
}
