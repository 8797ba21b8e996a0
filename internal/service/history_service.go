package service

import (
	"context"
	"log/slog"
	"sort"

	dom "github.com/Arieh-code/task-managment-project/internal/domain"
	"github.com/Arieh-code/task-managment-project/internal/repo"
)

// severityRank orders completed history when sorting by importance. "Easy" is
// not a value the importance enum can produce, so "Low" rows fall through to
// the unmatched bucket and sort last. Kept as-is pending product
// clarification.
var severityRank = map[string]int{
	"Urgent": 1,
	"Medium": 2,
	"Easy":   3,
}

const unrankedSeverity = 4

// HistoryService answers completed-history queries. It is read-only: the two
// ledger mutations live in TaskService, driven by task transitions.
type HistoryService struct {
	history repo.HistoryRepo
	log     *slog.Logger
}

func NewHistoryService(h repo.HistoryRepo, log *slog.Logger) *HistoryService {
	if log == nil {
		log = slog.Default()
	}
	return &HistoryService{history: h, log: log}
}

// ListCompleted returns the owner's completion history, newest first, filtered
// by calendar month/year and importance when given. Omitted month/year means
// no period filter. sortByImportance reorders by severity rank.
func (s *HistoryService) ListCompleted(ctx context.Context, userID int64, f repo.HistoryFilter, sortByImportance bool) ([]dom.CompletedTaskView, error) {
	list, err := s.history.ListForOwner(ctx, userID, f)
	if err != nil {
		return nil, err
	}
	if sortByImportance {
		sort.SliceStable(list, func(i, j int) bool {
			return rank(list[i].TaskImportance) < rank(list[j].TaskImportance)
		})
	}
	return list, nil
}

func rank(i dom.Importance) int {
	if r, ok := severityRank[string(i)]; ok {
		return r
	}
	return unrankedSeverity
}
