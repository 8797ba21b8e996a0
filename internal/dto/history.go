package dto

import (
	"fmt"
	"strconv"
	"time"

	dom "github.com/Arieh-code/task-managment-project/internal/domain"
)

// HistoryResponse is one completed-history row joined to its task.
type HistoryResponse struct {
	ID                int64     `json:"id"`
	TaskTitle         string    `json:"task_title"`
	TaskImportance    string    `json:"task_importance"`
	TaskCompletedDate time.Time `json:"task_completed_date"`
}

func HistoryToResponse(v dom.CompletedTaskView) HistoryResponse {
	return HistoryResponse{
		ID:                v.ID,
		TaskTitle:         v.TaskTitle,
		TaskImportance:    string(v.TaskImportance),
		TaskCompletedDate: v.CompletedDate,
	}
}

func HistoryToResponses(list []dom.CompletedTaskView) []HistoryResponse {
	out := make([]HistoryResponse, len(list))
	for i := range list {
		out[i] = HistoryToResponse(list[i])
	}
	return out
}

// ParseMonth validates the month query parameter. Empty means no filter.
func ParseMonth(raw string) (*int, error) {
	if raw == "" {
		return nil, nil
	}
	m, err := strconv.Atoi(raw)
	if err != nil || m < 1 || m > 12 {
		return nil, fmt.Errorf("invalid month parameter: %q", raw)
	}
	return &m, nil
}

// ParseYear validates the year query parameter: a positive integer string of
// at most 4 digits. Empty means no filter.
func ParseYear(raw string) (*int, error) {
	if raw == "" {
		return nil, nil
	}
	if len(raw) > 4 {
		return nil, fmt.Errorf("invalid year parameter: %q", raw)
	}
	y, err := strconv.Atoi(raw)
	if err != nil || y <= 0 {
		return nil, fmt.Errorf("invalid year parameter: %q", raw)
	}
	return &y, nil
}
