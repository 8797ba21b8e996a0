package dto

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	dom "github.com/Arieh-code/task-managment-project/internal/domain"
)

// EndDate parses end_date from JSON as either date-only ("2006-01-02") or
// RFC3339. Date-only is stored as start of that day in UTC.
type EndDate struct{ t *time.Time }

func (d *EndDate) UnmarshalJSON(data []byte) error {
	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil || strings.TrimSpace(*raw) == "" {
		d.t = nil
		return nil
	}
	s := strings.TrimSpace(*raw)
	layouts := []string{
		"2006-01-02",     // date only
		time.RFC3339,     // 2006-01-02T15:04:05Z07:00
		time.RFC3339Nano, // with nanoseconds
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			if layout == "2006-01-02" {
				parsed = time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC)
			}
			d.t = &parsed
			return nil
		}
	}
	return fmt.Errorf("end_date: use date (YYYY-MM-DD) or RFC3339 datetime")
}

// Ptr returns *time.Time for use in service/domain.
func (d EndDate) Ptr() *time.Time { return d.t }

// CreateTaskRequest is the JSON body for POST /tasks. created_at, updated_at,
// user and importance_display are server-assigned; clients cannot set them.
type CreateTaskRequest struct {
	Title       string  `json:"title" binding:"required,min=1,max=200"`
	Description string  `json:"description" binding:"max=2000"`
	Completed   bool    `json:"completed"`
	Importance  string  `json:"importance" binding:"omitempty,oneof=Low Medium Urgent"`
	EndDate     EndDate `json:"end_date"` // optional: "2026-02-19" or RFC3339
}

// ImportanceOrDefault returns the requested importance, defaulting to Low when
// the field was omitted.
func (r CreateTaskRequest) ImportanceOrDefault() dom.Importance {
	if r.Importance == "" {
		return dom.ImportanceLow
	}
	return dom.Importance(r.Importance)
}

// UpdateTaskRequest is the JSON body for PUT /tasks/:id. All fields optional;
// nil means "do not change".
type UpdateTaskRequest struct {
	Title       *string  `json:"title" binding:"omitempty,min=1,max=200"`
	Description *string  `json:"description" binding:"omitempty,max=2000"`
	Completed   *bool    `json:"completed"`
	Importance  *string  `json:"importance" binding:"omitempty,oneof=Low Medium Urgent"`
	EndDate     *EndDate `json:"end_date"`
}

type TaskResponse struct {
	ID                int64     `json:"id"`
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	Completed         bool      `json:"completed"`
	Importance        string    `json:"importance"`
	ImportanceDisplay string    `json:"importance_display"`
	EndDate           time.Time `json:"end_date"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
	User              string    `json:"user"`
}

// TaskToResponse builds the wire representation; username comes from the
// authenticated principal, not from storage.
func TaskToResponse(t dom.Task, username string) TaskResponse {
	return TaskResponse{
		ID:                t.ID,
		Title:             t.Title,
		Description:       t.Description,
		Completed:         t.Completed,
		Importance:        string(t.Importance),
		ImportanceDisplay: t.Importance.Display(),
		EndDate:           t.EndDate,
		CreatedAt:         t.CreatedAt,
		UpdatedAt:         t.UpdatedAt,
		User:              username,
	}
}

func TasksToResponses(list []dom.Task, username string) []TaskResponse {
	out := make([]TaskResponse, len(list))
	for i := range list {
		out[i] = TaskToResponse(list[i], username)
	}
	return out
}
