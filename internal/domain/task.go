package domain

import (
	"errors"
	"fmt"
	"time"
)

// Importance is the task priority. It drives the default deadline.
type Importance string

const (
	ImportanceLow    Importance = "Low"
	ImportanceMedium Importance = "Medium"
	ImportanceUrgent Importance = "Urgent"
)

// deadlineDays maps importance to the default deadline offset in days.
var deadlineDays = map[Importance]int{
	ImportanceLow:    30,
	ImportanceMedium: 14,
	ImportanceUrgent: 3,
}

var displayLabels = map[Importance]string{
	ImportanceLow:    "Low Priority (Complete within a month)",
	ImportanceMedium: "Moderate Priority (Complete within two weeks)",
	ImportanceUrgent: "High Priority (Complete within a few days)",
}

// ErrUnknownImportance is returned when a deadline is requested for an
// importance value outside the enum.
var ErrUnknownImportance = errors.New("unknown importance")

// Valid reports whether i is one of Low, Medium, Urgent.
func (i Importance) Valid() bool {
	_, ok := deadlineDays[i]
	return ok
}

// Display returns the human-readable label for i, or the raw value when i is
// not a known importance.
func (i Importance) Display() string {
	if label, ok := displayLabels[i]; ok {
		return label
	}
	return string(i)
}

// EffectiveDeadline returns the deadline for a task: the explicit one verbatim
// when supplied, otherwise now plus the offset for imp. An unknown importance
// with no explicit deadline is a validation failure.
func EffectiveDeadline(imp Importance, explicit *time.Time, now time.Time) (time.Time, error) {
	if explicit != nil {
		return *explicit, nil
	}
	days, ok := deadlineDays[imp]
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnknownImportance, imp)
	}
	return now.AddDate(0, 0, days), nil
}

// Task is the domain entity. Does not depend on Gin, Postgres or Redis.
type Task struct {
	ID          int64
	UserID      int64
	Title       string
	Description string
	Completed   bool
	Importance  Importance
	// EndDate is derived from Importance at creation when not supplied
	// explicitly. It is never recomputed afterwards, even if the importance
	// changes on a later update.
	EndDate time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
