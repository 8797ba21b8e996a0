package domain

import "time"

// CompletedTaskHistory is one row of the completion ledger. TaskID is nil for
// orphaned rows: deleting a task keeps its history with the reference cleared.
type CompletedTaskHistory struct {
	ID            int64
	TaskID        *int64
	CompletedDate time.Time
}

// CompletedTaskView is the read model for history queries: a ledger row joined
// to the task it archives. Orphaned rows never appear here since the join
// requires a live task to resolve the owner.
type CompletedTaskView struct {
	ID             int64
	TaskTitle      string
	TaskImportance Importance
	CompletedDate  time.Time
}
