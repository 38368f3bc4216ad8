package model

type Status string

const (
	StatusPending Status = "pending"
	StatusDone    Status = "done"
	StatusSkipped Status = "skipped"
)

// Valid reports whether s is one of the recognized task statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusDone, StatusSkipped:
		return true
	default:
		return false
	}
}

type Task struct {
	ID        int64  `json:"id" db:"id"`
	Kid       string `json:"kid" db:"kid"`
	Title     string `json:"title" db:"title"`
	SortOrder int    `json:"sort_order" db:"sort_order"`
}

type TaskLogEntry struct {
	ID     int64  `json:"id" db:"id"`
	TaskID int64  `json:"task_id" db:"task_id"`
	Date   string `json:"date" db:"date"`
	Status Status `json:"status" db:"status"`
}

// DailyTask is a task joined with its status for one date. A task without a
// log entry for that date is pending.
type DailyTask struct {
	Task
	Status Status `json:"status" db:"status"`
}
