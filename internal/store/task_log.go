package store

import (
	"database/sql"
	"fmt"

	"github.com/dukerupert/chorechart/internal/model"
	"github.com/jmoiron/sqlx"
)

type TaskLogStore struct {
	db *sqlx.DB
}

func NewTaskLogStore(db *sqlx.DB) *TaskLogStore {
	return &TaskLogStore{db: db}
}

const taskLogCols = `id, task_id, date, status`

// Upsert records status for the task on date, replacing any earlier status
// for the same day. The task id is not checked against the tasks table.
func (s *TaskLogStore) Upsert(taskID int64, date string, status model.Status) error {
	_, err := s.db.Exec(
		`INSERT INTO task_log (task_id, date, status) VALUES (?, ?, ?)
		 ON CONFLICT(task_id, date) DO UPDATE SET status = excluded.status`,
		taskID, date, string(status),
	)
	if err != nil {
		return fmt.Errorf("upsert task log: %w", err)
	}
	return nil
}

func (s *TaskLogStore) Get(taskID int64, date string) (*model.TaskLogEntry, error) {
	var e model.TaskLogEntry
	err := s.db.Get(&e, `SELECT `+taskLogCols+` FROM task_log WHERE task_id = ? AND date = ?`, taskID, date)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get task log: %w", err)
	}
	return &e, nil
}

func (s *TaskLogStore) ListByTask(taskID int64) ([]model.TaskLogEntry, error) {
	var entries []model.TaskLogEntry
	err := s.db.Select(&entries,
		`SELECT `+taskLogCols+` FROM task_log WHERE task_id = ? ORDER BY date DESC`,
		taskID,
	)
	if err != nil {
		return nil, fmt.Errorf("list task log: %w", err)
	}
	return entries, nil
}
