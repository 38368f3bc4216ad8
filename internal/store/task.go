package store

import (
	"database/sql"
	"fmt"

	"github.com/dukerupert/chorechart/internal/model"
	"github.com/jmoiron/sqlx"
)

// DefaultTasks is the starter chore list inserted into an empty database.
var DefaultTasks = []model.Task{
	{Kid: "Griffin", Title: "Make bed", SortOrder: 1},
	{Kid: "Griffin", Title: "Brush teeth", SortOrder: 2},
	{Kid: "Griffin", Title: "Feed the cat", SortOrder: 3},
	{Kid: "Garreth", Title: "Put toys away", SortOrder: 1},
	{Kid: "Garreth", Title: "Set the table", SortOrder: 2},
}

type TaskStore struct {
	db *sqlx.DB
}

func NewTaskStore(db *sqlx.DB) *TaskStore {
	return &TaskStore{db: db}
}

const taskCols = `id, kid, title, sort_order`

func (s *TaskStore) Create(kid, title string, sortOrder int) (*model.Task, error) {
	result, err := s.db.Exec(
		`INSERT INTO tasks (kid, title, sort_order) VALUES (?, ?, ?)`,
		kid, title, sortOrder,
	)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *TaskStore) GetByID(id int64) (*model.Task, error) {
	var t model.Task
	err := s.db.Get(&t, `SELECT `+taskCols+` FROM tasks WHERE id = ?`, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	return &t, nil
}

func (s *TaskStore) Count() (int, error) {
	var n int
	if err := s.db.Get(&n, `SELECT COUNT(*) FROM tasks`); err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}
	return n, nil
}

// ListForDate returns every task with its status on date, optionally limited
// to one kid. Tasks without a log entry for date are reported as pending.
// Rows are ordered by kid, then sort order.
func (s *TaskStore) ListForDate(date, kid string) ([]model.DailyTask, error) {
	query := `
		SELECT t.id, t.kid, t.title, t.sort_order,
			COALESCE(l.status, 'pending') AS status
		FROM tasks t
		LEFT JOIN task_log l ON l.task_id = t.id AND l.date = ?`
	args := []any{date}

	if kid != "" {
		query += ` WHERE t.kid = ?`
		args = append(args, kid)
	}
	query += ` ORDER BY t.kid ASC, t.sort_order ASC, t.id ASC`

	var tasks []model.DailyTask
	if err := s.db.Select(&tasks, query, args...); err != nil {
		return nil, fmt.Errorf("list tasks for date: %w", err)
	}
	return tasks, nil
}

// SeedIfEmpty inserts tasks only when the tasks table has no rows. It
// returns the number of rows inserted.
func (s *TaskStore) SeedIfEmpty(tasks []model.Task) (int, error) {
	tx, err := s.db.Beginx()
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var count int
	if err := tx.Get(&count, `SELECT COUNT(*) FROM tasks`); err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	for _, t := range tasks {
		if _, err := tx.Exec(
			`INSERT INTO tasks (kid, title, sort_order) VALUES (?, ?, ?)`,
			t.Kid, t.Title, t.SortOrder,
		); err != nil {
			return 0, fmt.Errorf("seed task %q: %w", t.Title, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit seed: %w", err)
	}
	return len(tasks), nil
}
