package chore

import (
	"fmt"
	"slices"
	"time"

	"github.com/dukerupert/chorechart/internal/model"
)

// Clock returns the current time. The location of the returned time decides
// which calendar day counts as today.
type Clock func() time.Time

// SystemClock returns a Clock reading wall time in loc.
func SystemClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.Local
	}
	return func() time.Time { return time.Now().In(loc) }
}

type TaskLister interface {
	ListForDate(date, kid string) ([]model.DailyTask, error)
}

type StatusWriter interface {
	Upsert(taskID int64, date string, status model.Status) error
}

// Service is the read and write path for daily chore status.
type Service struct {
	tasks TaskLister
	logs  StatusWriter
	now   Clock
}

func NewService(tasks TaskLister, logs StatusWriter, now Clock) *Service {
	if now == nil {
		now = SystemClock(nil)
	}
	return &Service{tasks: tasks, logs: logs, now: now}
}

// Today returns the current calendar date.
func (s *Service) Today() string {
	return FormatDate(s.now())
}

// ListForDate returns the tasks and their status on date. An empty kid
// returns every kid's tasks. The result is never nil.
func (s *Service) ListForDate(date, kid string) ([]model.DailyTask, error) {
	date, err := ParseDate(date)
	if err != nil {
		return nil, err
	}

	tasks, err := s.tasks.ListForDate(date, kid)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	if tasks == nil {
		tasks = []model.DailyTask{}
	}
	return tasks, nil
}

// ListToday is ListForDate for the current date, which is also returned.
func (s *Service) ListToday(kid string) ([]model.DailyTask, string, error) {
	today := s.Today()
	tasks, err := s.ListForDate(today, kid)
	if err != nil {
		return nil, today, err
	}
	return tasks, today, nil
}

// UpsertStatus records status for the task on date, overwriting any status
// already recorded that day. Input is validated before storage is touched.
// A taskID of zero means the id was not supplied.
func (s *Service) UpsertStatus(taskID int64, date, status string) error {
	st, err := ParseStatus(status)
	if err != nil {
		return err
	}
	if taskID == 0 {
		return &ValidationError{Field: "task_id", Message: "missing task_id"}
	}
	if taskID < 0 {
		return &ValidationError{Field: "task_id", Message: "invalid task_id"}
	}
	date, err = ParseDate(date)
	if err != nil {
		return err
	}

	if err := s.logs.Upsert(taskID, date, st); err != nil {
		return fmt.Errorf("upsert status: %w", err)
	}
	return nil
}

// UpdateToday is UpsertStatus for the current date, which is returned.
func (s *Service) UpdateToday(taskID int64, status string) (string, error) {
	today := s.Today()
	return today, s.UpsertStatus(taskID, today, status)
}

// Kids returns the distinct kid names in tasks, sorted.
func Kids(tasks []model.DailyTask) []string {
	kids := make([]string, 0, len(tasks))
	for _, t := range tasks {
		kids = append(kids, t.Kid)
	}
	slices.Sort(kids)
	return slices.Compact(kids)
}
