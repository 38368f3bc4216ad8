package store

import (
	"testing"

	"github.com/dukerupert/chorechart/internal/model"
)

func TestUpsertIdempotent(t *testing.T) {
	ts, ls := setupTaskTestDB(t)

	task, err := ts.Create("Griffin", "Make bed", 1)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := ls.Upsert(task.ID, testDate, model.StatusDone); err != nil {
			t.Fatalf("upsert %d: %v", i, err)
		}
	}

	entries, err := ls.ListByTask(task.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	if entries[0].Status != model.StatusDone {
		t.Errorf("status = %q, want done", entries[0].Status)
	}
}

func TestUpsertOverwrites(t *testing.T) {
	ts, ls := setupTaskTestDB(t)

	task, err := ts.Create("Griffin", "Make bed", 1)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := ls.Upsert(task.ID, testDate, model.StatusDone); err != nil {
		t.Fatalf("upsert done: %v", err)
	}
	if err := ls.Upsert(task.ID, testDate, model.StatusSkipped); err != nil {
		t.Fatalf("upsert skipped: %v", err)
	}

	entry, err := ls.Get(task.ID, testDate)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if entry == nil {
		t.Fatal("expected entry")
	}
	if entry.Status != model.StatusSkipped {
		t.Errorf("status = %q, want skipped", entry.Status)
	}

	tasks, err := ts.ListForDate(testDate, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("len = %d, want 1", len(tasks))
	}
	if tasks[0].Status != model.StatusSkipped {
		t.Errorf("listed status = %q, want skipped", tasks[0].Status)
	}
}

func TestUpsertAllTransitions(t *testing.T) {
	ts, ls := setupTaskTestDB(t)

	task, err := ts.Create("Griffin", "Make bed", 1)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	seq := []model.Status{
		model.StatusDone, model.StatusSkipped, model.StatusDone,
		model.StatusPending, model.StatusSkipped, model.StatusPending,
	}
	for _, want := range seq {
		if err := ls.Upsert(task.ID, testDate, want); err != nil {
			t.Fatalf("upsert %s: %v", want, err)
		}
		got, err := ls.Get(task.ID, testDate)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.Status != want {
			t.Errorf("status = %q, want %q", got.Status, want)
		}
	}
}

func TestUpsertOrphanTask(t *testing.T) {
	_, ls := setupTaskTestDB(t)

	if err := ls.Upsert(424242, testDate, model.StatusDone); err != nil {
		t.Fatalf("upsert orphan: %v", err)
	}

	entry, err := ls.Get(424242, testDate)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if entry == nil || entry.Status != model.StatusDone {
		t.Errorf("orphan entry = %+v, want done", entry)
	}
}

func TestGetMissingEntry(t *testing.T) {
	_, ls := setupTaskTestDB(t)

	entry, err := ls.Get(1, testDate)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if entry != nil {
		t.Errorf("expected nil, got %+v", entry)
	}
}
