package chore

import (
	"errors"
	"testing"
	"time"

	"github.com/dukerupert/chorechart/internal/model"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    model.Status
		wantErr bool
	}{
		{"pending", model.StatusPending, false},
		{"done", model.StatusDone, false},
		{"skipped", model.StatusSkipped, false},
		{"archived", "", true},
		{"", "", true},
		{"DONE", "", true},
	}

	for _, tt := range tests {
		got, err := ParseStatus(tt.in)
		if tt.wantErr {
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Errorf("ParseStatus(%q) error = %v, want ValidationError", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseStatus(%q) unexpected error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseStatus(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2026-02-05")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got != "2026-02-05" {
		t.Errorf("got %q", got)
	}

	for _, bad := range []string{"", "2026-2-5", "02/05/2026", "2026-02-30", "today"} {
		if _, err := ParseDate(bad); err == nil {
			t.Errorf("ParseDate(%q) expected error", bad)
		}
	}
}

func TestFormatDateUsesLocation(t *testing.T) {
	// 02:00 UTC on Feb 6 is still Feb 5 in Denver.
	denver, err := time.LoadLocation("America/Denver")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	instant := time.Date(2026, 2, 6, 2, 0, 0, 0, time.UTC)

	if got := FormatDate(instant); got != "2026-02-06" {
		t.Errorf("utc date = %q, want 2026-02-06", got)
	}
	if got := FormatDate(instant.In(denver)); got != "2026-02-05" {
		t.Errorf("denver date = %q, want 2026-02-05", got)
	}
}

func TestKids(t *testing.T) {
	tasks := []model.DailyTask{
		{Task: model.Task{Kid: "Griffin"}},
		{Task: model.Task{Kid: "Garreth"}},
		{Task: model.Task{Kid: "Griffin"}},
	}

	kids := Kids(tasks)
	if len(kids) != 2 || kids[0] != "Garreth" || kids[1] != "Griffin" {
		t.Errorf("kids = %v, want [Garreth Griffin]", kids)
	}

	if got := Kids(nil); len(got) != 0 {
		t.Errorf("kids of nil = %v, want empty", got)
	}
}
