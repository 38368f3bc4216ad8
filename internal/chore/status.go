package chore

import (
	"time"

	"github.com/dukerupert/chorechart/internal/model"
)

// DateLayout is the ISO calendar date format used for task log dates.
const DateLayout = "2006-01-02"

// ValidationError reports input rejected before any storage access.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ParseStatus converts s into a recognized status.
func ParseStatus(s string) (model.Status, error) {
	status := model.Status(s)
	if !status.Valid() {
		return "", &ValidationError{Field: "status", Message: "invalid status"}
	}
	return status, nil
}

// ParseDate checks that s is a YYYY-MM-DD calendar date and returns it in
// canonical form.
func ParseDate(s string) (string, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return "", &ValidationError{Field: "date", Message: "invalid date"}
	}
	return d.Format(DateLayout), nil
}

// FormatDate renders t as a task log date in t's own location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
