package dto

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"Tasker/internal/domain"
)

// DueDate parses due_date from JSON as either date-only ("2006-01-02") or
// RFC3339. Date-only is stored as start of that day in UTC.
type DueDate struct{ t *time.Time }

// NewDueDate wraps a time for use in tests and internal construction.
func NewDueDate(t *time.Time) DueDate { return DueDate{t: t} }

func (d *DueDate) UnmarshalJSON(data []byte) error {
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
		"2006-01-02", // date only
		time.RFC3339,
		time.RFC3339Nano,
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
	return fmt.Errorf("due_date: use date (YYYY-MM-DD) or RFC3339 datetime")
}

// Ptr returns *time.Time for use in service/domain.
func (d DueDate) Ptr() *time.Time { return d.t }

// CreateTaskRequest is the JSON body for POST /tasks. Priority 0 means the
// field was omitted and defaults to Medium.
type CreateTaskRequest struct {
	Title       string          `json:"title"`
	Description *string         `json:"description"`
	Priority    domain.Priority `json:"priority"`
	DueDate     DueDate         `json:"dueDate"` // optional: "2026-02-19" or RFC3339
}

// UpdateTaskRequest is the JSON body for PUT /tasks/{id}. All fields are
// overwritten (full replacement, not a patch).
type UpdateTaskRequest struct {
	Title       string          `json:"title"`
	Description *string         `json:"description"`
	Priority    domain.Priority `json:"priority"`
	DueDate     DueDate         `json:"dueDate"`
	IsCompleted bool            `json:"isCompleted"`
}

// TaskResponse is the external view of a task.
type TaskResponse struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	IsCompleted bool       `json:"isCompleted"`
	Priority    int        `json:"priority"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt"`
	DueDate     *time.Time `json:"dueDate"`
}

// ErrorBody is the uniform non-2xx response shape (except validation 400s).
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Message       string    `json:"message"`
	CorrelationID string    `json:"correlationId"`
	Timestamp     time.Time `json:"timestamp"`
	StatusCode    int       `json:"statusCode"`
}
