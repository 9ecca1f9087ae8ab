package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Priority of a task. Serialized as an integer (1-4) in the API.
type Priority int

const (
	PriorityLow      Priority = 1
	PriorityMedium   Priority = 2
	PriorityHigh     Priority = 3
	PriorityCritical Priority = 4
)

// Valid reports whether p is one of the four defined priorities.
func (p Priority) Valid() bool {
	return p >= PriorityLow && p <= PriorityCritical
}

func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "Low"
	case PriorityMedium:
		return "Medium"
	case PriorityHigh:
		return "High"
	case PriorityCritical:
		return "Critical"
	default:
		return "Unknown"
	}
}

// ParsePriority accepts either a name ("low", "Critical") or a number ("3").
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return PriorityLow, nil
	case "medium":
		return PriorityMedium, nil
	case "high":
		return PriorityHigh, nil
	case "critical":
		return PriorityCritical, nil
	}
	if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
		p := Priority(n)
		if p.Valid() {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown priority %q", s)
}

// Task is the domain entity. It does not depend on Gin, Postgres or Redis.
type Task struct {
	ID          int64
	Title       string
	Description string
	IsCompleted bool
	Priority    Priority
	DueDate     *time.Time

	CreatedAt time.Time
	UpdatedAt *time.Time
}
