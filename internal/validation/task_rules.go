package validation

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"Tasker/internal/domain"
	"Tasker/internal/dto"
)

func blank(s string) bool { return strings.TrimSpace(s) == "" }

func descBlank(d *string) bool { return d == nil || blank(*d) }

// CreateTaskRules returns the rule set for task creation payloads. The due
// date must be strictly later than now.
func CreateTaskRules(now time.Time) RuleSet[dto.CreateTaskRequest] {
	return RuleSet[dto.CreateTaskRequest]{
		{
			Field: "title", Message: "Title is required",
			Fails: func(r dto.CreateTaskRequest) bool { return blank(r.Title) },
		},
		{
			Field: "title", Message: "Title must be between 3 and 100 characters",
			Fails: func(r dto.CreateTaskRequest) bool {
				n := utf8.RuneCountInString(r.Title)
				return n < 3 || n > 100
			},
		},
		{
			Field: "title", Message: "Title must not have leading or trailing whitespace",
			When:  func(r dto.CreateTaskRequest) bool { return !blank(r.Title) },
			Fails: func(r dto.CreateTaskRequest) bool { return r.Title != strings.TrimSpace(r.Title) },
		},
		{
			Field: "description", Message: "Description must be at most 500 characters",
			When:  func(r dto.CreateTaskRequest) bool { return r.Description != nil },
			Fails: func(r dto.CreateTaskRequest) bool { return utf8.RuneCountInString(*r.Description) > 500 },
		},
		{
			Field: "description", Message: "Description must not be only whitespace",
			When:  func(r dto.CreateTaskRequest) bool { return r.Description != nil },
			Fails: func(r dto.CreateTaskRequest) bool { return blank(*r.Description) },
		},
		{
			Field: "priority", Message: "Priority must be Low, Medium, High or Critical",
			When:  func(r dto.CreateTaskRequest) bool { return r.Priority != 0 },
			Fails: func(r dto.CreateTaskRequest) bool { return !r.Priority.Valid() },
		},
		{
			Field: "dueDate", Message: "Due date must be in the future",
			When:  func(r dto.CreateTaskRequest) bool { return r.DueDate.Ptr() != nil },
			Fails: func(r dto.CreateTaskRequest) bool { return !r.DueDate.Ptr().After(now) },
		},
		{
			Field: "description", Message: "Critical tasks require a description",
			When:  func(r dto.CreateTaskRequest) bool { return r.Priority == domain.PriorityCritical },
			Fails: func(r dto.CreateTaskRequest) bool { return descBlank(r.Description) },
		},
		{
			Field: "dueDate", Message: "High and Critical tasks require a due date",
			When: func(r dto.CreateTaskRequest) bool {
				return r.Priority == domain.PriorityHigh || r.Priority == domain.PriorityCritical
			},
			Fails: func(r dto.CreateTaskRequest) bool { return r.DueDate.Ptr() == nil },
		},
	}
}

// UpdateTaskRules returns the rule set for task update payloads. It mirrors
// the create rules and adds the whole-object completion re-check.
func UpdateTaskRules(now time.Time) RuleSet[dto.UpdateTaskRequest] {
	rules := RuleSet[dto.UpdateTaskRequest]{
		{
			Field: "title", Message: "Title is required",
			Fails: func(r dto.UpdateTaskRequest) bool { return blank(r.Title) },
		},
		{
			Field: "title", Message: "Title must be between 3 and 100 characters",
			Fails: func(r dto.UpdateTaskRequest) bool {
				n := utf8.RuneCountInString(r.Title)
				return n < 3 || n > 100
			},
		},
		{
			Field: "title", Message: "Title must not have leading or trailing whitespace",
			When:  func(r dto.UpdateTaskRequest) bool { return !blank(r.Title) },
			Fails: func(r dto.UpdateTaskRequest) bool { return r.Title != strings.TrimSpace(r.Title) },
		},
		{
			Field: "description", Message: "Description must be at most 500 characters",
			When:  func(r dto.UpdateTaskRequest) bool { return r.Description != nil },
			Fails: func(r dto.UpdateTaskRequest) bool { return utf8.RuneCountInString(*r.Description) > 500 },
		},
		{
			Field: "description", Message: "Description must not be only whitespace",
			When:  func(r dto.UpdateTaskRequest) bool { return r.Description != nil },
			Fails: func(r dto.UpdateTaskRequest) bool { return blank(*r.Description) },
		},
		{
			Field: "priority", Message: "Priority must be Low, Medium, High or Critical",
			When:  func(r dto.UpdateTaskRequest) bool { return r.Priority != 0 },
			Fails: func(r dto.UpdateTaskRequest) bool { return !r.Priority.Valid() },
		},
		{
			Field: "dueDate", Message: "Due date must be in the future",
			When:  func(r dto.UpdateTaskRequest) bool { return r.DueDate.Ptr() != nil },
			Fails: func(r dto.UpdateTaskRequest) bool { return !r.DueDate.Ptr().After(now) },
		},
		{
			Field: "description", Message: "Critical tasks require a description",
			When:  func(r dto.UpdateTaskRequest) bool { return r.Priority == domain.PriorityCritical },
			Fails: func(r dto.UpdateTaskRequest) bool { return descBlank(r.Description) },
		},
		{
			Field: "dueDate", Message: "High and Critical tasks require a due date",
			When: func(r dto.UpdateTaskRequest) bool {
				return r.Priority == domain.PriorityHigh || r.Priority == domain.PriorityCritical
			},
			Fails: func(r dto.UpdateTaskRequest) bool { return r.DueDate.Ptr() == nil },
		},
		// Whole-object re-check when marking completed.
		{
			Field: "isCompleted", Message: "Completed tasks must have a non-blank title",
			When:  func(r dto.UpdateTaskRequest) bool { return r.IsCompleted },
			Fails: func(r dto.UpdateTaskRequest) bool { return blank(r.Title) },
		},
		{
			Field: "isCompleted", Message: "Completed Critical tasks must have a description",
			When: func(r dto.UpdateTaskRequest) bool {
				return r.IsCompleted && r.Priority == domain.PriorityCritical
			},
			Fails: func(r dto.UpdateTaskRequest) bool { return descBlank(r.Description) },
		},
	}
	return rules
}

var (
	emailPattern  = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	handlePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{3,20}$`)
)

// LoginRules returns the rule set for login payloads. The username length
// bound (50) is deliberately wider than the handle pattern's own cap (20):
// emails may exceed 20 characters and still pass via the email branch.
func LoginRules() RuleSet[dto.LoginRequest] {
	return RuleSet[dto.LoginRequest]{
		{
			Field: "username", Message: "Username is required",
			Fails: func(r dto.LoginRequest) bool { return blank(r.Username) },
		},
		{
			Field: "username", Message: "Username must be between 3 and 50 characters",
			Fails: func(r dto.LoginRequest) bool {
				n := utf8.RuneCountInString(r.Username)
				return n < 3 || n > 50
			},
		},
		{
			Field: "username", Message: "Username must be an email address or a 3-20 character handle",
			When: func(r dto.LoginRequest) bool { return !blank(r.Username) },
			Fails: func(r dto.LoginRequest) bool {
				return !emailPattern.MatchString(r.Username) && !handlePattern.MatchString(r.Username)
			},
		},
		{
			Field: "password", Message: "Password is required",
			Fails: func(r dto.LoginRequest) bool { return r.Password == "" },
		},
		{
			Field: "password", Message: "Password must be at least 6 characters",
			Fails: func(r dto.LoginRequest) bool { return utf8.RuneCountInString(r.Password) < 6 },
		},
	}
}
