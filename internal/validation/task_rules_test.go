package validation

import (
	"strings"
	"testing"
	"time"

	"Tasker/internal/domain"
	"Tasker/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func futureDue(now time.Time) dto.DueDate {
	t := now.Add(24 * time.Hour)
	return dto.NewDueDate(&t)
}

func validCreate() dto.CreateTaskRequest {
	return dto.CreateTaskRequest{
		Title:    "Write report",
		Priority: domain.PriorityMedium,
	}
}

func fieldsOf(res Result) map[string][]string { return res.ByField() }

func TestCreateTaskTitleLengthBoundaries(t *testing.T) {
	now := time.Now().UTC()
	cases := []struct {
		length int
		valid  bool
	}{
		{0, false},
		{1, false},
		{2, false},
		{3, true},
		{100, true},
		{101, false},
	}
	for _, tc := range cases {
		req := validCreate()
		req.Title = strings.Repeat("a", tc.length)
		res := CreateTaskRules(now).Evaluate(req)
		assert.Equal(t, tc.valid, res.IsValid(), "title length %d", tc.length)
		if !tc.valid {
			assert.Contains(t, fieldsOf(res), "title")
		}
	}
}

func TestCreateTaskTitleWhitespace(t *testing.T) {
	now := time.Now().UTC()

	req := validCreate()
	req.Title = " padded"
	res := CreateTaskRules(now).Evaluate(req)
	require.False(t, res.IsValid())
	assert.Contains(t, fieldsOf(res), "title")

	req.Title = "padded "
	assert.False(t, CreateTaskRules(now).Evaluate(req).IsValid())

	req.Title = "    " // whitespace only, trimmed length in bounds is irrelevant
	res = CreateTaskRules(now).Evaluate(req)
	assert.False(t, res.IsValid())
}

func TestCreateTaskDescriptionRules(t *testing.T) {
	now := time.Now().UTC()

	req := validCreate()
	req.Description = nil
	assert.True(t, CreateTaskRules(now).Evaluate(req).IsValid(), "absent description is fine")

	req.Description = strPtr(strings.Repeat("d", 500))
	assert.True(t, CreateTaskRules(now).Evaluate(req).IsValid())

	req.Description = strPtr(strings.Repeat("d", 501))
	res := CreateTaskRules(now).Evaluate(req)
	require.False(t, res.IsValid())
	assert.Contains(t, fieldsOf(res), "description")

	req.Description = strPtr("   ")
	assert.False(t, CreateTaskRules(now).Evaluate(req).IsValid())
}

func TestCreateTaskPriorityEnum(t *testing.T) {
	now := time.Now().UTC()

	req := validCreate()
	req.Priority = 0 // omitted, defaults later
	assert.True(t, CreateTaskRules(now).Evaluate(req).IsValid())

	req.Priority = 7
	res := CreateTaskRules(now).Evaluate(req)
	require.False(t, res.IsValid())
	assert.Contains(t, fieldsOf(res), "priority")
}

func TestCreateTaskDueDateMustBeFuture(t *testing.T) {
	now := time.Now().UTC()

	req := validCreate()
	req.DueDate = futureDue(now)
	assert.True(t, CreateTaskRules(now).Evaluate(req).IsValid())

	past := now.Add(-time.Hour)
	req.DueDate = dto.NewDueDate(&past)
	assert.False(t, CreateTaskRules(now).Evaluate(req).IsValid())

	exact := now
	req.DueDate = dto.NewDueDate(&exact)
	assert.False(t, CreateTaskRules(now).Evaluate(req).IsValid(), "due date equal to now fails")
}

func TestCreateTaskCriticalRequiresDescription(t *testing.T) {
	now := time.Now().UTC()

	req := validCreate()
	req.Priority = domain.PriorityCritical
	req.DueDate = futureDue(now)
	req.Description = nil
	res := CreateTaskRules(now).Evaluate(req)
	require.False(t, res.IsValid())
	assert.Contains(t, fieldsOf(res), "description")

	req.Description = strPtr("incident follow-up")
	assert.True(t, CreateTaskRules(now).Evaluate(req).IsValid())
}

func TestCreateTaskHighRequiresDueDate(t *testing.T) {
	now := time.Now().UTC()

	req := validCreate()
	req.Priority = domain.PriorityHigh
	res := CreateTaskRules(now).Evaluate(req)
	require.False(t, res.IsValid())
	assert.Contains(t, fieldsOf(res), "dueDate")

	req.DueDate = futureDue(now)
	assert.True(t, CreateTaskRules(now).Evaluate(req).IsValid())
}

func TestCreateTaskCollectsAllFailures(t *testing.T) {
	now := time.Now().UTC()
	past := now.Add(-time.Minute)
	req := dto.CreateTaskRequest{
		Title:       "ab",
		Description: strPtr("  "),
		Priority:    9,
		DueDate:     dto.NewDueDate(&past),
	}
	res := CreateTaskRules(now).Evaluate(req)
	require.False(t, res.IsValid())
	byField := fieldsOf(res)
	assert.Contains(t, byField, "title")
	assert.Contains(t, byField, "description")
	assert.Contains(t, byField, "priority")
	assert.Contains(t, byField, "dueDate")
}

func TestUpdateTaskCompletionRecheck(t *testing.T) {
	now := time.Now().UTC()
	due := now.Add(time.Hour)

	req := dto.UpdateTaskRequest{
		Title:       "Ship release",
		Priority:    domain.PriorityCritical,
		Description: strPtr("cut the branch"),
		DueDate:     dto.NewDueDate(&due),
		IsCompleted: true,
	}
	assert.True(t, UpdateTaskRules(now).Evaluate(req).IsValid())

	req.Description = nil
	res := UpdateTaskRules(now).Evaluate(req)
	require.False(t, res.IsValid())
	byField := fieldsOf(res)
	// The description rule and the completion re-check both fire.
	assert.Contains(t, byField, "description")
	assert.Contains(t, byField, "isCompleted")
}

func TestLoginUsernameRules(t *testing.T) {
	rules := LoginRules()

	ok := dto.LoginRequest{Username: "test@example.com", Password: "123456"}
	assert.True(t, rules.Evaluate(ok).IsValid())

	handle := dto.LoginRequest{Username: "some_user-1", Password: "123456"}
	assert.True(t, rules.Evaluate(handle).IsValid())

	short := dto.LoginRequest{Username: "ab", Password: "123456"}
	res := rules.Evaluate(short)
	require.False(t, res.IsValid())
	assert.Contains(t, fieldsOf(res), "username")

	// Emails longer than the 20-char handle cap still pass via the email
	// branch, up to the 50-char bound.
	longEmail := dto.LoginRequest{Username: "a.very.long.address@subdomain.example.com", Password: "123456"}
	assert.True(t, rules.Evaluate(longEmail).IsValid())

	longHandle := dto.LoginRequest{Username: strings.Repeat("h", 25), Password: "123456"}
	assert.False(t, rules.Evaluate(longHandle).IsValid())
}

func TestLoginPasswordRules(t *testing.T) {
	rules := LoginRules()

	five := dto.LoginRequest{Username: "someone", Password: "12345"}
	res := rules.Evaluate(five)
	require.False(t, res.IsValid())
	assert.Contains(t, fieldsOf(res), "password")

	six := dto.LoginRequest{Username: "someone", Password: "123456"}
	assert.True(t, rules.Evaluate(six).IsValid())
}
