package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"Tasker/internal/domain"
	"Tasker/internal/repo"
	"Tasker/internal/telemetry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	mu     sync.Mutex
	events []string
	props  []telemetry.Props
}

func (s *recordingSink) Emit(_ context.Context, event string, props telemetry.Props) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	s.props = append(s.props, props)
}

func seededUserRepo(t *testing.T) *repo.MemoryUserRepo {
	t.Helper()
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	return repo.NewMemoryUserRepo([]domain.User{
		{ID: 1, Username: "alice", PasswordHash: hash, Role: domain.RoleUser, IsActive: true, CreatedAt: time.Now()},
		{ID: 2, Username: "mallory", PasswordHash: hash, Role: domain.RoleUser, IsActive: false, CreatedAt: time.Now()},
	})
}

func TestVerifyCredentialsSuccess(t *testing.T) {
	sink := &recordingSink{}
	svc := NewUserService(seededUserRepo(t), sink)

	u, err := svc.VerifyCredentials(context.Background(), "alice", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, domain.RoleUser, u.Role)

	require.Len(t, sink.events, 1)
	assert.Equal(t, telemetry.EventLoginAttempt, sink.events[0])
	assert.Equal(t, true, sink.props[0]["success"])
}

func TestVerifyCredentialsFailuresAreIndistinguishable(t *testing.T) {
	sink := &recordingSink{}
	svc := NewUserService(seededUserRepo(t), sink)
	ctx := context.Background()

	_, unknownErr := svc.VerifyCredentials(ctx, "nobody", "s3cret-pass")
	_, badPassErr := svc.VerifyCredentials(ctx, "alice", "wrong-pass")
	_, inactiveErr := svc.VerifyCredentials(ctx, "mallory", "s3cret-pass")

	assert.ErrorIs(t, unknownErr, ErrInvalidCredentials)
	assert.ErrorIs(t, badPassErr, ErrInvalidCredentials)
	assert.ErrorIs(t, inactiveErr, ErrInvalidCredentials)
	assert.Equal(t, unknownErr.Error(), badPassErr.Error())

	// An attempt event is emitted on every outcome.
	assert.Len(t, sink.events, 3)
	for _, p := range sink.props {
		assert.Equal(t, false, p["success"])
	}
}
