package service

import (
	"context"
	"errors"

	"Tasker/internal/domain"
	"Tasker/internal/repo"
	"Tasker/internal/telemetry"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials covers both unknown username and wrong password, so
// callers cannot reveal which one failed.
var ErrInvalidCredentials = errors.New("invalid username or password")

// UserService verifies credentials against seeded users.
type UserService struct {
	repo   repo.UserRepo
	events telemetry.Sink
}

func NewUserService(r repo.UserRepo, events telemetry.Sink) *UserService {
	if events == nil {
		events = telemetry.NopSink{}
	}
	return &UserService{repo: r, events: events}
}

// VerifyCredentials looks up an active user by exact username and compares
// the password against the stored digest. A login-attempt event is emitted
// whatever the outcome.
func (s *UserService) VerifyCredentials(ctx context.Context, username, password string) (domain.User, error) {
	u, err := s.repo.GetActiveByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			s.emitLogin(ctx, false, username, "")
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		s.emitLogin(ctx, false, username, u.Role)
		return domain.User{}, ErrInvalidCredentials
	}
	s.emitLogin(ctx, true, username, u.Role)
	return u, nil
}

func (s *UserService) emitLogin(ctx context.Context, success bool, username, role string) {
	s.events.Emit(ctx, telemetry.EventLoginAttempt, telemetry.Props{
		"success":  success,
		"username": username,
		"role":     role,
	})
}

// HashPassword produces a bcrypt digest, used when seeding users.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
