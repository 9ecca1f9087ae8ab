package repo

import (
	"context"
	"sync"

	"Tasker/internal/domain"
)

// MemoryUserRepo holds seeded users. Users are immutable after seeding, so
// a read lock is enough after construction.
type MemoryUserRepo struct {
	mu    sync.RWMutex
	users map[string]domain.User
}

func NewMemoryUserRepo(seed []domain.User) *MemoryUserRepo {
	users := make(map[string]domain.User, len(seed))
	for _, u := range seed {
		users[u.Username] = u
	}
	return &MemoryUserRepo{users: users}
}

func (r *MemoryUserRepo) GetActiveByUsername(_ context.Context, username string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[username]
	if !ok || !u.IsActive {
		return domain.User{}, ErrNotFound
	}
	return u, nil
}
