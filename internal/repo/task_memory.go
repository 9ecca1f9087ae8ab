package repo

import (
	"context"
	"sort"
	"sync"
	"time"

	"Tasker/internal/domain"
)

// MemoryTaskRepo implements TaskRepo with a guarded in-process map. It is
// the default store for this API and the one every test runs against.
// Lookups are O(1); lists sort a snapshot on the way out.
type MemoryTaskRepo struct {
	mu     sync.Mutex
	tasks  map[int64]domain.Task
	nextID int64
	now    func() time.Time
}

func NewMemoryTaskRepo() *MemoryTaskRepo {
	return &MemoryTaskRepo{tasks: make(map[int64]domain.Task), now: time.Now}
}

// SetClock overrides the time source, for tests.
func (r *MemoryTaskRepo) SetClock(now func() time.Time) { r.now = now }

func (r *MemoryTaskRepo) Create(_ context.Context, t domain.Task) (domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	t.ID = r.nextID
	t.CreatedAt = r.now().UTC()
	t.UpdatedAt = nil
	r.tasks[t.ID] = t
	return t, nil
}

func (r *MemoryTaskRepo) GetByID(_ context.Context, id int64) (domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok {
		return domain.Task{}, ErrNotFound
	}
	return t, nil
}

func (r *MemoryTaskRepo) List(_ context.Context) ([]domain.Task, error) {
	return r.snapshot(func(domain.Task) bool { return true }), nil
}

func (r *MemoryTaskRepo) Update(_ context.Context, id int64, patch domain.Task) (domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok {
		return domain.Task{}, ErrNotFound
	}
	t.Title = patch.Title
	t.Description = patch.Description
	t.IsCompleted = patch.IsCompleted
	t.Priority = patch.Priority
	t.DueDate = patch.DueDate
	now := r.now().UTC()
	t.UpdatedAt = &now
	r.tasks[id] = t
	return t, nil
}

func (r *MemoryTaskRepo) Delete(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[id]; !ok {
		return false, nil
	}
	delete(r.tasks, id)
	return true, nil
}

func (r *MemoryTaskRepo) ListByCompletion(_ context.Context, completed bool) ([]domain.Task, error) {
	return r.snapshot(func(t domain.Task) bool { return t.IsCompleted == completed }), nil
}

func (r *MemoryTaskRepo) ListByPriority(_ context.Context, p domain.Priority) ([]domain.Task, error) {
	return r.snapshot(func(t domain.Task) bool { return t.Priority == p }), nil
}

// snapshot copies matching tasks and orders them newest first, id as the
// tie-break so two tasks created in the same instant keep a stable order.
func (r *MemoryTaskRepo) snapshot(match func(domain.Task) bool) []domain.Task {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []domain.Task
	for _, t := range r.tasks {
		if match(t) {
			list = append(list, t)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID > list[j].ID
	})
	return list
}
