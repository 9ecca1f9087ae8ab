package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"Tasker/internal/cache"
	"Tasker/internal/domain"
	"Tasker/internal/repo"

	"golang.org/x/sync/singleflight"
)

// ErrNotFound is the service-level "no such task" result. Handlers translate
// it to 404; it never travels through the exception boundary.
var ErrNotFound = errors.New("not found")

// TaskService is the business-rule layer over the task store. Field
// constraints are enforced by the validation engine before requests get
// here.
type TaskService struct {
	repo  repo.TaskRepo
	cache *cache.TaskCache
	sf    singleflight.Group
}

// NewTaskService creates a TaskService. If c is nil, caching is disabled.
func NewTaskService(r repo.TaskRepo, c *cache.TaskCache) *TaskService {
	return &TaskService{repo: r, cache: c}
}

// Create stores a new task. The store assigns the id and creation time;
// new tasks always start not completed and default to Medium priority.
func (s *TaskService) Create(ctx context.Context, title string, desc *string, p domain.Priority, dueDate *time.Time) (domain.Task, error) {
	if p == 0 {
		p = domain.PriorityMedium
	}
	var description string
	if desc != nil {
		description = *desc
	}
	t, err := s.repo.Create(ctx, domain.Task{
		Title:       title,
		Description: description,
		IsCompleted: false,
		Priority:    p,
		DueDate:     dueDate,
	})
	if err != nil {
		return domain.Task{}, err
	}
	s.invalidateCache(ctx)
	return t, nil
}

// List returns all tasks, newest first.
func (s *TaskService) List(ctx context.Context) ([]domain.Task, error) {
	if s.cache != nil {
		v, err, _ := s.sf.Do("list", func() (interface{}, error) {
			if list, err := s.cache.GetList(ctx); err == nil && list != nil {
				return list, nil
			}
			list, err := s.repo.List(ctx)
			if err != nil {
				return nil, err
			}
			_ = s.cache.SetList(ctx, list)
			return list, nil
		})
		if err != nil {
			return nil, err
		}
		return v.([]domain.Task), nil
	}
	return s.repo.List(ctx)
}

func (s *TaskService) GetByID(ctx context.Context, id int64) (domain.Task, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return domain.Task{}, ErrNotFound
		}
		return domain.Task{}, err
	}
	return t, nil
}

// Update overwrites title, description, priority, due date and completion
// and refreshes the update time.
func (s *TaskService) Update(ctx context.Context, id int64, title string, desc *string, p domain.Priority, dueDate *time.Time, isCompleted bool) (domain.Task, error) {
	if p == 0 {
		p = domain.PriorityMedium
	}
	var description string
	if desc != nil {
		description = *desc
	}
	t, err := s.repo.Update(ctx, id, domain.Task{
		Title:       title,
		Description: description,
		IsCompleted: isCompleted,
		Priority:    p,
		DueDate:     dueDate,
	})
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return domain.Task{}, ErrNotFound
		}
		return domain.Task{}, err
	}
	s.invalidateCache(ctx)
	return t, nil
}

// Delete removes a task. Returns false when the id does not exist; repeated
// deletes keep returning false.
func (s *TaskService) Delete(ctx context.Context, id int64) (bool, error) {
	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if removed {
		s.invalidateCache(ctx)
	}
	return removed, nil
}

// ListByCompletion returns tasks filtered by completion flag, newest first.
func (s *TaskService) ListByCompletion(ctx context.Context, completed bool) ([]domain.Task, error) {
	if s.cache != nil {
		key := "status:" + strconv.FormatBool(completed)
		v, err, _ := s.sf.Do(key, func() (interface{}, error) {
			if list, err := s.cache.GetByStatus(ctx, completed); err == nil && list != nil {
				return list, nil
			}
			list, err := s.repo.ListByCompletion(ctx, completed)
			if err != nil {
				return nil, err
			}
			_ = s.cache.SetByStatus(ctx, completed, list)
			return list, nil
		})
		if err != nil {
			return nil, err
		}
		return v.([]domain.Task), nil
	}
	return s.repo.ListByCompletion(ctx, completed)
}

// ListByPriority returns tasks filtered by priority, newest first.
func (s *TaskService) ListByPriority(ctx context.Context, p domain.Priority) ([]domain.Task, error) {
	if s.cache != nil {
		key := "priority:" + strconv.Itoa(int(p))
		v, err, _ := s.sf.Do(key, func() (interface{}, error) {
			if list, err := s.cache.GetByPriority(ctx, p); err == nil && list != nil {
				return list, nil
			}
			list, err := s.repo.ListByPriority(ctx, p)
			if err != nil {
				return nil, err
			}
			_ = s.cache.SetByPriority(ctx, p, list)
			return list, nil
		})
		if err != nil {
			return nil, err
		}
		return v.([]domain.Task), nil
	}
	return s.repo.ListByPriority(ctx, p)
}

func (s *TaskService) invalidateCache(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.InvalidateAll(ctx)
	}
}
