package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"Tasker/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	keyList         = "task:list"
	keyStatusPrefix = "task:status:"
	keyPriority     = "task:priority:"
)

// TaskCache caches task list and filter results in Redis.
type TaskCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewTaskCache(rdb *redis.Client, ttl time.Duration) *TaskCache {
	return &TaskCache{rdb: rdb, ttl: ttl}
}

// GetList returns the cached full list, or nil on miss.
func (c *TaskCache) GetList(ctx context.Context) ([]domain.Task, error) {
	return c.get(ctx, keyList)
}

// SetList stores the full list.
func (c *TaskCache) SetList(ctx context.Context, list []domain.Task) error {
	return c.set(ctx, keyList, list)
}

// GetByStatus returns the cached completion-filtered list, or nil on miss.
func (c *TaskCache) GetByStatus(ctx context.Context, completed bool) ([]domain.Task, error) {
	return c.get(ctx, keyStatusPrefix+strconv.FormatBool(completed))
}

// SetByStatus stores a completion-filtered list.
func (c *TaskCache) SetByStatus(ctx context.Context, completed bool, list []domain.Task) error {
	return c.set(ctx, keyStatusPrefix+strconv.FormatBool(completed), list)
}

// GetByPriority returns the cached priority-filtered list, or nil on miss.
func (c *TaskCache) GetByPriority(ctx context.Context, p domain.Priority) ([]domain.Task, error) {
	return c.get(ctx, keyPriority+strconv.Itoa(int(p)))
}

// SetByPriority stores a priority-filtered list.
func (c *TaskCache) SetByPriority(ctx context.Context, p domain.Priority, list []domain.Task) error {
	return c.set(ctx, keyPriority+strconv.Itoa(int(p)), list)
}

// InvalidateAll removes every cached view. Called on any write.
func (c *TaskCache) InvalidateAll(ctx context.Context) error {
	if err := c.rdb.Del(ctx, keyList).Err(); err != nil {
		return err
	}
	for _, prefix := range []string{keyStatusPrefix, keyPriority} {
		iter := c.rdb.Scan(ctx, 0, prefix+"*", 100).Iterator()
		for iter.Next(ctx) {
			if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
				return err
			}
		}
		if err := iter.Err(); err != nil {
			return err
		}
	}
	return nil
}

func (c *TaskCache) get(ctx context.Context, key string) ([]domain.Task, error) {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var list []domain.Task
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *TaskCache) set(ctx context.Context, key string, list []domain.Task) error {
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, b, c.ttl).Err()
}
