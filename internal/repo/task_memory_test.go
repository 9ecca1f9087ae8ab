package repo

import (
	"context"
	"testing"
	"time"

	"Tasker/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryTaskRepoNotFound(t *testing.T) {
	r := NewMemoryTaskRepo()
	ctx := context.Background()

	_, err := r.GetByID(ctx, 99)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = r.Update(ctx, 99, domain.Task{Title: "x"})
	assert.ErrorIs(t, err, ErrNotFound)

	removed, err := r.Delete(ctx, 99)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestMemoryTaskRepoAssignsSequentialIDs(t *testing.T) {
	r := NewMemoryTaskRepo()
	ctx := context.Background()

	a, err := r.Create(ctx, domain.Task{Title: "a", Priority: domain.PriorityLow})
	require.NoError(t, err)
	b, err := r.Create(ctx, domain.Task{Title: "b", Priority: domain.PriorityLow})
	require.NoError(t, err)

	assert.Equal(t, a.ID+1, b.ID)
	assert.False(t, a.CreatedAt.IsZero())
}

func TestMemoryTaskRepoStableOrderOnEqualTimestamps(t *testing.T) {
	r := NewMemoryTaskRepo()
	ctx := context.Background()

	instant := time.Now().UTC()
	r.SetClock(func() time.Time { return instant })

	for _, title := range []string{"first", "second", "third"} {
		_, err := r.Create(ctx, domain.Task{Title: title, Priority: domain.PriorityLow})
		require.NoError(t, err)
	}

	list, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	// Same created-at: higher id (created later) wins.
	assert.Equal(t, "third", list[0].Title)
	assert.Equal(t, "first", list[2].Title)
}
