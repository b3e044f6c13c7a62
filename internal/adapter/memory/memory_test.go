package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/maps-scraper/internal/entity"
	"github.com/user/maps-scraper/internal/repository"
)

func TestPendingQueue_FIFO(t *testing.T) {
	ctx := context.Background()
	q := NewPendingQueue()

	_, err := q.Pop(ctx)
	assert.ErrorIs(t, err, repository.ErrQueueEmpty)

	require.NoError(t, q.Push(ctx, entity.PendingWrite{Target: "a"}))
	require.NoError(t, q.Push(ctx, entity.PendingWrite{Target: "b"}))
	n, _ := q.Size(ctx)
	assert.Equal(t, int64(2), n)

	w, err := q.Pop(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a", w.Target)
	w, err = q.Pop(ctx)
	require.NoError(t, err)
	assert.Equal(t, "b", w.Target)
}

func TestPendingQueue_Requeue(t *testing.T) {
	ctx := context.Background()
	q := NewPendingQueue()
	require.NoError(t, q.Push(ctx, entity.PendingWrite{Target: "a"}))
	require.NoError(t, q.Push(ctx, entity.PendingWrite{Target: "b"}))

	w, err := q.Pop(ctx)
	require.NoError(t, err)
	require.NoError(t, q.Requeue(ctx, w))

	w, err = q.Pop(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a", w.Target)
}

func TestVisitedRepo_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	r := NewVisitedRepo()
	r.now = func() time.Time { return now }

	require.NoError(t, r.MarkVisited(ctx, "link", time.Hour))
	ok, _ := r.IsVisited(ctx, "link")
	assert.True(t, ok)

	now = now.Add(2 * time.Hour)
	ok, _ = r.IsVisited(ctx, "link")
	assert.False(t, ok)

	require.NoError(t, r.MarkVisited(ctx, "link", time.Hour))
	require.NoError(t, r.RemoveVisited(ctx, "link"))
	ok, _ = r.IsVisited(ctx, "link")
	assert.False(t, ok)
}
