// Package memory holds process-local repositories used when Redis is not configured.
package memory

import (
	"context"
	"sync"

	"github.com/user/maps-scraper/internal/entity"
	"github.com/user/maps-scraper/internal/repository"
)

type PendingQueue struct {
	mu    sync.Mutex
	items []entity.PendingWrite
}

var _ repository.PendingQueue = (*PendingQueue)(nil)

func NewPendingQueue() *PendingQueue {
	return &PendingQueue{}
}

func (q *PendingQueue) Push(_ context.Context, w entity.PendingWrite) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, w)
	return nil
}

func (q *PendingQueue) Requeue(_ context.Context, w entity.PendingWrite) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append([]entity.PendingWrite{w}, q.items...)
	return nil
}

func (q *PendingQueue) Pop(_ context.Context) (entity.PendingWrite, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return entity.PendingWrite{}, repository.ErrQueueEmpty
	}
	w := q.items[0]
	q.items = q.items[1:]
	return w, nil
}

func (q *PendingQueue) Size(_ context.Context) (int64, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return int64(len(q.items)), nil
}
