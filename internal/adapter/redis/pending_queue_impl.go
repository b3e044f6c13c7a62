package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/user/maps-scraper/internal/entity"
	"github.com/user/maps-scraper/internal/repository"
)

const (
	pendingQueueKey = "maps-scraper:pending"
	// deadLetterKey holds raw payloads that no longer decode.
	deadLetterKey = "maps-scraper:pending:dead"
)

// PendingQueueImpl keeps failed sink writes in a Redis list.
type PendingQueueImpl struct {
	client redis.Cmdable
}

var _ repository.PendingQueue = (*PendingQueueImpl)(nil)

func NewPendingQueue(client redis.Cmdable) *PendingQueueImpl {
	return &PendingQueueImpl{client: client}
}

// Push adds a write to the left side of the list.
func (r *PendingQueueImpl) Push(ctx context.Context, w entity.PendingWrite) error {
	payload, err := json.Marshal(w)
	if err != nil {
		return fmt.Errorf("encode pending write: %w", err)
	}
	if err := r.client.LPush(ctx, pendingQueueKey, payload).Err(); err != nil {
		return fmt.Errorf("redis lpush failure: %w", err)
	}
	return nil
}

// Requeue puts a write back on the right side, so the next Pop returns it.
func (r *PendingQueueImpl) Requeue(ctx context.Context, w entity.PendingWrite) error {
	payload, err := json.Marshal(w)
	if err != nil {
		return fmt.Errorf("encode pending write: %w", err)
	}
	if err := r.client.RPush(ctx, pendingQueueKey, payload).Err(); err != nil {
		return fmt.Errorf("redis rpush failure: %w", err)
	}
	return nil
}

// Pop removes the oldest write from the right side of the list.
func (r *PendingQueueImpl) Pop(ctx context.Context) (entity.PendingWrite, error) {
	var w entity.PendingWrite
	payload, err := r.client.RPop(ctx, pendingQueueKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return w, repository.ErrQueueEmpty
	}
	if err != nil {
		return w, fmt.Errorf("redis rpop failure: %w", err)
	}
	if err := json.Unmarshal(payload, &w); err != nil {
		if perr := r.client.LPush(ctx, deadLetterKey, payload).Err(); perr != nil {
			return w, fmt.Errorf("park undecodable pending write: %w", perr)
		}
		return w, fmt.Errorf("%w: %w", repository.ErrUndecodable, err)
	}
	return w, nil
}

// Size returns the current number of items in the queue.
func (r *PendingQueueImpl) Size(ctx context.Context) (int64, error) {
	return r.client.LLen(ctx, pendingQueueKey).Result()
}
