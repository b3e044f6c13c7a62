package repository

import (
	"context"
	"errors"

	"github.com/user/maps-scraper/internal/entity"
)

var (
	// ErrQueueEmpty is returned by Pop when nothing is pending.
	ErrQueueEmpty = errors.New("queue is empty")
	// ErrUndecodable is returned by Pop when the oldest item could not be
	// decoded. The raw item is parked aside, not lost.
	ErrUndecodable = errors.New("pending write could not be decoded")
)

// PendingQueue defines a FIFO queue of sink writes awaiting a retry.
type PendingQueue interface {
	// Push adds a write to the end of the queue.
	Push(ctx context.Context, w entity.PendingWrite) error
	// Requeue puts a popped write back at the head of the queue.
	Requeue(ctx context.Context, w entity.PendingWrite) error
	// Pop removes and returns the oldest write, or ErrQueueEmpty.
	Pop(ctx context.Context) (entity.PendingWrite, error)
	// Size returns the current number of items in the queue.
	Size(ctx context.Context) (int64, error)
}
