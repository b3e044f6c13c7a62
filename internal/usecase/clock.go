package usecase

import (
	"context"
	"math/rand"
	"time"
)

// sleepFunc pauses for d or until ctx is done.
type sleepFunc func(ctx context.Context, d time.Duration) error

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// jitterFunc returns a duration in [lo, hi].
type jitterFunc func(lo, hi time.Duration) time.Duration

func uniformJitter(lo, hi time.Duration) time.Duration {
	if hi <= lo {
		return lo
	}
	return lo + time.Duration(rand.Int63n(int64(hi-lo+1)))
}
