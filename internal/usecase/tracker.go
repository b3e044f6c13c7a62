package usecase

import (
	"sync"
	"time"

	"github.com/user/maps-scraper/internal/entity"
)

// RunTracker keeps the outcome of every query seen by this process. It is
// read concurrently by the status API.
type RunTracker struct {
	mu       sync.RWMutex
	outcomes []entity.QueryOutcome
	now      func() time.Time
}

func NewRunTracker() *RunTracker {
	return &RunTracker{now: time.Now}
}

// Start records q as running and returns its index for Finish.
func (t *RunTracker) Start(runID string, q entity.Query) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.outcomes = append(t.outcomes, entity.QueryOutcome{
		RunID:     runID,
		Query:     q,
		Status:    entity.QueryRunning,
		StartedAt: t.now(),
	})
	return len(t.outcomes) - 1
}

func (t *RunTracker) Finish(idx int, attempts, listings int, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if idx < 0 || idx >= len(t.outcomes) {
		return
	}
	o := &t.outcomes[idx]
	finished := t.now()
	o.FinishedAt = &finished
	o.Attempts = attempts
	o.Listings = listings
	o.Status = entity.QuerySucceeded
	if err != nil {
		o.Status = entity.QueryFailed
		o.Err = err.Error()
	}
}

// Outcomes returns a copy, oldest first.
func (t *RunTracker) Outcomes() []entity.QueryOutcome {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]entity.QueryOutcome, len(t.outcomes))
	copy(out, t.outcomes)
	return out
}
