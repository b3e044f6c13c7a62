package memory

import (
	"context"
	"sync"
	"time"

	"github.com/user/maps-scraper/internal/repository"
)

type VisitedRepo struct {
	mu      sync.Mutex
	expires map[string]time.Time
	now     func() time.Time
}

var _ repository.VisitedRepository = (*VisitedRepo)(nil)

func NewVisitedRepo() *VisitedRepo {
	return &VisitedRepo{expires: make(map[string]time.Time), now: time.Now}
}

func (r *VisitedRepo) MarkVisited(_ context.Context, link string, expiry time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.expires[link] = r.now().Add(expiry)
	return nil
}

func (r *VisitedRepo) IsVisited(_ context.Context, link string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	exp, ok := r.expires[link]
	if !ok {
		return false, nil
	}
	if !r.now().Before(exp) {
		delete(r.expires, link)
		return false, nil
	}
	return true, nil
}

func (r *VisitedRepo) RemoveVisited(_ context.Context, link string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.expires, link)
	return nil
}
