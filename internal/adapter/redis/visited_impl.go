package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/user/maps-scraper/internal/repository"
	"github.com/user/maps-scraper/pkg/utils"
)

// VisitedRepoImpl tracks enriched detail links with expiring keys, one per
// section (contacts, reviews).
type VisitedRepoImpl struct {
	client redis.Cmdable
	prefix string
}

var _ repository.VisitedRepository = (*VisitedRepoImpl)(nil)

func NewVisitedRepo(client redis.Cmdable, section string) *VisitedRepoImpl {
	return &VisitedRepoImpl{client: client, prefix: "maps-scraper:visited:" + section + ":"}
}

func (r *VisitedRepoImpl) key(link string) string {
	return r.prefix + utils.HashURL(link)
}

// MarkVisited sets the link key with an expiry. SETEX is atomic.
func (r *VisitedRepoImpl) MarkVisited(ctx context.Context, link string, expiry time.Duration) error {
	if err := r.client.SetEx(ctx, r.key(link), "1", expiry).Err(); err != nil {
		return fmt.Errorf("redis setex failure: %w", err)
	}
	return nil
}

// IsVisited reports whether the link key still exists.
func (r *VisitedRepoImpl) IsVisited(ctx context.Context, link string) (bool, error) {
	n, err := r.client.Exists(ctx, r.key(link)).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists failure: %w", err)
	}
	return n == 1, nil
}

func (r *VisitedRepoImpl) RemoveVisited(ctx context.Context, link string) error {
	return r.client.Del(ctx, r.key(link)).Err()
}
