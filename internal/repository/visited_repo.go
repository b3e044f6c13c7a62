package repository

import (
	"context"
	"time"
)

// VisitedRepository remembers which detail pages were enriched recently.
type VisitedRepository interface {
	// MarkVisited marks a link as enriched for the given period.
	MarkVisited(ctx context.Context, link string, expiry time.Duration) error
	IsVisited(ctx context.Context, link string) (bool, error)
	// RemoveVisited forgets a link so the next enrichment revisits it.
	RemoveVisited(ctx context.Context, link string) error
}
