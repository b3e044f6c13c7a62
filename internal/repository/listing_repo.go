package repository

import (
	"context"

	"github.com/user/maps-scraper/internal/entity"
)

// LinkSource yields venue detail links collected by earlier scrapes.
type LinkSource interface {
	Links(ctx context.Context) ([]string, error)
}

// ListingStats reports aggregate figures over stored listings.
type ListingStats interface {
	CountByCategory(ctx context.Context) ([]entity.CategoryCount, error)
}
