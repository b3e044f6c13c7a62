// Package gormstore reads back scraped listings through gorm.
package gormstore

import (
	"context"
	"fmt"

	"github.com/user/maps-scraper/internal/entity"
	"github.com/user/maps-scraper/internal/repository"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ListingStore serves detail links and per-category counts from the listings table.
type ListingStore struct {
	db    *gorm.DB
	table string
}

var (
	_ repository.LinkSource   = (*ListingStore)(nil)
	_ repository.ListingStats = (*ListingStore)(nil)
)

// Open connects gorm to PostgreSQL with SQL logging silenced.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("open gorm: %w", err)
	}
	return db, nil
}

func NewListingStore(db *gorm.DB, table string) *ListingStore {
	if table == "" {
		table = "listings"
	}
	return &ListingStore{db: db, table: table}
}

// Links returns every distinct non-empty detail link.
func (s *ListingStore) Links(ctx context.Context) ([]string, error) {
	var links []string
	err := s.db.WithContext(ctx).
		Table(s.table).
		Distinct("link").
		Where("link IS NOT NULL AND link <> ''").
		Order("link").
		Pluck("link", &links).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load links: %w", err)
	}
	return links, nil
}

func (s *ListingStore) CountByCategory(ctx context.Context) ([]entity.CategoryCount, error) {
	var out []entity.CategoryCount
	err := s.db.WithContext(ctx).
		Table(s.table).
		Select("category, count(*) AS listings").
		Group("category").
		Order("category").
		Scan(&out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count listings: %w", err)
	}
	return out, nil
}
