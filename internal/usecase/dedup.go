package usecase

import "github.com/user/maps-scraper/internal/entity"

// Dedupe keeps the first listing of every (name, address) pair, preserving order.
func Dedupe(listings []entity.Listing) []entity.Listing {
	seen := make(map[entity.DedupKey]struct{}, len(listings))
	out := make([]entity.Listing, 0, len(listings))
	for _, l := range listings {
		k := l.Key()
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, l)
	}
	return out
}
