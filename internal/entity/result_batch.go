package entity

import (
	"strconv"
	"time"
)

// ListingColumns is the column order of a flattened ResultBatch.
var ListingColumns = []string{
	"name", "address", "rating", "avg_price", "reviews_count", "link", "lat", "lon", "category", "insert_date",
}

// ResultBatch is the deduplicated output of one successful query.
type ResultBatch struct {
	Category   string    `json:"category"`
	IngestedAt time.Time `json:"ingested_at"`
	Listings   []Listing `json:"listings"`
}

// InsertDate is the ingestion day in YYYY-MM-DD form.
func (b ResultBatch) InsertDate() string {
	return b.IngestedAt.Format(time.DateOnly)
}

// Records flattens the batch into rows ordered like ListingColumns.
// Coordinates become separate lat and lon cells, empty when absent.
func (b ResultBatch) Records() [][]string {
	date := b.InsertDate()
	rows := make([][]string, 0, len(b.Listings))
	for _, l := range b.Listings {
		var lat, lon string
		if l.Coordinates != nil {
			lat = strconv.FormatFloat(l.Coordinates.Lat, 'f', -1, 64)
			lon = strconv.FormatFloat(l.Coordinates.Lon, 'f', -1, 64)
		}
		rows = append(rows, []string{
			l.Name, l.Address, l.Rating, l.AvgPrice, l.ReviewsCount, l.Link, lat, lon, b.Category, date,
		})
	}
	return rows
}
