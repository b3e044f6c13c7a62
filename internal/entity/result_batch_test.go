package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultBatch_Records(t *testing.T) {
	batch := ResultBatch{
		Category:   "moscow_pims",
		IngestedAt: time.Date(2024, 3, 9, 18, 30, 0, 0, time.UTC),
		Listings: []Listing{
			{Name: "A", Address: "Street 1", Rating: "4.8", AvgPrice: "1500", ReviewsCount: "120",
				Link: "https://yandex.ru/maps/org/a/1/", Coordinates: &Coordinates{Lat: 55.75, Lon: 37.62}},
			{Name: "B", Address: "Street 2"},
		},
	}

	rows := batch.Records()
	require.Len(t, rows, 2)
	assert.Len(t, rows[0], len(ListingColumns))
	assert.Equal(t, []string{"A", "Street 1", "4.8", "1500", "120", "https://yandex.ru/maps/org/a/1/", "55.75", "37.62", "moscow_pims", "2024-03-09"}, rows[0])
	assert.Equal(t, []string{"B", "Street 2", "", "", "", "", "", "", "moscow_pims", "2024-03-09"}, rows[1])
}

func TestListing_Key(t *testing.T) {
	a := Listing{Name: "Cafe", Address: "Main 1", Rating: "5"}
	b := Listing{Name: "Cafe", Address: "Main 1", Rating: "3"}
	assert.Equal(t, a.Key(), b.Key())
	assert.NotEqual(t, a.Key(), Listing{Name: "Cafe", Address: "Main 2"}.Key())
}
