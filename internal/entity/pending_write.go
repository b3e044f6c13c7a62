package entity

import "time"

// PendingWrite is a sink write that failed and waits to be replayed.
type PendingWrite struct {
	Sink     string     `json:"sink"`
	Target   string     `json:"target"`
	Columns  []string   `json:"columns"`
	Rows     [][]string `json:"rows"`
	FailedAt time.Time  `json:"failed_at"`
}

// CategoryCount is the number of stored listings carrying one category.
type CategoryCount struct {
	Category string `json:"category"`
	Listings int64  `json:"listings"`
}
