package repository

import (
	"context"

	"github.com/user/maps-scraper/internal/entity"
)

// Sink appends tabular records to a named target (file, table or queue).
type Sink interface {
	// Name identifies the sink in logs and metrics.
	Name() string
	// Write appends rows under the given column names. Columns are normalized
	// by the sink; rows are aligned with columns.
	Write(ctx context.Context, target string, columns []string, rows [][]string) error
}

// DiagnosticsSink stores screenshots taken during a scrape.
type DiagnosticsSink interface {
	// Save stores the snapshot and returns where it was put.
	Save(ctx context.Context, snap entity.Snapshot) (string, error)
}
