package postgres

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/user/maps-scraper/internal/repository"
	"github.com/user/maps-scraper/pkg/utils"
)

// BatchSender is the subset of *pgxpool.Pool the sink needs.
type BatchSender interface {
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// Table describes where a write target lands. With a Key, conflicting rows
// are updated in place; otherwise duplicates are skipped.
type Table struct {
	Name string
	Key  []string
}

// SinkImpl writes records into PostgreSQL tables with one batch per write.
type SinkImpl struct {
	db     BatchSender
	tables map[string]Table
}

var _ repository.Sink = (*SinkImpl)(nil)

func NewSink(db BatchSender, tables map[string]Table) *SinkImpl {
	return &SinkImpl{db: db, tables: tables}
}

func (s *SinkImpl) Name() string { return "postgres" }

// Write inserts rows in one round trip. Empty cells become NULL.
func (s *SinkImpl) Write(ctx context.Context, target string, columns []string, rows [][]string) error {
	table, ok := s.tables[target]
	if !ok {
		return fmt.Errorf("postgres sink: unknown target %q", target)
	}
	if len(rows) == 0 {
		return nil
	}
	columns = utils.NormalizeColumns(columns)
	query := insertQuery(table, columns)

	batch := &pgx.Batch{}
	for _, row := range rows {
		args := make([]any, len(columns))
		for i, col := range columns {
			if i < len(row) {
				args[i] = convert(col, row[i])
			}
		}
		batch.Queue(query, args...)
	}

	br := s.db.SendBatch(ctx, batch)
	for i := range rows {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("insert row %d into %s: %w", i, table.Name, err)
		}
	}
	return br.Close()
}

func insertQuery(t Table, columns []string) string {
	cols := make([]string, len(columns))
	params := make([]string, len(columns))
	for i, c := range columns {
		cols[i] = pgx.Identifier{c}.Sanitize()
		params[i] = "$" + strconv.Itoa(i+1)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "INSERT INTO %s (%s) VALUES (%s)",
		pgx.Identifier{t.Name}.Sanitize(), strings.Join(cols, ", "), strings.Join(params, ", "))

	if len(t.Key) == 0 {
		b.WriteString(" ON CONFLICT DO NOTHING")
		return b.String()
	}

	keys := make(map[string]bool, len(t.Key))
	keyCols := make([]string, len(t.Key))
	for i, k := range t.Key {
		keys[k] = true
		keyCols[i] = pgx.Identifier{k}.Sanitize()
	}
	var sets []string
	for _, c := range columns {
		if keys[c] {
			continue
		}
		id := pgx.Identifier{c}.Sanitize()
		sets = append(sets, id+" = EXCLUDED."+id)
	}
	if len(sets) == 0 {
		fmt.Fprintf(&b, " ON CONFLICT (%s) DO NOTHING", strings.Join(keyCols, ", "))
		return b.String()
	}
	fmt.Fprintf(&b, " ON CONFLICT (%s) DO UPDATE SET %s, updated_at = NOW()",
		strings.Join(keyCols, ", "), strings.Join(sets, ", "))
	return b.String()
}

// convert maps a cell to the column's SQL type. Unparseable typed cells become NULL.
func convert(column, cell string) any {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return nil
	}
	switch column {
	case "lat", "lon":
		f, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil
		}
		return f
	case "insert_date":
		d, err := time.Parse(time.DateOnly, cell)
		if err != nil {
			return nil
		}
		return d
	default:
		return cell
	}
}
