// Package csvfile appends records to CSV files and reads links back from them.
package csvfile

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/user/maps-scraper/internal/repository"
	"github.com/user/maps-scraper/pkg/utils"
)

// Sink appends rows to one CSV file per target.
type Sink struct {
	mu    sync.Mutex
	paths map[string]string
}

var _ repository.Sink = (*Sink)(nil)

// NewSink maps write targets to file paths.
func NewSink(paths map[string]string) *Sink {
	return &Sink{paths: paths}
}

func (s *Sink) Name() string { return "csv" }

// Write appends rows. A new or empty file gets a header first; an existing
// header decides the column order and unknown columns are dropped.
func (s *Sink) Write(ctx context.Context, target string, columns []string, rows [][]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, ok := s.paths[target]
	if !ok {
		return fmt.Errorf("csv sink: unknown target %q", target)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	columns = utils.NormalizeColumns(columns)
	header, err := readHeader(path)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if header == nil {
		header = columns
		if err := w.Write(header); err != nil {
			return err
		}
	}
	for _, row := range align(header, columns, rows) {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("encode rows for %s: %w", path, err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if err := appendAll(f, info.Size(), buf.Bytes()); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Sync()
}

type truncateWriter interface {
	io.Writer
	Truncate(size int64) error
}

// appendAll writes data in one call. On failure the file is cut back to
// offset so a replayed batch does not duplicate a partial one.
func appendAll(f truncateWriter, offset int64, data []byte) error {
	n, err := f.Write(data)
	if err == nil && n < len(data) {
		err = io.ErrShortWrite
	}
	if err == nil {
		return nil
	}
	if terr := f.Truncate(offset); terr != nil {
		return errors.Join(err, fmt.Errorf("truncate to %d: %w", offset, terr))
	}
	return err
}

func readHeader(path string) ([]string, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", path, err)
	}
	return utils.NormalizeColumns(header), nil
}

// align reorders rows from columns order into header order.
func align(header, columns []string, rows [][]string) [][]string {
	idx := make(map[string]int, len(columns))
	for i, c := range columns {
		idx[c] = i
	}
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		aligned := make([]string, len(header))
		for i, h := range header {
			if j, ok := idx[h]; ok && j < len(row) {
				aligned[i] = row[j]
			}
		}
		out = append(out, aligned)
	}
	return out
}
