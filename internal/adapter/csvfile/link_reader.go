package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/user/maps-scraper/internal/repository"
	"github.com/user/maps-scraper/pkg/utils"
)

// LinkReader returns the unique non-empty values of the link column of a CSV file.
type LinkReader struct {
	path string
}

var _ repository.LinkSource = (*LinkReader)(nil)

func NewLinkReader(path string) *LinkReader {
	return &LinkReader{path: path}
}

func (r *LinkReader) Links(ctx context.Context) ([]string, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", r.path, err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", r.path, err)
	}
	col := -1
	for i, h := range header {
		if utils.NormalizeColumn(strings.TrimPrefix(h, "\ufeff")) == "link" {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, fmt.Errorf("%s has no link column", r.path)
	}

	seen := make(map[string]struct{})
	var links []string
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", r.path, err)
		}
		if col >= len(rec) {
			continue
		}
		link := strings.TrimSpace(rec[col])
		if link == "" {
			continue
		}
		if _, dup := seen[link]; dup {
			continue
		}
		seen[link] = struct{}{}
		links = append(links, link)
	}
	return links, nil
}
