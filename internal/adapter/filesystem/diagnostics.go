// Package filesystem stores diagnostic screenshots on local disk.
package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/user/maps-scraper/internal/entity"
	"github.com/user/maps-scraper/internal/repository"
)

type DiagnosticsSink struct {
	dir string
}

var _ repository.DiagnosticsSink = (*DiagnosticsSink)(nil)

func NewDiagnosticsSink(dir string) *DiagnosticsSink {
	return &DiagnosticsSink{dir: dir}
}

func (s *DiagnosticsSink) Save(_ context.Context, snap entity.Snapshot) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create screenshot dir: %w", err)
	}
	path := filepath.Join(s.dir, snap.FileName())
	if err := os.WriteFile(path, snap.PNG, 0o644); err != nil {
		return "", fmt.Errorf("write screenshot: %w", err)
	}
	return path, nil
}
