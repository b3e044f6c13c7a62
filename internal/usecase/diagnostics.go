package usecase

import (
	"context"
	"time"

	"github.com/user/maps-scraper/internal/browser"
	"github.com/user/maps-scraper/internal/entity"
	"github.com/user/maps-scraper/internal/repository"
	"go.uber.org/zap"
)

// Diagnostics captures screenshots. Failures are logged and never surface
// to the caller.
type Diagnostics struct {
	sink   repository.DiagnosticsSink
	logger *zap.Logger
	now    func() time.Time
}

func NewDiagnostics(sink repository.DiagnosticsSink, logger *zap.Logger) *Diagnostics {
	return &Diagnostics{sink: sink, logger: logger, now: time.Now}
}

func (d *Diagnostics) Capture(ctx context.Context, page browser.Page, kind entity.SnapshotKind, label string) {
	if d == nil || d.sink == nil || page == nil {
		return
	}
	png, err := page.Screenshot(ctx)
	if err != nil {
		d.logger.Warn("screenshot failed", zap.String("kind", string(kind)), zap.Error(err))
		return
	}
	loc, err := d.sink.Save(ctx, entity.Snapshot{TakenAt: d.now(), Kind: kind, Label: label, PNG: png})
	if err != nil {
		d.logger.Warn("saving screenshot failed", zap.String("kind", string(kind)), zap.Error(err))
		return
	}
	d.logger.Info("screenshot saved", zap.String("kind", string(kind)), zap.String("location", loc))
}
