package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/user/maps-scraper/internal/browser"
	"github.com/user/maps-scraper/internal/repository"
	"github.com/user/maps-scraper/pkg/metrics"
	"go.uber.org/zap"
)

var (
	errPageNotReady = errors.New("detail page did not render")
	errSessionLost  = errors.New("navigation failed")
)

// Section is one kind of detail page: where it lives and how to read it.
type Section interface {
	Name() string
	Target() string
	Columns() []string
	URL(link string) string
	// Collect reads the record of link from the already opened page.
	// The first cell is always the link.
	Collect(ctx context.Context, page browser.Page, link string) ([]string, error)
}

// ManagedSession is a Session the enricher can open and close itself.
type ManagedSession interface {
	Session
	Init(ctx context.Context) error
	Close()
}

type EnrichStats struct {
	Visited int
	Skipped int
	Failed  int
}

type EnricherOptions struct {
	PagePause  time.Duration
	VisitedTTL time.Duration
	// Revisit ignores and clears earlier visits.
	Revisit bool
}

// DetailEnricher visits venue pages one by one and writes one record per
// link as soon as it is read.
type DetailEnricher struct {
	session ManagedSession
	section Section
	visited repository.VisitedRepository
	emitter BatchEmitter
	opts    EnricherOptions
	logger  *zap.Logger
	sleep   sleepFunc
}

func NewDetailEnricher(
	session ManagedSession,
	section Section,
	visited repository.VisitedRepository,
	emitter BatchEmitter,
	opts EnricherOptions,
	logger *zap.Logger,
) *DetailEnricher {
	return &DetailEnricher{
		session: session,
		section: section,
		visited: visited,
		emitter: emitter,
		opts:    opts,
		logger:  logger.With(zap.String("section", section.Name())),
		sleep:   sleepCtx,
	}
}

// Enrich processes links in order. Per-link failures are absorbed and still
// produce a record with only the link filled in.
func (d *DetailEnricher) Enrich(ctx context.Context, links []string) (EnrichStats, error) {
	var stats EnrichStats
	if len(links) == 0 {
		return stats, nil
	}
	if err := d.session.Init(ctx); err != nil {
		return stats, err
	}
	defer d.session.Close()

	for i, link := range links {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		if d.isVisited(ctx, link) {
			stats.Skipped++
			metrics.DetailPagesTotal.WithLabelValues(d.section.Name(), "skipped").Inc()
			continue
		}

		log := d.logger.With(zap.String("link", link), zap.Int("index", i+1), zap.Int("total", len(links)))
		record, err := d.visit(ctx, link)
		if err != nil {
			if ctx.Err() != nil {
				return stats, ctx.Err()
			}
			stats.Failed++
			metrics.DetailPagesTotal.WithLabelValues(d.section.Name(), "failure").Inc()
			log.Warn("detail page failed", zap.Error(err))
			record = d.blank(link)
		} else {
			stats.Visited++
			metrics.DetailPagesTotal.WithLabelValues(d.section.Name(), "success").Inc()
			d.markVisited(ctx, link)
			log.Info("detail page read")
		}

		if err := d.emitter.Emit(ctx, d.section.Target(), d.section.Columns(), [][]string{record}); err != nil {
			log.Error("emitting detail record", zap.Error(err))
		}

		if errors.Is(err, errSessionLost) {
			if rerr := d.session.Restart(ctx); rerr != nil {
				return stats, fmt.Errorf("restart after %s: %w", link, rerr)
			}
		}
		if err := d.sleep(ctx, d.opts.PagePause); err != nil {
			return stats, err
		}
	}
	return stats, nil
}

func (d *DetailEnricher) visit(ctx context.Context, link string) ([]string, error) {
	page := d.session.Current()
	if page == nil {
		return nil, fmt.Errorf("%w: %w", errSessionLost, browser.ErrClosed)
	}
	if err := page.Navigate(ctx, d.section.URL(link)); err != nil {
		return nil, fmt.Errorf("%w: %w", errSessionLost, err)
	}
	return d.section.Collect(ctx, page, link)
}

func (d *DetailEnricher) blank(link string) []string {
	rec := make([]string, len(d.section.Columns()))
	if len(rec) > 0 {
		rec[0] = link
	}
	return rec
}

func (d *DetailEnricher) isVisited(ctx context.Context, link string) bool {
	if d.visited == nil {
		return false
	}
	if d.opts.Revisit {
		if err := d.visited.RemoveVisited(ctx, link); err != nil {
			d.logger.Warn("clearing visited mark failed", zap.String("link", link), zap.Error(err))
		}
		return false
	}
	ok, err := d.visited.IsVisited(ctx, link)
	if err != nil {
		d.logger.Warn("visited lookup failed", zap.String("link", link), zap.Error(err))
		return false
	}
	return ok
}

func (d *DetailEnricher) markVisited(ctx context.Context, link string) {
	if d.visited == nil {
		return
	}
	if err := d.visited.MarkVisited(ctx, link, d.opts.VisitedTTL); err != nil {
		d.logger.Warn("marking link visited failed", zap.String("link", link), zap.Error(err))
	}
}
