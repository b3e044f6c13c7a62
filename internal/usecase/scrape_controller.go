package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/user/maps-scraper/internal/browser"
	"github.com/user/maps-scraper/internal/entity"
	"github.com/user/maps-scraper/pkg/metrics"
	"go.uber.org/zap"
)

// Targets addressed by the emitter.
const (
	TargetListings = "listings"
	TargetContacts = "contacts"
	TargetReviews  = "reviews"
)

// State is a step of the per-query retry machine.
type State int

const (
	StateSearching State = iota
	StateLoading
	StateExtracting
	StateDeduping
	StateEmitting
	StateDone
	StateFaulted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateSearching:
		return "searching"
	case StateLoading:
		return "loading"
	case StateExtracting:
		return "extracting"
	case StateDeduping:
		return "deduping"
	case StateEmitting:
		return "emitting"
	case StateDone:
		return "done"
	case StateFaulted:
		return "faulted"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

type Searcher interface {
	Search(ctx context.Context, q entity.Query) error
}

type Loader interface {
	Load(ctx context.Context, page browser.Page) (int, error)
}

type BatchEmitter interface {
	Emit(ctx context.Context, target string, columns []string, rows [][]string) error
}

type ScrapeResult struct {
	Batch    entity.ResultBatch
	Attempts int
}

// ScrapeController runs one query through search, loading, extraction,
// dedup and emission, restarting the session and retrying on faults.
type ScrapeController struct {
	session    Session
	searcher   Searcher
	loader     Loader
	extractor  *RecordExtractor
	emitter    BatchEmitter
	diag       *Diagnostics
	items      browser.Locator
	minItems   int
	maxRetries int
	logger     *zap.Logger
	now        func() time.Time
}

func NewScrapeController(
	session Session,
	searcher Searcher,
	loader Loader,
	extractor *RecordExtractor,
	emitter BatchEmitter,
	diag *Diagnostics,
	items browser.Locator,
	minItems, maxRetries int,
	logger *zap.Logger,
) *ScrapeController {
	return &ScrapeController{
		session:    session,
		searcher:   searcher,
		loader:     loader,
		extractor:  extractor,
		emitter:    emitter,
		diag:       diag,
		items:      items,
		minItems:   minItems,
		maxRetries: maxRetries,
		logger:     logger,
		now:        time.Now,
	}
}

// Scrape makes at most maxRetries+1 attempts. The returned error wraps
// ErrRetriesExhausted, or the restart failure that ended the query early.
func (c *ScrapeController) Scrape(ctx context.Context, q entity.Query) (ScrapeResult, error) {
	log := c.logger.With(zap.String("query", q.Text), zap.String("category", q.Category))

	var (
		state    = StateSearching
		attempt  = 0
		lastErr  error
		page     browser.Page
		listings []entity.Listing
		batch    entity.ResultBatch
	)

	for {
		if err := ctx.Err(); err != nil {
			return ScrapeResult{Attempts: attempt + 1}, err
		}

		prev := state
		var err error
		switch state {
		case StateSearching:
			err = c.guard(func() error { return c.searcher.Search(ctx, q) })
			if err == nil {
				page = c.session.Current()
				state = StateLoading
			}

		case StateLoading:
			var n int
			err = c.guard(func() error {
				var lerr error
				n, lerr = c.loader.Load(ctx, page)
				return lerr
			})
			if err == nil && n < c.minItems {
				err = fmt.Errorf("%w: %d < %d", ErrTooFewItems, n, c.minItems)
			}
			if err == nil {
				state = StateExtracting
			}

		case StateExtracting:
			err = c.guard(func() error {
				var xerr error
				listings, xerr = c.extract(ctx, page)
				return xerr
			})
			if err == nil {
				state = StateDeduping
			}

		case StateDeduping:
			batch = entity.ResultBatch{Category: q.Category, IngestedAt: c.now(), Listings: Dedupe(listings)}
			state = StateEmitting

		case StateEmitting:
			if eerr := c.emitter.Emit(ctx, TargetListings, entity.ListingColumns, batch.Records()); eerr != nil {
				log.Error("emitting batch", zap.Error(eerr))
			}
			metrics.ListingsEmitted.WithLabelValues(q.Category).Add(float64(len(batch.Listings)))
			metrics.AttemptsTotal.WithLabelValues("done").Inc()
			state = StateDone

		case StateFaulted:
			if attempt >= c.maxRetries {
				state = StateFailed
				lastErr = fmt.Errorf("%w after %d attempts: %w", ErrRetriesExhausted, attempt+1, lastErr)
				break
			}
			if rerr := c.session.Restart(ctx); rerr != nil {
				state = StateFailed
				lastErr = fmt.Errorf("restart after attempt %d: %w", attempt+1, rerr)
				break
			}
			attempt++
			state = StateSearching
		}

		if err != nil {
			if ctx.Err() != nil {
				return ScrapeResult{Attempts: attempt + 1}, ctx.Err()
			}
			lastErr = err
			metrics.AttemptsTotal.WithLabelValues(outcomeOf(err)).Inc()
			c.diag.Capture(ctx, c.session.Current(), entity.SnapshotError, q.Text)
			state = StateFaulted
		}

		fields := []zap.Field{
			zap.String("stage", prev.String()),
			zap.Int("attempt", attempt+1),
			zap.String("outcome", state.String()),
		}
		if err != nil {
			log.Warn("stage faulted", append(fields, zap.Error(err))...)
		} else {
			log.Debug("stage complete", fields...)
		}

		switch state {
		case StateDone:
			log.Info("query scraped", zap.Int("listings", len(batch.Listings)), zap.Int("attempts", attempt+1))
			return ScrapeResult{Batch: batch, Attempts: attempt + 1}, nil
		case StateFailed:
			log.Error("query failed", zap.Int("attempts", attempt+1), zap.Error(lastErr))
			return ScrapeResult{Attempts: attempt + 1}, lastErr
		}
	}
}

func (c *ScrapeController) extract(ctx context.Context, page browser.Page) ([]entity.Listing, error) {
	elems, err := page.Snapshot(ctx, c.items)
	if err != nil {
		return nil, fmt.Errorf("snapshot result items: %w", err)
	}
	out := make([]entity.Listing, 0, len(elems))
	for _, el := range elems {
		if l, ok := c.extractor.Extract(el); ok {
			out = append(out, l)
		}
	}
	return out, nil
}

// guard turns a driver panic into an error.
func (c *ScrapeController) guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("recovered panic: %v", r)
		}
	}()
	return fn()
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, ErrSearchFailed):
		return "search_failed"
	case errors.Is(err, ErrTooFewItems):
		return "too_few_items"
	}
	return "error"
}
