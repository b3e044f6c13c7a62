package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/user/maps-scraper/internal/entity"
	"go.uber.org/zap"
)

type SearchOptions struct {
	MapURL      string
	FindTimeout time.Duration
	// Pauses after opening the map, after submitting, and after zooming out.
	OpenSettle   time.Duration
	SubmitSettle time.Duration
	ZoomSettle   time.Duration
	KeyPauseMin  time.Duration
	KeyPauseMax  time.Duration
}

func DefaultSearchOptions(mapURL string, findTimeout time.Duration) SearchOptions {
	return SearchOptions{
		MapURL:       mapURL,
		FindTimeout:  findTimeout,
		OpenSettle:   3 * time.Second,
		SubmitSettle: 5 * time.Second,
		ZoomSettle:   2 * time.Second,
		KeyPauseMin:  100 * time.Millisecond,
		KeyPauseMax:  300 * time.Millisecond,
	}
}

// SearchOrchestrator types a query into the map search box and waits for
// the first result item.
type SearchOrchestrator struct {
	session  Session
	accessor *ElementAccessor
	loc      SearchLocators
	opts     SearchOptions
	diag     *Diagnostics
	logger   *zap.Logger
	sleep    sleepFunc
	jitter   jitterFunc
}

func NewSearchOrchestrator(session Session, accessor *ElementAccessor, loc SearchLocators, opts SearchOptions, diag *Diagnostics, logger *zap.Logger) *SearchOrchestrator {
	return &SearchOrchestrator{
		session:  session,
		accessor: accessor,
		loc:      loc,
		opts:     opts,
		diag:     diag,
		logger:   logger,
		sleep:    sleepCtx,
		jitter:   uniformJitter,
	}
}

// Search leaves the session showing results for q. Every failure is
// reported as ErrSearchFailed.
func (s *SearchOrchestrator) Search(ctx context.Context, q entity.Query) error {
	page := s.session.Current()
	if page == nil {
		return fmt.Errorf("%w: no browser session", ErrSearchFailed)
	}
	if err := page.Navigate(ctx, s.opts.MapURL); err != nil {
		return fmt.Errorf("%w: open map: %w", ErrSearchFailed, err)
	}
	if err := s.sleep(ctx, s.opts.OpenSettle); err != nil {
		return err
	}

	page, err := s.accessor.FindRequired(ctx, s.loc.Input, s.opts.FindTimeout)
	if err != nil {
		return fmt.Errorf("%w: search input: %w", ErrSearchFailed, err)
	}
	if err := page.Clear(ctx, s.loc.Input); err != nil {
		return fmt.Errorf("%w: clear input: %w", ErrSearchFailed, err)
	}
	for _, r := range q.Text {
		if err := page.TypeText(ctx, s.loc.Input, string(r)); err != nil {
			return fmt.Errorf("%w: type query: %w", ErrSearchFailed, err)
		}
		if err := s.sleep(ctx, s.jitter(s.opts.KeyPauseMin, s.opts.KeyPauseMax)); err != nil {
			return err
		}
	}
	if err := page.PressEnter(ctx, s.loc.Input); err != nil {
		return fmt.Errorf("%w: submit query: %w", ErrSearchFailed, err)
	}
	if err := s.sleep(ctx, s.opts.SubmitSettle); err != nil {
		return err
	}

	if zp, ok := s.accessor.FindOptional(ctx, s.loc.ZoomOut, s.opts.FindTimeout); ok {
		if err := zp.Click(ctx, s.loc.ZoomOut); err != nil {
			s.logger.Debug("zoom out click failed", zap.Error(err))
		} else if err := s.sleep(ctx, s.opts.ZoomSettle); err != nil {
			return err
		}
	}

	page, err = s.accessor.FindRequired(ctx, s.loc.ResultItem, s.opts.FindTimeout)
	if err != nil {
		return fmt.Errorf("%w: result items: %w", ErrSearchFailed, err)
	}
	s.diag.Capture(ctx, page, entity.SnapshotResult, q.Text)
	s.logger.Info("search results shown", zap.String("query", q.Text))
	return nil
}
