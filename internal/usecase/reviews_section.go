package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/user/maps-scraper/internal/browser"
	"github.com/user/maps-scraper/internal/dom"
	"github.com/user/maps-scraper/internal/entity"
	"github.com/user/maps-scraper/pkg/utils"
	"go.uber.org/zap"
)

type ReviewsOptions struct {
	PerCategory    int
	FindTimeout    time.Duration
	FilterAttempts int
	ScrollAttempts int
	ScrollPause    time.Duration
	// Pauses around the ranking dropdown.
	OpenPause   time.Duration
	SelectPause time.Duration
	RetryPause  time.Duration
}

func DefaultReviewsOptions(perCategory int, findTimeout time.Duration) ReviewsOptions {
	return ReviewsOptions{
		PerCategory:    perCategory,
		FindTimeout:    findTimeout,
		FilterAttempts: 5,
		ScrollAttempts: 5,
		ScrollPause:    3 * time.Second,
		OpenPause:      2 * time.Second,
		SelectPause:    3 * time.Second,
		RetryPause:     3 * time.Second,
	}
}

// ReviewsSection reads the most negative and most positive reviews of a venue.
type ReviewsSection struct {
	accessor *ElementAccessor
	sel      ReviewSelectors
	opts     ReviewsOptions
	logger   *zap.Logger
	sleep    sleepFunc
}

func NewReviewsSection(accessor *ElementAccessor, sel ReviewSelectors, opts ReviewsOptions, logger *zap.Logger) *ReviewsSection {
	return &ReviewsSection{accessor: accessor, sel: sel, opts: opts, logger: logger, sleep: sleepCtx}
}

func (s *ReviewsSection) Name() string           { return "reviews" }
func (s *ReviewsSection) Target() string         { return TargetReviews }
func (s *ReviewsSection) Columns() []string      { return entity.ReviewsColumns }
func (s *ReviewsSection) URL(link string) string { return utils.ReviewsPageURL(link) }

// Collect leaves a column empty when its ranking filter cannot be selected.
func (s *ReviewsSection) Collect(ctx context.Context, page browser.Page, link string) ([]string, error) {
	if _, ok := s.accessor.FindOptional(ctx, s.sel.Body, s.opts.FindTimeout); !ok {
		return nil, errPageNotReady
	}

	r := entity.Reviews{Link: link}
	var err error
	if r.Negative, err = s.ranked(ctx, page, s.sel.NegativeLabel); err != nil {
		return nil, err
	}
	if r.Positive, err = s.ranked(ctx, page, s.sel.PositiveLabel); err != nil {
		return nil, err
	}
	return r.Record(), nil
}

// ranked returns the joined reviews under one ranking, or "" when the
// ranking could not be selected. Only context errors are returned.
func (s *ReviewsSection) ranked(ctx context.Context, page browser.Page, label string) (string, error) {
	if err := s.selectFilter(ctx, page, label); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		s.logger.Warn("ranking filter not selected", zap.String("filter", label), zap.Error(err))
		return "", nil
	}
	texts, err := s.collect(ctx, page)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		s.logger.Warn("collecting reviews", zap.String("filter", label), zap.Error(err))
	}
	return strings.Join(texts, entity.ReviewSeparator), nil
}

func (s *ReviewsSection) selectFilter(ctx context.Context, page browser.Page, label string) error {
	option := browser.XPath(fmt.Sprintf(s.sel.OptionTemplate, xpathLiteral(label)))

	var lastErr error
	for attempt := 1; attempt <= s.opts.FilterAttempts; attempt++ {
		if lastErr = s.trySelect(ctx, page, option); lastErr == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.logger.Debug("ranking filter attempt failed",
			zap.String("filter", label),
			zap.Int("attempt", attempt),
			zap.Error(lastErr),
		)
		if err := s.sleep(ctx, s.opts.RetryPause); err != nil {
			return err
		}
	}
	return fmt.Errorf("select %q after %d attempts: %w", label, s.opts.FilterAttempts, lastErr)
}

func (s *ReviewsSection) trySelect(ctx context.Context, page browser.Page, option browser.Locator) error {
	if err := s.waitFor(ctx, page, s.sel.FilterButton); err != nil {
		return err
	}
	if err := page.Click(ctx, s.sel.FilterButton); err != nil {
		return fmt.Errorf("open ranking dropdown: %w", err)
	}
	if err := s.sleep(ctx, s.opts.OpenPause); err != nil {
		return err
	}
	if err := s.waitFor(ctx, page, s.sel.FilterPopup); err != nil {
		return err
	}
	if err := s.waitFor(ctx, page, option); err != nil {
		return err
	}
	if err := page.Click(ctx, option); err != nil {
		return fmt.Errorf("click ranking option: %w", err)
	}
	return s.sleep(ctx, s.opts.SelectPause)
}

func (s *ReviewsSection) waitFor(ctx context.Context, page browser.Page, loc browser.Locator) error {
	waitCtx, cancel := context.WithTimeout(ctx, s.opts.FindTimeout)
	defer cancel()
	if err := page.WaitPresent(waitCtx, loc); err != nil {
		return fmt.Errorf("wait for %s: %w", loc, err)
	}
	return nil
}

// collect gathers up to PerCategory distinct review texts, scrolling to the
// bottom between reads.
func (s *ReviewsSection) collect(ctx context.Context, page browser.Page) ([]string, error) {
	var (
		texts []string
		seen  = make(map[string]struct{})
	)
	for scrolls := 0; len(texts) < s.opts.PerCategory && scrolls < s.opts.ScrollAttempts; scrolls++ {
		html, err := page.HTML(ctx)
		if err != nil {
			return texts, fmt.Errorf("read page html: %w", err)
		}
		for _, n := range dom.ParseDocument(html).All(s.sel.ReviewText.Query) {
			t := n.OwnText()
			if t == "" {
				continue
			}
			if _, dup := seen[t]; dup {
				continue
			}
			seen[t] = struct{}{}
			texts = append(texts, t)
			if len(texts) >= s.opts.PerCategory {
				return texts, nil
			}
		}
		if err := page.ScrollToBottom(ctx); err != nil {
			return texts, fmt.Errorf("scroll reviews: %w", err)
		}
		if err := s.sleep(ctx, s.opts.ScrollPause); err != nil {
			return texts, err
		}
	}
	return texts, nil
}
