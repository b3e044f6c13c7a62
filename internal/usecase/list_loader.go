package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/user/maps-scraper/internal/browser"
	"github.com/user/maps-scraper/pkg/metrics"
	"go.uber.org/zap"
)

type LoaderOptions struct {
	Cap          int
	MaxStalls    int
	ScrollStep   int
	StepsPerPass int
	StepPause    time.Duration
	PassPause    time.Duration
}

// ListLoader scrolls the result list until it stops growing or reaches the cap.
type ListLoader struct {
	items     browser.Locator
	container browser.Locator
	opts      LoaderOptions
	logger    *zap.Logger
	sleep     sleepFunc
}

func NewListLoader(items, container browser.Locator, opts LoaderOptions, logger *zap.Logger) *ListLoader {
	return &ListLoader{
		items:     items,
		container: container,
		opts:      opts,
		logger:    logger,
		sleep:     sleepCtx,
	}
}

// Load returns the item count observed on the final pass. A pass that adds
// nothing, or that starts at or above the cap, counts as a stall; MaxStalls
// consecutive stalls end loading. The count can exceed the cap by up to one
// pass worth of items.
func (l *ListLoader) Load(ctx context.Context, page browser.Page) (int, error) {
	prev, stalls := -1, 0
	count := 0
	for {
		var err error
		count, err = page.Count(ctx, l.items)
		if err != nil {
			return 0, fmt.Errorf("count result items: %w", err)
		}

		if count == prev || count >= l.opts.Cap {
			stalls++
			if stalls >= l.opts.MaxStalls {
				break
			}
		} else {
			stalls = 0
		}

		for i := 0; i < l.opts.StepsPerPass; i++ {
			if err := page.ScrollBy(ctx, l.container, l.opts.ScrollStep); err != nil {
				l.logger.Debug("scroll step failed", zap.Error(err))
				break
			}
			if err := l.sleep(ctx, l.opts.StepPause); err != nil {
				return 0, err
			}
		}

		prev = count
		if err := l.sleep(ctx, l.opts.PassPause); err != nil {
			return 0, err
		}
	}

	metrics.ItemsLoaded.Observe(float64(count))
	l.logger.Debug("result list loaded", zap.Int("items", count), zap.Int("stalls", stalls))
	return count, nil
}
