package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/user/maps-scraper/internal/browser"
	"go.uber.org/zap"
)

// ElementAccessor waits for elements and recovers from a stuck session by
// restarting it between attempts.
type ElementAccessor struct {
	session  Session
	attempts int
	logger   *zap.Logger
}

func NewElementAccessor(session Session, attempts int, logger *zap.Logger) *ElementAccessor {
	if attempts < 1 {
		attempts = 1
	}
	return &ElementAccessor{session: session, attempts: attempts, logger: logger}
}

// FindRequired waits up to timeout per attempt for loc to appear and returns
// the page it appeared on. The session is restarted after every failed
// attempt but the last; a restart failure ends the lookup.
func (a *ElementAccessor) FindRequired(ctx context.Context, loc browser.Locator, timeout time.Duration) (browser.Page, error) {
	var lastErr error
	for attempt := 1; attempt <= a.attempts; attempt++ {
		page := a.session.Current()
		if page == nil {
			lastErr = browser.ErrClosed
		} else if lastErr = a.wait(ctx, page, loc, timeout); lastErr == nil {
			return page, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		a.logger.Warn("required element not found",
			zap.String("locator", loc.String()),
			zap.Int("attempt", attempt),
			zap.Error(lastErr),
		)
		if attempt == a.attempts {
			break
		}
		if err := a.session.Restart(ctx); err != nil {
			return nil, fmt.Errorf("restart while waiting for %s: %w", loc, err)
		}
	}
	if errors.Is(lastErr, browser.ErrNotFound) {
		return nil, fmt.Errorf("%s after %d attempts: %w", loc, a.attempts, lastErr)
	}
	return nil, fmt.Errorf("%s after %d attempts: %w: %w", loc, a.attempts, browser.ErrNotFound, lastErr)
}

// FindOptional polls once and reports whether loc is present. It never
// restarts the session.
func (a *ElementAccessor) FindOptional(ctx context.Context, loc browser.Locator, timeout time.Duration) (browser.Page, bool) {
	page := a.session.Current()
	if page == nil {
		return nil, false
	}
	if err := a.wait(ctx, page, loc, timeout); err != nil {
		a.logger.Debug("optional element absent", zap.String("locator", loc.String()), zap.Error(err))
		return nil, false
	}
	return page, true
}

func (a *ElementAccessor) wait(ctx context.Context, page browser.Page, loc browser.Locator, timeout time.Duration) error {
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	err := page.WaitPresent(waitCtx, loc)
	if err != nil && errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		return fmt.Errorf("%w: %w", browser.ErrNotFound, err)
	}
	return err
}
