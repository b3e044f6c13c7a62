package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/user/maps-scraper/internal/browser"
	"github.com/user/maps-scraper/pkg/metrics"
	"go.uber.org/zap"
)

// Session exposes the live page and lets callers replace it after a fault.
type Session interface {
	Current() browser.Page
	Restart(ctx context.Context) error
}

// SessionManager owns at most one live browser page at a time.
type SessionManager struct {
	launcher browser.Launcher
	homeURL  string
	settle   time.Duration
	logger   *zap.Logger
	sleep    sleepFunc

	page browser.Page
}

func NewSessionManager(launcher browser.Launcher, homeURL string, settle time.Duration, logger *zap.Logger) *SessionManager {
	return &SessionManager{
		launcher: launcher,
		homeURL:  homeURL,
		settle:   settle,
		logger:   logger,
		sleep:    sleepCtx,
	}
}

// Init launches a fresh browser. Any page already held is closed first.
func (s *SessionManager) Init(ctx context.Context) error {
	s.closeQuietly()

	page, err := s.launcher.Launch(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSessionInit, err)
	}
	s.page = page
	s.logger.Info("browser session started")
	return nil
}

// Restart tears down the current page, starts a new one and lands it on the
// home page. A failed home navigation is logged and tolerated.
func (s *SessionManager) Restart(ctx context.Context) error {
	metrics.SessionRestarts.Inc()
	s.logger.Warn("restarting browser session")

	if err := s.Init(ctx); err != nil {
		return err
	}
	if err := s.page.Navigate(ctx, s.homeURL); err != nil {
		s.logger.Warn("home page navigation after restart failed", zap.String("url", s.homeURL), zap.Error(err))
		return nil
	}
	return s.sleep(ctx, s.settle)
}

func (s *SessionManager) Current() browser.Page {
	return s.page
}

func (s *SessionManager) Close() {
	s.closeQuietly()
}

func (s *SessionManager) closeQuietly() {
	if s.page == nil {
		return
	}
	if err := s.page.Close(); err != nil {
		s.logger.Debug("closing browser session", zap.Error(err))
	}
	s.page = nil
}
