package chromedp_browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/user/maps-scraper/internal/browser"
	"go.uber.org/zap"
)

// Options configures every browser the launcher starts.
type Options struct {
	Headless      bool
	UserAgent     string
	WindowWidth   int
	WindowHeight  int
	ActionTimeout time.Duration
}

type Launcher struct {
	opts   Options
	logger *zap.Logger
}

// NewLauncher creates a launcher that starts one local Chrome per session.
func NewLauncher(opts Options, logger *zap.Logger) *Launcher {
	if opts.ActionTimeout <= 0 {
		opts.ActionTimeout = 25 * time.Second
	}
	return &Launcher{opts: opts, logger: logger}
}

func (l *Launcher) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", l.opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("start-maximized", true),
	)
	if l.opts.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(l.opts.UserAgent))
	}
	if l.opts.WindowWidth > 0 && l.opts.WindowHeight > 0 {
		opts = append(opts, chromedp.WindowSize(l.opts.WindowWidth, l.opts.WindowHeight))
	}
	return opts
}

// Launch starts a browser process and opens its first tab.
// The browser outlives ctx; it is released by Page.Close.
func (l *Launcher) Launch(ctx context.Context) (browser.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), l.allocatorOptions()...)
	sugar := l.logger.Sugar()
	tabCtx, cancelTab := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(sugar.Debugf),
		chromedp.WithErrorf(sugar.Debugf),
	)

	// The first Run on a fresh context starts the browser.
	if err := chromedp.Run(tabCtx); err != nil {
		cancelTab()
		cancelAlloc()
		return nil, fmt.Errorf("start browser: %w", err)
	}

	l.logger.Debug("browser started", zap.Bool("headless", l.opts.Headless))
	return &Page{
		ctx:           tabCtx,
		cancelTab:     cancelTab,
		cancelAlloc:   cancelAlloc,
		actionTimeout: l.opts.ActionTimeout,
	}, nil
}
