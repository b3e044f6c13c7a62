package chromedp_browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"
	"github.com/user/maps-scraper/internal/browser"
)

// Page drives one chromedp tab.
type Page struct {
	ctx           context.Context
	cancelTab     context.CancelFunc
	cancelAlloc   context.CancelFunc
	actionTimeout time.Duration
}

var _ browser.Page = (*Page)(nil)

// run executes actions on the tab, bounded by the action timeout and by ctx.
func (p *Page) run(ctx context.Context, actions ...chromedp.Action) error {
	if p.ctx.Err() != nil {
		return browser.ErrClosed
	}
	runCtx, cancel := context.WithTimeout(p.ctx, p.actionTimeout)
	defer cancel()
	if deadline, ok := ctx.Deadline(); ok {
		var cancelDeadline context.CancelFunc
		runCtx, cancelDeadline = context.WithDeadline(runCtx, deadline)
		defer cancelDeadline()
	}
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	err := chromedp.Run(runCtx, actions...)
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

func by(loc browser.Locator) chromedp.QueryOption {
	if loc.XPath {
		return chromedp.BySearch
	}
	return chromedp.ByQuery
}

func (p *Page) Navigate(ctx context.Context, url string) error {
	if err := p.run(ctx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("navigate to %s: %w", url, err)
	}
	return nil
}

func (p *Page) WaitPresent(ctx context.Context, loc browser.Locator) error {
	err := p.run(ctx, chromedp.WaitReady(loc.Query, by(loc)))
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s", browser.ErrNotFound, loc)
	}
	return err
}

func (p *Page) Clear(ctx context.Context, loc browser.Locator) error {
	return p.run(ctx, chromedp.Clear(loc.Query, by(loc)))
}

func (p *Page) TypeText(ctx context.Context, loc browser.Locator, text string) error {
	return p.run(ctx, chromedp.SendKeys(loc.Query, text, by(loc)))
}

func (p *Page) PressEnter(ctx context.Context, loc browser.Locator) error {
	return p.run(ctx, chromedp.SendKeys(loc.Query, kb.Enter, by(loc)))
}

func (p *Page) Click(ctx context.Context, loc browser.Locator) error {
	err := p.run(ctx,
		chromedp.ScrollIntoView(loc.Query, by(loc)),
		chromedp.Click(loc.Query, by(loc)),
	)
	if err == nil || ctx.Err() != nil {
		return err
	}

	var clicked bool
	if jsErr := p.run(ctx, chromedp.Evaluate(clickScript(loc), &clicked)); jsErr != nil {
		return fmt.Errorf("click %s: %w", loc, errors.Join(err, jsErr))
	}
	if !clicked {
		return fmt.Errorf("%w: %s", browser.ErrNotFound, loc)
	}
	return nil
}

func (p *Page) Count(ctx context.Context, loc browser.Locator) (int, error) {
	var n int
	if err := p.run(ctx, chromedp.Evaluate(countScript(loc), &n)); err != nil {
		return 0, fmt.Errorf("count %s: %w", loc, err)
	}
	return n, nil
}

func (p *Page) ScrollBy(ctx context.Context, container browser.Locator, px int) error {
	var ok bool
	return p.run(ctx, chromedp.Evaluate(scrollScript(container, px), &ok))
}

func (p *Page) ScrollToBottom(ctx context.Context) error {
	var ok bool
	return p.run(ctx, chromedp.Evaluate(scrollBottomScript, &ok))
}

type snapshotItem struct {
	HTML        string `json:"html"`
	Coordinates string `json:"coordinates"`
}

func (p *Page) Snapshot(ctx context.Context, items browser.Locator) ([]browser.Element, error) {
	var raw []snapshotItem
	if err := p.run(ctx, chromedp.Evaluate(snapshotScript(items), &raw)); err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", items, err)
	}
	out := make([]browser.Element, 0, len(raw))
	for _, it := range raw {
		out = append(out, browser.Element{HTML: it.HTML, Coordinates: it.Coordinates})
	}
	return out, nil
}

func (p *Page) HTML(ctx context.Context) (string, error) {
	var html string
	if err := p.run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", err
	}
	return html, nil
}

func (p *Page) Screenshot(ctx context.Context) ([]byte, error) {
	var buf []byte
	err := p.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		buf, err = page.CaptureScreenshot().WithFormat(page.CaptureScreenshotFormatPng).Do(ctx)
		return err
	}))
	return buf, err
}

// Close shuts the tab and the browser process. Safe to call twice.
func (p *Page) Close() error {
	if p.ctx.Err() != nil {
		p.cancelAlloc()
		return nil
	}
	err := chromedp.Cancel(p.ctx)
	p.cancelTab()
	p.cancelAlloc()
	return err
}
