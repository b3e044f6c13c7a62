package usecase

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/user/maps-scraper/internal/browser"
	"github.com/user/maps-scraper/internal/entity"
	"github.com/user/maps-scraper/pkg/metrics"
)

func TestMain(m *testing.M) {
	metrics.Init()
	os.Exit(m.Run())
}

// fakePage is a scripted browser.Page. Locators listed in present resolve
// immediately; everything else reports ErrNotFound.
type fakePage struct {
	mu sync.Mutex

	present  map[string]bool
	navErr   error
	counts   []int
	countErr error
	elements []browser.Element
	html     []string
	clickErr map[string]error

	scrollErr   error
	panicOnLoad bool

	navigated []string
	typed     []string
	clicked   []string
	countCall int
	htmlCall  int
	scrolls   int
	bottoms   int
	closed    bool
}

func newFakePage(present ...string) *fakePage {
	p := &fakePage{present: map[string]bool{}, clickErr: map[string]error{}}
	for _, q := range present {
		p.present[q] = true
	}
	return p
}

func (p *fakePage) Navigate(_ context.Context, url string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.navigated = append(p.navigated, url)
	return p.navErr
}

func (p *fakePage) WaitPresent(ctx context.Context, loc browser.Locator) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return browser.ErrClosed
	}
	if p.present[loc.Query] {
		return nil
	}
	return browser.ErrNotFound
}

func (p *fakePage) Clear(context.Context, browser.Locator) error { return nil }

func (p *fakePage) TypeText(_ context.Context, _ browser.Locator, text string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.typed = append(p.typed, text)
	return nil
}

func (p *fakePage) PressEnter(context.Context, browser.Locator) error { return nil }

func (p *fakePage) Click(_ context.Context, loc browser.Locator) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clicked = append(p.clicked, loc.Query)
	return p.clickErr[loc.Query]
}

func (p *fakePage) Count(context.Context, browser.Locator) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.panicOnLoad {
		panic("target crashed")
	}
	if p.countErr != nil {
		return 0, p.countErr
	}
	i := p.countCall
	p.countCall++
	if len(p.counts) == 0 {
		return 0, nil
	}
	if i >= len(p.counts) {
		i = len(p.counts) - 1
	}
	return p.counts[i], nil
}

func (p *fakePage) ScrollBy(context.Context, browser.Locator, int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.scrolls++
	return p.scrollErr
}

func (p *fakePage) ScrollToBottom(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.bottoms++
	return nil
}

func (p *fakePage) Snapshot(context.Context, browser.Locator) ([]browser.Element, error) {
	return p.elements, nil
}

// HTML returns the scripted documents in order, repeating the last one.
func (p *fakePage) HTML(context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.html) == 0 {
		return "", errors.New("no html scripted")
	}
	i := p.htmlCall
	p.htmlCall++
	if i >= len(p.html) {
		i = len(p.html) - 1
	}
	return p.html[i], nil
}

func (p *fakePage) Screenshot(context.Context) ([]byte, error) {
	return []byte("png"), nil
}

func (p *fakePage) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

// fakeLauncher hands out pages from next, one per launch.
type fakeLauncher struct {
	next     func(n int) *fakePage
	err      error
	launches int
	pages    []*fakePage
}

func (l *fakeLauncher) Launch(ctx context.Context) (browser.Page, error) {
	if l.err != nil {
		return nil, l.err
	}
	l.launches++
	p := l.next(l.launches)
	l.pages = append(l.pages, p)
	return p, nil
}

func sameLauncher(p *fakePage) *fakeLauncher {
	return &fakeLauncher{next: func(int) *fakePage { return p }}
}

type fakeDiagnosticsSink struct {
	saved []entity.Snapshot
	err   error
}

func (s *fakeDiagnosticsSink) Save(_ context.Context, snap entity.Snapshot) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.saved = append(s.saved, snap)
	return "mem://" + snap.FileName(), nil
}

type fakeSink struct {
	name   string
	err    error
	writes []sinkWrite
}

type sinkWrite struct {
	target  string
	columns []string
	rows    [][]string
}

func (s *fakeSink) Name() string { return s.name }

func (s *fakeSink) Write(_ context.Context, target string, columns []string, rows [][]string) error {
	if s.err != nil {
		return s.err
	}
	s.writes = append(s.writes, sinkWrite{target: target, columns: columns, rows: rows})
	return nil
}

func (s *fakeSink) rows() [][]string {
	var out [][]string
	for _, w := range s.writes {
		out = append(out, w.rows...)
	}
	return out
}
