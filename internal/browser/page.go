// Package browser defines the remote browser surface the scraper drives.
package browser

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when a required element does not appear in time.
	ErrNotFound = errors.New("element not found")
	// ErrClosed is returned by a Page whose session was torn down.
	ErrClosed = errors.New("browser page closed")
)

// Locator addresses elements by CSS selector or XPath expression.
type Locator struct {
	Query string
	XPath bool
}

func CSS(query string) Locator   { return Locator{Query: query} }
func XPath(query string) Locator { return Locator{Query: query, XPath: true} }

func (l Locator) String() string {
	if l.XPath {
		return "xpath:" + l.Query
	}
	return l.Query
}

// Element is a detached copy of a rendered element. Coordinates holds the
// data-coordinates value of the nearest ancestor-or-self carrying it.
type Element struct {
	HTML        string
	Coordinates string
}

// Page is one live browser tab. Every blocking call honors the context
// deadline and is additionally bounded by the page's action timeout.
type Page interface {
	Navigate(ctx context.Context, url string) error
	// WaitPresent blocks until an element matching loc is in the DOM.
	WaitPresent(ctx context.Context, loc Locator) error
	Clear(ctx context.Context, loc Locator) error
	TypeText(ctx context.Context, loc Locator, text string) error
	PressEnter(ctx context.Context, loc Locator) error
	// Click clicks the first match, falling back to a scripted click when
	// the element is covered.
	Click(ctx context.Context, loc Locator) error
	Count(ctx context.Context, loc Locator) (int, error)
	// ScrollBy scrolls the first container match by px; a zero Locator scrolls the window.
	ScrollBy(ctx context.Context, container Locator, px int) error
	ScrollToBottom(ctx context.Context) error
	Snapshot(ctx context.Context, items Locator) ([]Element, error)
	HTML(ctx context.Context) (string, error)
	Screenshot(ctx context.Context) ([]byte, error)
	Close() error
}

// Launcher starts fresh browser sessions.
type Launcher interface {
	Launch(ctx context.Context) (Page, error)
}
