package usecase

import (
	"net/url"
	"strings"

	"github.com/user/maps-scraper/internal/browser"
	"github.com/user/maps-scraper/internal/dom"
	"github.com/user/maps-scraper/internal/entity"
	"github.com/user/maps-scraper/pkg/utils"
)

// RecordExtractor turns one result item snapshot into a Listing.
type RecordExtractor struct {
	sel  FieldSelectors
	base *url.URL
}

func NewRecordExtractor(sel FieldSelectors, baseURL string) *RecordExtractor {
	base, err := url.Parse(baseURL)
	if err != nil {
		base = nil
	}
	return &RecordExtractor{sel: sel, base: base}
}

// Extract reports false when the item has no name or no address. Every
// other field is optional and left empty when missing or unparseable.
func (e *RecordExtractor) Extract(el browser.Element) (entity.Listing, bool) {
	n := dom.Parse(el.HTML)

	name, _ := n.Text(e.sel.Name)
	address, _ := n.Text(e.sel.Address)
	if name == "" || address == "" {
		return entity.Listing{}, false
	}

	l := entity.Listing{Name: name, Address: address}
	l.Rating, _ = n.Text(e.sel.Rating)
	l.AvgPrice = e.price(n)
	if amount, ok := n.Text(e.sel.ReviewsAmount); ok {
		l.ReviewsCount = FirstInteger(amount)
	}
	if href, ok := n.Attr(e.sel.Link, "href"); ok && href != "" {
		l.Link = e.absolute(href)
	}

	raw := el.Coordinates
	if raw == "" {
		raw, _ = n.ClosestAttr(e.sel.CoordinatesAttr)
	}
	if raw != "" {
		if c, err := ParseCoordinates(raw); err == nil {
			l.Coordinates = c
		}
	}
	return l, true
}

// price reads the description of the first subtitle whose title carries a
// price label.
func (e *RecordExtractor) price(n dom.Node) string {
	for _, sub := range n.All(e.sel.Subtitle) {
		title, ok := sub.Text(e.sel.SubtitleTitle)
		if !ok || !e.isPriceLabel(title) {
			continue
		}
		desc, _ := sub.Text(e.sel.SubtitleDescription)
		return ParsePrice(desc)
	}
	return ""
}

func (e *RecordExtractor) isPriceLabel(title string) bool {
	for _, label := range e.sel.PriceLabels {
		if strings.Contains(title, label) {
			return true
		}
	}
	return false
}

func (e *RecordExtractor) absolute(href string) string {
	if e.base == nil {
		return href
	}
	abs, err := utils.ToAbsoluteURL(e.base, href)
	if err != nil {
		return href
	}
	return abs
}
