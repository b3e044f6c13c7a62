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
)

// ContactsSection reads the phone number and social links of a venue.
type ContactsSection struct {
	accessor *ElementAccessor
	sel      ContactSelectors
	timeout  time.Duration
}

func NewContactsSection(accessor *ElementAccessor, sel ContactSelectors, timeout time.Duration) *ContactsSection {
	return &ContactsSection{accessor: accessor, sel: sel, timeout: timeout}
}

func (s *ContactsSection) Name() string           { return "contacts" }
func (s *ContactsSection) Target() string         { return TargetContacts }
func (s *ContactsSection) Columns() []string      { return entity.ContactsColumns }
func (s *ContactsSection) URL(link string) string { return utils.OrgPageURL(link) }

func (s *ContactsSection) Collect(ctx context.Context, page browser.Page, link string) ([]string, error) {
	if _, ok := s.accessor.FindOptional(ctx, s.sel.Body, s.timeout); !ok {
		return nil, errPageNotReady
	}
	// The phone block renders late; its absence is not an error.
	s.accessor.FindOptional(ctx, s.sel.Phone, s.timeout)

	html, err := page.HTML(ctx)
	if err != nil {
		return nil, fmt.Errorf("read page html: %w", err)
	}
	return ParseContacts(dom.ParseDocument(html), s.sel, link).Record(), nil
}

// ParseContacts picks the phone and the telegram and vk links out of a venue page.
func ParseContacts(doc dom.Node, sel ContactSelectors, link string) entity.Contacts {
	c := entity.Contacts{Link: link}
	c.Phone, _ = doc.Text(sel.Phone.Query)
	for _, btn := range doc.All(sel.SocialButton) {
		href, _ := btn.OwnAttr("href")
		label, _ := btn.OwnAttr("aria-label")
		label = strings.ToLower(label)
		switch {
		case strings.Contains(label, "telegram"):
			c.Telegram = href
		case strings.Contains(label, "vkontakte"), strings.Contains(label, "vk"):
			c.VK = href
		}
	}
	return c
}
