package usecase

import (
	"strings"

	"github.com/user/maps-scraper/internal/browser"
)

// SearchLocators are the live-page elements the search and scroll flow touches.
type SearchLocators struct {
	Input           browser.Locator
	ZoomOut         browser.Locator
	ResultItem      browser.Locator
	ScrollContainer browser.Locator
}

func DefaultSearchLocators() SearchLocators {
	return SearchLocators{
		Input:           browser.CSS(`input[placeholder*="Поиск"]`),
		ZoomOut:         browser.XPath(`//button[@aria-label="Отдалить"]`),
		ResultItem:      browser.CSS(".search-business-snippet-view"),
		ScrollContainer: browser.CSS(".scroll__container"),
	}
}

// FieldSelectors are CSS selectors evaluated against a result item snapshot.
type FieldSelectors struct {
	Name                string
	Address             string
	Rating              string
	Subtitle            string
	SubtitleTitle       string
	SubtitleDescription string
	PriceLabels         []string
	ReviewsAmount       string
	Link                string
	CoordinatesAttr     string
}

func DefaultFieldSelectors() FieldSelectors {
	return FieldSelectors{
		Name:                ".search-business-snippet-view__title",
		Address:             ".search-business-snippet-view__address",
		Rating:              ".business-rating-badge-view__rating-text",
		Subtitle:            ".search-business-snippet-subtitle-view",
		SubtitleTitle:       ".search-business-snippet-subtitle-view__title",
		SubtitleDescription: ".search-business-snippet-subtitle-view__description",
		PriceLabels:         []string{"Ср. чек", "Пиво"},
		ReviewsAmount:       ".business-rating-amount-view",
		Link:                `a[href*="/org/"]`,
		CoordinatesAttr:     "data-coordinates",
	}
}

// ContactSelectors locate phone and social links on a venue page.
type ContactSelectors struct {
	Body         browser.Locator
	Phone        browser.Locator
	SocialButton string
}

func DefaultContactSelectors() ContactSelectors {
	return ContactSelectors{
		Body:         browser.CSS("body"),
		Phone:        browser.CSS(".orgpage-phones-view__phone-number"),
		SocialButton: ".business-contacts-view__social-button a.button._link",
	}
}

// ReviewSelectors drive the ranking dropdown and review texts on a reviews tab.
type ReviewSelectors struct {
	Body           browser.Locator
	FilterButton   browser.Locator
	FilterPopup    browser.Locator
	OptionTemplate string // XPath with one %s for the quoted option label
	ReviewText     browser.Locator
	NegativeLabel  string
	PositiveLabel  string
}

func DefaultReviewSelectors() ReviewSelectors {
	return ReviewSelectors{
		Body:           browser.CSS("body"),
		FilterButton:   browser.CSS(".rating-ranking-view[role='button']"),
		FilterPopup:    browser.CSS(".rating-ranking-view__popup"),
		OptionTemplate: `//div[@class="rating-ranking-view__popup-line" and normalize-space()=%s]`,
		ReviewText:     browser.CSS("span.spoiler-view__text-container"),
		NegativeLabel:  "Сначала отрицательные",
		PositiveLabel:  "Сначала положительные",
	}
}

// xpathLiteral quotes s for use inside an XPath expression.
func xpathLiteral(s string) string {
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	parts := strings.Split(s, `"`)
	return `concat("` + strings.Join(parts, `", '"', "`) + `")`
}
