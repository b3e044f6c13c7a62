package usecase

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/maps-scraper/internal/browser"
)

func itemHTML(name, address string) string {
	return fmt.Sprintf(`<div class="search-business-snippet-view">
  <a class="link" href="/maps/org/%[1]s/1/"><div class="search-business-snippet-view__title">%[1]s</div></a>
  <div class="search-business-snippet-view__address">%[2]s</div>
  <span class="business-rating-badge-view__rating-text">4,7</span>
  <div class="search-business-snippet-subtitle-view">
    <div class="search-business-snippet-subtitle-view__title">Кухня</div>
    <div class="search-business-snippet-subtitle-view__description">европейская</div>
  </div>
  <div class="search-business-snippet-subtitle-view">
    <div class="search-business-snippet-subtitle-view__title">Ср. чек</div>
    <div class="search-business-snippet-subtitle-view__description">1000–2000 ₽</div>
  </div>
  <span class="business-rating-amount-view">128 оценок</span>
</div>`, name, address)
}

func newTestExtractor() *RecordExtractor {
	return NewRecordExtractor(DefaultFieldSelectors(), "https://yandex.ru")
}

func TestRecordExtractor_Extract(t *testing.T) {
	l, ok := newTestExtractor().Extract(browser.Element{
		HTML:        itemHTML("pims", "Тверская 1"),
		Coordinates: "37.62,55.75",
	})
	require.True(t, ok)

	assert.Equal(t, "pims", l.Name)
	assert.Equal(t, "Тверская 1", l.Address)
	assert.Equal(t, "4,7", l.Rating)
	assert.Equal(t, "1500", l.AvgPrice)
	assert.Equal(t, "128", l.ReviewsCount)
	assert.Equal(t, "https://yandex.ru/maps/org/pims/1/", l.Link)
	require.NotNil(t, l.Coordinates)
	assert.Equal(t, 55.75, l.Coordinates.Lat)
	assert.Equal(t, 37.62, l.Coordinates.Lon)
}

func TestRecordExtractor_RequiresNameAndAddress(t *testing.T) {
	e := newTestExtractor()

	_, ok := e.Extract(browser.Element{HTML: `<div><div class="search-business-snippet-view__address">x</div></div>`})
	assert.False(t, ok)

	_, ok = e.Extract(browser.Element{HTML: `<div><div class="search-business-snippet-view__title">x</div></div>`})
	assert.False(t, ok)

	_, ok = e.Extract(browser.Element{HTML: ""})
	assert.False(t, ok)
}

func TestRecordExtractor_OptionalFieldsDegrade(t *testing.T) {
	html := `<div class="search-business-snippet-view" data-coordinates="garbage">
  <div class="search-business-snippet-view__title">bar</div>
  <div class="search-business-snippet-view__address">addr</div>
</div>`
	l, ok := newTestExtractor().Extract(browser.Element{HTML: html})
	require.True(t, ok)
	assert.Empty(t, l.Rating)
	assert.Empty(t, l.AvgPrice)
	assert.Empty(t, l.ReviewsCount)
	assert.Empty(t, l.Link)
	assert.Nil(t, l.Coordinates)
}

func TestRecordExtractor_SnapshotCoordinatesFallback(t *testing.T) {
	html := `<div class="search-business-snippet-view" data-coordinates="30.31,59.94">
  <div class="search-business-snippet-view__title">bar</div>
  <div class="search-business-snippet-view__address">addr</div>
  <div class="search-business-snippet-subtitle-view">
    <div class="search-business-snippet-subtitle-view__title">Пиво</div>
    <div class="search-business-snippet-subtitle-view__description">от 350 ₽</div>
  </div>
</div>`
	l, ok := newTestExtractor().Extract(browser.Element{HTML: html})
	require.True(t, ok)
	assert.Equal(t, "350", l.AvgPrice)
	require.NotNil(t, l.Coordinates)
	assert.Equal(t, 59.94, l.Coordinates.Lat)
}

func TestRecordExtractor_ChildCoordinatesIgnored(t *testing.T) {
	html := `<div class="search-business-snippet-view">
  <div class="search-business-snippet-view__title">bar</div>
  <div class="search-business-snippet-view__address">addr</div>
  <div data-coordinates="30.31,59.94"></div>
</div>`
	l, ok := newTestExtractor().Extract(browser.Element{HTML: html})
	require.True(t, ok)
	assert.Nil(t, l.Coordinates)
}
