package utils

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashURL_Stable(t *testing.T) {
	assert.Equal(t, HashURL("https://yandex.ru/maps/org/1/"), HashURL("https://yandex.ru/maps/org/1/"))
	assert.NotEqual(t, HashURL("https://yandex.ru/maps/org/1/"), HashURL("https://yandex.ru/maps/org/2/"))
	assert.Len(t, HashURL("x"), 64)
}

func TestToAbsoluteURL(t *testing.T) {
	base, err := url.Parse("https://yandex.ru/maps/213/moscow/")
	require.NoError(t, err)

	abs, err := ToAbsoluteURL(base, "/maps/org/pims/123/")
	require.NoError(t, err)
	assert.Equal(t, "https://yandex.ru/maps/org/pims/123/", abs)

	abs, err = ToAbsoluteURL(base, "https://example.com/a")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/a", abs)
}

func TestReviewsPageURL(t *testing.T) {
	assert.Equal(t, "https://yandex.ru/maps/org/pims/1/reviews/", ReviewsPageURL("https://yandex.ru/maps/org/pims/1/"))
	assert.Equal(t, "https://yandex.ru/maps/org/pims/1/reviews/", ReviewsPageURL("https://yandex.ru/maps/org/pims/1/reviews/"))
	assert.Equal(t, "https://yandex.ru/maps/org/pims/1/", OrgPageURL("https://yandex.ru/maps/org/pims/1/reviews/"))
}
