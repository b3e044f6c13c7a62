package usecase

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/user/maps-scraper/internal/entity"
)

var (
	digitGroupRe = regexp.MustCompile(`(\d)[\s\x{00A0}\x{202F}\x{2009}]+(\d{3})\b`)
	priceRangeRe = regexp.MustCompile(`(\d+)\s*[–—-]\s*(\d+)`)
	integerRe    = regexp.MustCompile(`\d+`)

	errBadCoordinates = errors.New("malformed coordinates")
)

// ParsePrice turns a price description into a whole number string.
// "1000–2000 ₽" gives the rounded midpoint, otherwise the first integer is
// used. Thousands separators ("1 500") are collapsed first. Returns "" when
// the text holds no digits.
func ParsePrice(text string) string {
	text = collapseDigitGroups(text)
	if m := priceRangeRe.FindStringSubmatch(text); m != nil {
		lo, errLo := strconv.ParseInt(m[1], 10, 64)
		hi, errHi := strconv.ParseInt(m[2], 10, 64)
		if errLo == nil && errHi == nil {
			return strconv.FormatInt((lo+hi+1)/2, 10)
		}
	}
	return integerRe.FindString(text)
}

func collapseDigitGroups(s string) string {
	for {
		next := digitGroupRe.ReplaceAllString(s, "$1$2")
		if next == s {
			return s
		}
		s = next
	}
}

// FirstInteger returns the first run of digits in text, or "".
func FirstInteger(text string) string {
	return integerRe.FindString(text)
}

// ParseCoordinates reads a "lon,lat" attribute value.
func ParseCoordinates(raw string) (*entity.Coordinates, error) {
	parts := strings.Split(strings.TrimSpace(raw), ",")
	if len(parts) != 2 {
		return nil, fmt.Errorf("%w: %q", errBadCoordinates, raw)
	}
	lon, err := parseFinite(parts[0])
	if err != nil {
		return nil, fmt.Errorf("%w: lon %q", errBadCoordinates, parts[0])
	}
	lat, err := parseFinite(parts[1])
	if err != nil {
		return nil, fmt.Errorf("%w: lat %q", errBadCoordinates, parts[1])
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return nil, fmt.Errorf("%w: out of range %q", errBadCoordinates, raw)
	}
	return &entity.Coordinates{Lat: lat, Lon: lon}, nil
}

func parseFinite(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errBadCoordinates
	}
	return v, nil
}
