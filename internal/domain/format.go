package domain

import (
	"strconv"
	"strings"
	"time"
)

const (
	notAvailable = "N/A"
	invalidDate  = "Invalid Date"
	unknown      = "Unknown"
)

// timeLayouts are tried in order. DONKI timestamps use minute precision with
// a literal Z, e.g. "2024-03-01T12:05Z". RFC 1123 covers HTTP-style dates.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04Z07:00",
	time.RFC1123,
	time.RFC1123Z,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTime parses the timestamp formats the API is known to emit.
// Timestamps without a zone are taken as UTC.
func ParseTime(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDate renders a timestamp for display, e.g. "Mar 1, 2024, 12:00 PM UTC".
// Empty values and the "N/A" sentinel render as "N/A"; anything unparseable
// renders as "Invalid Date".
func FormatDate(value string) string {
	if strings.TrimSpace(value) == "" || value == notAvailable {
		return notAvailable
	}
	t, ok := ParseTime(value)
	if !ok {
		return invalidDate
	}
	return FormatTime(t)
}

// FormatTime renders t the way FormatDate renders a parsed timestamp.
func FormatTime(t time.Time) string {
	return t.In(location).Format("Jan 2, 2006, 03:04 PM MST")
}

// FormatShortDate renders the date part only, e.g. "3/1/2024".
func FormatShortDate(t time.Time) string {
	return t.In(location).Format("1/2/2006")
}

// Icon returns the icon class for a category.
func Icon(c Category) string {
	switch c {
	case CategoryFlare:
		return "fas fa-sun"
	case CategoryCME:
		return "fas fa-wind"
	case CategoryStorm:
		return "fas fa-chart-line"
	default:
		return "fas fa-exclamation-triangle"
	}
}

// Label returns the human-readable category name.
func Label(c Category) string {
	switch c {
	case CategoryFlare:
		return "Solar Flare"
	case CategoryCME:
		return "CME"
	case CategoryStorm:
		return "Geomagnetic Storm"
	default:
		return "Space Weather Event"
	}
}

// formatNumber writes f in its shortest exact decimal form: 1200, 450.5.
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
