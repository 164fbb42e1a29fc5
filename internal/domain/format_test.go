package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", "N/A"},
		{"whitespace", "   ", "N/A"},
		{"sentinel", "N/A", "N/A"},
		{"garbage", "not-a-date", "Invalid Date"},
		{"rfc3339", "2024-03-01T12:00:00Z", "Mar 1, 2024, 12:00 PM UTC"},
		{"donki minute precision", "2024-03-01T07:05Z", "Mar 1, 2024, 07:05 AM UTC"},
		{"fractional seconds", "2024-03-01T23:59:59.123Z", "Mar 1, 2024, 11:59 PM UTC"},
		{"offset", "2024-03-01T12:00:00+02:00", "Mar 1, 2024, 10:00 AM UTC"},
		{"offset without colon", "2024-03-01T12:00:00.000+0000", "Mar 1, 2024, 12:00 PM UTC"},
		{"offset without colon or fraction", "2024-03-01T14:00:00+0200", "Mar 1, 2024, 12:00 PM UTC"},
		{"rfc1123", "Fri, 01 Mar 2024 12:00:00 GMT", "Mar 1, 2024, 12:00 PM UTC"},
		{"rfc1123 numeric zone", "Fri, 01 Mar 2024 07:00:00 -0500", "Mar 1, 2024, 12:00 PM UTC"},
		{"bare date", "2024-12-25", "Dec 25, 2024, 12:00 AM UTC"},
		{"zoneless", "2024-03-01T12:00:00", "Mar 1, 2024, 12:00 PM UTC"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDate(tt.input))
		})
	}
}

func TestFormatDate_ContainsDateParts(t *testing.T) {
	got := FormatDate("2024-03-01T12:00:00Z")
	assert.Contains(t, got, "2024")
	assert.Contains(t, got, "Mar")
	assert.Contains(t, got, "1")
}

func TestFormatDate_DisplayLocation(t *testing.T) {
	SetLocation(time.FixedZone("EST", -5*60*60))
	t.Cleanup(func() { SetLocation(nil) })

	assert.Equal(t, "Mar 1, 2024, 07:00 AM EST", FormatDate("2024-03-01T12:00:00Z"))
}

func TestParseTime(t *testing.T) {
	got, ok := ParseTime("2024-03-01T12:05Z")
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 1, 12, 5, 0, 0, time.UTC), got.UTC())

	_, ok = ParseTime("yesterday")
	assert.False(t, ok)
	_, ok = ParseTime("")
	assert.False(t, ok)
}

func TestIcon(t *testing.T) {
	assert.Equal(t, "fas fa-sun", Icon(CategoryFlare))
	assert.Equal(t, "fas fa-wind", Icon(CategoryCME))
	assert.Equal(t, "fas fa-chart-line", Icon(CategoryStorm))
	assert.Equal(t, "fas fa-exclamation-triangle", Icon(Category("SEP")))
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Solar Flare", Label(CategoryFlare))
	assert.Equal(t, "Space Weather Event", Label(Category("")))
}

func TestParseSelection(t *testing.T) {
	c, err := ParseSelection("solar-flares")
	require.NoError(t, err)
	assert.Equal(t, CategoryFlare, c)

	c, err = ParseSelection("geomagnetic")
	require.NoError(t, err)
	assert.Equal(t, CategoryStorm, c)

	_, err = ParseSelection("sunspots")
	require.ErrorIs(t, err, ErrInvalidSelection)
	assert.Equal(t, "Invalid data type selected", Notice(err))
}
