package domain

import (
	"fmt"
	"slices"
	"strconv"
	"time"
)

// Preview is a category-specific table view of raw records.
type Preview struct {
	Category   Category   `json:"category"`
	Title      string     `json:"title"`
	Headers    []string   `json:"headers"`
	Rows       [][]string `json:"rows"`
	Total      int        `json:"total"`
	CountLabel string     `json:"count_label"`
	DateRange  string     `json:"date_range,omitempty"`
	Truncated  bool       `json:"truncated"`
	Note       string     `json:"note,omitempty"` // summary row when truncated
}

var previewHeaders = map[Category][]string{
	CategoryFlare: {"Begin Time", "Peak Time", "End Time", "Class Type", "Source Location"},
	CategoryCME:   {"Start Time", "Speed (km/s)", "Half Angle", "Source Location", "Type"},
	CategoryStorm: {"Start Time", "End Time", "K-Index", "Storm Type", "Linked Events"},
}

// RenderPreview builds the preview table for records of category c. At most
// PreviewLimit rows are rendered; Note names the omitted count.
func RenderPreview(records []RawEvent, c Category) (Preview, error) {
	headers, ok := previewHeaders[c]
	if !ok {
		return Preview{}, fmt.Errorf("%w: %q", ErrInvalidSelection, c)
	}
	if len(records) == 0 {
		return Preview{}, fmt.Errorf("%s: %w", Label(c), ErrNoData)
	}

	limited := records
	if len(limited) > PreviewLimit {
		limited = limited[:PreviewLimit]
	}
	rows := make([][]string, 0, len(limited))
	for _, r := range limited {
		rows = append(rows, previewRow(r, c))
	}

	p := Preview{
		Category:   c,
		Title:      Title(c),
		Headers:    slices.Clone(headers),
		Rows:       rows,
		Total:      len(records),
		CountLabel: fmt.Sprintf("%d records", len(records)),
		DateRange:  dateRange(records),
		Truncated:  len(records) > PreviewLimit,
	}
	if p.Truncated {
		p.Note = fmt.Sprintf("Showing first %d of %d records (%d omitted). Download full dataset for complete data.",
			PreviewLimit, len(records), len(records)-PreviewLimit)
	}
	return p, nil
}

func previewRow(r RawEvent, c Category) []string {
	switch c {
	case CategoryFlare:
		return []string{
			FormatDate(r.BeginTime),
			FormatDate(r.PeakTime),
			FormatDate(r.EndTime),
			orUnknown(r.ClassType),
			orUnknown(r.SourceLocation),
		}
	case CategoryCME:
		return []string{
			FormatDate(r.StartTime),
			numberOrUnknown(r.Speed),
			numberOrUnknown(r.HalfAngle),
			orUnknown(r.SourceLocation),
			orUnknown(r.Type),
		}
	default:
		return []string{
			FormatDate(r.StartTime),
			FormatDate(r.EndTime),
			numberOrUnknown(r.KpIndex),
			orUnknown(r.Type),
			strconv.Itoa(r.LinkedEvents) + " events",
		}
	}
}

// dateRange spans the parseable primary timestamps of records.
func dateRange(records []RawEvent) string {
	var first, last time.Time
	found := false
	for _, r := range records {
		t, ok := ParseTime(firstNonEmpty(r.BeginTime, r.StartTime, r.EventTime))
		if !ok {
			continue
		}
		if !found || t.Before(first) {
			first = t
		}
		if !found || t.After(last) {
			last = t
		}
		found = true
	}
	if !found {
		return ""
	}
	return FormatShortDate(first) + " - " + FormatShortDate(last)
}

func orUnknown(s string) string {
	if s == "" {
		return unknown
	}
	return s
}

func numberOrUnknown(f *float64) string {
	if v, ok := present(f); ok {
		return formatNumber(v)
	}
	return unknown
}
