package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Format is an export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat validates an export format name. The empty string means CSV.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: export format %q", ErrInvalidSelection, s)
	}
}

// ContentType is the MIME type of files in format f.
func (f Format) ContentType() string {
	if f == FormatJSON {
		return "application/json"
	}
	return "text/csv"
}

// Download is an in-memory export file, handed once to the view layer.
type Download struct {
	Filename    string
	ContentType string
	Body        []byte
}

// Filename builds "<prefix>-<YYYY-MM-DD>.<ext>" from the current UTC date.
func Filename(prefix string, f Format) string {
	return fmt.Sprintf("%s-%s.%s", prefix, clock.Now().UTC().Format("2006-01-02"), f)
}

// NewDownload serializes records in format f.
func NewDownload(prefix string, f Format, records []Record) (Download, error) {
	var (
		body string
		err  error
	)
	switch f {
	case FormatCSV:
		body, err = ToCSV(records)
	case FormatJSON:
		body, err = ToJSON(records)
	default:
		return Download{}, fmt.Errorf("%w: export format %q", ErrInvalidSelection, f)
	}
	if err != nil {
		return Download{}, err
	}
	return Download{Filename: Filename(prefix, f), ContentType: f.ContentType(), Body: []byte(body)}, nil
}

// ToCSV writes records as CSV. The header is the key set of the first
// record only; keys that appear only in later records are not exported.
// Every field is double-quoted and missing or falsy values are empty.
func ToCSV(records []Record) (string, error) {
	if len(records) == 0 {
		return "", fmt.Errorf("export csv: %w", ErrNoData)
	}
	headers := records[0].Keys()

	lines := make([]string, 0, len(records)+1)
	lines = append(lines, strings.Join(headers, ","))
	fields := make([]string, len(headers))
	for _, rec := range records {
		for i, h := range headers {
			raw, _ := rec.Raw(h)
			fields[i] = quoteCSV(csvValue(raw))
		}
		lines = append(lines, strings.Join(fields, ","))
	}
	return strings.Join(lines, "\n"), nil
}

// ToJSON writes records as a 2-space indented JSON array.
func ToJSON(records []Record) (string, error) {
	if len(records) == 0 {
		return "", fmt.Errorf("export json: %w", ErrNoData)
	}
	b, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", fmt.Errorf("export json: %w", err)
	}
	return string(b), nil
}

// DatasetJSON writes the whole dataset in the API's response shape.
func DatasetJSON(d Dataset) (string, error) {
	if d.Empty() {
		return "", fmt.Errorf("export dataset: %w", ErrNoData)
	}
	b, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return "", fmt.Errorf("export dataset: %w", err)
	}
	return string(b), nil
}

// RecordsOf returns the original records of raws.
func RecordsOf(raws []RawEvent) []Record {
	out := make([]Record, len(raws))
	for i, r := range raws {
		out[i] = r.Record
	}
	return out
}

// EventRecords flattens normalized events into records, keeping the
// original record under "raw".
func EventRecords(events []DisplayEvent) []Record {
	out := make([]Record, len(events))
	for i, ev := range events {
		var date any
		if ev.Date != "" {
			date = ev.Date
		}
		out[i] = NewRecord(
			"category", ev.Category,
			"type", Label(ev.Category),
			"date", date,
			"classification", ev.Classification,
			"peakTime", ev.PeakTime,
			"sourceLocation", ev.SourceLocation,
			"intensity", ev.Intensity,
			"raw", ev.Raw.Record,
		)
	}
	return out
}

// csvValue renders one JSON value as CSV text. null, false, 0, and "" are
// empty; objects and arrays are compact JSON.
func csvValue(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return s
	case '{', '[':
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err != nil {
			return string(raw)
		}
		return buf.String()
	case 'n', 'f':
		return ""
	case 't':
		return "true"
	default:
		var f float64
		if err := json.Unmarshal(raw, &f); err != nil || f == 0 {
			return ""
		}
		return string(raw)
	}
}

func quoteCSV(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
