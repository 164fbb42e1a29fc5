// Command validate runs an /api/events fixture through the full presentation
// pipeline (decode, normalize, aggregate, preview, export) and checks the
// invariants of each stage. It exits non-zero if any phase fails.
//
// Usage:
//
//	go run ./cmd/validate -events data/mock/events_30d.json
package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/couchcryptid/sentinel-dashboard/internal/domain"
	"github.com/jonboulle/clockwork"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	eventsPath := flag.String("events", "", "path to an /api/events JSON fixture")
	flag.Parse()

	if *eventsPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*eventsPath); code != 0 {
		os.Exit(code)
	}
}

func run(eventsPath string) int {
	// Fixed clock matching genmock so filenames and chart windows are stable.
	domain.SetClock(clockwork.NewFakeClockAt(
		time.Date(2024, time.March, 31, 12, 0, 0, 0, time.UTC),
	))
	defer domain.SetClock(nil)

	fmt.Println("=== Space Weather Pipeline Validation ===")
	fmt.Println()

	body, err := os.ReadFile(eventsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: read events fixture: %v\n", err)
		return 1
	}

	d, err := domain.DecodeDataset(body)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: decode events fixture: %v\n", err)
		return 1
	}
	events := domain.Aggregate(d)

	phases := []*phase{
		validateNormalization(d),
		validateAggregation(events, d.Len()),
		validatePreviews(d),
		validateExports(d, events),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d flares, %d CMEs, %d storms\n", len(d.Flares), len(d.CMEs), len(d.Storms))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Phase 1: Normalization ──

func validateNormalization(d domain.Dataset) *phase {
	p := &phase{name: "Phase 1: Normalization"}
	for _, c := range domain.Categories {
		for i, raw := range d.Of(c) {
			ev := domain.Normalize(raw, c)
			where := fmt.Sprintf("%s[%d]", domain.Label(c), i)
			if ev.Classification == "" || ev.SourceLocation == "" || ev.PeakTime == "" || ev.Intensity == "" {
				p.errorf("%s: empty display field: %+v", where, ev)
			}
			if want := expectedIntensity(raw, c); ev.Intensity != want {
				p.errorf("%s: intensity %q, want %q", where, ev.Intensity, want)
			}
		}
	}
	return p
}

func expectedIntensity(raw domain.RawEvent, c domain.Category) domain.Intensity {
	switch c {
	case domain.CategoryFlare:
		if raw.ClassType == "" {
			return domain.IntensityUnknown
		}
		return domain.Intensity(raw.ClassType[:1])
	case domain.CategoryCME:
		switch {
		case raw.Speed == nil || *raw.Speed == 0:
			return domain.IntensityUnknown
		case *raw.Speed > 1000:
			return domain.IntensityHigh
		case *raw.Speed > 500:
			return domain.IntensityMedium
		default:
			return domain.IntensityLow
		}
	default:
		switch {
		case raw.KpIndex == nil || *raw.KpIndex == 0:
			return domain.IntensityUnknown
		case *raw.KpIndex >= 7:
			return domain.IntensitySevere
		case *raw.KpIndex >= 5:
			return domain.IntensityStrong
		default:
			return domain.IntensityMinor
		}
	}
}

// ── Phase 2: Aggregation ──

func validateAggregation(events []domain.DisplayEvent, total int) *phase {
	p := &phase{name: "Phase 2: Aggregation"}
	if len(events) != total {
		p.errorf("aggregate returned %d events, dataset has %d", len(events), total)
	}

	undated := false
	var prev time.Time
	for i, ev := range events {
		t, ok := ev.Time()
		if !ok {
			undated = true
			continue
		}
		if undated {
			p.errorf("event %d is dated but follows an undated event", i)
		}
		if i > 0 && !prev.IsZero() && t.After(prev) {
			p.errorf("event %d (%s) is newer than its predecessor (%s)", i, ev.Date, prev.Format(time.RFC3339))
		}
		prev = t
	}

	if n := len(domain.Recent(events)); n > domain.RecentLimit {
		p.errorf("recent slice has %d entries", n)
	}
	preview, more := domain.PreviewSlice(events)
	if len(preview) > domain.PreviewLimit {
		p.errorf("preview slice has %d entries", len(preview))
	}
	if more != (len(events) > domain.PreviewLimit) {
		p.errorf("preview more=%v with %d events", more, len(events))
	}
	return p
}

// ── Phase 3: Previews ──

func validatePreviews(d domain.Dataset) *phase {
	p := &phase{name: "Phase 3: Preview Tables"}
	for _, c := range domain.Categories {
		records := d.Of(c)
		preview, err := domain.RenderPreview(records, c)
		if len(records) == 0 {
			if !errors.Is(err, domain.ErrNoData) {
				p.errorf("%s: empty category returned %v, want ErrNoData", domain.Label(c), err)
			}
			continue
		}
		if err != nil {
			p.errorf("%s: %v", domain.Label(c), err)
			continue
		}
		if want := min(len(records), domain.PreviewLimit); len(preview.Rows) != want {
			p.errorf("%s: %d rows, want %d", domain.Label(c), len(preview.Rows), want)
		}
		if preview.Truncated != (len(records) > domain.PreviewLimit) {
			p.errorf("%s: truncated=%v with %d records", domain.Label(c), preview.Truncated, len(records))
		}
		for i, row := range preview.Rows {
			if len(row) != len(preview.Headers) {
				p.errorf("%s row %d: %d cells for %d headers", domain.Label(c), i, len(row), len(preview.Headers))
			}
			for j, cell := range row {
				if cell == "" {
					p.errorf("%s row %d: empty %q cell", domain.Label(c), i, preview.Headers[j])
				}
			}
		}
	}
	return p
}

// ── Phase 4: Exports ──

func validateExports(d domain.Dataset, events []domain.DisplayEvent) *phase {
	p := &phase{name: "Phase 4: CSV / JSON Exports"}
	for _, c := range domain.Categories {
		records := domain.RecordsOf(d.Of(c))
		if len(records) == 0 {
			continue
		}
		checkCSV(p, domain.Label(c), records)
		checkJSON(p, domain.Label(c), records)
	}
	if len(events) > 0 {
		records := domain.EventRecords(events)
		checkCSV(p, "events", records)
		checkJSON(p, "events", records)
	}
	if _, err := domain.ToCSV(nil); !errors.Is(err, domain.ErrNoData) {
		p.errorf("ToCSV(nil) returned %v, want ErrNoData", err)
	}
	return p
}

func checkCSV(p *phase, name string, records []domain.Record) {
	out, err := domain.ToCSV(records)
	if err != nil {
		p.errorf("%s csv: %v", name, err)
		return
	}
	rows, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	if err != nil {
		p.errorf("%s csv: reparse: %v", name, err)
		return
	}
	if len(rows) != len(records)+1 {
		p.errorf("%s csv: %d rows, want %d", name, len(rows), len(records)+1)
	}
	if got, want := strings.Join(rows[0], ","), strings.Join(records[0].Keys(), ","); got != want {
		p.errorf("%s csv header %q, want %q", name, got, want)
	}
}

func checkJSON(p *phase, name string, records []domain.Record) {
	out, err := domain.ToJSON(records)
	if err != nil {
		p.errorf("%s json: %v", name, err)
		return
	}
	var back []json.RawMessage
	if err := json.Unmarshal([]byte(out), &back); err != nil {
		p.errorf("%s json: reparse: %v", name, err)
		return
	}
	if len(back) != len(records) {
		p.errorf("%s json: %d items, want %d", name, len(back), len(records))
	}
	if !bytes.HasPrefix([]byte(out), []byte("[\n  {")) {
		p.errorf("%s json: not 2-space indented", name)
	}
}
