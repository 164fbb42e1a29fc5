// Command genmock writes a deterministic /api/events fixture shaped like the
// SENTINEL backend's DONKI passthrough. The same flags always produce the
// same bytes, so the fixture can be checked in and regenerated.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -out data/mock/events_30d.json \
//	  -days 30 -flares 40 -cmes 25 -storms 8
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/couchcryptid/sentinel-dashboard/internal/domain"
	"github.com/jonboulle/clockwork"
)

// endDate is the last day of every generated window.
var endDate = time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC)

const donkiLayout = "2006-01-02T15:04Z"

type options struct {
	out    string
	days   int
	flares int
	cmes   int
	storms int
	seed   uint64
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	var o options
	flag.StringVar(&o.out, "out", "", "output path for the events fixture")
	flag.IntVar(&o.days, "days", 30, "day window the events fall into")
	flag.IntVar(&o.flares, "flares", 40, "number of solar flare records")
	flag.IntVar(&o.cmes, "cmes", 25, "number of CME records")
	flag.IntVar(&o.storms, "storms", 8, "number of geomagnetic storm records")
	flag.Uint64Var(&o.seed, "seed", 2024, "random seed")
	flag.Parse()

	if o.out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}
	if o.days < 1 {
		return fmt.Errorf("-days must be positive")
	}

	// Fixed clock so chart buckets line up with the generated window.
	domain.SetClock(clockwork.NewFakeClockAt(endDate.Add(12 * time.Hour)))
	defer domain.SetClock(nil)

	g := generator{rng: rand.New(rand.NewPCG(o.seed, o.seed^0x5e17)), start: endDate.AddDate(0, 0, -(o.days - 1)), days: o.days}
	fixture := struct {
		Flares []domain.Record `json:"solar_flares"`
		CMEs   []domain.Record `json:"cme_events"`
		Storms []domain.Record `json:"geomagnetic_storms"`
	}{
		Flares: g.many(o.flares, g.flare),
		CMEs:   g.many(o.cmes, g.cme),
		Storms: g.many(o.storms, g.storm),
	}

	data, err := json.MarshalIndent(fixture, "", "  ")
	if err != nil {
		return fmt.Errorf("encode fixture: %w", err)
	}
	if err := writeFile(o.out, append(data, '\n')); err != nil {
		return fmt.Errorf("writing fixture: %w", err)
	}
	log.Printf("wrote fixture: %s", o.out)

	d, err := domain.DecodeDataset(data)
	if err != nil {
		return fmt.Errorf("decode generated fixture: %w", err)
	}
	printStats(d, o.days)
	return nil
}

type generator struct {
	rng   *rand.Rand
	start time.Time
	days  int
}

func (g generator) many(n int, build func(i int) domain.Record) []domain.Record {
	out := make([]domain.Record, n)
	for i := range n {
		out[i] = build(i)
	}
	return out
}

func (g generator) at() time.Time {
	return g.start.
		AddDate(0, 0, g.rng.IntN(g.days)).
		Add(time.Duration(g.rng.IntN(24*60)) * time.Minute)
}

func (g generator) flare(i int) domain.Record {
	begin := g.at()
	peak := begin.Add(time.Duration(5+g.rng.IntN(30)) * time.Minute)
	end := peak.Add(time.Duration(10+g.rng.IntN(60)) * time.Minute)

	class := fmt.Sprintf("%c%.1f", "CCCCMMMX"[g.rng.IntN(8)], 1+g.rng.Float64()*8)
	rec := domain.NewRecord(
		"flrID", fmt.Sprintf("%s-FLR-%03d", begin.Format("2006-01-02T15:04:05"), i+1),
		"beginTime", begin.Format(donkiLayout),
		"peakTime", peak.Format(donkiLayout),
		"endTime", end.Format(donkiLayout),
		"classType", class,
		"sourceLocation", fmt.Sprintf("%c%02d%c%02d", "NS"[g.rng.IntN(2)], g.rng.IntN(40), "EW"[g.rng.IntN(2)], g.rng.IntN(90)),
		"activeRegionNum", 13580+g.rng.IntN(60),
	)
	// Every seventh flare is unclassified to exercise the Unknown paths.
	if i%7 == 6 {
		rec.Set("classType", nil)
	}
	return rec
}

func (g generator) cme(i int) domain.Record {
	start := g.at()
	speed := float64(250 + g.rng.IntN(1500))
	rec := domain.NewRecord(
		"activityID", fmt.Sprintf("%s-CME-%03d", start.Format("2006-01-02T15:04:05"), i+1),
		"catalog", "M2M_CATALOG",
		"startTime", start.Format(donkiLayout),
		"sourceLocation", "",
		"speed", speed,
		"halfAngle", 10+g.rng.IntN(60),
		"type", []string{"S", "C", "O", "R"}[g.rng.IntN(4)],
		"note", "",
	)
	if i%5 == 4 {
		rec.Set("speed", nil)
	}
	return rec
}

func (g generator) storm(i int) domain.Record {
	start := g.at()
	linked := make([]map[string]string, g.rng.IntN(3))
	for j := range linked {
		linked[j] = map[string]string{"activityID": fmt.Sprintf("%s-CME-%03d", start.AddDate(0, 0, -2).Format("2006-01-02T15:04:05"), j+1)}
	}
	return domain.NewRecord(
		"gstID", fmt.Sprintf("%s-GST-%03d", start.Format("2006-01-02T15:04:05"), i+1),
		"startTime", start.Format(donkiLayout),
		"endTime", start.Add(time.Duration(6+g.rng.IntN(36))*time.Hour).Format(donkiLayout),
		"kpIndex", 4+g.rng.IntN(6),
		"type", "G"+fmt.Sprint(1+g.rng.IntN(5)),
		"linkedEvents", linked,
	)
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func printStats(d domain.Dataset, days int) {
	events := domain.Aggregate(d)
	intensities := map[domain.Category]map[domain.Intensity]int{}
	for _, ev := range events {
		if intensities[ev.Category] == nil {
			intensities[ev.Category] = map[domain.Intensity]int{}
		}
		intensities[ev.Category][ev.Intensity]++
	}

	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Total: %d over %d days\n", len(events), days)
	for _, c := range domain.Categories {
		fmt.Printf("%s: %d %v\n", domain.Label(c), len(d.Of(c)), intensities[c])
	}
	if len(events) > 0 {
		fmt.Printf("Newest: %s %s (%s)\n", domain.Label(events[0].Category), events[0].Classification, domain.FormatDate(events[0].Date))
	}
	chart := domain.BuildChart(events, days)
	fmt.Printf("Chart window: %s .. %s\n", chart.Labels[0], chart.Labels[len(chart.Labels)-1])
}
