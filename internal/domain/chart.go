package domain

import (
	"math"
	"time"
)

// ChartWindowDays caps the number of daily buckets in a chart.
const ChartWindowDays = 30

// Chart holds per-day series ready for a charting library. All series are
// aligned with Labels, oldest day first.
type Chart struct {
	Labels []string `json:"labels"`

	Flares []int `json:"flares"`
	CMEs   []int `json:"cmes"`
	Storms []int `json:"storms"`

	// Flare counts by GOES class letter.
	XClass []int `json:"x_class"`
	MClass []int `json:"m_class"`
	CClass []int `json:"c_class"`

	// Daily maxima; zero where no event was recorded.
	MaxCMESpeed []float64 `json:"max_cme_speed"`
	MaxKpIndex  []float64 `json:"max_kp_index"`
}

// BuildChart buckets events into days ending at the current day (in the
// display location). days is clamped to [1, ChartWindowDays]. Events with
// no parseable date or outside the window are skipped.
func BuildChart(events []DisplayEvent, days int) Chart {
	days = min(max(days, 1), ChartWindowDays)

	now := clock.Now().In(location)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, location)
	start := today.AddDate(0, 0, -(days - 1))

	ch := Chart{
		Labels:      make([]string, days),
		Flares:      make([]int, days),
		CMEs:        make([]int, days),
		Storms:      make([]int, days),
		XClass:      make([]int, days),
		MClass:      make([]int, days),
		CClass:      make([]int, days),
		MaxCMESpeed: make([]float64, days),
		MaxKpIndex:  make([]float64, days),
	}
	for i := range days {
		ch.Labels[i] = start.AddDate(0, 0, i).Format("Jan 2")
	}

	for _, ev := range events {
		t, ok := ev.Time()
		if !ok {
			continue
		}
		t = t.In(location)
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, location)
		i := int(math.Round(day.Sub(start).Hours() / 24))
		if i < 0 || i >= days {
			continue
		}

		switch ev.Category {
		case CategoryFlare:
			ch.Flares[i]++
			switch ev.Intensity {
			case "X":
				ch.XClass[i]++
			case "M":
				ch.MClass[i]++
			case "C":
				ch.CClass[i]++
			}
		case CategoryCME:
			ch.CMEs[i]++
			if v, ok := present(ev.Raw.Speed); ok && v > ch.MaxCMESpeed[i] {
				ch.MaxCMESpeed[i] = v
			}
		case CategoryStorm:
			ch.Storms[i]++
			if v, ok := present(ev.Raw.KpIndex); ok && v > ch.MaxKpIndex[i] {
				ch.MaxKpIndex[i] = v
			}
		}
	}
	return ch
}
