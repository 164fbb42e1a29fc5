package domain

import (
	"slices"
	"time"
)

const (
	// RecentLimit caps the recent-events list.
	RecentLimit = 5
	// PreviewLimit caps preview tables and slices.
	PreviewLimit = 50
)

// Aggregate normalizes every category of d and returns the events newest
// first. Events without a parseable date sort after all dated events; ties
// keep dataset order (flares, CMEs, storms).
func Aggregate(d Dataset) []DisplayEvent {
	events := make([]DisplayEvent, 0, d.Len())
	for _, c := range Categories {
		for _, raw := range d.Of(c) {
			events = append(events, Normalize(raw, c))
		}
	}
	SortNewestFirst(events)
	return events
}

// SortNewestFirst stable-sorts events by date, descending.
func SortNewestFirst(events []DisplayEvent) {
	type keyed struct {
		ev    DisplayEvent
		at    time.Time
		dated bool
	}
	ks := make([]keyed, len(events))
	for i, ev := range events {
		at, ok := ev.Time()
		ks[i] = keyed{ev: ev, at: at, dated: ok}
	}
	slices.SortStableFunc(ks, func(a, b keyed) int {
		switch {
		case a.dated && b.dated:
			return b.at.Compare(a.at)
		case a.dated:
			return -1
		case b.dated:
			return 1
		default:
			return 0
		}
	})
	for i := range ks {
		events[i] = ks[i].ev
	}
}

// Recent returns at most RecentLimit leading events.
func Recent(events []DisplayEvent) []DisplayEvent {
	return head(events, RecentLimit)
}

// PreviewSlice returns at most PreviewLimit leading events and whether more
// exist beyond them.
func PreviewSlice(events []DisplayEvent) ([]DisplayEvent, bool) {
	return head(events, PreviewLimit), len(events) > PreviewLimit
}

// FilterCategory keeps the events of one category. SelectionAll and the
// empty selection keep everything.
func FilterCategory(events []DisplayEvent, sel Selection) ([]DisplayEvent, error) {
	if sel == "" || sel == SelectionAll {
		return events, nil
	}
	c, err := ParseSelection(string(sel))
	if err != nil {
		return nil, err
	}
	out := make([]DisplayEvent, 0, len(events))
	for _, ev := range events {
		if ev.Category == c {
			out = append(out, ev)
		}
	}
	return out, nil
}

// Latest returns the newest event of category c from events sorted newest
// first.
func Latest(events []DisplayEvent, c Category) (DisplayEvent, bool) {
	for _, ev := range events {
		if ev.Category == c {
			return ev, true
		}
	}
	return DisplayEvent{}, false
}

func head(events []DisplayEvent, n int) []DisplayEvent {
	if len(events) <= n {
		return events
	}
	return events[:n]
}
