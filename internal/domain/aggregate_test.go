package domain

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregate_SingleFlare(t *testing.T) {
	d := Dataset{
		Flares: []RawEvent{rawOf(t, CategoryFlare, `{"beginTime":"2024-01-01T00:00:00Z","classType":"X1.0"}`)},
	}

	recent := Recent(Aggregate(d))
	require.Len(t, recent, 1)
	assert.Equal(t, "X1.0", recent[0].Classification)
	assert.Equal(t, Intensity("X"), recent[0].Intensity)
}

func TestAggregate_SortsNewestFirstAcrossCategories(t *testing.T) {
	d := Dataset{
		Flares: []RawEvent{
			rawOf(t, CategoryFlare, `{"beginTime":"2024-03-01T00:00Z","classType":"C1.0"}`),
			rawOf(t, CategoryFlare, `{"beginTime":"garbage","classType":"C2.0"}`),
		},
		CMEs: []RawEvent{
			rawOf(t, CategoryCME, `{"startTime":"2024-03-05T00:00Z","speed":700}`),
		},
		Storms: []RawEvent{
			rawOf(t, CategoryStorm, `{"startTime":"2024-03-03T00:00Z","kpIndex":6}`),
			rawOf(t, CategoryStorm, `{}`),
		},
	}

	events := Aggregate(d)
	require.Len(t, events, 5)
	assert.Equal(t, CategoryCME, events[0].Category)
	assert.Equal(t, CategoryStorm, events[1].Category)
	assert.Equal(t, "C1.0", events[2].Classification)
	// Undated events sort last, keeping dataset order.
	assert.Equal(t, "C2.0", events[3].Classification)
	assert.Equal(t, "Unknown Kp", events[4].Classification)
	assertNewestFirst(t, events)
}

func TestAggregate_EqualDatesKeepDatasetOrder(t *testing.T) {
	d := Dataset{
		Flares: []RawEvent{rawOf(t, CategoryFlare, `{"beginTime":"2024-03-01T00:00Z"}`)},
		CMEs:   []RawEvent{rawOf(t, CategoryCME, `{"startTime":"2024-03-01T00:00:00Z"}`)},
	}
	events := Aggregate(d)
	require.Len(t, events, 2)
	assert.Equal(t, CategoryFlare, events[0].Category)
	assert.Equal(t, CategoryCME, events[1].Category)
}

func TestAggregate_Empty(t *testing.T) {
	assert.Empty(t, Aggregate(Dataset{}))
	assert.Empty(t, Recent(nil))
}

func TestRecentAndPreviewLimits(t *testing.T) {
	for _, n := range []int{0, 3, 5, 50, 51, 120} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			events := Aggregate(flareDataset(t, n))
			assertNewestFirst(t, events)

			assert.LessOrEqual(t, len(Recent(events)), RecentLimit)

			preview, more := PreviewSlice(events)
			assert.LessOrEqual(t, len(preview), PreviewLimit)
			assert.Equal(t, n > PreviewLimit, more)
			assert.Equal(t, min(n, PreviewLimit), len(preview))
		})
	}
}

func TestFilterCategory(t *testing.T) {
	d := Dataset{
		Flares: []RawEvent{rawOf(t, CategoryFlare, `{"beginTime":"2024-03-01T00:00Z"}`)},
		CMEs:   []RawEvent{rawOf(t, CategoryCME, `{"startTime":"2024-03-02T00:00Z"}`)},
	}
	events := Aggregate(d)

	all, err := FilterCategory(events, SelectionAll)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	cmes, err := FilterCategory(events, SelectionCME)
	require.NoError(t, err)
	require.Len(t, cmes, 1)
	assert.Equal(t, CategoryCME, cmes[0].Category)

	_, err = FilterCategory(events, Selection("bogus"))
	assert.ErrorIs(t, err, ErrInvalidSelection)
}

func TestLatest(t *testing.T) {
	events := Aggregate(Dataset{
		Storms: []RawEvent{
			rawOf(t, CategoryStorm, `{"startTime":"2024-03-01T00:00Z","kpIndex":5}`),
			rawOf(t, CategoryStorm, `{"startTime":"2024-03-04T00:00Z","kpIndex":7}`),
		},
	})

	ev, ok := Latest(events, CategoryStorm)
	require.True(t, ok)
	assert.Equal(t, "Kp 7", ev.Classification)

	_, ok = Latest(events, CategoryFlare)
	assert.False(t, ok)
}

func flareDataset(t *testing.T, n int) Dataset {
	t.Helper()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	flares := make([]RawEvent, n)
	for i := range n {
		// Interleave dated and undated records so the sort has work to do.
		begin := base.Add(time.Duration((i*37)%n) * time.Hour).Format(time.RFC3339)
		if i%7 == 0 {
			begin = "N/A"
		}
		flares[i] = rawOf(t, CategoryFlare, fmt.Sprintf(`{"beginTime":%q,"classType":"C%d.0"}`, begin, i%9+1))
	}
	return Dataset{Flares: flares}
}

func assertNewestFirst(t *testing.T, events []DisplayEvent) {
	t.Helper()
	seenUndated := false
	var prev time.Time
	for i, ev := range events {
		at, ok := ev.Time()
		if !ok {
			seenUndated = true
			continue
		}
		require.False(t, seenUndated, "dated event %d after an undated one", i)
		if i > 0 {
			require.False(t, at.After(prev), "event %d is newer than its predecessor", i)
		}
		prev = at
	}
}
