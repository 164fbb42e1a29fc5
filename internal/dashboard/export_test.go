package dashboard

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/couchcryptid/sentinel-dashboard/internal/domain"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixDownloadDate(t *testing.T) {
	t.Helper()
	domain.SetClock(clockwork.NewFakeClockAt(time.Date(2024, time.March, 5, 12, 0, 0, 0, time.UTC)))
	t.Cleanup(func() { domain.SetClock(nil) })
}

func TestExport_BeforeLoad_NoData(t *testing.T) {
	c, metrics := newTestController(t, &stubFetcher{}, Options{})

	_, err := c.Export(domain.SelectionFlares, domain.FormatCSV)
	assert.ErrorIs(t, err, domain.ErrNoData)
	assert.Equal(t, "No data available. Please refresh the data first.", domain.Notice(err))

	_, err = c.ExportDashboard()
	assert.ErrorIs(t, err, domain.ErrNoData)

	_, err = c.ExportEvents(domain.FormatJSON)
	assert.ErrorIs(t, err, domain.ErrNoData)

	_, err = c.Preview(domain.SelectionCME)
	assert.ErrorIs(t, err, domain.ErrNoData)

	assert.InDelta(t, 1, testutil.ToFloat64(metrics.Exports.WithLabelValues("csv", "error")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(metrics.Exports.WithLabelValues("json", "error")), 0)
	assert.Equal(t, StateIdle, c.Snapshot().State, "export errors never change state")
}

func TestExport_InvalidSelection(t *testing.T) {
	c := loadedController(t, mixedDataset, onlineStatus())

	_, err := c.Export("sunspots", domain.FormatCSV)
	assert.ErrorIs(t, err, domain.ErrInvalidSelection)
	assert.Equal(t, "Invalid data type selected", domain.Notice(err))

	_, err = c.ExportPreview(domain.SelectionAll, domain.FormatJSON)
	assert.ErrorIs(t, err, domain.ErrInvalidSelection)

	_, err = c.Preview("sunspots")
	assert.ErrorIs(t, err, domain.ErrInvalidSelection)

	assert.Equal(t, StateReady, c.Snapshot().State)
}

func TestExport_CategoryCSV(t *testing.T) {
	fixDownloadDate(t)
	c := loadedController(t, mixedDataset, onlineStatus())

	dl, err := c.Export(domain.SelectionFlares, domain.FormatCSV)
	require.NoError(t, err)

	assert.Equal(t, "nasa-solar-flares-2024-03-05.csv", dl.Filename)
	assert.Equal(t, "text/csv", dl.ContentType)
	lines := strings.Split(string(dl.Body), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "flrID,beginTime,peakTime,classType,sourceLocation", lines[0])
	assert.Equal(t, `"F1","2024-03-01T10:00Z","2024-03-01T10:10Z","M5.2","N15E10"`, lines[1])
}

func TestExport_EmptyCategory(t *testing.T) {
	c := loadedController(t, `{"solar_flares":[{"classType":"C1.0"}],"cme_events":[],"geomagnetic_storms":[]}`, onlineStatus())

	_, err := c.Export(domain.SelectionCME, domain.FormatJSON)
	assert.ErrorIs(t, err, domain.ErrNoData)
}

func TestExportPreview_FullCategoryJSON(t *testing.T) {
	fixDownloadDate(t)
	c := loadedController(t, mixedDataset, onlineStatus())

	dl, err := c.ExportPreview(domain.SelectionCME, domain.FormatJSON)
	require.NoError(t, err)

	assert.Equal(t, "nasa-cme-preview-2024-03-05.json", dl.Filename)
	var got []map[string]any
	require.NoError(t, json.Unmarshal(dl.Body, &got))
	require.Len(t, got, 1)
	assert.Equal(t, "C1", got[0]["activityID"])
}

func TestExportDashboard(t *testing.T) {
	fixDownloadDate(t)
	c := loadedController(t, mixedDataset, onlineStatus())

	dl, err := c.ExportDashboard()
	require.NoError(t, err)

	assert.Equal(t, "sentinel-dashboard-2024-03-05.json", dl.Filename)
	var got map[string][]map[string]any
	require.NoError(t, json.Unmarshal(dl.Body, &got))
	assert.Len(t, got["solar_flares"], 2)
	assert.Len(t, got["cme_events"], 1)
	assert.Len(t, got["geomagnetic_storms"], 1)
}

func TestExportEvents_KeepsRawAndOrder(t *testing.T) {
	fixDownloadDate(t)
	c := loadedController(t, mixedDataset, onlineStatus())

	dl, err := c.ExportEvents(domain.FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, "sentinel-events-2024-03-05.json", dl.Filename)

	var got []map[string]any
	require.NoError(t, json.Unmarshal(dl.Body, &got))
	require.Len(t, got, 4)
	assert.Equal(t, "CME", got[0]["category"])
	raw, ok := got[0]["raw"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "C1", raw["activityID"])
}

func TestPreview_Ready(t *testing.T) {
	c := loadedController(t, mixedDataset, onlineStatus())

	p, err := c.Preview(domain.SelectionStorms)
	require.NoError(t, err)
	assert.Equal(t, "Geomagnetic Storm Events Preview", p.Title)
	assert.Equal(t, []string{"Start Time", "End Time", "K-Index", "Storm Type", "Linked Events"}, p.Headers)
	require.Len(t, p.Rows, 1)
	assert.Equal(t, "1 events", p.Rows[0][4])
	assert.False(t, p.Truncated)
}
