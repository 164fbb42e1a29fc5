package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpadapter "github.com/couchcryptid/sentinel-dashboard/internal/adapter/http"
	"github.com/couchcryptid/sentinel-dashboard/internal/dashboard"
	"github.com/couchcryptid/sentinel-dashboard/internal/domain"
	"github.com/couchcryptid/sentinel-dashboard/internal/observability"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testEvents = `{
	"solar_flares": [
		{"flrID": "F1", "beginTime": "2024-03-01T10:00Z", "classType": "M5.2", "sourceLocation": "N15E10"},
		{"flrID": "F2", "beginTime": "2024-02-28T10:00Z", "classType": "C1.0"}
	],
	"cme_events": [{"activityID": "C1", "startTime": "2024-03-02T01:00Z", "speed": 1200}],
	"geomagnetic_storms": []
}`

type stubFetcher struct {
	err     error
	release chan struct{}
	body    string // overrides testEvents when set
}

func (f *stubFetcher) FetchEvents(_ context.Context, _ int) (domain.Dataset, error) {
	if f.release != nil {
		<-f.release
	}
	if f.err != nil {
		return domain.Dataset{}, f.err
	}
	if f.body != "" {
		return domain.DecodeDataset([]byte(f.body))
	}
	return domain.DecodeDataset([]byte(testEvents))
}

func (f *stubFetcher) FetchStatus(_ context.Context) (domain.SystemStatus, error) {
	return domain.SystemStatus{Status: "online", Timestamp: "2024-03-02T06:00:00Z"}, nil
}

func newController(t *testing.T, f *stubFetcher) *dashboard.Controller {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c := dashboard.New(f, dashboard.Options{}, logger, observability.NewMetricsForTesting())
	t.Cleanup(c.Wait)
	return c
}

func newTestServer(t *testing.T, c *dashboard.Controller) *httpadapter.Server {
	t.Helper()
	return httpadapter.NewServer(":0", c, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func loadedServer(t *testing.T) *httpadapter.Server {
	t.Helper()
	c := newController(t, &stubFetcher{})
	c.Refresh(context.Background())
	c.Wait()
	return newTestServer(t, c)
}

func do(t *testing.T, srv http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealthzReturns200(t *testing.T) {
	srv := newTestServer(t, newController(t, &stubFetcher{}))
	rec := do(t, srv, http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyzReflectsFirstLoad(t *testing.T) {
	c := newController(t, &stubFetcher{})
	srv := newTestServer(t, c)

	assert.Equal(t, http.StatusServiceUnavailable, do(t, srv, http.MethodGet, "/readyz").Code)

	c.Refresh(context.Background())
	c.Wait()
	assert.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/readyz").Code)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := loadedServer(t)
	rec := do(t, srv, http.MethodGet, "/metrics")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestDashboardJSON(t *testing.T) {
	srv := loadedServer(t)
	rec := do(t, srv, http.MethodGet, "/api/dashboard")

	require.Equal(t, http.StatusOK, rec.Code)
	var v struct {
		State  string `json:"state"`
		Recent struct {
			Events []struct {
				Classification string `json:"classification"`
			} `json:"events"`
		} `json:"recent"`
		System struct {
			Badge string `json:"badge"`
		} `json:"system"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	assert.Equal(t, "ready", v.State)
	require.Len(t, v.Recent.Events, 3)
	assert.Equal(t, "1200 km/s", v.Recent.Events[0].Classification)
	assert.Equal(t, "NASA DONKI Connected (Demo Mode)", v.System.Badge)
}

func TestDashboardJSON_InvalidFilter(t *testing.T) {
	srv := loadedServer(t)
	rec := do(t, srv, http.MethodGet, "/api/dashboard?filter=sunspots")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid data type selected", decodeBody(t, rec)["error"])
}

func TestRefresh_StartedThenInProgress(t *testing.T) {
	f := &stubFetcher{release: make(chan struct{})}
	srv := newTestServer(t, newController(t, f))
	defer close(f.release)

	first := do(t, srv, http.MethodPost, "/api/refresh")
	assert.Equal(t, http.StatusAccepted, first.Code)
	assert.Equal(t, "started", decodeBody(t, first)["status"])

	second := do(t, srv, http.MethodPost, "/api/refresh")
	assert.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "in_progress", decodeBody(t, second)["status"])
}

func TestDays(t *testing.T) {
	c := newController(t, &stubFetcher{})
	srv := newTestServer(t, c)

	rec := do(t, srv, http.MethodPost, "/api/days?days=90")
	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.InDelta(t, 90, decodeBody(t, rec)["days"], 0)
	assert.Equal(t, 90, c.Days())

	for _, q := range []string{"", "?days=abc", "?days=0", "?days=99999"} {
		rec := do(t, srv, http.MethodPost, "/api/days"+q)
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
	}
}

func TestPreview(t *testing.T) {
	srv := loadedServer(t)

	rec := do(t, srv, http.MethodGet, "/api/preview/solar-flares")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Solar Flare Events Preview", body["title"])
	assert.Equal(t, "2 records", body["count_label"])

	assert.Equal(t, http.StatusBadRequest, do(t, srv, http.MethodGet, "/api/preview/sunspots").Code)
	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodGet, "/api/preview/geomagnetic").Code)
}

func TestExportCategory(t *testing.T) {
	domain.SetClock(clockwork.NewFakeClockAt(time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)))
	t.Cleanup(func() { domain.SetClock(nil) })
	srv := loadedServer(t)

	rec := do(t, srv, http.MethodGet, "/api/export/solar-flares?format=csv")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="nasa-solar-flares-2024-03-05.csv"`, rec.Header().Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "flrID,beginTime,classType,sourceLocation\n"))

	rec = do(t, srv, http.MethodGet, "/api/export/cme?format=json&preview=true")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="nasa-cme-preview-2024-03-05.json"`, rec.Header().Get("Content-Disposition"))
}

func TestExportErrors(t *testing.T) {
	srv := loadedServer(t)

	tests := []struct {
		target string
		status int
		notice string
	}{
		{"/api/export/sunspots?format=csv", http.StatusBadRequest, "Invalid data type selected"},
		{"/api/export/cme?format=xml", http.StatusBadRequest, "Invalid data type selected"},
		{"/api/export/geomagnetic?format=csv", http.StatusNotFound, "No data available. Please refresh the data first."},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := do(t, srv, http.MethodGet, tt.target)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.notice, decodeBody(t, rec)["error"])
		})
	}
}

func TestExportDashboardAndEvents(t *testing.T) {
	srv := loadedServer(t)

	rec := do(t, srv, http.MethodGet, "/api/export/dashboard")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "sentinel-dashboard-")
	assert.Contains(t, rec.Body.String(), `"solar_flares"`)

	rec = do(t, srv, http.MethodGet, "/api/export/events?format=json")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "sentinel-events-")
	assert.Contains(t, rec.Body.String(), `"raw"`)
}

func TestExportBeforeLoad(t *testing.T) {
	srv := newTestServer(t, newController(t, &stubFetcher{}))

	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodGet, "/api/export/dashboard").Code)
	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodGet, "/api/export/events").Code)
}

func TestPage(t *testing.T) {
	srv := loadedServer(t)

	rec := do(t, srv, http.MethodGet, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	page := rec.Body.String()
	assert.Contains(t, page, "NASA DONKI Connected (Demo Mode)")
	assert.Contains(t, page, "M5.2")
	assert.Contains(t, page, "No events found in past year", "no storms loaded")
	assert.Contains(t, page, "window.sentinelChart = {")
}

func TestPage_InvalidFilterShowsNotice(t *testing.T) {
	srv := loadedServer(t)

	rec := do(t, srv, http.MethodGet, "/?filter=sunspots")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid data type selected")
}

func TestPage_FailedPlaceholders(t *testing.T) {
	c := newController(t, &stubFetcher{err: domain.ErrNetwork})
	c.Refresh(context.Background())
	c.Wait()
	srv := newTestServer(t, c)

	page := do(t, srv, http.MethodGet, "/").Body.String()
	assert.Contains(t, page, "API Connection Failed")
	assert.Contains(t, page, "No recent events")
	assert.Contains(t, page, "Failed to load")
}

func manyFlares(n int) string {
	flares := make([]string, n)
	for i := range flares {
		flares[i] = fmt.Sprintf(`{"flrID":"F%d","beginTime":"2024-03-01T10:00Z","classType":"C1.%d"}`, i, i%10)
	}
	return `{"solar_flares":[` + strings.Join(flares, ",") + `],"cme_events":[],"geomagnetic_storms":[]}`
}

func TestPreviewPage(t *testing.T) {
	srv := loadedServer(t)

	rec := do(t, srv, http.MethodGet, "/preview/solar-flares")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	page := rec.Body.String()
	assert.Contains(t, page, "Solar Flare Events Preview")
	assert.Contains(t, page, "<th>Begin Time</th>")
	assert.Contains(t, page, "<td>M5.2</td>")
	assert.Contains(t, page, "2 records")
	assert.NotContains(t, page, "Showing first")
	assert.Contains(t, page, "/api/export/solar-flares?format=csv&amp;preview=true")
}

func TestPreviewPage_TruncatedShowsNote(t *testing.T) {
	c := newController(t, &stubFetcher{body: manyFlares(51)})
	c.Refresh(context.Background())
	c.Wait()
	srv := newTestServer(t, c)

	rec := do(t, srv, http.MethodGet, "/preview/solar-flares")
	require.Equal(t, http.StatusOK, rec.Code)
	page := rec.Body.String()
	assert.Equal(t, 50, strings.Count(page, "<td>C1."), "rows capped at 50")
	assert.Contains(t, page, "Showing first 50 of 51 records (1 omitted). Download full dataset for complete data.")
	assert.Contains(t, page, `colspan="5"`)
}

func TestPreviewPage_Errors(t *testing.T) {
	srv := loadedServer(t)

	rec := do(t, srv, http.MethodGet, "/preview/sunspots")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid data type selected")
	assert.NotContains(t, rec.Body.String(), "<table")

	rec = do(t, srv, http.MethodGet, "/preview/geomagnetic")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "No data available. Please refresh the data first.")
}
