package http

import (
	"encoding/json"
	"html/template"
	"net/http"

	"github.com/couchcryptid/sentinel-dashboard/internal/dashboard"
	"github.com/couchcryptid/sentinel-dashboard/internal/domain"
)

type pageData struct {
	View      dashboard.View
	Notice    string
	Filters   []domain.Selection
	ChartJSON template.JS
}

var pageFilters = []domain.Selection{
	domain.SelectionAll,
	domain.SelectionFlares,
	domain.SelectionCME,
	domain.SelectionStorms,
}

var funcMap = template.FuncMap{
	"filterLabel": func(s domain.Selection) string {
		if s == domain.SelectionAll {
			return "All Events"
		}
		c, err := domain.ParseSelection(string(s))
		if err != nil {
			return string(s)
		}
		return domain.Label(c)
	},
}

var (
	pageTemplate    = template.Must(template.New("page").Funcs(funcMap).Parse(pageTemplateStr))
	previewTemplate = template.Must(template.New("preview").Funcs(funcMap).Parse(previewTemplateStr))
)

type previewData struct {
	Selection domain.Selection
	Preview   domain.Preview
	Notice    string
}

// handlePreviewPage renders the preview table of one category as HTML. The
// truncation note is shown below the rows.
func (s *Server) handlePreviewPage(w http.ResponseWriter, r *http.Request) {
	sel := domain.Selection(r.PathValue("selection"))
	status := http.StatusOK
	data := previewData{Selection: sel}

	p, err := s.dash.Preview(sel)
	if err != nil {
		status = statusFor(err)
		data.Notice = domain.Notice(err)
	}
	data.Preview = p

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := previewTemplate.Execute(w, data); err != nil {
		s.logger.Error("render preview page", "selection", sel, "error", err)
	}
}

// handlePage renders the HTML dashboard. An invalid filter renders the
// unfiltered view with the notice shown.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	data := pageData{Filters: pageFilters}

	v, err := s.dash.View(domain.Selection(r.URL.Query().Get("filter")))
	if err != nil {
		status = statusFor(err)
		data.Notice = domain.Notice(err)
		v, _ = s.dash.View(domain.SelectionAll)
	}
	data.View = v

	chart, err := json.Marshal(v.Chart)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	data.ChartJSON = template.JS(chart) //nolint:gosec // marshaled by encoding/json

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pageTemplate.Execute(w, data); err != nil {
		s.logger.Error("render dashboard page", "error", err)
	}
}

const pageTemplateStr = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>SENTINEL Space Weather Dashboard</title>
<link rel="stylesheet" href="https://cdnjs.cloudflare.com/ajax/libs/font-awesome/6.5.1/css/all.min.css">
<style>
body{font-family:system-ui,sans-serif;background:#0b1020;color:#e6e9f2;margin:0;padding:24px}
.cards{display:flex;gap:16px;flex-wrap:wrap}
.card{background:#151b33;border-radius:8px;padding:16px;min-width:200px}
.notice{background:#5c1d24;padding:12px;border-radius:6px;margin-bottom:16px}
.badge.online{color:#28a745}.badge.demo{color:#17a2b8}.badge.warning{color:#ffc107}.badge.error{color:#dc3545}
.event-card{display:flex;gap:12px;padding:8px 0;border-bottom:1px solid #222a4a}
a{color:#8fb3ff}
</style>
</head>
<body>
<h1><i class="fas fa-satellite"></i> SENTINEL</h1>
{{with .Notice}}<div class="notice" role="alert">{{.}}</div>{{end}}

<div class="badge {{.View.System.Level}}" id="api-status">{{.View.System.Badge}}</div>
<p>API: <span id="api-status-text">{{.View.System.APIStatus}}</span> &middot; Last update: <span id="last-update">{{.View.System.LastUpdate}}</span></p>
{{with .View.DataStatus}}<p id="data-status">{{.}}</p>{{end}}

<section class="cards" id="status-cards">
  <div class="card"><h3><i class="fas fa-sun"></i> Last Solar Flare</h3><p id="last-flare">{{.View.Status.LastFlare}}</p></div>
  <div class="card"><h3><i class="fas fa-wind"></i> Last CME</h3><p id="last-cme">{{.View.Status.LastCME}}</p></div>
  <div class="card"><h3><i class="fas fa-chart-line"></i> Last Geomagnetic Storm</h3><p id="last-geomagnetic">{{.View.Status.LastStorm}}</p></div>
  <div class="card"><h3>System Status</h3><p id="system-status">{{.View.Status.SystemStatus}}</p></div>
</section>

<section>
  <h2>Recent Events ({{.View.Days}} days)</h2>
  <nav>{{range .Filters}}<a href="/?filter={{.}}">{{filterLabel .}}</a> {{end}}</nav>
  <div id="recent-events">
  {{range .View.Recent.Events}}
    <div class="event-card {{.Category}}">
      <i class="{{.Icon}}"></i>
      <div><h4>{{.Label}}</h4><p>{{.Classification}}</p><p>{{.Date}}</p></div>
    </div>
  {{else}}
    <div class="no-events">{{.View.Recent.Placeholder}}</div>
  {{end}}
  </div>
</section>

<section class="cards" id="data-cards">
{{range .View.DataCards}}
  <div class="card">
    <h3><i class="{{.Icon}}"></i> {{.Label}}</h3>
    <p>{{.Count}} records</p>
    <p>Last updated: {{.LastUpdated}}</p>
    <a href="/preview/{{.Selection}}">Preview</a>
    <a href="/api/export/{{.Selection}}?format=csv">CSV</a>
    <a href="/api/export/{{.Selection}}?format=json">JSON</a>
  </div>
{{end}}
</section>

<p>
  <a href="/api/export/dashboard">Export dashboard</a> &middot;
  <a href="/api/export/events?format=csv">Export events (CSV)</a> &middot;
  <a href="/api/export/events?format=json">Export events (JSON)</a>
</p>

<canvas id="activity-chart"></canvas>
<script>window.sentinelChart = {{.ChartJSON}};</script>
</body>
</html>
`

const previewTemplateStr = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{with .Preview.Title}}{{.}}{{else}}{{filterLabel .Selection}} Preview{{end}}</title>
<style>
body{font-family:system-ui,sans-serif;background:#0b1020;color:#e6e9f2;margin:0;padding:24px}
.notice{background:#5c1d24;padding:12px;border-radius:6px;margin-bottom:16px}
table{border-collapse:collapse;width:100%}
th,td{padding:6px 10px;border-bottom:1px solid #222a4a;text-align:left}
.summary td{font-style:italic;color:#9aa3c0}
a{color:#8fb3ff}
</style>
</head>
<body>
<p><a href="/">Back to dashboard</a></p>
{{with .Notice}}<div class="notice" role="alert">{{.}}</div>{{end}}
{{with .Preview.Headers}}
<h1 id="preview-title">{{$.Preview.Title}}</h1>
<p><span id="preview-count">{{$.Preview.CountLabel}}</span>{{with $.Preview.DateRange}} &middot; <span id="preview-range">{{.}}</span>{{end}}</p>
<table id="preview-table">
  <thead><tr>{{range .}}<th>{{.}}</th>{{end}}</tr></thead>
  <tbody>
  {{range $.Preview.Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
  {{end}}
  {{with $.Preview.Note}}<tr class="summary"><td colspan="{{len $.Preview.Headers}}">{{.}}</td></tr>{{end}}
  </tbody>
</table>
<p>
  <a href="/api/export/{{$.Selection}}?format=csv&amp;preview=true">Download CSV</a> &middot;
  <a href="/api/export/{{$.Selection}}?format=json&amp;preview=true">Download JSON</a>
</p>
{{end}}
</body>
</html>
`
