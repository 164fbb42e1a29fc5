package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/couchcryptid/sentinel-dashboard/internal/dashboard"
	"github.com/couchcryptid/sentinel-dashboard/internal/domain"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dashboard is the controller surface the server drives.
type Dashboard interface {
	sharedobs.ReadinessChecker
	View(filter domain.Selection) (dashboard.View, error)
	Refresh(ctx context.Context) bool
	SetDays(ctx context.Context, days int) error
	Preview(sel domain.Selection) (domain.Preview, error)
	Export(sel domain.Selection, f domain.Format) (domain.Download, error)
	ExportPreview(sel domain.Selection, f domain.Format) (domain.Download, error)
	ExportDashboard() (domain.Download, error)
	ExportEvents(f domain.Format) (domain.Download, error)
}

// Server exposes the dashboard page, its JSON API, and health, readiness,
// and metrics endpoints.
type Server struct {
	httpServer *http.Server
	dash       Dashboard
	logger     *slog.Logger
}

// NewServer creates an HTTP server for dash on addr.
func NewServer(addr string, dash Dashboard, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		dash:   dash,
		logger: logger,
	}

	mux.HandleFunc("GET /{$}", s.handlePage)
	mux.HandleFunc("GET /preview/{selection}", s.handlePreviewPage)
	mux.HandleFunc("GET /api/dashboard", s.handleDashboard)
	mux.HandleFunc("POST /api/refresh", s.handleRefresh)
	mux.HandleFunc("POST /api/days", s.handleDays)
	mux.HandleFunc("GET /api/preview/{selection}", s.handlePreview)
	mux.HandleFunc("GET /api/export/dashboard", s.handleExportDashboard)
	mux.HandleFunc("GET /api/export/events", s.handleExportEvents)
	mux.HandleFunc("GET /api/export/{selection}", s.handleExport)

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(dash))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	v, err := s.dash.View(domain.Selection(r.URL.Query().Get("filter")))
	if err != nil {
		s.writeError(w, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, v)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if !s.dash.Refresh(r.Context()) {
		sharedobs.WriteJSON(w, http.StatusOK, map[string]string{"status": "in_progress"})
		return
	}
	sharedobs.WriteJSON(w, http.StatusAccepted, map[string]string{"status": "started"})
}

func (s *Server) handleDays(w http.ResponseWriter, r *http.Request) {
	days, err := strconv.Atoi(r.URL.Query().Get("days"))
	if err != nil {
		s.writeError(w, dashboard.ErrInvalidDays)
		return
	}
	if err := s.dash.SetDays(r.Context(), days); err != nil {
		s.writeError(w, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusAccepted, map[string]any{"status": "started", "days": days})
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	p, err := s.dash.Preview(domain.Selection(r.PathValue("selection")))
	if err != nil {
		s.writeError(w, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, p)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	f, err := domain.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	sel := domain.Selection(r.PathValue("selection"))
	var dl domain.Download
	if r.URL.Query().Get("preview") == "true" {
		dl, err = s.dash.ExportPreview(sel, f)
	} else {
		dl, err = s.dash.Export(sel, f)
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeDownload(w, dl)
}

func (s *Server) handleExportDashboard(w http.ResponseWriter, _ *http.Request) {
	dl, err := s.dash.ExportDashboard()
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeDownload(w, dl)
}

func (s *Server) handleExportEvents(w http.ResponseWriter, r *http.Request) {
	f, err := domain.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	dl, err := s.dash.ExportEvents(f)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeDownload(w, dl)
}

// statusFor maps user-interaction errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidSelection), errors.Is(err, dashboard.ErrInvalidDays):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNoData):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	sharedobs.WriteJSON(w, status, map[string]string{"error": domain.Notice(err)})
}

func writeDownload(w http.ResponseWriter, dl domain.Download) {
	w.Header().Set("Content-Type", dl.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", dl.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(dl.Body)))
	w.WriteHeader(http.StatusOK)
	w.Write(dl.Body) //nolint:errcheck // client disconnects are not actionable
}
