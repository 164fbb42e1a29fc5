// Command tui runs the dashboard in the terminal. It shares configuration
// with the web dashboard and writes exports to EXPORT_DIR.
//
// Usage:
//
//	go run ./cmd/tui -log sentinel-tui.log
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata" // DISPLAY_TIMEZONE must resolve on hosts without zoneinfo

	tea "github.com/charmbracelet/bubbletea"

	"github.com/couchcryptid/sentinel-dashboard/internal/adapter/sentinelapi"
	"github.com/couchcryptid/sentinel-dashboard/internal/config"
	"github.com/couchcryptid/sentinel-dashboard/internal/dashboard"
	"github.com/couchcryptid/sentinel-dashboard/internal/domain"
	"github.com/couchcryptid/sentinel-dashboard/internal/observability"
	"github.com/couchcryptid/sentinel-dashboard/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	logPath := flag.String("log", "", "write logs to this file (discarded when empty)")
	redraw := flag.Duration("redraw", time.Second, "screen redraw interval")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	var logOut io.Writer = io.Discard
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	logger := observability.NewLoggerTo(logOut, cfg)
	slog.SetDefault(logger)
	domain.SetLocation(cfg.DisplayTimezone)

	api := sentinelapi.NewClient(cfg.APIBaseURL, cfg.APITimeout, logger)
	ctrl := dashboard.New(api, dashboard.Options{Days: cfg.DefaultDays, Interval: cfg.ReloadInterval},
		logger, observability.NewMetrics())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runDone := make(chan struct{})
	go func() {
		defer close(runDone)
		if err := ctrl.Run(ctx); err != nil {
			logger.Error("dashboard controller error", "error", err)
		}
	}()

	p := tea.NewProgram(tui.NewModel(ctx, ctrl, cfg.ExportDir, *redraw), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	interrupted := ctx.Err() != nil
	stop()
	<-runDone

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if werr := ctrl.WaitContext(shutdownCtx); werr != nil {
		logger.Error("refresh cycles did not finish", "error", werr)
	}
	if err != nil && !interrupted {
		return fmt.Errorf("run terminal view: %w", err)
	}
	return nil
}
