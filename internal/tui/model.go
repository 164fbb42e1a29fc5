// Package tui is the terminal view of the dashboard, built on bubbletea.
package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/couchcryptid/sentinel-dashboard/internal/dashboard"
	"github.com/couchcryptid/sentinel-dashboard/internal/domain"
)

// Dashboard is the controller surface the terminal view drives.
type Dashboard interface {
	View(filter domain.Selection) (dashboard.View, error)
	Refresh(ctx context.Context) bool
	SetDays(ctx context.Context, days int) error
	Days() int
	Preview(sel domain.Selection) (domain.Preview, error)
	Export(sel domain.Selection, f domain.Format) (domain.Download, error)
	ExportDashboard() (domain.Download, error)
	ExportEvents(f domain.Format) (domain.Download, error)
}

// dayPresets are the windows the days key cycles through.
var dayPresets = []int{7, 30, 90, 365}

var filters = []domain.Selection{
	domain.SelectionAll,
	domain.SelectionFlares,
	domain.SelectionCME,
	domain.SelectionStorms,
}

type tickMsg time.Time

// Model is the bubbletea model. Every frame renders from one controller
// snapshot, read fresh on each tick.
type Model struct {
	ctx       context.Context
	dash      Dashboard
	exportDir string
	interval  time.Duration

	filter  int // index into filters
	preview *domain.Preview
	notice  string
	width   int
}

// NewModel creates a terminal view over dash that writes exports to exportDir
// and redraws every interval.
func NewModel(ctx context.Context, dash Dashboard, exportDir string, interval time.Duration) Model {
	if interval <= 0 {
		interval = time.Second
	}
	return Model{ctx: ctx, dash: dash, exportDir: exportDir, interval: interval}
}

func (m Model) Init() tea.Cmd {
	return tick(m.interval)
}

func tick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tickMsg:
		return m, tick(m.interval)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		if m.dash.Refresh(m.ctx) {
			m.notice = "Refreshing..."
		} else {
			m.notice = "Refresh already in progress"
		}
	case "f", "tab":
		m.filter = (m.filter + 1) % len(filters)
		m.preview = nil
		m.notice = ""
	case "1", "2", "3", "4":
		m.filter = int(msg.String()[0] - '1')
		m.preview = nil
		m.notice = ""
	case "d":
		m.cycleDays()
	case "p":
		m.togglePreview()
	case "e":
		m.exportCurrent(domain.FormatCSV)
	case "E":
		m.exportCurrent(domain.FormatJSON)
	case "x":
		m.save(m.dash.ExportDashboard())
	case "esc":
		m.preview = nil
		m.notice = ""
	}
	return m, nil
}

func (m *Model) selection() domain.Selection {
	return filters[m.filter]
}

func (m *Model) cycleDays() {
	next := dayPresets[0]
	current := m.dash.Days()
	for i, d := range dayPresets {
		if d == current {
			next = dayPresets[(i+1)%len(dayPresets)]
			break
		}
	}
	if err := m.dash.SetDays(m.ctx, next); err != nil {
		m.notice = domain.Notice(err)
		return
	}
	m.notice = fmt.Sprintf("Loading past %d days...", next)
}

func (m *Model) togglePreview() {
	if m.preview != nil {
		m.preview = nil
		return
	}
	p, err := m.dash.Preview(m.selection())
	if err != nil {
		m.notice = domain.Notice(err)
		return
	}
	m.preview = &p
	m.notice = ""
}

// exportCurrent exports the selected category, or every normalized event
// when no category is selected.
func (m *Model) exportCurrent(f domain.Format) {
	if m.selection() == domain.SelectionAll {
		m.save(m.dash.ExportEvents(f))
		return
	}
	m.save(m.dash.Export(m.selection(), f))
}

func (m *Model) save(dl domain.Download, err error) {
	if err != nil {
		m.notice = domain.Notice(err)
		return
	}
	path := filepath.Join(m.exportDir, dl.Filename)
	if err := os.WriteFile(path, dl.Body, 0o644); err != nil { //nolint:gosec // exports are meant to be shared
		m.notice = fmt.Sprintf("Export failed: %v", err)
		return
	}
	m.notice = "Saved " + path
}
