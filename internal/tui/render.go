package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/couchcryptid/sentinel-dashboard/internal/dashboard"
	"github.com/couchcryptid/sentinel-dashboard/internal/domain"
)

const sparkBlocks = "▁▂▃▄▅▆▇█"

// glyphs replace the web icon classes in the terminal.
var glyphs = map[domain.Category]string{
	domain.CategoryFlare: "☀",
	domain.CategoryCME:   "≋",
	domain.CategoryStorm: "⚡",
}

var filterLabels = map[domain.Selection]string{
	domain.SelectionAll:    "All Events",
	domain.SelectionFlares: "Solar Flares",
	domain.SelectionCME:    "CMEs",
	domain.SelectionStorms: "Geomagnetic Storms",
}

func (m Model) View() string {
	v, err := m.dash.View(m.selection())
	if err != nil {
		return critStyle.Render(domain.Notice(err)) + "\n"
	}

	var b strings.Builder
	b.WriteString(renderHeader(v))
	b.WriteString("\n")
	b.WriteString(renderStatusCards(v.Status))
	b.WriteString("\n")

	if m.preview != nil {
		b.WriteString(renderPreview(*m.preview))
	} else {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			renderRecent(v),
			" ",
			renderChart(v.Chart),
		))
	}
	b.WriteString("\n")
	b.WriteString(renderDataCards(v.DataCards, v.DataStatus))
	b.WriteString("\n")

	if m.notice != "" {
		b.WriteString(warnStyle.Render(m.notice))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("r refresh  f/1-4 filter  d days  p preview  e csv  E json  x dashboard  q quit"))
	b.WriteString("\n")

	if m.width > 0 {
		return lipgloss.NewStyle().MaxWidth(m.width).Render(b.String())
	}
	return b.String()
}

func renderHeader(v dashboard.View) string {
	title := titleStyle.Render("SENTINEL Space Weather")
	badge := badgeStyle(v.System.Level).Render("● " + v.System.Badge)
	meta := labelStyle.Render(fmt.Sprintf("past %d days · %s · updated %s",
		v.Days, filterLabels[v.Filter], v.System.LastUpdate))
	return lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", badge, "  ", meta)
}

func renderStatusCards(s dashboard.StatusCards) string {
	card := func(label, value string) string {
		return panelStyle.Render(labelStyle.Render(label) + "\n" + valueStyle.Render(value))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		card("Last Solar Flare", s.LastFlare),
		card("Last CME", s.LastCME),
		card("Last Geomagnetic Storm", s.LastStorm),
		card("System Status", s.SystemStatus),
	)
}

func renderRecent(v dashboard.View) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Recent Events"))
	if v.Recent.Placeholder != "" {
		b.WriteString("\n" + labelStyle.Render(v.Recent.Placeholder))
		return panelStyle.Render(b.String())
	}
	for _, ev := range v.Recent.Events {
		fmt.Fprintf(&b, "\n%s %-18s %s  %s",
			glyphs[ev.Category],
			ev.Label,
			intensityStyle(string(ev.Intensity)).Render(fmt.Sprintf("%-12s", ev.Classification)),
			labelStyle.Render(ev.Date),
		)
	}
	return panelStyle.Render(b.String())
}

func renderChart(ch domain.Chart) string {
	if len(ch.Labels) == 0 {
		return ""
	}
	row := func(label string, series []int) string {
		return fmt.Sprintf("%-7s %s %s", label, sparkline(series), labelStyle.Render(fmt.Sprint(sum(series))))
	}
	lines := []string{
		headerStyle.Render("Activity"),
		labelStyle.Render(ch.Labels[0] + " .. " + ch.Labels[len(ch.Labels)-1]),
		row("Flares", ch.Flares),
		row("CMEs", ch.CMEs),
		row("Storms", ch.Storms),
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

// sparkline scales series against its own maximum. Zero days render as a
// blank so quiet stretches stand out.
func sparkline(series []int) string {
	peak := 0
	for _, n := range series {
		peak = max(peak, n)
	}
	blocks := []rune(sparkBlocks)
	var b strings.Builder
	for _, n := range series {
		if n == 0 || peak == 0 {
			b.WriteRune(' ')
			continue
		}
		b.WriteRune(blocks[(n*(len(blocks)-1))/peak])
	}
	return b.String()
}

func sum(series []int) int {
	total := 0
	for _, n := range series {
		total += n
	}
	return total
}

func renderPreview(p domain.Preview) string {
	widths := make([]int, len(p.Headers))
	for i, h := range p.Headers {
		widths[i] = len(h)
	}
	for _, row := range p.Rows {
		for i, cell := range row {
			widths[i] = max(widths[i], len(cell))
		}
	}
	line := func(cells []string) string {
		parts := make([]string, len(cells))
		for i, c := range cells {
			parts[i] = fmt.Sprintf("%-*s", widths[i], c)
		}
		return strings.Join(parts, "  ")
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(p.Title))
	b.WriteString("  " + labelStyle.Render(p.CountLabel))
	if p.DateRange != "" {
		b.WriteString("  " + labelStyle.Render(p.DateRange))
	}
	b.WriteString("\n" + titleStyle.Render(line(p.Headers)))
	for _, row := range p.Rows {
		b.WriteString("\n" + valueStyle.Render(line(row)))
	}
	if p.Truncated {
		b.WriteString("\n" + labelStyle.Render(p.Note))
	}
	return panelStyle.Render(b.String())
}

func renderDataCards(cards []dashboard.DataCard, status string) string {
	parts := make([]string, 0, len(cards))
	for _, c := range cards {
		parts = append(parts, panelStyle.Render(fmt.Sprintf("%s %s\n%s\n%s",
			glyphs[c.Category],
			labelStyle.Render(c.Label),
			valueStyle.Render(fmt.Sprintf("%d records", c.Count)),
			labelStyle.Render(c.LastUpdated),
		)))
	}
	out := lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	if status != "" {
		out += "\n" + warnStyle.Render(status)
	}
	return out
}
