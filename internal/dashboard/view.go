package dashboard

import (
	"github.com/couchcryptid/sentinel-dashboard/internal/domain"
)

// Placeholder texts shown instead of data.
const (
	textLoading       = "Loading..."
	textRefreshing    = "Refreshing events..."
	textNoEventsYear  = "No events found in past year"
	textNoRecent      = "No recent events"
	textFailedToLoad  = "Failed to load"
	textFallbackData  = "Using fallback data"
	textSystemNormal  = "Normal"
	badgeConnected    = "NASA DONKI Connected"
	badgeDemoSuffix   = " (Demo Mode)"
	badgeUnknown      = "API Status Unknown"
	badgeFailed       = "API Connection Failed"
	apiStatusOnline   = "Connected"
	apiStatusDemoMode = "Demo Mode"
)

// View is the rendered dashboard for one snapshot.
type View struct {
	State      State            `json:"state"`
	Filter     domain.Selection `json:"filter"`
	Days       int              `json:"days"`
	Status     StatusCards      `json:"status"`
	Recent     RecentEvents     `json:"recent"`
	DataCards  []DataCard       `json:"data_cards"`
	Chart      domain.Chart     `json:"chart"`
	System     SystemBadge      `json:"system"`
	DataStatus string           `json:"data_status,omitempty"`
}

// StatusCards holds the "last event" card per category.
type StatusCards struct {
	LastFlare    string `json:"last_flare"`
	LastCME      string `json:"last_cme"`
	LastStorm    string `json:"last_storm"`
	SystemStatus string `json:"system_status"`
}

// RecentEvents is the newest-first event list. Placeholder is set when
// Events is empty.
type RecentEvents struct {
	Events      []EventCard `json:"events"`
	Placeholder string      `json:"placeholder,omitempty"`
}

// EventCard is one row of the recent-events list.
type EventCard struct {
	ID             string           `json:"id"`
	Category       domain.Category  `json:"category"`
	Label          string           `json:"label"`
	Icon           string           `json:"icon"`
	Classification string           `json:"classification"`
	Date           string           `json:"date"`
	Intensity      domain.Intensity `json:"intensity"`
}

// DataCard summarizes one category on the data page.
type DataCard struct {
	Category    domain.Category  `json:"category"`
	Selection   domain.Selection `json:"selection"`
	Label       string           `json:"label"`
	Icon        string           `json:"icon"`
	Count       int              `json:"count"`
	LastUpdated string           `json:"last_updated"`
}

// SystemBadge describes API connectivity. Level is one of online, demo,
// warning, error, or loading.
type SystemBadge struct {
	Badge      string `json:"badge"`
	Level      string `json:"level"`
	APIStatus  string `json:"api_status"`
	LastUpdate string `json:"last_update"`
}

// View renders the current snapshot. filter narrows the recent-events list
// and the chart; it is validated even when there is nothing to show.
func (c *Controller) View(filter domain.Selection) (View, error) {
	if filter == "" {
		filter = domain.SelectionAll
	}
	if filter != domain.SelectionAll {
		if _, err := domain.ParseSelection(string(filter)); err != nil {
			return View{}, err
		}
	}
	return BuildView(c.Snapshot(), filter), nil
}

// BuildView renders snap with a validated filter.
func BuildView(snap *Snapshot, filter domain.Selection) View {
	events, _ := domain.FilterCategory(snap.Events, filter)
	v := View{
		State:     snap.State,
		Filter:    filter,
		Days:      snap.Days,
		Status:    statusCards(snap),
		Recent:    recentEvents(snap, events),
		DataCards: dataCards(snap),
		Chart:     domain.BuildChart(events, snap.Days),
		System:    systemBadge(snap),
	}
	if snap.State == StateFailed {
		v.DataStatus = textFallbackData
	}
	return v
}

func statusCards(snap *Snapshot) StatusCards {
	if snap.Pending() {
		return StatusCards{LastFlare: textLoading, LastCME: textLoading, LastStorm: textLoading, SystemStatus: textLoading}
	}
	last := func(cat domain.Category) string {
		ev, ok := domain.Latest(snap.Events, cat)
		if !ok {
			return textNoEventsYear
		}
		return domain.FormatDate(ev.Date)
	}
	return StatusCards{
		LastFlare:    last(domain.CategoryFlare),
		LastCME:      last(domain.CategoryCME),
		LastStorm:    last(domain.CategoryStorm),
		SystemStatus: textSystemNormal,
	}
}

func recentEvents(snap *Snapshot, events []domain.DisplayEvent) RecentEvents {
	if snap.Pending() {
		return RecentEvents{Events: []EventCard{}, Placeholder: textRefreshing}
	}
	recent := domain.Recent(events)
	if len(recent) == 0 {
		return RecentEvents{Events: []EventCard{}, Placeholder: textNoRecent}
	}
	cards := make([]EventCard, 0, len(recent))
	for _, ev := range recent {
		cards = append(cards, EventCard{
			ID:             domain.EventID(ev),
			Category:       ev.Category,
			Label:          domain.Label(ev.Category),
			Icon:           domain.Icon(ev.Category),
			Classification: ev.Classification,
			Date:           domain.FormatDate(ev.Date),
			Intensity:      ev.Intensity,
		})
	}
	return RecentEvents{Events: cards}
}

func dataCards(snap *Snapshot) []DataCard {
	var updated string
	switch snap.State {
	case StateReady:
		updated = domain.FormatTime(snap.LoadedAt)
	case StateFailed:
		updated = textFailedToLoad
	default:
		updated = textLoading
	}
	cards := make([]DataCard, 0, len(domain.Categories))
	for _, cat := range domain.Categories {
		cards = append(cards, DataCard{
			Category:    cat,
			Selection:   domain.SelectionOf(cat),
			Label:       domain.Label(cat),
			Icon:        domain.Icon(cat),
			Count:       len(snap.Dataset.Of(cat)),
			LastUpdated: updated,
		})
	}
	return cards
}

func systemBadge(snap *Snapshot) SystemBadge {
	switch {
	case snap.Pending():
		return SystemBadge{Badge: textLoading, Level: "loading", APIStatus: textLoading, LastUpdate: textLoading}
	case snap.State == StateFailed:
		return SystemBadge{Badge: badgeFailed, Level: "error", APIStatus: badgeFailed, LastUpdate: textFailedToLoad}
	}

	st := snap.Status
	b := SystemBadge{
		APIStatus:  apiStatusDemoMode,
		LastUpdate: domain.FormatDate(st.Timestamp),
	}
	if st.APIKeyConfigured {
		b.APIStatus = apiStatusOnline
	}
	switch {
	case !st.Online():
		b.Badge, b.Level = badgeUnknown, "warning"
	case st.APIKeyConfigured:
		b.Badge, b.Level = badgeConnected, "online"
	default:
		b.Badge, b.Level = badgeConnected+badgeDemoSuffix, "demo"
	}
	return b
}
