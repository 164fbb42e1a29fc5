package domain

import (
	"encoding/json"
	"time"
)

// Category discriminates the three space-weather event families.
type Category string

const (
	CategoryFlare Category = "FLR"
	CategoryCME   Category = "CME"
	CategoryStorm Category = "GST"
)

// Categories lists the known categories in dataset order.
var Categories = []Category{CategoryFlare, CategoryCME, CategoryStorm}

// Known reports whether c is one of the three supported categories.
func (c Category) Known() bool {
	switch c {
	case CategoryFlare, CategoryCME, CategoryStorm:
		return true
	default:
		return false
	}
}

// RawEvent is one category record as received from the API. String fields
// are empty and number fields are nil when the key is absent or carries a
// value of the wrong JSON type. Record keeps the original object.
type RawEvent struct {
	Category Category

	EventTime string

	// Flare fields (DONKI FLR).
	BeginTime string
	PeakTime  string
	EndTime   string
	ClassType string

	// CME and storm fields (DONKI CME, GST).
	StartTime string
	Speed     *float64
	HalfAngle *float64
	Type      string
	KpIndex   *float64

	SourceLocation string
	LinkedEvents   int

	Record Record
}

// NewRawEvent extracts the typed fields of category c from rec. Fields the
// category does not define stay zero.
func NewRawEvent(c Category, rec Record) RawEvent {
	ev := RawEvent{Category: c, Record: rec}
	ev.EventTime = stringField(rec, "eventTime")
	ev.BeginTime = stringField(rec, "beginTime")
	ev.StartTime = stringField(rec, "startTime")

	switch c {
	case CategoryFlare:
		ev.PeakTime = stringField(rec, "peakTime")
		ev.EndTime = stringField(rec, "endTime")
		ev.ClassType = stringField(rec, "classType")
		ev.SourceLocation = stringField(rec, "sourceLocation")
	case CategoryCME:
		ev.Speed = numberField(rec, "speed")
		ev.HalfAngle = numberField(rec, "halfAngle")
		ev.SourceLocation = stringField(rec, "sourceLocation")
		ev.Type = stringField(rec, "type")
	case CategoryStorm:
		ev.EndTime = stringField(rec, "endTime")
		ev.KpIndex = numberField(rec, "kpIndex")
		ev.Type = stringField(rec, "type")
		ev.LinkedEvents, _ = rec.ArrayLen("linkedEvents")
	default:
		ev.PeakTime = stringField(rec, "peakTime")
		ev.EndTime = stringField(rec, "endTime")
	}
	return ev
}

// MarshalJSON emits the original record so exports stay faithful to the API.
func (e RawEvent) MarshalJSON() ([]byte, error) {
	return e.Record.MarshalJSON()
}

func stringField(rec Record, key string) string {
	s, _ := rec.String(key)
	return s
}

func numberField(rec Record, key string) *float64 {
	if f, ok := rec.Number(key); ok {
		return &f
	}
	return nil
}

// Dataset is the unit of loaded data. It is replaced wholesale, never
// modified after construction.
type Dataset struct {
	Flares []RawEvent
	CMEs   []RawEvent
	Storms []RawEvent
}

// Of returns the records of category c.
func (d Dataset) Of(c Category) []RawEvent {
	switch c {
	case CategoryFlare:
		return d.Flares
	case CategoryCME:
		return d.CMEs
	case CategoryStorm:
		return d.Storms
	default:
		return nil
	}
}

// Len is the total record count across categories.
func (d Dataset) Len() int {
	return len(d.Flares) + len(d.CMEs) + len(d.Storms)
}

// Empty reports whether no category holds any record.
func (d Dataset) Empty() bool { return d.Len() == 0 }

// MarshalJSON uses the API's response shape.
func (d Dataset) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Flares []RawEvent `json:"solar_flares"`
		CMEs   []RawEvent `json:"cme_events"`
		Storms []RawEvent `json:"geomagnetic_storms"`
	}{nonNil(d.Flares), nonNil(d.CMEs), nonNil(d.Storms)})
}

func nonNil(evs []RawEvent) []RawEvent {
	if evs == nil {
		return []RawEvent{}
	}
	return evs
}

// SystemStatus mirrors the API's /api/status response.
type SystemStatus struct {
	Status            string `json:"status"`
	APIKeyConfigured  bool   `json:"api_key_configured"`
	SkyfieldAvailable bool   `json:"skyfield_available"`
	Timestamp         string `json:"timestamp"`
}

// Online reports whether the API declared itself online.
func (s SystemStatus) Online() bool { return s.Status == "online" }

// Intensity is the coarse severity label derived per category.
type Intensity string

const (
	IntensityUnknown Intensity = "Unknown"
	IntensityHigh    Intensity = "High"
	IntensityMedium  Intensity = "Medium"
	IntensityLow     Intensity = "Low"
	IntensitySevere  Intensity = "Severe"
	IntensityStrong  Intensity = "Strong"
	IntensityMinor   Intensity = "Minor"
)

// DisplayEvent is a category-normalized record used for rendering, sorting,
// and export.
type DisplayEvent struct {
	Category       Category
	Date           string // best-available primary timestamp, empty when absent
	Classification string
	PeakTime       string
	SourceLocation string
	Intensity      Intensity
	Raw            RawEvent
}

// Time parses Date. ok is false when Date is absent or unparseable.
func (e DisplayEvent) Time() (time.Time, bool) {
	return ParseTime(e.Date)
}

// MarshalJSON writes date as null when absent and embeds the raw record.
func (e DisplayEvent) MarshalJSON() ([]byte, error) {
	var date *string
	if e.Date != "" {
		date = &e.Date
	}
	return json.Marshal(struct {
		Category       Category  `json:"category"`
		Type           string    `json:"type"`
		Date           *string   `json:"date"`
		Classification string    `json:"classification"`
		PeakTime       string    `json:"peakTime"`
		SourceLocation string    `json:"sourceLocation"`
		Intensity      Intensity `json:"intensity"`
		Raw            RawEvent  `json:"raw"`
	}{e.Category, Label(e.Category), date, e.Classification, e.PeakTime, e.SourceLocation, e.Intensity, e.Raw})
}
