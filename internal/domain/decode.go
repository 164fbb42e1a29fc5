package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DecodeDataset validates and decodes an /api/events body. A body that is
// not a JSON object, or a category value that is neither an array nor null,
// is an ErrMalformedResponse. Array elements that are not objects are kept
// as empty records so they normalize to the "Unknown" defaults.
func DecodeDataset(body []byte) (Dataset, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil || top == nil {
		return Dataset{}, fmt.Errorf("%w: events body is not a JSON object", ErrMalformedResponse)
	}

	var (
		d   Dataset
		err error
	)
	if d.Flares, err = decodeCategory(top["solar_flares"], CategoryFlare); err != nil {
		return Dataset{}, err
	}
	if d.CMEs, err = decodeCategory(top["cme_events"], CategoryCME); err != nil {
		return Dataset{}, err
	}
	if d.Storms, err = decodeCategory(top["geomagnetic_storms"], CategoryStorm); err != nil {
		return Dataset{}, err
	}
	return d, nil
}

func decodeCategory(raw json.RawMessage, c Category) ([]RawEvent, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []RawEvent{}, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: %s is not an array", ErrMalformedResponse, Label(c))
	}
	events := make([]RawEvent, 0, len(items))
	for _, item := range items {
		var rec Record
		if err := json.Unmarshal(item, &rec); err != nil {
			rec = Record{}
		}
		events = append(events, NewRawEvent(c, rec))
	}
	return events, nil
}

// DecodeStatus decodes an /api/status body.
func DecodeStatus(body []byte) (SystemStatus, error) {
	var st SystemStatus
	if err := json.Unmarshal(body, &st); err != nil {
		return SystemStatus{}, fmt.Errorf("%w: status: %v", ErrMalformedResponse, err)
	}
	return st, nil
}
