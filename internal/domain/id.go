package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// EventID produces a deterministic ID from an event's identifying fields.
// Republishing the same snapshot yields the same IDs, so consumers can
// deduplicate.
func EventID(ev DisplayEvent) string {
	input := fmt.Sprintf("%s|%s|%s|%s", ev.Category, ev.Date, ev.Classification, ev.PeakTime)
	if id, ok := ev.Raw.Record.String(donkiIDKey(ev.Category)); ok && id != "" {
		input += "|" + id
	}
	hash := sha256.Sum256([]byte(input))
	return string(SelectionOf(ev.Category)) + "-" + hex.EncodeToString(hash[:8])
}

// donkiIDKey is the DONKI identifier field of each feed.
func donkiIDKey(c Category) string {
	switch c {
	case CategoryFlare:
		return "flrID"
	case CategoryCME:
		return "activityID"
	case CategoryStorm:
		return "gstID"
	default:
		return "id"
	}
}
