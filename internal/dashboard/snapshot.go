package dashboard

import (
	"time"

	"github.com/couchcryptid/sentinel-dashboard/internal/domain"
)

// State is the controller lifecycle state.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// MarshalText lets State render by name in JSON.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Snapshot is everything one committed cycle produced. A Loading snapshot
// carries the previous cycle's data so exports keep working mid-refresh.
// A Failed snapshot always carries an empty Dataset.
type Snapshot struct {
	State    State
	Dataset  domain.Dataset
	Events   []domain.DisplayEvent // Aggregate(Dataset)
	Status   domain.SystemStatus
	Err      error
	Days     int
	Token    uint64
	LoadedAt time.Time
}

// Pending reports whether the snapshot predates the first committed cycle
// or belongs to one still loading.
func (s *Snapshot) Pending() bool {
	return s.State == StateIdle || s.State == StateLoading
}
