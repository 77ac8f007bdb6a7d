package toggler

import "time"

// EventType defines the type of Toggler event.
type EventType string

const (
	EventStarted EventType = "started"
	EventToggle  EventType = "toggle"
	EventStopped EventType = "stopped"
	EventFailed  EventType = "failed"
)

// Event represents a Toggler update for observers.
type Event struct {
	Type   EventType
	State  bool
	Toggle uint64
	// Next is the wait before the following toggle. Set on EventToggle only.
	Next time.Duration
	Err  error
	At   time.Time
}
