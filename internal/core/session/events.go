package session

import (
	"fmt"
	"time"

	"pomowave/internal/core/model"
)

// State represents the countdown phase.
type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
	StateExpired State = "expired"
)

// EventType defines the type of controller event.
type EventType string

const (
	EventStateChange EventType = "state_change"
	EventTick        EventType = "tick"
	EventCompleted   EventType = "completed"
	EventSettings    EventType = "settings"
)

// Snapshot is a copy of the session state safe to hand to renderers.
type Snapshot struct {
	Mode         model.Mode
	Remaining    int
	Running      bool
	Completed    int
	Durations    model.DurationConfig
	Sound        string
	SettingsOpen bool
}

// State reports the state machine phase of the snapshot. Snapshots are
// always taken after the completion reload, so StateExpired only appears
// on EventCompleted events.
func (snapshot Snapshot) State() State {
	if snapshot.Running {
		return StateRunning
	}
	return StateIdle
}

// Clock returns the remaining time as MM:SS.
func (snapshot Snapshot) Clock() string {
	return FormatClock(snapshot.Remaining)
}

// Event represents a controller update for observers.
type Event struct {
	Type     EventType
	State    State
	Snapshot Snapshot
	Message  string
	At       time.Time
}

// FormatClock renders seconds as zero padded minutes and seconds.
// Minutes are not wrapped into hours.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
