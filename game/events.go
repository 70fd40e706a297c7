package game

import "github.com/plus3/blockfall/piece"

// EventType identifies a lifecycle event of the controller.
type EventType uint8

const (
	// EventSpawned fires after a new active piece has been placed.
	EventSpawned EventType = iota
	// EventLocked fires after the active piece was merged into the board.
	EventLocked
	// EventCleared fires after full rows were removed.
	EventCleared
	// EventReset fires when a spawn could not be placed and the board is
	// about to be wiped.
	EventReset
)

func (t EventType) String() string {
	switch t {
	case EventSpawned:
		return "spawned"
	case EventLocked:
		return "locked"
	case EventCleared:
		return "cleared"
	case EventReset:
		return "reset"
	}
	return "unknown"
}

// Event describes something that happened to the board or active piece.
// Rows is only set for EventCleared.
type Event struct {
	Type EventType
	Kind piece.Kind
	Rows []int
}

// Listener receives controller events synchronously, on the goroutine
// that issued the command.
type Listener interface {
	OnEvent(Event)
}

// ListenerFunc adapts a plain function to Listener.
type ListenerFunc func(Event)

func (f ListenerFunc) OnEvent(ev Event) {
	f(ev)
}
