package engine

import (
	"moodlamp-go/errcode"
	"moodlamp-go/types"
)

type EventKind uint8

const (
	EventMode   EventKind = iota // the dispatched mode changed
	EventButton                  // a debounce window closed
	EventStatus                  // output link changed (up/degraded)
)

// Event is engine telemetry. It is produced on the loop goroutine and must
// be handed off without blocking.
type Event struct {
	Kind   EventKind
	Mode   types.Mode
	Button types.ButtonEvent
	Link   types.Link
	Err    errcode.Code
	TSms   int64
}

// Emitter receives engine events. Emit must be non-blocking; false means
// the event was dropped under pressure.
type Emitter interface {
	Emit(ev Event) bool
}

type discard struct{}

func (discard) Emit(Event) bool { return true }
