// Package debounce confirms button presses without blocking: an edge arms a
// window of one-sample-per-Tick reads, and only a window that reads pressed
// on every sample counts as a press.
package debounce

import "moodlamp-go/services/lamp/internal/state"

type Phase uint8

const (
	Idle Phase = iota
	Confirming
)

func (p Phase) String() string {
	if p == Confirming {
		return "confirming"
	}
	return "idle"
}

// Result describes a finished window.
type Result struct {
	Confirmed bool
	Pressed   uint8 // samples read as pressed
	Window    uint8
}

type FSM struct {
	st        *state.Shared
	window    uint8
	activeLow bool

	phase     Phase
	remaining uint8
	pressed   uint8
}

func New(st *state.Shared, window uint8, activeLow bool) *FSM {
	if window == 0 {
		window = 1
	}
	return &FSM{st: st, window: window, activeLow: activeLow}
}

func (f *FSM) Phase() Phase { return f.phase }

// Edge handles a press edge. Edges during a window are ignored; it reports
// whether a new window was armed.
func (f *FSM) Edge() bool {
	if f.phase == Confirming {
		return false
	}
	f.phase = Confirming
	f.remaining = f.window
	f.pressed = 0
	return true
}

// Sample feeds one raw pin level, taken once per Tick. When the window
// closes it returns the result and true; a confirmed press advances the
// mode and queues one acknowledge blink.
func (f *FSM) Sample(level bool) (Result, bool) {
	if f.phase != Confirming {
		return Result{}, false
	}
	if level != f.activeLow {
		f.pressed++
	}
	f.remaining--
	if f.remaining > 0 {
		return Result{}, false
	}

	r := Result{Confirmed: f.pressed == f.window, Pressed: f.pressed, Window: f.window}
	f.phase = Idle
	if r.Confirmed {
		f.st.AdvanceMode()
		f.st.PushAck()
	}
	return r, true
}
