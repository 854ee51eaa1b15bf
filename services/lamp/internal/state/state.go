// Package state holds the values shared between interrupt handlers:
// the Tick counter, the current Mode and the pending acknowledge blinks.
package state

import (
	"sync/atomic"

	"moodlamp-go/types"
)

type Shared struct {
	tick atomic.Uint32
	mode atomic.Uint32
	ack  atomic.Uint32
}

func New() *Shared { return &Shared{} }

// Tick returns the current tick.
func (s *Shared) Tick() uint32 { return s.tick.Load() }

// AdvanceTick increments Tick, wrapping from MaxUint32 to 0, and returns it.
func (s *Shared) AdvanceTick() uint32 { return s.tick.Add(1) }

// SetTick is for tests and simulators that need to start near the wrap.
func (s *Shared) SetTick(v uint32) { s.tick.Store(v) }

func (s *Shared) Mode() types.Mode { return types.Mode(s.mode.Load()) }

// AdvanceMode moves to the next mode (7 wraps to 0) and returns it.
func (s *Shared) AdvanceMode() types.Mode {
	for {
		old := s.mode.Load()
		next := uint32(types.Mode(old).Next())
		if s.mode.CompareAndSwap(old, next) {
			return types.Mode(next)
		}
	}
}

// SetMode stores m if it is in range and reports whether it did.
func (s *Shared) SetMode(m types.Mode) bool {
	if m >= types.ModeCount {
		return false
	}
	s.mode.Store(uint32(m))
	return true
}

// AckPending returns the number of queued acknowledge blinks.
func (s *Shared) AckPending() uint8 { return uint8(s.ack.Load()) }

// PushAck queues one acknowledge blink, saturating at 255.
func (s *Shared) PushAck() {
	for {
		old := s.ack.Load()
		if old >= 0xFF {
			return
		}
		if s.ack.CompareAndSwap(old, old+1) {
			return
		}
	}
}

// TakeAck consumes one acknowledge blink if any is queued.
func (s *Shared) TakeAck() bool {
	for {
		old := s.ack.Load()
		if old == 0 {
			return false
		}
		if s.ack.CompareAndSwap(old, old-1) {
			return true
		}
	}
}
