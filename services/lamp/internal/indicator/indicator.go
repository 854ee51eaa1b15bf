// Package indicator drives the status LED: one triangle-shaped breath per
// queued acknowledge blink, at the time base's breathing sub-clock rate.
package indicator

import (
	"moodlamp-go/services/lamp/internal/core"
	"moodlamp-go/services/lamp/internal/state"
	"moodlamp-go/x/mathx"
)

const breathLen = 512

type Breather struct {
	st    *state.Shared
	led   core.StatusLED
	phase uint16
}

func New(st *state.Shared, led core.StatusLED) *Breather {
	return &Breather{st: st, led: led}
}

// Active reports whether a breath is in progress.
func (b *Breather) Active() bool { return b.phase != 0 }

func (b *Breather) Phase() uint16 { return b.phase }

// Step advances the breath by one sub-clock step. A queued blink restarts
// the breath from the beginning.
func (b *Breather) Step() {
	if b.st.TakeAck() {
		b.phase = 1
	}
	if b.phase == 0 {
		return
	}
	b.phase++
	if b.phase < breathLen {
		b.led.SetBrightness(mathx.Triangle(b.phase))
		return
	}
	b.phase = 0
}
