// Package timebase divides the raw timer interrupt into the lamp's clocks:
// the indicator sub-clock, the Tick counter, and the conversion trigger.
package timebase

import "moodlamp-go/services/lamp/internal/state"

// Fired reports which derived clocks fired on one timer interrupt.
type Fired uint8

const (
	Breath  Fired = 1 << iota // indicator sub-clock
	Tick                      // Tick advanced
	Refresh                   // a conversion should start
)

func (f Fired) Has(x Fired) bool { return f&x != 0 }

type Config struct {
	TimerStep         uint8  // timer interrupts per Tick
	BreathingRateStep uint8  // timer interrupts per indicator step
	RefreshPeriod     uint32 // Ticks per conversion
}

type TimeBase struct {
	cfg  Config
	st   *state.Shared
	sub  uint8
	wrap uint8
}

func New(cfg Config, st *state.Shared) *TimeBase {
	if cfg.TimerStep == 0 {
		cfg.TimerStep = 1
	}
	if cfg.BreathingRateStep == 0 {
		cfg.BreathingRateStep = 1
	}
	if cfg.RefreshPeriod == 0 {
		cfg.RefreshPeriod = 1
	}
	return &TimeBase{cfg: cfg, st: st, wrap: cfg.TimerStep * 8}
}

// Step is called once per timer interrupt.
func (tb *TimeBase) Step() Fired {
	tb.sub++
	if tb.sub >= tb.wrap {
		tb.sub = 0
	}

	var f Fired
	if tb.sub%tb.cfg.BreathingRateStep == 0 {
		f |= Breath
	}
	if tb.sub%tb.cfg.TimerStep == 0 {
		f |= Tick
		if tb.st.AdvanceTick()%tb.cfg.RefreshPeriod == 0 {
			f |= Refresh
		}
	}
	return f
}

// Sub returns the current sub-tick, 0..8*TimerStep-1.
func (tb *TimeBase) Sub() uint8 { return tb.sub }
