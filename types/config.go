package types

import "moodlamp-go/errcode"

// Lamp configuration supplied on topic "config/lamp".

type LampConfig struct {
	// TimerPeriodUs is the period of the hardware timer interrupt.
	TimerPeriodUs uint32 `json:"timer_period_us" toml:"timer_period_us"`
	// TimerStep is the number of timer interrupts per Tick (1..15).
	TimerStep uint8 `json:"timer_step" toml:"timer_step"`
	// BreathingRateStep is the number of timer interrupts per indicator step (1..15).
	BreathingRateStep uint8 `json:"breathing_rate_step" toml:"breathing_rate_step"`
	// RefreshPeriod is the number of Ticks between conversion triggers.
	RefreshPeriod uint32 `json:"refresh_period" toml:"refresh_period"`

	GradientTickDivisor  uint32 `json:"gradient_tick_divisor" toml:"gradient_tick_divisor"`
	GradientInterval     uint16 `json:"gradient_interval" toml:"gradient_interval"`
	TraversalTickDivisor uint32 `json:"traversal_tick_divisor" toml:"traversal_tick_divisor"`

	// DebounceWindow is the number of one-Tick samples a press must hold.
	DebounceWindow uint8 `json:"debounce_window" toml:"debounce_window"`
	// ButtonActiveLow inverts the button line (pressed == low).
	ButtonActiveLow bool `json:"button_active_low" toml:"button_active_low"`
}

func DefaultLampConfig() LampConfig {
	return LampConfig{
		TimerPeriodUs:        125,
		TimerStep:            3,
		BreathingRateStep:    2,
		RefreshPeriod:        10,
		GradientTickDivisor:  10,
		GradientInterval:     100,
		TraversalTickDivisor: 10,
		DebounceWindow:       20,
	}
}

// TickUs is the wall-clock length of one Tick.
func (c LampConfig) TickUs() uint32 { return c.TimerPeriodUs * uint32(c.TimerStep) }

// DebounceUs is the wall-clock length of the debounce window. One sample is
// taken per Tick, so with the defaults the window is 7.5 ms.
func (c LampConfig) DebounceUs() uint32 { return c.TickUs() * uint32(c.DebounceWindow) }

func (c LampConfig) Validate() error {
	bad := func(msg string) error {
		return &errcode.E{C: errcode.InvalidConfig, Op: "lamp_config", Msg: msg}
	}
	switch {
	case c.TimerPeriodUs == 0:
		return bad("timer_period_us must be > 0")
	case c.TimerStep == 0 || c.TimerStep > 15:
		return bad("timer_step must be 1..15")
	case c.BreathingRateStep == 0 || c.BreathingRateStep > 15:
		return bad("breathing_rate_step must be 1..15")
	case c.RefreshPeriod == 0:
		return bad("refresh_period must be > 0")
	case c.GradientTickDivisor == 0:
		return bad("gradient_tick_divisor must be > 0")
	case c.TraversalTickDivisor == 0:
		return bad("traversal_tick_divisor must be > 0")
	case c.DebounceWindow == 0:
		return bad("debounce_window must be > 0")
	}
	return nil
}

// Heartbeat configuration supplied on topic "config/heartbeat".

type HeartbeatConfig struct {
	// Interval between heartbeat lines, in seconds.
	Interval uint32 `json:"interval" toml:"interval"`
}
