package types

import (
	"testing"

	"moodlamp-go/errcode"
)

func TestModeNextWraps(t *testing.T) {
	m := ModeOff
	for i := 0; i < ModeCount; i++ {
		m = m.Next()
	}
	if m != ModeOff {
		t.Fatalf("eight advances should return to off, got %v", m)
	}
	if ModeTraversal.Next() != ModeOff {
		t.Fatal("7 -> 0")
	}
	if Mode(9).String() != "unknown" {
		t.Fatal("out-of-range name")
	}
	if ModeHueGradient.String() != "hue_gradient" {
		t.Fatal("name table out of order")
	}
}

func TestDefaultDebounceWallClock(t *testing.T) {
	c := DefaultLampConfig()
	if c.TickUs() != 375 {
		t.Fatalf("tick=%dus", c.TickUs())
	}
	if c.DebounceWindow != 20 || c.DebounceUs() != 7500 {
		t.Fatalf("window=%d samples, %dus", c.DebounceWindow, c.DebounceUs())
	}
	// Settles switch bounce (single-digit ms) without a blocking stall.
	if c.DebounceUs() < 5000 || c.DebounceUs() > 20000 {
		t.Fatalf("debounce window %dus outside bounce-settle range", c.DebounceUs())
	}
}

func TestLampConfigValidate(t *testing.T) {
	if err := DefaultLampConfig().Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}

	c := DefaultLampConfig()
	c.TimerStep = 16
	if errcode.Of(c.Validate()) != errcode.InvalidConfig {
		t.Fatal("timer_step 16 should be rejected")
	}

	c = DefaultLampConfig()
	c.GradientTickDivisor = 0
	if err := c.Validate(); err == nil {
		t.Fatal("zero divisor should be rejected")
	}

	c = DefaultLampConfig()
	c.DebounceWindow = 0
	if err := c.Validate(); err == nil {
		t.Fatal("zero debounce window should be rejected")
	}
}
