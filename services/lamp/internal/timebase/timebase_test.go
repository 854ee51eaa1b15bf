package timebase

import (
	"math"
	"testing"

	"moodlamp-go/services/lamp/internal/state"
)

func defaultCfg() Config {
	return Config{TimerStep: 3, BreathingRateStep: 2, RefreshPeriod: 10}
}

func TestSubTickRange(t *testing.T) {
	tb := New(defaultCfg(), state.New())
	seen := map[uint8]bool{}
	for i := 0; i < 24*4; i++ {
		tb.Step()
		if tb.Sub() > 23 {
			t.Fatalf("sub-tick %d out of range", tb.Sub())
		}
		seen[tb.Sub()] = true
	}
	if len(seen) != 24 {
		t.Fatalf("expected 24 distinct sub-ticks, saw %d", len(seen))
	}
}

func TestCadence(t *testing.T) {
	st := state.New()
	tb := New(defaultCfg(), st)

	var breaths, ticks, refreshes int
	// 24 interrupts per sub-tick cycle, 10 cycles.
	for i := 0; i < 240; i++ {
		f := tb.Step()
		if f.Has(Breath) {
			breaths++
		}
		if f.Has(Tick) {
			ticks++
		}
		if f.Has(Refresh) {
			refreshes++
			if !f.Has(Tick) {
				t.Fatal("refresh without tick")
			}
			if st.Tick()%10 != 0 {
				t.Fatalf("refresh at tick %d", st.Tick())
			}
		}
	}
	if breaths != 120 {
		t.Fatalf("breaths = %d, want 120", breaths)
	}
	if ticks != 80 {
		t.Fatalf("ticks = %d, want 80", ticks)
	}
	if st.Tick() != 80 {
		t.Fatalf("tick = %d, want 80", st.Tick())
	}
	if refreshes != 8 {
		t.Fatalf("refreshes = %d, want 8", refreshes)
	}
}

func TestTickWrapRefresh(t *testing.T) {
	st := state.New()
	st.SetTick(math.MaxUint32)
	tb := New(Config{TimerStep: 1, BreathingRateStep: 1, RefreshPeriod: 10}, st)

	f := tb.Step()
	if st.Tick() != 0 {
		t.Fatalf("tick = %d, want 0 after wrap", st.Tick())
	}
	// 0 % 10 == 0: the wrap itself triggers a conversion.
	if !f.Has(Refresh) {
		t.Fatal("expected refresh on wrap to 0")
	}
}

func TestZeroConfigCoerced(t *testing.T) {
	tb := New(Config{}, state.New())
	f := tb.Step()
	if !f.Has(Tick) || !f.Has(Breath) || !f.Has(Refresh) {
		t.Fatalf("zero config should fire every clock, got %b", f)
	}
}
