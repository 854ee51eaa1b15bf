package indicator

import (
	"testing"

	"moodlamp-go/services/lamp/internal/state"
)

type recLED struct{ levels []uint8 }

func (r *recLED) SetBrightness(v uint8) { r.levels = append(r.levels, v) }

func TestIdleWithoutAck(t *testing.T) {
	led := &recLED{}
	b := New(state.New(), led)
	for i := 0; i < 10; i++ {
		b.Step()
	}
	if len(led.levels) != 0 || b.Active() {
		t.Fatal("indicator must stay idle without queued blinks")
	}
}

func TestSingleBreath(t *testing.T) {
	st := state.New()
	led := &recLED{}
	b := New(st, led)
	st.PushAck()

	steps := 0
	for {
		b.Step()
		steps++
		if !b.Active() {
			break
		}
		if steps > 1000 {
			t.Fatal("breath never ended")
		}
	}
	if st.AckPending() != 0 {
		t.Fatal("ack should be consumed")
	}
	// Phases 2..511 are shown, then the breath ends at 512.
	if len(led.levels) != 510 {
		t.Fatalf("levels = %d, want 510", len(led.levels))
	}
	if led.levels[0] != 2 {
		t.Fatalf("first level = %d, want 2", led.levels[0])
	}
	if led.levels[253] != 255 || led.levels[254] != 255 {
		t.Fatalf("peak = %d,%d, want 255,255", led.levels[253], led.levels[254])
	}
	if led.levels[len(led.levels)-1] != 0 {
		t.Fatalf("last level = %d, want 0", led.levels[len(led.levels)-1])
	}
	for i := 1; i < 254; i++ {
		if led.levels[i] <= led.levels[i-1] {
			t.Fatalf("rising half not increasing at %d", i)
		}
	}
}

func TestQueuedBlinksPlayInTurn(t *testing.T) {
	st := state.New()
	b := New(st, &recLED{})
	st.PushAck()
	st.PushAck()

	b.Step()
	if st.AckPending() != 1 {
		t.Fatalf("pending = %d, want 1 after first step", st.AckPending())
	}
	// The second queued blink re-arms on the next step.
	b.Step()
	if st.AckPending() != 0 || b.Phase() != 2 {
		t.Fatalf("pending=%d phase=%d", st.AckPending(), b.Phase())
	}
}
