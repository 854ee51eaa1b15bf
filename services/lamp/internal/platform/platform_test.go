//go:build !rp2040 && !rp2350

package platform

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"moodlamp-go/services/lamp/internal/platform/setups"
	"moodlamp-go/types"
)

func TestFakePinIRQOnPressOnly(t *testing.T) {
	for _, activeLow := range []bool{false, true} {
		p := NewFakePin(3, activeLow)
		var n int
		_ = p.SetIRQ(func() { n++ })

		if p.Pressed() {
			t.Fatalf("activeLow=%v: pin starts pressed", activeLow)
		}
		p.Press()
		p.Press() // no new edge
		p.Release()
		p.Press()
		if n != 2 {
			t.Fatalf("activeLow=%v: irq count=%d want 2", activeLow, n)
		}
		if p.Get() == activeLow {
			t.Fatalf("activeLow=%v: pressed level wrong", activeLow)
		}

		_ = p.ClearIRQ()
		p.Release()
		p.Press()
		if n != 2 {
			t.Fatalf("activeLow=%v: irq after ClearIRQ", activeLow)
		}
	}
}

func TestFakeADCNoOverlap(t *testing.T) {
	var done int
	a := NewFakeADC(func() { done++ })
	a.Manual = true
	a.Set(700)

	if !a.Start() {
		t.Fatal("first start refused")
	}
	if a.Start() {
		t.Fatal("overlapping start accepted")
	}
	if !a.Busy() || done != 0 {
		t.Fatal("conversion should be in flight")
	}
	a.Complete()
	if a.Busy() || done != 1 || a.Result() != 700 {
		t.Fatalf("busy=%v done=%d result=%d", a.Busy(), done, a.Result())
	}

	a.Set(5000)
	if a.Value() != 1023 {
		t.Fatalf("clamp: got %d", a.Value())
	}
}

func TestFakeADCAutoComplete(t *testing.T) {
	var done int
	a := NewFakeADC(func() { done++ })
	a.Set(42)
	if !a.Start() || a.Busy() || done != 1 || a.Result() != 42 {
		t.Fatalf("auto conversion: busy=%v done=%d result=%d", a.Busy(), done, a.Result())
	}
}

func TestRecordingStripFailNext(t *testing.T) {
	s := &RecordingStrip{}
	px := []types.RGBW{{R: 1}, {R: 1}, {R: 1}, {R: 1}, {R: 1}, {R: 1}}
	s.FailNext(1)
	if err := s.Transmit(px); err != ErrInjectedTx {
		t.Fatalf("want injected error, got %v", err)
	}
	if err := s.Transmit(px); err != nil {
		t.Fatal(err)
	}
	if s.Frames() != 1 || s.Last()[5].R != 1 {
		t.Fatalf("frames=%d last=%v", s.Frames(), s.Last())
	}
}

func TestTickerTimerBatches(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var n atomic.Int32
	tt := &TickerTimer{Min: 5 * time.Millisecond}
	tt.Start(ctx, 100*time.Microsecond, func() { n.Add(1) })

	time.Sleep(60 * time.Millisecond)
	cancel()
	// 60ms at 100µs is ~600; allow generous scheduler slack.
	if got := n.Load(); got < 200 {
		t.Fatalf("callbacks=%d, batching not applied", got)
	}
}

func TestOpenHost(t *testing.T) {
	res, err := Open(setups.Selected, types.DefaultLampConfig(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := res.Validate(); err != nil {
		t.Fatal(err)
	}
	if res.Button.Number() != setups.Selected.ButtonPin {
		t.Fatalf("button pin %d", res.Button.Number())
	}
}
