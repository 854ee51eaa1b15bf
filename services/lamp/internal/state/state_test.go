package state

import (
	"math"
	"sync"
	"testing"

	"moodlamp-go/types"
)

func TestTickWraps(t *testing.T) {
	s := New()
	s.SetTick(math.MaxUint32)
	if got := s.AdvanceTick(); got != 0 {
		t.Fatalf("tick after MaxUint32 = %d, want 0", got)
	}
	if got := s.AdvanceTick(); got != 1 {
		t.Fatalf("tick = %d, want 1", got)
	}
}

func TestModeWrapsFromSeven(t *testing.T) {
	s := New()
	if !s.SetMode(types.ModeTraversal) {
		t.Fatal("SetMode(7) rejected")
	}
	if got := s.AdvanceMode(); got != types.ModeOff {
		t.Fatalf("7 -> %d, want 0", got)
	}
	if s.SetMode(8) {
		t.Fatal("SetMode(8) must be rejected")
	}
	if s.Mode() != types.ModeOff {
		t.Fatal("rejected SetMode must not change mode")
	}
}

func TestAckSaturates(t *testing.T) {
	s := New()
	for i := 0; i < 300; i++ {
		s.PushAck()
	}
	if s.AckPending() != 255 {
		t.Fatalf("ack = %d, want 255", s.AckPending())
	}
	n := 0
	for s.TakeAck() {
		n++
	}
	if n != 255 {
		t.Fatalf("took %d acks, want 255", n)
	}
	if s.TakeAck() {
		t.Fatal("TakeAck on empty counter")
	}
}

func TestConcurrentModeAdvance(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s.AdvanceMode()
			}
		}()
	}
	wg.Wait()
	// 400 advances is a multiple of 8.
	if s.Mode() != types.ModeOff {
		t.Fatalf("mode = %d after 400 advances", s.Mode())
	}
}
