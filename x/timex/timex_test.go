package timex

import (
	"testing"
	"time"
)

func TestPeriodFromHz(t *testing.T) {
	if PeriodFromHz(8000) != 125_000 {
		t.Fatalf("8 kHz -> %d ns", PeriodFromHz(8000))
	}
	if PeriodFromHz(0) != 1_000_000_000 {
		t.Fatal("zero frequency should be coerced to 1 Hz")
	}
}

func TestMicros(t *testing.T) {
	if Micros(125) != 125*time.Microsecond {
		t.Fatal("125us")
	}
	if Micros(0) != time.Microsecond {
		t.Fatal("zero should be coerced to 1us")
	}
}
