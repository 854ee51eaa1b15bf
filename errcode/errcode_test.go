package errcode

import (
	"errors"
	"testing"
)

func TestOf(t *testing.T) {
	if got := Of(nil); got != OK {
		t.Fatalf("Of(nil) = %q, want ok", got)
	}
	if got := Of(Busy); got != Busy {
		t.Fatalf("Of(Busy) = %q", got)
	}
	e := &E{C: InvalidConfig, Op: "validate", Msg: "timer_step out of range"}
	if got := Of(e); got != InvalidConfig {
		t.Fatalf("Of(*E) = %q", got)
	}
	if got := Of(errors.New("boom")); got != Error {
		t.Fatalf("Of(plain) = %q, want error", got)
	}
}

func TestEError(t *testing.T) {
	cause := errors.New("pin stuck")
	e := &E{C: TransmitFailed, Op: "strip", Msg: "write", Err: cause}
	if e.Error() != "strip: transmit_failed: write" {
		t.Fatalf("unexpected message %q", e.Error())
	}
	if !errors.Is(e, cause) {
		t.Fatal("expected Unwrap to expose cause")
	}
	if MapDriverErr(e) != TransmitFailed {
		t.Fatalf("MapDriverErr kept wrong code: %q", MapDriverErr(e))
	}
	if MapDriverErr(cause) != Error {
		t.Fatal("plain driver error should map to generic error")
	}
}
