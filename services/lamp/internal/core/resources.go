package core

import (
	"context"
	"errors"
	"time"

	"moodlamp-go/types"
)

// StripLen is the number of pixels on the strip.
const StripLen = 6

// ---- Analog input ----

// ADC is a single-channel converter with an interrupt on completion.
// Start must not block; completion is signalled through the callback the
// provider was opened with.
type ADC interface {
	// Start begins a conversion and reports false if one is already running.
	Start() bool
	// Result returns the last completed conversion, 0..1023.
	Result() uint16
	// Busy reports whether a conversion is in flight.
	Busy() bool
}

// ---- GPIO ----

type Pull uint8

const (
	PullNone Pull = iota
	PullUp
	PullDown
)

// ButtonPin is the button input with a rising-edge interrupt.
type ButtonPin interface {
	Number() int
	Get() bool
	// SetIRQ installs an ISR-context handler for rising edges.
	SetIRQ(handler func()) error
	ClearIRQ() error
}

// ---- Outputs ----

// Strip transmits a full frame to the single-wire RGBW strip.
type Strip interface {
	Transmit(px []types.RGBW) error
}

// StatusLED is the PWM-driven indicator LED.
type StatusLED interface {
	SetBrightness(level uint8)
}

// ---- Time source ----

// Ticker calls fn once per period from interrupt-like context until ctx ends.
type Ticker interface {
	Start(ctx context.Context, period time.Duration, fn func())
}

// ---- Bundle handed to the engine ----

type Resources struct {
	ADC    ADC
	Button ButtonPin
	Strip  Strip
	Status StatusLED
	Timer  Ticker
}

func (r Resources) Validate() error {
	if r.ADC == nil || r.Button == nil || r.Strip == nil || r.Status == nil || r.Timer == nil {
		return ErrMissingResource
	}
	return nil
}

var ErrMissingResource = errors.New("missing_resource")
