//go:build rp2040 || rp2350

package platform

import (
	"machine"
	"runtime/interrupt"
	"sync/atomic"
	"time"

	"tinygo.org/x/drivers/ws2812"

	"moodlamp-go/errcode"
	"moodlamp-go/services/lamp/internal/core"
	"moodlamp-go/services/lamp/internal/platform/setups"
	"moodlamp-go/types"
	"moodlamp-go/x/timex"
)

// Open configures the peripherals of board b. onConversion is raised once
// per completed ADC conversion.
func Open(b setups.Board, cfg types.LampConfig, onConversion func()) (core.Resources, error) {
	adc, err := newADC(b.ADCPin, onConversion)
	if err != nil {
		return core.Resources{}, err
	}
	btn, err := newButton(b.ButtonPin, cfg.ButtonActiveLow)
	if err != nil {
		return core.Resources{}, err
	}
	status, err := newStatusLED(b.StatusPin, b.StatusPWMHz)
	if err != nil {
		return core.Resources{}, err
	}
	return core.Resources{
		ADC:    adc,
		Button: btn,
		Strip:  newStrip(b.StripPin),
		Status: status,
		Timer:  &TickerTimer{Min: time.Millisecond},
	}, nil
}

// ---- ADC ----

// rp2ADC wraps the blocking machine.ADC read. A conversion takes a few
// microseconds so it completes inside Start; the completion is still
// delivered through onDone so the loop sees the same event order as on
// parts with a conversion-complete interrupt.
type rp2ADC struct {
	adc    machine.ADC
	busy   atomic.Bool
	result atomic.Uint32
	onDone func()
}

func newADC(pin int, onDone func()) (*rp2ADC, error) {
	if pin < 26 || pin > 29 {
		return nil, errcode.UnknownPin
	}
	machine.InitADC()
	a := &rp2ADC{adc: machine.ADC{Pin: machine.Pin(pin)}, onDone: onDone}
	a.adc.Configure(machine.ADCConfig{})
	return a, nil
}

func (a *rp2ADC) Start() bool {
	if !a.busy.CompareAndSwap(false, true) {
		return false
	}
	// machine.ADC.Get is left-aligned to 16 bits.
	a.result.Store(uint32(a.adc.Get() >> 6))
	a.busy.Store(false)
	if a.onDone != nil {
		a.onDone()
	}
	return true
}

func (a *rp2ADC) Result() uint16 { return uint16(a.result.Load()) }
func (a *rp2ADC) Busy() bool     { return a.busy.Load() }

// ---- Button ----

type rp2Button struct {
	p     machine.Pin
	n     int
	press machine.PinChange
}

func newButton(n int, activeLow bool) (*rp2Button, error) {
	if n < 0 || n > 28 {
		return nil, errcode.UnknownPin
	}
	b := &rp2Button{p: machine.Pin(n), n: n, press: machine.PinRising}
	mode := machine.PinInputPulldown
	if activeLow {
		mode = machine.PinInputPullup
		b.press = machine.PinFalling
	}
	b.p.Configure(machine.PinConfig{Mode: mode})
	return b, nil
}

func (b *rp2Button) Number() int { return b.n }
func (b *rp2Button) Get() bool   { return b.p.Get() }

func (b *rp2Button) SetIRQ(handler func()) error {
	return b.p.SetInterrupt(b.press, func(machine.Pin) { handler() })
}

func (b *rp2Button) ClearIRQ() error {
	var zero machine.PinChange
	return b.p.SetInterrupt(zero, nil)
}

// ---- Strip ----

type rp2Strip struct {
	dev ws2812.Device
	buf [core.StripLen * 4]byte
}

func newStrip(pin int) *rp2Strip {
	p := machine.Pin(pin)
	p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	return &rp2Strip{dev: ws2812.New(p)}
}

// Transmit sends GRBW bytes with interrupts off; the single-wire timing does
// not survive preemption.
func (s *rp2Strip) Transmit(px []types.RGBW) error {
	n := 0
	for _, c := range px {
		if n+4 > len(s.buf) {
			break
		}
		s.buf[n], s.buf[n+1], s.buf[n+2], s.buf[n+3] = c.G, c.R, c.B, c.W
		n += 4
	}
	var err error
	critical(func() {
		_, err = s.dev.Write(s.buf[:n])
	})
	if err != nil {
		return errcode.TransmitFailed
	}
	return nil
}

func critical(f func()) {
	state := interrupt.Disable()
	f()
	interrupt.Restore(state)
}

// ---- Status LED (PWM) ----

// Local interface to avoid depending on an unexported concrete type in machine.
type pwmCtrl interface {
	Configure(cfg machine.PWMConfig) error
	Top() uint32
	Set(channel uint8, value uint32)
}

func pwmGroupBySlice(slice uint8) pwmCtrl {
	switch slice {
	case 0:
		return machine.PWM0
	case 1:
		return machine.PWM1
	case 2:
		return machine.PWM2
	case 3:
		return machine.PWM3
	case 4:
		return machine.PWM4
	case 5:
		return machine.PWM5
	case 6:
		return machine.PWM6
	default:
		return machine.PWM7
	}
}

type rp2Status struct {
	ctrl  pwmCtrl
	chIdx uint8
	top   uint32
}

func newStatusLED(pin int, freqHz uint32) (*rp2Status, error) {
	slice, err := machine.PWMPeripheral(machine.Pin(pin))
	if err != nil {
		return nil, errcode.Unsupported
	}
	ctrl := pwmGroupBySlice(slice)
	if err := ctrl.Configure(machine.PWMConfig{Period: timex.PeriodFromHz(freqHz)}); err != nil {
		return nil, errcode.MapDriverErr(err)
	}
	machine.Pin(pin).Configure(machine.PinConfig{Mode: machine.PinPWM})
	// Channel within the slice: even pin => A(0), odd pin => B(1).
	return &rp2Status{ctrl: ctrl, chIdx: uint8(pin & 1), top: ctrl.Top()}, nil
}

func (s *rp2Status) SetBrightness(v uint8) {
	s.ctrl.Set(s.chIdx, uint32(v)*s.top/255)
}
