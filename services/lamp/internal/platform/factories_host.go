//go:build !rp2040 && !rp2350

package platform

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"moodlamp-go/services/lamp/internal/core"
	"moodlamp-go/services/lamp/internal/platform/setups"
	"moodlamp-go/types"
	"moodlamp-go/x/mathx"
)

// ----------------------------- ADC (host) ------------------------------------

// FakeADC converts the value last stored with Set. With Manual unset the
// conversion completes inside Start; otherwise tests call Complete.
type FakeADC struct {
	Manual bool

	value  atomic.Uint32
	result atomic.Uint32
	busy   atomic.Bool
	starts atomic.Uint32
	onDone func()
}

func NewFakeADC(onDone func()) *FakeADC { return &FakeADC{onDone: onDone} }

// Set moves the simulated wiper; values above 1023 are clamped.
func (a *FakeADC) Set(raw uint16) {
	a.value.Store(uint32(mathx.Clamp(raw, 0, 1023)))
}

func (a *FakeADC) Value() uint16 { return uint16(a.value.Load()) }

func (a *FakeADC) Start() bool {
	if !a.busy.CompareAndSwap(false, true) {
		return false
	}
	a.starts.Add(1)
	if !a.Manual {
		a.Complete()
	}
	return true
}

// Complete finishes an in-flight conversion and raises the completion IRQ.
func (a *FakeADC) Complete() {
	if !a.busy.Load() {
		return
	}
	a.result.Store(a.value.Load())
	a.busy.Store(false)
	if a.onDone != nil {
		a.onDone()
	}
}

func (a *FakeADC) Result() uint16 { return uint16(a.result.Load()) }
func (a *FakeADC) Busy() bool     { return a.busy.Load() }
func (a *FakeADC) Starts() uint32 { return a.starts.Load() }

// ----------------------------- GPIO (host) -----------------------------------

// FakePin is the button line. The IRQ fires on transitions into the pressed
// level.
type FakePin struct {
	mu        sync.RWMutex
	number    int
	level     bool
	activeLow bool
	irqFunc   func()
}

func NewFakePin(n int, activeLow bool) *FakePin {
	// Released level is the idle level.
	return &FakePin{number: n, activeLow: activeLow, level: activeLow}
}

func (p *FakePin) Set(level bool) {
	p.mu.Lock()
	old := p.level
	p.level = level
	irq := p.irqFunc
	pressed := level != p.activeLow
	wasPressed := old != p.activeLow
	p.mu.Unlock()
	if irq != nil && pressed && !wasPressed {
		irq() // ISR-style callback
	}
}

func (p *FakePin) Press()   { p.Set(!p.activeLow) }
func (p *FakePin) Release() { p.Set(p.activeLow) }

func (p *FakePin) Pressed() bool { return p.Get() != p.activeLow }

func (p *FakePin) Get() bool {
	p.mu.RLock()
	v := p.level
	p.mu.RUnlock()
	return v
}

func (p *FakePin) Number() int { return p.number }

func (p *FakePin) SetIRQ(handler func()) error {
	p.mu.Lock()
	p.irqFunc = handler
	p.mu.Unlock()
	return nil
}

func (p *FakePin) ClearIRQ() error {
	p.mu.Lock()
	p.irqFunc = nil
	p.mu.Unlock()
	return nil
}

// ----------------------------- Strip (host) ----------------------------------

var ErrInjectedTx = errors.New("injected transmit failure")

// RecordingStrip keeps the last transmitted frame. FailNext makes the next n
// transmits return ErrInjectedTx.
type RecordingStrip struct {
	mu     sync.Mutex
	last   [core.StripLen]types.RGBW
	frames uint32
	fail   int
}

func (s *RecordingStrip) Transmit(px []types.RGBW) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail > 0 {
		s.fail--
		return ErrInjectedTx
	}
	copy(s.last[:], px)
	s.frames++
	return nil
}

func (s *RecordingStrip) FailNext(n int) {
	s.mu.Lock()
	s.fail = n
	s.mu.Unlock()
}

func (s *RecordingStrip) Last() [core.StripLen]types.RGBW {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

func (s *RecordingStrip) Frames() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

// ----------------------------- Status LED (host) -----------------------------

type FakeStatusLED struct {
	level  atomic.Uint32
	writes atomic.Uint32
}

func (l *FakeStatusLED) SetBrightness(v uint8) {
	l.level.Store(uint32(v))
	l.writes.Add(1)
}

func (l *FakeStatusLED) Level() uint8   { return uint8(l.level.Load()) }
func (l *FakeStatusLED) Writes() uint32 { return l.writes.Load() }

// ----------------------------- Timer (host) ----------------------------------

// ManualTimer records the callback; Fire drives it synchronously.
type ManualTimer struct {
	mu sync.Mutex
	fn func()
}

func (t *ManualTimer) Start(_ context.Context, _ time.Duration, fn func()) {
	t.mu.Lock()
	t.fn = fn
	t.mu.Unlock()
}

func (t *ManualTimer) Fire(n int) {
	t.mu.Lock()
	fn := t.fn
	t.mu.Unlock()
	if fn == nil {
		return
	}
	for i := 0; i < n; i++ {
		fn()
	}
}

// ----------------------------- Bundle ----------------------------------------

// Host holds concrete fakes so tests and the simulator can drive them.
type Host struct {
	ADC    *FakeADC
	Button *FakePin
	Strip  *RecordingStrip
	Status *FakeStatusLED
	Timer  core.Ticker
}

func NewHost(b setups.Board, cfg types.LampConfig, onConversion func()) *Host {
	return &Host{
		ADC:    NewFakeADC(onConversion),
		Button: NewFakePin(b.ButtonPin, cfg.ButtonActiveLow),
		Strip:  &RecordingStrip{},
		Status: &FakeStatusLED{},
		Timer:  &TickerTimer{Min: time.Millisecond},
	}
}

func (h *Host) Resources() core.Resources {
	return core.Resources{
		ADC:    h.ADC,
		Button: h.Button,
		Strip:  h.Strip,
		Status: h.Status,
		Timer:  h.Timer,
	}
}

// Open returns inert host resources for board b.
func Open(b setups.Board, cfg types.LampConfig, onConversion func()) (core.Resources, error) {
	return NewHost(b, cfg, onConversion).Resources(), nil
}
