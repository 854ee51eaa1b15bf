// Package engine wires the time base, debounce, mode table and indicator to
// the collaborators and runs the analog sample pipeline: every completed
// conversion renders one frame and transmits it.
package engine

import (
	"context"
	"sync/atomic"

	"moodlamp-go/errcode"
	"moodlamp-go/services/lamp/internal/anim"
	"moodlamp-go/services/lamp/internal/core"
	"moodlamp-go/services/lamp/internal/debounce"
	"moodlamp-go/services/lamp/internal/indicator"
	"moodlamp-go/services/lamp/internal/irq"
	"moodlamp-go/services/lamp/internal/pixels"
	"moodlamp-go/services/lamp/internal/state"
	"moodlamp-go/services/lamp/internal/timebase"
	"moodlamp-go/types"
	"moodlamp-go/x/timex"
)

type Engine struct {
	cfg types.LampConfig
	st  *state.Shared
	res core.Resources
	q   *irq.Queue
	pub Emitter

	tb    *timebase.TimeBase
	deb   *debounce.FSM
	modes *anim.Table
	ind   *indicator.Breather
	buf   pixels.Buffer

	// Loop-goroutine only.
	lastMode   types.Mode
	haveFrame  bool
	txDegraded bool
	convTick   uint32 // Tick that triggered the conversion in flight

	// Read from other goroutines.
	frames    atomic.Uint32
	overruns  atomic.Uint32
	txErrors  atomic.Uint32
	confirmed atomic.Uint32
	rejected  atomic.Uint32
	color     atomic.Uint32
}

func New(cfg types.LampConfig, st *state.Shared, res core.Resources, q *irq.Queue, pub Emitter) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := res.Validate(); err != nil {
		return nil, &errcode.E{C: errcode.NotReady, Op: "engine", Msg: "missing collaborator", Err: err}
	}
	if pub == nil {
		pub = discard{}
	}
	if q == nil {
		q = irq.New(0, 0, 0)
	}
	e := &Engine{
		cfg: cfg,
		st:  st,
		res: res,
		q:   q,
		pub: pub,
		tb: timebase.New(timebase.Config{
			TimerStep:         cfg.TimerStep,
			BreathingRateStep: cfg.BreathingRateStep,
			RefreshPeriod:     cfg.RefreshPeriod,
		}, st),
		deb: debounce.New(st, cfg.DebounceWindow, cfg.ButtonActiveLow),
		modes: anim.NewTable(anim.Config{
			GradientTickDivisor:  cfg.GradientTickDivisor,
			GradientInterval:     cfg.GradientInterval,
			TraversalTickDivisor: cfg.TraversalTickDivisor,
		}),
		ind: indicator.New(st, res.Status),
	}
	return e, nil
}

// Run attaches the interrupt sources to the queue and serves them until ctx
// is done. All handlers run on the calling goroutine.
func (e *Engine) Run(ctx context.Context) error {
	if err := e.res.Button.SetIRQ(e.q.PostEdge); err != nil {
		return &errcode.E{C: errcode.MapDriverErr(err), Op: "engine", Msg: "button irq", Err: err}
	}
	defer e.res.Button.ClearIRQ()

	e.res.Timer.Start(ctx, timex.Micros(e.cfg.TimerPeriodUs), e.q.PostTimer)
	e.q.Run(ctx, e)
	return ctx.Err()
}

// ---- irq.Handler ----

// TimerTick handles one hardware timer interrupt.
func (e *Engine) TimerTick() {
	f := e.tb.Step()
	if f.Has(timebase.Breath) {
		e.ind.Step()
	}
	if f.Has(timebase.Tick) {
		e.sampleButton()
	}
	if f.Has(timebase.Refresh) {
		e.startConversion()
	}
}

// ButtonEdge handles a press edge on the button line.
func (e *Engine) ButtonEdge() {
	e.deb.Edge()
}

// ConversionComplete renders and transmits one frame from the new sample.
func (e *Engine) ConversionComplete() {
	raw := e.res.ADC.Result()
	mode := e.st.Mode()

	px := e.modes.Render(mode, anim.Frame{Tick: e.convTick, Sample: raw})
	e.buf.Fill(px)
	err := e.buf.Flush(e.res.Strip)

	e.frames.Add(1)
	e.color.Store(pack(px))

	if !e.haveFrame || mode != e.lastMode {
		e.haveFrame = true
		e.lastMode = mode
		e.pub.Emit(Event{Kind: EventMode, Mode: mode, TSms: timex.NowMs()})
	}

	switch {
	case err != nil:
		e.txErrors.Add(1)
		if !e.txDegraded {
			e.txDegraded = true
			e.pub.Emit(Event{Kind: EventStatus, Link: types.LinkDegraded, Err: errcode.TransmitFailed, TSms: timex.NowMs()})
		}
	case e.txDegraded:
		e.txDegraded = false
		e.pub.Emit(Event{Kind: EventStatus, Link: types.LinkUp, TSms: timex.NowMs()})
	}
}

func (e *Engine) sampleButton() {
	if e.deb.Phase() != debounce.Confirming {
		return
	}
	r, done := e.deb.Sample(e.res.Button.Get())
	if !done {
		return
	}
	ev := types.ButtonEvent{Pressed: r.Pressed, Window: r.Window, Tick: e.st.Tick()}
	if r.Confirmed {
		e.confirmed.Add(1)
		ev.Outcome = types.ButtonConfirmed
	} else {
		e.rejected.Add(1)
		ev.Outcome = types.ButtonRejected
	}
	e.pub.Emit(Event{Kind: EventButton, Button: ev, TSms: timex.NowMs()})
}

// startConversion never overlaps conversions: a trigger that finds the
// converter busy is counted and skipped. The frame rendered on completion is
// stamped with the Tick of this trigger, however many timer events are
// served in between.
func (e *Engine) startConversion() {
	tick := e.st.Tick()
	if e.res.ADC.Busy() || !e.res.ADC.Start() {
		e.overruns.Add(1)
		return
	}
	e.convTick = tick
}

// ---- observers (any goroutine) ----

// Color returns the last transmitted pixel.
func (e *Engine) Color() types.RGBW { return unpack(e.color.Load()) }

func (e *Engine) Mode() types.Mode { return e.st.Mode() }

func (e *Engine) Stats() types.LampStats {
	return types.LampStats{
		Tick:       e.st.Tick(),
		Mode:       e.st.Mode(),
		Frames:     e.frames.Load(),
		Overruns:   e.overruns.Load(),
		TxErrors:   e.txErrors.Load(),
		IRQDrops:   e.q.TotalDrops(),
		Confirmed:  e.confirmed.Load(),
		Rejected:   e.rejected.Load(),
		AckPending: e.st.AckPending(),
	}
}

func pack(c types.RGBW) uint32 {
	return uint32(c.R)<<24 | uint32(c.G)<<16 | uint32(c.B)<<8 | uint32(c.W)
}

func unpack(v uint32) types.RGBW {
	return types.RGBW{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), W: uint8(v)}
}
