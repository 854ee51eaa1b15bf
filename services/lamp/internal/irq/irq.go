// services/lamp/internal/irq/irq.go
package irq

import (
	"context"
	"sync/atomic"
)

// Kind identifies an interrupt source.
type Kind uint8

const (
	Timer Kind = iota
	Conversion
	Edge
	numKinds
)

func (k Kind) String() string {
	switch k {
	case Timer:
		return "timer"
	case Conversion:
		return "conversion"
	case Edge:
		return "edge"
	default:
		return "unknown"
	}
}

// Handler runs each event to completion on the loop goroutine.
type Handler interface {
	TimerTick()
	ConversionComplete()
	ButtonEdge()
}

// Queue carries interrupt events from ISR context to a single loop
// goroutine. Posting never blocks; a full queue drops and counts.
type Queue struct {
	// Written by ISRs; MUST NOT block the ISR:
	q       [numKinds]chan struct{}
	drops   [numKinds]atomic.Uint32
	stopped chan struct{}
}

func New(timerBuf, convBuf, edgeBuf int) *Queue {
	if timerBuf <= 0 {
		timerBuf = 64
	}
	if convBuf <= 0 {
		convBuf = 4
	}
	if edgeBuf <= 0 {
		edgeBuf = 4
	}
	q := &Queue{stopped: make(chan struct{})}
	q.q[Timer] = make(chan struct{}, timerBuf)
	q.q[Conversion] = make(chan struct{}, convBuf)
	q.q[Edge] = make(chan struct{}, edgeBuf)
	return q
}

// Post enqueues one event of kind k. Safe from interrupt context.
func (q *Queue) Post(k Kind) bool {
	if k >= numKinds {
		return false
	}
	select {
	case q.q[k] <- struct{}{}:
		return true
	default:
		q.drops[k].Add(1) // protect ISR path
		return false
	}
}

func (q *Queue) PostTimer()      { q.Post(Timer) }
func (q *Queue) PostConversion() { q.Post(Conversion) }
func (q *Queue) PostEdge()       { q.Post(Edge) }

// Drops returns the number of events of kind k lost to a full queue.
func (q *Queue) Drops(k Kind) uint32 {
	if k >= numKinds {
		return 0
	}
	return q.drops[k].Load()
}

// TotalDrops sums drops over all kinds.
func (q *Queue) TotalDrops() uint32 {
	var n uint32
	for k := Kind(0); k < numKinds; k++ {
		n += q.drops[k].Load()
	}
	return n
}

// Pending reports queued, not yet dispatched, events.
func (q *Queue) Pending() int {
	n := 0
	for k := Kind(0); k < numKinds; k++ {
		n += len(q.q[k])
	}
	return n
}

// Start runs the loop in its own goroutine.
func (q *Queue) Start(ctx context.Context, h Handler) {
	go func() {
		defer close(q.stopped)
		q.Run(ctx, h)
	}()
}

// Stopped is closed once a loop started with Start returns.
func (q *Queue) Stopped() <-chan struct{} { return q.stopped }

// Run dispatches events until ctx is done. Pending timer events are always
// served before conversions, and conversions before edges.
func (q *Queue) Run(ctx context.Context, h Handler) {
	for {
		if ctx.Err() != nil {
			return
		}
		select {
		case <-q.q[Timer]:
			h.TimerTick()
			continue
		default:
		}
		select {
		case <-q.q[Conversion]:
			h.ConversionComplete()
			continue
		default:
		}
		select {
		case <-ctx.Done():
			return
		case <-q.q[Timer]:
			h.TimerTick()
		case <-q.q[Conversion]:
			h.ConversionComplete()
		case <-q.q[Edge]:
			h.ButtonEdge()
		}
	}
}
