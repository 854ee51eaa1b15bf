package platform

import (
	"context"
	"time"
)

// TickerTimer drives a periodic callback from a goroutine. Periods shorter
// than Min are batched: each wake-up calls fn as many times as periods have
// elapsed, so the long-run rate is preserved.
type TickerTimer struct {
	Min time.Duration
}

func (t *TickerTimer) Start(ctx context.Context, period time.Duration, fn func()) {
	if period <= 0 {
		period = time.Microsecond
	}
	wake := period
	if t != nil && t.Min > wake {
		wake = t.Min
	}
	go func() {
		tk := time.NewTicker(wake)
		defer tk.Stop()
		last := time.Now()
		var carry time.Duration
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-tk.C:
				carry += now.Sub(last)
				last = now
				for carry >= period {
					carry -= period
					fn()
				}
			}
		}
	}()
}
