package heartbeat

import (
	"context"
	"strconv"
	"time"

	"moodlamp-go/bus"
	"moodlamp-go/errcode"
	"moodlamp-go/types"
)

var (
	topicConfigHeartbeat = bus.T("config", "heartbeat")
	topicLampStats       = bus.T("lamp", "stats", "value")
)

// Service prints a liveness line at a configurable interval, summarising the
// latest lamp statistics.
type Service struct {
	// Unit scales the configured interval; zero means seconds.
	Unit time.Duration
	// Out receives each line; nil prints to the console.
	Out func(line string)
}

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection) {
	cfgSub := conn.Subscribe(topicConfigHeartbeat)
	defer conn.Unsubscribe(cfgSub)
	statsSub := conn.Subscribe(topicLampStats)
	defer conn.Unsubscribe(statsSub)

	unit := s.Unit
	if unit <= 0 {
		unit = time.Second
	}
	out := s.Out
	if out == nil {
		out = func(line string) { println(line) }
	}

	var (
		last types.LampStats
		seen bool
	)

	tick := time.NewTicker(unit)
	defer tick.Stop()

	// loop until context is cancelled, respond to tick, stats and config changes
	for {
		select {
		case <-ctx.Done():
			out("[heartbeat] stopping")
			return
		case t := <-tick.C:
			out(line(t, last, seen))
		case msg := <-statsSub.Channel():
			if st, ok := msg.Payload.(types.LampStats); ok {
				last, seen = st, true
			}
		case msg := <-cfgSub.Channel():
			cfg, ok := msg.Payload.(types.HeartbeatConfig)
			if !ok || cfg.Interval == 0 {
				continue
			}
			tick.Reset(time.Duration(cfg.Interval) * unit)
			out("[heartbeat] interval set to " + strconv.FormatUint(uint64(cfg.Interval), 10))
		}
	}
}

func line(t time.Time, st types.LampStats, seen bool) string {
	s := "[heartbeat] " + t.Format("15:04:05")
	if !seen {
		return s + " lamp=waiting"
	}
	return s +
		" mode=" + st.Mode.String() +
		" tick=" + strconv.FormatUint(uint64(st.Tick), 10) +
		" frames=" + strconv.FormatUint(uint64(st.Frames), 10) +
		" overruns=" + strconv.FormatUint(uint64(st.Overruns), 10) +
		" tx_errors=" + strconv.FormatUint(uint64(st.TxErrors), 10) +
		" irq_drops=" + strconv.FormatUint(uint64(st.IRQDrops), 10)
}

// Start the heartbeat service.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	if conn == nil {
		return &errcode.E{C: errcode.NotReady, Op: "heartbeat", Msg: "no bus connection"}
	}
	go s.serviceLoop(ctx, conn)
	return nil
}
