// Package lamp runs the lamp engine as a bus service. It waits for a
// configuration on config/lamp, opens the board peripherals, and republishes
// engine telemetry.
package lamp

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"moodlamp-go/bus"
	"moodlamp-go/errcode"
	"moodlamp-go/services/lamp/internal/core"
	"moodlamp-go/services/lamp/internal/engine"
	"moodlamp-go/services/lamp/internal/irq"
	"moodlamp-go/services/lamp/internal/platform"
	"moodlamp-go/services/lamp/internal/platform/setups"
	"moodlamp-go/services/lamp/internal/state"
	"moodlamp-go/types"
)

const (
	defaultStatsEvery = time.Second
	defaultTimerQueue = 64
	eventQueue        = 32
)

// BoardName is the device key of the board this binary was built for.
func BoardName() string { return setups.Selected.Name }

type opener func(cfg types.LampConfig, onConversion func()) (core.Resources, error)

type Option func(*service)

// WithStatsEvery sets the period of lamp/stats/value publications.
func WithStatsEvery(d time.Duration) Option {
	return func(s *service) {
		if d > 0 {
			s.statsEvery = d
		}
	}
}

// WithTimerQueue sets how many timer interrupts may be pending before they
// are dropped.
func WithTimerQueue(n int) Option {
	return func(s *service) {
		if n > 0 {
			s.timerQueue = n
		}
	}
}

func withOpener(o opener) Option {
	return func(s *service) { s.open = o }
}

type service struct {
	conn *bus.Connection
	open opener
	st   *state.Shared

	statsEvery time.Duration
	timerQueue int

	eng     *engine.Engine
	cancel  context.CancelFunc
	engDone chan error

	events   chan engine.Event
	evDrops  atomic.Uint32
	lastLink types.Link
}

// Run blocks until ctx is done.
func Run(ctx context.Context, conn *bus.Connection, opts ...Option) {
	s := &service{
		conn: conn,
		open: func(cfg types.LampConfig, onConversion func()) (core.Resources, error) {
			return platform.Open(setups.Selected, cfg, onConversion)
		},
		st:         state.New(),
		statsEvery: defaultStatsEvery,
		timerQueue: defaultTimerQueue,
		events:     make(chan engine.Event, eventQueue),
	}
	for _, o := range opts {
		o(s)
	}
	s.loop(ctx)
}

// Emit implements engine.Emitter. Called on the engine goroutine.
func (s *service) Emit(ev engine.Event) bool {
	select {
	case s.events <- ev:
		return true
	default:
		s.evDrops.Add(1)
		return false
	}
}

func (s *service) loop(ctx context.Context) {
	cfgSub := s.conn.Subscribe(TopicConfig)
	defer s.conn.Unsubscribe(cfgSub)

	s.publishState("idle", "awaiting_config", nil)

	stats := time.NewTicker(s.statsEvery)
	defer stats.Stop()

	for {
		select {
		case <-ctx.Done():
			s.stopEngine()
			s.publishStatus(types.LinkDown, "")
			s.publishState("stopped", "context_cancelled", nil)
			println("[lamp] stopped")
			return

		case msg := <-cfgSub.Channel():
			var cfg types.LampConfig
			if err := decodeConfig(msg.Payload, &cfg); err != nil {
				s.publishState("error", "config_decode_failed", err)
				continue
			}
			if err := cfg.Validate(); err != nil {
				println("[lamp] config rejected:", err.Error())
				s.publishState("error", string(errcode.InvalidConfig), err)
				continue
			}
			s.stopEngine()
			if err := s.startEngine(ctx, cfg); err != nil {
				println("[lamp] start failed:", err.Error())
				s.publishState("error", "start_failed", err)
				continue
			}
			s.publishState("ready", "configured", nil)

		case ev := <-s.events:
			s.handleEvent(ev)

		case <-stats.C:
			if s.eng != nil {
				st := s.eng.Stats()
				st.EventDrops = s.evDrops.Load()
				s.conn.Publish(s.conn.NewMessage(TopicStats, st, true))
			}

		case err := <-s.engDone:
			s.engDone = nil
			if ctx.Err() != nil {
				continue
			}
			// Engine exited without being asked to.
			s.eng = nil
			s.publishStatus(types.LinkDown, string(errcode.Of(err)))
			s.publishState("error", "engine_stopped", err)
		}
	}
}

func (s *service) startEngine(ctx context.Context, cfg types.LampConfig) error {
	q := irq.New(s.timerQueue, 0, 0)
	res, err := s.open(cfg, q.PostConversion)
	if err != nil {
		return err
	}
	eng, err := engine.New(cfg, s.st, res, q, s)
	if err != nil {
		return err
	}

	ectx, cancel := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- eng.Run(ectx) }()

	s.eng, s.cancel, s.engDone = eng, cancel, done
	s.publishStatus(types.LinkUp, "")
	println("[lamp] running, mode", eng.Mode().String())
	return nil
}

func (s *service) stopEngine() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	if s.engDone != nil {
		<-s.engDone
	}
	s.eng, s.cancel, s.engDone = nil, nil, nil
	// Drain telemetry of the old engine.
	for {
		select {
		case ev := <-s.events:
			s.handleEvent(ev)
		default:
			return
		}
	}
}

func (s *service) handleEvent(ev engine.Event) {
	switch ev.Kind {
	case engine.EventMode:
		println("[lamp] mode", ev.Mode.String())
		s.conn.Publish(s.conn.NewMessage(TopicMode, types.ModeValue{Mode: ev.Mode, Name: ev.Mode.String()}, true))

	case engine.EventButton:
		s.conn.Publish(s.conn.NewMessage(TopicButton.Append(string(ev.Button.Outcome)), ev.Button, false))

	case engine.EventStatus:
		s.publishStatus(ev.Link, string(ev.Err))
	}
}

func (s *service) publishStatus(link types.Link, code string) {
	if link == s.lastLink && code == "" {
		return
	}
	s.lastLink = link
	if link != types.LinkUp {
		println("[lamp] link", string(link), code)
	}
	s.conn.Publish(s.conn.NewMessage(TopicStatus, types.LampStatus{
		Link:  link,
		TSms:  time.Now().UnixMilli(),
		Error: code,
	}, true))
}

func (s *service) publishState(level, status string, err error) {
	st := types.LampState{Level: level, Status: status, TSms: time.Now().UnixMilli()}
	if err != nil {
		st.Error = err.Error()
	}
	s.conn.Publish(s.conn.NewMessage(TopicState, st, true))
}

// decodeConfig accepts a typed config or anything JSON-shaped.
func decodeConfig(src any, dst *types.LampConfig) error {
	switch v := src.(type) {
	case types.LampConfig:
		*dst = v
		return nil
	case *types.LampConfig:
		if v == nil {
			return errcode.InvalidPayload
		}
		*dst = *v
		return nil
	case []byte:
		*dst = types.DefaultLampConfig()
		return json.Unmarshal(v, dst)
	case string:
		*dst = types.DefaultLampConfig()
		return json.Unmarshal([]byte(v), dst)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		*dst = types.DefaultLampConfig()
		return json.Unmarshal(b, dst)
	}
}
