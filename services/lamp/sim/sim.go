// Package sim drives the lamp service from a terminal. The strip and the
// status LED are drawn with tcell; keys press the button and turn the
// potentiometer.
package sim

import (
	"context"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"moodlamp-go/bus"
	"moodlamp-go/services/heartbeat"
	"moodlamp-go/services/lamp"
	"moodlamp-go/types"
	"moodlamp-go/x/mathx"
)

const (
	wiperStep       = 16
	wiperCoarseStep = 128
)

// Sim is one simulator session.
type Sim struct {
	cfg    *Config
	logger *slog.Logger
	screen tcell.Screen

	bus   *bus.Bus
	devs  *lamp.HostDevices
	board board
	quit  chan struct{}
}

// New creates a simulator drawing onto screen. The screen must already be
// initialised; Run does not call Fini.
func New(cfg *Config, screen tcell.Screen, logger *slog.Logger) (*Sim, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Sim{
		cfg:    cfg,
		logger: logger,
		screen: screen,
		bus:    bus.NewBus(64),
		devs:   lamp.NewHostDevices(),
		quit:   make(chan struct{}),
	}
	s.devs.SetWiper(cfg.Wiper)
	return s, nil
}

// Devices exposes the simulated peripherals.
func (s *Sim) Devices() *lamp.HostDevices { return s.devs }

// Run blocks until ctx is cancelled or the user quits.
func (s *Sim) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errg, ctx := errgroup.WithContext(ctx)

	errg.Go(func() error {
		lamp.Run(ctx, s.bus.NewConnection("lamp"), s.devs.Option(),
			lamp.WithStatsEvery(time.Duration(s.cfg.StatsInterval)))
		return nil
	})

	if s.cfg.Heartbeat > 0 {
		hb := &heartbeat.Service{Out: func(line string) { s.logger.Info(line) }}
		if err := hb.Start(ctx, s.bus.NewConnection("heartbeat")); err != nil {
			return errors.Wrap(err, "failed to start heartbeat")
		}
		conn := s.bus.NewConnection("sim-config")
		conn.Publish(conn.NewMessage(bus.T("config", "heartbeat"),
			types.HeartbeatConfig{Interval: s.cfg.Heartbeat}, true))
	}

	conn := s.bus.NewConnection("sim")
	errg.Go(func() error {
		return s.watch(ctx, conn)
	})

	conn.Publish(conn.NewMessage(lamp.TopicConfig, s.cfg.Lamp, true))
	s.logger.Debug("published lamp config", "config", s.cfg.Lamp)

	errg.Go(func() error {
		return s.render(ctx)
	})
	errg.Go(func() error {
		return s.pollEvents(ctx)
	})
	errg.Go(func() error {
		select {
		case <-s.quit:
			s.logger.Debug("quit requested")
			cancel()
		case <-ctx.Done():
		}
		// Wake PollEvent so the event goroutine can return.
		_ = s.screen.PostEvent(tcell.NewEventInterrupt(nil))
		return nil
	})

	if err := errg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func (s *Sim) watch(ctx context.Context, conn *bus.Connection) error {
	sub := conn.Subscribe(bus.T("lamp", "#"))
	defer conn.Unsubscribe(sub)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-sub.Channel():
			if !ok {
				return nil
			}
			s.board.apply(msg)
			s.logTelemetry(msg)
		}
	}
}

func (s *Sim) logTelemetry(msg *bus.Message) {
	switch {
	case topicHas(msg.Topic, lamp.TopicButton):
		s.logger.Debug("button", "event", msg.Payload)
	case topicHas(msg.Topic, lamp.TopicMode):
		s.logger.Info("mode", "value", msg.Payload)
	case topicHas(msg.Topic, lamp.TopicStatus):
		s.logger.Warn("status", "value", msg.Payload)
	case topicHas(msg.Topic, lamp.TopicState):
		s.logger.Info("state", "value", msg.Payload)
	}
}

func (s *Sim) render(ctx context.Context) error {
	tick := time.NewTicker(time.Second / time.Duration(s.cfg.FPS))
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tick.C:
			Draw(s.screen, s.board.snapshot(s.devs))
			s.screen.Show()
		}
	}
}

func (s *Sim) pollEvents(ctx context.Context) error {
	for {
		ev := s.screen.PollEvent()
		if ev == nil || ctx.Err() != nil {
			return nil
		}
		switch ev := ev.(type) {
		case *tcell.EventKey:
			if !s.handleKey(ev) {
				s.requestQuit()
			}
		case *tcell.EventResize:
			s.screen.Sync()
		}
	}
}

func (s *Sim) requestQuit() {
	select {
	case <-s.quit:
	default:
		close(s.quit)
	}
}

// handleKey applies one key press; false means quit.
func (s *Sim) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyLeft:
		s.nudgeWiper(-wiperStep)
	case tcell.KeyRight:
		s.nudgeWiper(wiperStep)
	case tcell.KeyPgDn:
		s.nudgeWiper(-wiperCoarseStep)
	case tcell.KeyPgUp:
		s.nudgeWiper(wiperCoarseStep)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return false
		case ' ':
			s.tap(time.Duration(s.cfg.Hold))
		case 'g':
			s.tap(time.Duration(s.cfg.Glitch))
		case 'h':
			if s.devs.Pressed() {
				s.devs.Release()
			} else {
				s.devs.Press()
			}
		case 'f':
			s.devs.FailTransmits(1)
		}
	}
	return true
}

// tap presses the button and releases it after d.
func (s *Sim) tap(d time.Duration) {
	if s.devs.Pressed() {
		return
	}
	s.devs.Press()
	time.AfterFunc(d, s.devs.Release)
}

func (s *Sim) nudgeWiper(delta int) {
	v := mathx.Clamp(int(s.devs.Wiper())+delta, 0, 1023)
	s.devs.SetWiper(uint16(v))
}

func topicHas(t, prefix bus.Topic) bool {
	if t.Len() < prefix.Len() {
		return false
	}
	for i := 0; i < prefix.Len(); i++ {
		if t.At(i) != prefix.At(i) {
			return false
		}
	}
	return true
}
