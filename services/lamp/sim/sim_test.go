package sim

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moodlamp-go/types"
)

func newScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(100, 24)
	t.Cleanup(screen.Fini)
	return screen
}

func rowText(s tcell.Screen, y, from, n int) string {
	r := make([]rune, 0, n)
	for x := from; x < from+n; x++ {
		c, _, _, _ := s.GetContent(x, y)
		r = append(r, c)
	}
	return string(r)
}

func TestDrawStripColours(t *testing.T) {
	screen := newScreen(t)
	var v View
	for i := range v.Pixels {
		v.Pixels[i] = types.RGBW{R: 200, G: 10, B: 0, W: 100}
	}
	v.Mode = types.ModeValue{Mode: types.ModeWhiteGradient, Name: "white_gradient"}
	v.Wiper = 1023

	Draw(screen, v)

	_, _, st, _ := screen.GetContent(originX, rowStrip)
	_, bg, _ := st.Decompose()
	assert.Equal(t, tcell.NewRGBColor(255, 110, 100), bg)

	assert.Contains(t, rowText(screen, rowValues, originX, 30), "R 200  G  10  B   0  W 100")
	assert.Contains(t, rowText(screen, rowMode, originX, 40), "white_gradient")
	assert.Contains(t, rowText(screen, rowWiper, originX, 50), "1023")
}

func TestDrawIndicatorAndStatus(t *testing.T) {
	screen := newScreen(t)
	v := View{
		Indicator: 128,
		Status:    types.LampStatus{Link: types.LinkDegraded, Error: "transmit_failed"},
		Button:    &types.ButtonEvent{Outcome: types.ButtonRejected, Pressed: 3, Window: 20},
	}
	Draw(screen, v)

	c, _, st, _ := screen.GetContent(originX+8, rowIndicator)
	assert.Equal(t, '●', c)
	fg, _, _ := st.Decompose()
	assert.Equal(t, tcell.NewRGBColor(128, 128, 128), fg)

	assert.Contains(t, rowText(screen, rowStatus, originX, 40), "degraded (transmit_failed)")
	assert.Contains(t, rowText(screen, rowButton, originX, 60), "rejected (3/20)")
}

func TestBar(t *testing.T) {
	assert.Equal(t, 0, countRune(bar(0), '█'))
	assert.Equal(t, barWidth/2, countRune(bar(512), '█'))
	assert.Equal(t, barWidth-1, countRune(bar(1023), '█'))
}

func countRune(s string, r rune) int {
	n := 0
	for _, c := range s {
		if c == r {
			n++
		}
	}
	return n
}

func TestHandleKeys(t *testing.T) {
	cfg := DefaultConfig()
	s, err := New(&cfg, newScreen(t), nil)
	require.NoError(t, err)
	d := s.Devices()

	assert.True(t, s.handleKey(tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone)))
	assert.Equal(t, uint16(512+wiperStep), d.Wiper())
	s.handleKey(tcell.NewEventKey(tcell.KeyPgDn, 0, tcell.ModNone))
	s.handleKey(tcell.NewEventKey(tcell.KeyPgDn, 0, tcell.ModNone))
	s.handleKey(tcell.NewEventKey(tcell.KeyPgDn, 0, tcell.ModNone))
	s.handleKey(tcell.NewEventKey(tcell.KeyPgDn, 0, tcell.ModNone))
	s.handleKey(tcell.NewEventKey(tcell.KeyPgDn, 0, tcell.ModNone))
	assert.Equal(t, uint16(0), d.Wiper())

	s.handleKey(tcell.NewEventKey(tcell.KeyRune, 'h', tcell.ModNone))
	assert.True(t, d.Pressed())
	s.handleKey(tcell.NewEventKey(tcell.KeyRune, 'h', tcell.ModNone))
	assert.False(t, d.Pressed())

	s.handleKey(tcell.NewEventKey(tcell.KeyRune, 'g', tcell.ModNone))
	assert.True(t, d.Pressed())
	assert.Eventually(t, func() bool { return !d.Pressed() }, time.Second, time.Millisecond)

	assert.False(t, s.handleKey(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)))
	assert.False(t, s.handleKey(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)))
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Lamp.TimerStep = 0
	_, err := New(&cfg, newScreen(t), nil)
	assert.Error(t, err)
}

func TestRunTapCyclesMode(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StatsInterval = TOMLDuration(10 * time.Millisecond)
	screen := newScreen(t)
	s, err := New(&cfg, screen, nil)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- s.Run(context.Background()) }()

	select {
	case <-s.Devices().Ready():
	case <-time.After(2 * time.Second):
		t.Fatal("lamp did not start")
	}

	s.handleKey(tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone))
	assert.Eventually(t, func() bool {
		return s.board.snapshot(s.devs).Mode.Mode == types.ModeHue
	}, 2*time.Second, 5*time.Millisecond)

	assert.Eventually(t, func() bool {
		return s.board.snapshot(s.devs).Stats.Confirmed == 1
	}, 2*time.Second, 5*time.Millisecond)

	// The screen shows the new mode.
	assert.Eventually(t, func() bool {
		return strings.Contains(rowText(screen, rowMode, originX, 40), "hue")
	}, 2*time.Second, 10*time.Millisecond)

	s.requestQuit()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after quit")
	}
}
