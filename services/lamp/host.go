//go:build !rp2040 && !rp2350

package lamp

import (
	"sync"

	"moodlamp-go/services/lamp/internal/core"
	"moodlamp-go/services/lamp/internal/platform"
	"moodlamp-go/services/lamp/internal/platform/setups"
	"moodlamp-go/types"
	"moodlamp-go/x/mathx"
)

// StripLen is the number of pixels on the strip.
const StripLen = core.StripLen

// HostDevices stands in for the board on a host. The service opens it on
// every (re)configuration; the caller drives the button and the wiper and
// reads the outputs.
type HostDevices struct {
	mu      sync.Mutex
	h       *platform.Host
	wiper   uint16
	pressed bool
	ready   chan struct{}
}

func NewHostDevices() *HostDevices {
	return &HostDevices{ready: make(chan struct{})}
}

// Option makes Run use these devices instead of the board.
func (d *HostDevices) Option() Option {
	return withOpener(d.open)
}

func (d *HostDevices) open(cfg types.LampConfig, onConversion func()) (core.Resources, error) {
	h := platform.NewHost(setups.Selected, cfg, onConversion)
	d.mu.Lock()
	h.ADC.Set(d.wiper)
	if d.pressed {
		h.Button.Set(!cfg.ButtonActiveLow) // held through reconfiguration, no edge
	}
	first := d.h == nil
	d.h = h
	d.mu.Unlock()
	if first {
		close(d.ready)
	}
	return h.Resources(), nil
}

// Ready is closed once the devices were opened the first time.
func (d *HostDevices) Ready() <-chan struct{} { return d.ready }

func (d *HostDevices) host() *platform.Host {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.h
}

func (d *HostDevices) Press() {
	d.mu.Lock()
	d.pressed = true
	h := d.h
	d.mu.Unlock()
	if h != nil {
		h.Button.Press()
	}
}

func (d *HostDevices) Release() {
	d.mu.Lock()
	d.pressed = false
	h := d.h
	d.mu.Unlock()
	if h != nil {
		h.Button.Release()
	}
}

func (d *HostDevices) Pressed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pressed
}

// SetWiper moves the potentiometer, 0..1023.
func (d *HostDevices) SetWiper(raw uint16) {
	raw = mathx.Clamp(raw, 0, 1023)
	d.mu.Lock()
	d.wiper = raw
	h := d.h
	d.mu.Unlock()
	if h != nil {
		h.ADC.Set(raw)
	}
}

func (d *HostDevices) Wiper() uint16 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.wiper
}

// Pixels returns the last frame on the strip.
func (d *HostDevices) Pixels() [StripLen]types.RGBW {
	if h := d.host(); h != nil {
		return h.Strip.Last()
	}
	return [StripLen]types.RGBW{}
}

// Indicator returns the status LED brightness.
func (d *HostDevices) Indicator() uint8 {
	if h := d.host(); h != nil {
		return h.Status.Level()
	}
	return 0
}

// FailTransmits makes the next n strip writes fail.
func (d *HostDevices) FailTransmits(n int) {
	if h := d.host(); h != nil {
		h.Strip.FailNext(n)
	}
}
