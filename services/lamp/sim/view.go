package sim

import (
	"sync"

	"moodlamp-go/bus"
	"moodlamp-go/services/lamp"
	"moodlamp-go/types"
)

// View is what the terminal shows, assembled from the lamp's bus topics and
// the host devices.
type View struct {
	Pixels    [lamp.StripLen]types.RGBW
	Indicator uint8
	Wiper     uint16
	Pressed   bool

	Mode   types.ModeValue
	State  types.LampState
	Status types.LampStatus
	Stats  types.LampStats
	Button *types.ButtonEvent
}

// board tracks the latest lamp telemetry.
type board struct {
	mu sync.Mutex
	v  View
}

func (b *board) apply(msg *bus.Message) {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch p := msg.Payload.(type) {
	case types.ModeValue:
		b.v.Mode = p
	case types.LampState:
		b.v.State = p
	case types.LampStatus:
		b.v.Status = p
	case types.LampStats:
		b.v.Stats = p
	case types.ButtonEvent:
		ev := p
		b.v.Button = &ev
	}
}

func (b *board) snapshot(d *lamp.HostDevices) View {
	b.mu.Lock()
	v := b.v
	b.mu.Unlock()
	v.Pixels = d.Pixels()
	v.Indicator = d.Indicator()
	v.Wiper = d.Wiper()
	v.Pressed = d.Pressed()
	return v
}
