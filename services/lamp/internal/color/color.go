// Package color converts potentiometer samples into hue-wheel positions and
// hue-wheel positions into RGB(W) pixels. Integer arithmetic only.
package color

import (
	"moodlamp-go/types"
	"moodlamp-go/x/mathx"
)

const (
	// WheelSize is the number of positions on the hue wheel (six 256-wide bands).
	WheelSize = 6 * 256

	// Sample dead zones at both ends of the potentiometer travel.
	deadLow  = 128
	deadHigh = 895
)

// HuePosition maps a 10-bit sample onto the wheel.
func HuePosition(raw uint16) uint16 {
	if raw < deadLow || raw >= deadHigh {
		return 0
	}
	return (raw - (deadLow - 1)) * 2
}

// HueRGB returns the colour at pos. Positions past the wheel are black.
func HueRGB(pos uint16) types.RGB {
	i := uint8(pos % 256)
	j := 255 - i

	switch pos / 256 {
	case 0: // red -> yellow
		return types.RGB{R: 255, G: i, B: 0}
	case 1: // yellow -> green
		return types.RGB{R: j, G: 255, B: 0}
	case 2: // green -> cyan
		return types.RGB{R: 0, G: 255, B: i}
	case 3: // cyan -> blue
		return types.RGB{R: 0, G: j, B: 255}
	case 4: // blue -> purple
		return types.RGB{R: i, G: 0, B: 255}
	case 5: // purple -> red
		return types.RGB{R: 255, G: 0, B: j}
	default:
		return types.RGB{}
	}
}

// Scale divides each channel by divisor with truncation. A zero divisor is
// treated as 1.
func Scale(c types.RGB, divisor uint8) types.RGB {
	if divisor <= 1 {
		return c
	}
	return types.RGB{R: c.R / divisor, G: c.G / divisor, B: c.B / divisor}
}

// ToPixel attaches the white channel.
func ToPixel(c types.RGB, white uint8) types.RGBW {
	return types.RGBW{R: c.R, G: c.G, B: c.B, W: white}
}

// FromSample is the full live-hue chain: sample -> wheel -> rgb -> scale.
func FromSample(raw uint16, divisor uint8) types.RGB {
	return Scale(HueRGB(HuePosition(raw)), divisor)
}

// StepFor returns how many phase steps separate two unit increments of a
// channel ramping towards target. Never zero.
func StepFor(target uint8) uint8 {
	return 255 / mathx.SatInc(target)
}
