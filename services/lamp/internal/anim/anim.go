// Package anim holds the eight per-mode colour generators and the table that
// dispatches to them.
package anim

import (
	"moodlamp-go/services/lamp/internal/color"
	"moodlamp-go/types"
	"moodlamp-go/x/mathx"
)

// Frame is the input to one refresh.
type Frame struct {
	Tick   uint32
	Sample uint16 // 0..1023
}

// Generator produces the pixel for one refresh. Stateful generators keep
// their phase across calls, including while another mode is selected.
type Generator interface {
	Render(f Frame) types.RGBW
}

type Config struct {
	GradientTickDivisor  uint32
	GradientInterval     uint16
	TraversalTickDivisor uint32
}

// rampLen is the rising plus falling half of a breath.
const rampLen = 512

// ---- 0: off ----

type Off struct{}

func (Off) Render(Frame) types.RGBW { return types.RGBW{} }

// ---- 1, 2: live hue ----

type HueLive struct{ Divisor uint8 }

func (g HueLive) Render(f Frame) types.RGBW {
	return color.ToPixel(color.FromSample(f.Sample, g.Divisor), 0)
}

// ---- 3: breathing of the sampled hue ----

// HueGradient ramps each channel from 0 towards the sampled hue and back,
// then rests at black for Interval phase steps before sampling again.
type HueGradient struct {
	div      uint32
	interval uint32

	phase uint32
	step  types.RGB
	cur   types.RGB
}

func NewHueGradient(div uint32, interval uint16) *HueGradient {
	return &HueGradient{div: max(div, 1), interval: uint32(interval)}
}

func (g *HueGradient) Phase() uint32 { return g.phase }

func (g *HueGradient) Render(f Frame) types.RGBW {
	if g.phase == 0 {
		target := color.FromSample(f.Sample, 1)
		g.cur = types.RGB{}
		g.step = types.RGB{
			R: color.StepFor(target.R),
			G: color.StepFor(target.G),
			B: color.StepFor(target.B),
		}
	}
	if f.Tick%g.div == 0 {
		g.phase++
	}
	if g.phase >= rampLen+g.interval {
		g.phase = 0
	}

	switch {
	case g.phase < 256:
		p := uint8(g.phase)
		g.cur.R = stepUp(g.cur.R, p, g.step.R)
		g.cur.G = stepUp(g.cur.G, p, g.step.G)
		g.cur.B = stepUp(g.cur.B, p, g.step.B)
	case g.phase < rampLen:
		d := uint8(rampLen - 1 - g.phase)
		g.cur.R = stepDown(g.cur.R, d, g.step.R)
		g.cur.G = stepDown(g.cur.G, d, g.step.G)
		g.cur.B = stepDown(g.cur.B, d, g.step.B)
	default:
		g.cur = types.RGB{}
	}
	return color.ToPixel(g.cur, 0)
}

func stepUp(v, phase, step uint8) uint8 {
	if phase%step == 0 {
		return mathx.SatInc(v)
	}
	return v
}

func stepDown(v, phase, step uint8) uint8 {
	if phase%step == 0 {
		return mathx.SatDec(v)
	}
	return v
}

// ---- 4, 5: static white ----

type WhiteLive struct{ Divisor uint8 }

func (g WhiteLive) Render(Frame) types.RGBW {
	return types.RGBW{W: 255 / max(g.Divisor, 1)}
}

// ---- 6: breathing white ----

type WhiteGradient struct {
	div      uint32
	interval uint32
	phase    uint32
}

func NewWhiteGradient(div uint32, interval uint16) *WhiteGradient {
	return &WhiteGradient{div: max(div, 1), interval: uint32(interval)}
}

func (g *WhiteGradient) Phase() uint32 { return g.phase }

func (g *WhiteGradient) Render(f Frame) types.RGBW {
	if f.Tick%g.div == 0 {
		g.phase++
	}
	if g.phase >= rampLen+g.interval {
		g.phase = 0
	}
	return types.RGBW{W: mathx.Triangle(g.phase)}
}

// ---- 7: hue wheel sweep ----

type Traversal struct {
	div   uint32
	phase uint16
}

func NewTraversal(div uint32) *Traversal { return &Traversal{div: max(div, 1)} }

func (g *Traversal) Phase() uint16 { return g.phase }

func (g *Traversal) Render(f Frame) types.RGBW {
	if f.Tick%g.div == 0 {
		g.phase++
	}
	if g.phase >= color.WheelSize {
		g.phase = 0
	}
	return color.ToPixel(color.Scale(color.HueRGB(g.phase), 1), 0)
}
