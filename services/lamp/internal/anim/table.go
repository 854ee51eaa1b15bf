package anim

import "moodlamp-go/types"

// Table maps every mode to its generator. Built once; generators keep their
// own state for the lifetime of the table.
type Table struct {
	gens [types.ModeCount]Generator
}

func NewTable(cfg Config) *Table {
	return &Table{gens: [types.ModeCount]Generator{
		types.ModeOff:           Off{},
		types.ModeHue:           HueLive{Divisor: 1},
		types.ModeHueDim:        HueLive{Divisor: 4},
		types.ModeHueGradient:   NewHueGradient(cfg.GradientTickDivisor, cfg.GradientInterval),
		types.ModeWhite:         WhiteLive{Divisor: 1},
		types.ModeWhiteDim:      WhiteLive{Divisor: 4},
		types.ModeWhiteGradient: NewWhiteGradient(cfg.GradientTickDivisor, cfg.GradientInterval),
		types.ModeTraversal:     NewTraversal(cfg.TraversalTickDivisor),
	}}
}

// Render dispatches to the generator for m; unknown modes render black.
func (t *Table) Render(m types.Mode, f Frame) types.RGBW {
	if m >= types.ModeCount {
		return Off{}.Render(f)
	}
	return t.gens[m].Render(f)
}

// Generator exposes a generator for inspection.
func (t *Table) Generator(m types.Mode) Generator {
	if m >= types.ModeCount {
		return Off{}
	}
	return t.gens[m]
}
