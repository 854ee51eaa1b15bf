package types

// Mode selects one of the eight animation generators.
type Mode uint8

const (
	ModeOff Mode = iota
	ModeHue
	ModeHueDim
	ModeHueGradient
	ModeWhite
	ModeWhiteDim
	ModeWhiteGradient
	ModeTraversal

	ModeCount = 8
)

var modeNames = [ModeCount]string{
	"off",
	"hue",
	"hue_dim",
	"hue_gradient",
	"white",
	"white_dim",
	"white_gradient",
	"traversal",
}

func (m Mode) String() string {
	if m >= ModeCount {
		return "unknown"
	}
	return modeNames[m]
}

// Next returns the following mode, wrapping after the last one.
func (m Mode) Next() Mode {
	if m >= ModeCount-1 {
		return ModeOff
	}
	return m + 1
}
