//go:build !moodlamp_breadboard

package setups

// Selected is the production board: button to 3V3 with pull-down, pot on
// ADC0, strip on GP16, on-board LED as the indicator.
var Selected = Board{
	Name:        "pico_moodlamp",
	ButtonPin:   15,
	ADCPin:      26,
	StripPin:    16,
	StatusPin:   25,
	StatusPWMHz: 1000,
}
