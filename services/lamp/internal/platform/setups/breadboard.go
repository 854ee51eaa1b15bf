//go:build moodlamp_breadboard

package setups

// Selected is the breadboard prototype. Its button pulls to ground; the
// matching config sets button_active_low.
var Selected = Board{
	Name:        "breadboard",
	ButtonPin:   14,
	ADCPin:      27,
	StripPin:    2,
	StatusPin:   3,
	StatusPWMHz: 1000,
}
