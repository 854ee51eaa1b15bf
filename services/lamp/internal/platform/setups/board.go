package setups

// Board is the wiring of one lamp PCB. Pin numbers are plain GPIO numbers;
// mapping to machine.Pin happens in the platform.
type Board struct {
	Name string

	ButtonPin int
	ADCPin    int // potentiometer wiper
	StripPin  int // single-wire RGBW data
	StatusPin int // PWM indicator LED

	StatusPWMHz uint32
}
