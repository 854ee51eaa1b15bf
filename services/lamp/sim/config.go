package sim

import (
	"encoding"
	"io"
	"time"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"

	"moodlamp-go/types"
)

// Config is the simulator configuration. Every field has a default; a TOML
// file only needs the keys it changes.
type Config struct {
	// Wiper is the initial potentiometer position, 0..1023.
	Wiper uint16 `toml:"wiper"`
	// FPS is the terminal redraw rate.
	FPS int `toml:"fps"`
	// Hold is how long a tap keeps the button down.
	Hold TOMLDuration `toml:"hold"`
	// Glitch is how long a glitch press keeps the button down.
	Glitch TOMLDuration `toml:"glitch"`
	// StatsInterval is the lamp statistics publication period.
	StatsInterval TOMLDuration `toml:"stats_interval"`
	// Heartbeat is the heartbeat log interval in seconds; 0 disables it.
	Heartbeat uint32 `toml:"heartbeat"`

	Lamp types.LampConfig `toml:"lamp"`
}

func DefaultConfig() Config {
	return Config{
		Wiper:         512,
		FPS:           30,
		Hold:          TOMLDuration(60 * time.Millisecond),
		Glitch:        TOMLDuration(2 * time.Millisecond),
		StatsInterval: TOMLDuration(250 * time.Millisecond),
		Heartbeat:     0,
		Lamp:          types.DefaultLampConfig(),
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Wiper > 1023 {
		return errors.Errorf("wiper %d out of range 0..1023", c.Wiper)
	}
	if c.FPS <= 0 || c.FPS > 240 {
		return errors.Errorf("fps %d out of range 1..240", c.FPS)
	}
	if c.Hold <= 0 || c.Glitch <= 0 || c.StatsInterval <= 0 {
		return errors.New("durations must be positive")
	}
	if err := c.Lamp.Validate(); err != nil {
		return errors.Wrap(err, "invalid lamp section")
	}
	return nil
}

// ParseConfig overlays the TOML document in r onto DefaultConfig.
func ParseConfig(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()
	if err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// TOMLDuration is a time.Duration written as a Go duration string.
type TOMLDuration time.Duration

var (
	_ encoding.TextUnmarshaler = (*TOMLDuration)(nil)
	_ encoding.TextMarshaler   = (*TOMLDuration)(nil)
)

func (d TOMLDuration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *TOMLDuration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return errors.Wrapf(err, "invalid duration %q", text)
	}
	*d = TOMLDuration(v)
	return nil
}
