package config

// -----------------------------------------------------------------------------
// Embedded configuration
//
// Key: device ID (same value placed in ctx under CtxDeviceKey)
// Val: raw JSON bytes for that device
// -----------------------------------------------------------------------------

const cfgPicoMoodlamp = `{
  "lamp": {
      "timer_period_us": 125,
      "timer_step": 3,
      "breathing_rate_step": 2,
      "refresh_period": 10,
      "debounce_window": 20
  },
  "heartbeat": {
      "interval": 2
  }
}`

const cfgBreadboard = `{
  "lamp": {
      "button_active_low": true
  },
  "heartbeat": {
      "interval": 5
  }
}`

var embeddedConfigs = map[string][]byte{
	"pico_moodlamp": []byte(cfgPicoMoodlamp),
	"breadboard":    []byte(cfgBreadboard),
}
