package types

// ---- Common lamp state (retained) ----

type LampState struct {
	Level  string `json:"level"`  // "idle", "ready", "stopped"
	Status string `json:"status"` // freeform short code
	TSms   int64  `json:"ts_ms"`
	Error  string `json:"error,omitempty"`
}

// Link is the link/state reported for the output side of the lamp.
type Link string

const (
	LinkUp       Link = "up"
	LinkDown     Link = "down"
	LinkDegraded Link = "degraded"
)

type LampStatus struct {
	Link  Link   `json:"link"`
	TSms  int64  `json:"ts_ms"`
	Error string `json:"error,omitempty"` // machine-readable short code
}

// ---- Pixels ----

// RGB is a colour triple before the white channel is attached.
type RGB struct {
	R, G, B uint8
}

// RGBW is one pixel as sent to the strip.
type RGBW struct {
	R, G, B, W uint8
}

// ---- Telemetry payloads ----

type ModeValue struct {
	Mode Mode   `json:"mode"`
	Name string `json:"name"`
}

// ButtonOutcome is the result of one debounce window.
type ButtonOutcome string

const (
	ButtonConfirmed ButtonOutcome = "confirmed"
	ButtonRejected  ButtonOutcome = "rejected"
)

type ButtonEvent struct {
	Outcome ButtonOutcome `json:"outcome"`
	Pressed uint8         `json:"pressed"` // samples read as pressed
	Window  uint8         `json:"window"`
	Tick    uint32        `json:"tick"`
}

type LampStats struct {
	Tick       uint32 `json:"tick"`
	Mode       Mode   `json:"mode"`
	Frames     uint32 `json:"frames"`
	Overruns   uint32 `json:"overruns"`
	TxErrors   uint32 `json:"tx_errors"`
	IRQDrops   uint32 `json:"irq_drops"`
	Confirmed  uint32 `json:"confirmed"`
	Rejected   uint32 `json:"rejected"`
	AckPending uint8  `json:"ack_pending"`
	EventDrops uint32 `json:"event_drops"` // telemetry lost between engine and bus
}
