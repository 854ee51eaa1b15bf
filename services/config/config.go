package config

import (
	"context"
	"encoding/json"

	"moodlamp-go/bus"
	"moodlamp-go/errcode"
	"moodlamp-go/types"
)

// -----------------------------------------------------------------------------
// String constants (live in flash, not RAM)
// -----------------------------------------------------------------------------

const (
	serviceName  = "config"
	configPrefix = "config"
	CtxDeviceKey = "device" // context key used for device ID
)

// EmbeddedConfigLookup allows overriding how configs are resolved.
var EmbeddedConfigLookup = func(device string) ([]byte, bool) {
	b, ok := embeddedConfigs[device]
	return b, ok
}

// -----------------------------------------------------------------------------
// Config Service
// -----------------------------------------------------------------------------

type ConfigService struct {
	Name string
}

func NewConfigService() *ConfigService {
	return &ConfigService{Name: serviceName}
}

// publishConfig reads the device config from embedded data and publishes each
// top-level key as a retained message under config/<key>. Known sections are
// decoded into their typed payloads; the rest are published as decoded JSON.
func (s *ConfigService) publishConfig(ctx context.Context, conn *bus.Connection) error {
	device, _ := ctx.Value(CtxDeviceKey).(string)
	if device == "" {
		return &errcode.E{C: errcode.InvalidConfig, Op: "config", Msg: "missing device ID in context"}
	}

	raw, ok := EmbeddedConfigLookup(device)
	if !ok || len(raw) == 0 {
		return &errcode.E{C: errcode.InvalidConfig, Op: "config", Msg: "no embedded config for device: " + device}
	}

	var sections map[string]json.RawMessage
	if err := json.Unmarshal(raw, &sections); err != nil {
		return &errcode.E{C: errcode.InvalidConfig, Op: "config", Msg: "embedded config is not a JSON object", Err: err}
	}

	for k, v := range sections {
		payload, err := decodeSection(k, v)
		if err != nil {
			println("[config] skipping", k+":", err.Error())
			continue
		}
		conn.Publish(conn.NewMessage(bus.T(configPrefix, k), payload, true))
	}
	return nil
}

func decodeSection(key string, raw json.RawMessage) (any, error) {
	switch key {
	case "lamp":
		c := types.DefaultLampConfig()
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, &errcode.E{C: errcode.InvalidConfig, Op: "config", Msg: "lamp", Err: err}
		}
		if err := c.Validate(); err != nil {
			return nil, err
		}
		return c, nil
	case "heartbeat":
		var h types.HeartbeatConfig
		if err := json.Unmarshal(raw, &h); err != nil {
			return nil, &errcode.E{C: errcode.InvalidConfig, Op: "config", Msg: "heartbeat", Err: err}
		}
		return h, nil
	default:
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return v, nil
	}
}

// Start launches the config publisher in a goroutine.
func (s *ConfigService) Start(ctx context.Context, conn *bus.Connection) {
	go func() {
		if err := s.publishConfig(ctx, conn); err != nil {
			println("[config] publish failed:", err.Error())
		}
	}()
}
