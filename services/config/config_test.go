// config/config_test.go
package config

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"moodlamp-go/bus"
	"moodlamp-go/errcode"
	"moodlamp-go/types"
)

func withLookup(t *testing.T, device, raw string) {
	t.Helper()
	oldLookup := EmbeddedConfigLookup
	EmbeddedConfigLookup = func(d string) ([]byte, bool) {
		if d != device {
			return nil, false
		}
		return []byte(raw), true
	}
	t.Cleanup(func() { EmbeddedConfigLookup = oldLookup })
}

func collect(t *testing.T, sub *bus.Subscription, want int) map[string]any {
	t.Helper()
	got := map[string]any{}
	deadline := time.Now().Add(600 * time.Millisecond)
	for len(got) < want && time.Now().Before(deadline) {
		select {
		case m := <-sub.Channel():
			if !m.Retained {
				t.Fatalf("config message on %v not retained", m.Topic)
			}
			key, ok := m.Topic.At(1).(string)
			if !ok {
				t.Fatalf("topic[1] type %T, want string", m.Topic.At(1))
			}
			got[key] = m.Payload
		case <-time.After(10 * time.Millisecond):
		}
	}
	return got
}

func TestConfig_PublishEmbedded_RetainedPerKey(t *testing.T) {
	withLookup(t, "pico", `{
		"lamp": {"debounce_window": 12, "button_active_low": true},
		"heartbeat": {"interval": 3},
		"region": {"code": "eu"}
	}`)

	b := bus.NewBus(16)
	conn := b.NewConnection("test-config")
	svc := NewConfigService()

	ctx := context.WithValue(context.Background(), CtxDeviceKey, "pico")
	svc.Start(ctx, conn)

	sub := conn.Subscribe(bus.T(configPrefix, "#"))
	got := collect(t, sub, 3)
	if len(got) != 3 {
		t.Fatalf("expected 3 retained messages, got %d (%v)", len(got), got)
	}

	lamp, ok := got["lamp"].(types.LampConfig)
	if !ok {
		t.Fatalf("lamp payload type = %T", got["lamp"])
	}
	want := types.DefaultLampConfig()
	want.DebounceWindow = 12
	want.ButtonActiveLow = true
	if lamp != want {
		t.Fatalf("lamp = %+v, want %+v", lamp, want)
	}

	if hb, ok := got["heartbeat"].(types.HeartbeatConfig); !ok || hb.Interval != 3 {
		t.Fatalf("heartbeat payload = %#v", got["heartbeat"])
	}

	if m, ok := got["region"].(map[string]any); !ok || m["code"] != "eu" {
		t.Fatalf("region payload = %#v", got["region"])
	}
}

func TestConfig_InvalidLampSectionSkipped(t *testing.T) {
	withLookup(t, "pico", `{"lamp": {"timer_step": 0}, "heartbeat": {"interval": 1}}`)

	b := bus.NewBus(4)
	conn := b.NewConnection("test-invalid")
	ctx := context.WithValue(context.Background(), CtxDeviceKey, "pico")
	if err := NewConfigService().publishConfig(ctx, conn); err != nil {
		t.Fatal(err)
	}

	got := collect(t, conn.Subscribe(bus.T(configPrefix, "#")), 2)
	if _, ok := got["lamp"]; ok {
		t.Fatal("invalid lamp config was published")
	}
	if _, ok := got["heartbeat"]; !ok {
		t.Fatal("heartbeat section missing")
	}
}

func TestConfig_EmbeddedBoardsValid(t *testing.T) {
	for device, raw := range embeddedConfigs {
		var sections map[string]json.RawMessage
		if err := json.Unmarshal(raw, &sections); err != nil {
			t.Fatalf("%s: %v", device, err)
		}
		if _, err := decodeSection("lamp", sections["lamp"]); err != nil {
			t.Fatalf("%s: %v", device, err)
		}
		if _, err := decodeSection("heartbeat", sections["heartbeat"]); err != nil {
			t.Fatalf("%s: %v", device, err)
		}
	}
}

func TestConfig_PublishConfig_MissingDevice(t *testing.T) {
	b := bus.NewBus(4)
	conn := b.NewConnection("test-missing-device")
	svc := NewConfigService()

	err := svc.publishConfig(context.Background(), conn)
	if errcode.Of(err) != errcode.InvalidConfig {
		t.Fatalf("expected invalid_config for missing device ID, got %v", err)
	}
}

func TestConfig_PublishConfig_NoConfigFound(t *testing.T) {
	withLookup(t, "pico", `{}`)

	b := bus.NewBus(4)
	conn := b.NewConnection("test-no-config")
	svc := NewConfigService()

	ctx := context.WithValue(context.Background(), CtxDeviceKey, "unknown-device")
	if err := svc.publishConfig(ctx, conn); err == nil {
		t.Fatal("expected error for missing embedded config, got nil")
	}
}

func TestConfig_PublishConfig_NotAnObject(t *testing.T) {
	withLookup(t, "pico", `[1, 2]`)

	b := bus.NewBus(4)
	conn := b.NewConnection("test-array")
	ctx := context.WithValue(context.Background(), CtxDeviceKey, "pico")
	if err := NewConfigService().publishConfig(ctx, conn); err == nil {
		t.Fatal("expected error for non-object config")
	}
}
