package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "device:\n  model: ufxii\n"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.OSC.Listen != "127.0.0.1:7222" {
		t.Errorf("osc.listen = %q, want default", cfg.OSC.Listen)
	}
	if cfg.Timer.Interval != 100 || !cfg.Timer.Levels {
		t.Errorf("timer defaults = %+v", cfg.Timer)
	}
	if cfg.MQTT.Enabled || cfg.InfluxDB.Enabled || cfg.History.Enabled {
		t.Error("optional integrations enabled by default")
	}
	if got := cfg.TimerInterval(); got != 100*time.Millisecond {
		t.Errorf("TimerInterval() = %v, want 100ms", got)
	}
	if got := cfg.RefreshQuietPeriod(); got != 2*time.Second {
		t.Errorf("RefreshQuietPeriod() = %v, want 2s", got)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
device:
  model: "Fireface UFX II"
osc:
  listen: "0.0.0.0:9000"
timer:
  interval: 50
  levels: false
mqtt:
  enabled: true
  broker: "tcp://broker:1883"
`))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Device.Model != "Fireface UFX II" {
		t.Errorf("device.model = %q", cfg.Device.Model)
	}
	if cfg.OSC.Listen != "0.0.0.0:9000" || cfg.Timer.Interval != 50 || cfg.Timer.Levels {
		t.Errorf("file values not applied: %+v %+v", cfg.OSC, cfg.Timer)
	}
	if !cfg.MQTT.Enabled || cfg.MQTT.Broker != "tcp://broker:1883" {
		t.Errorf("mqtt = %+v", cfg.MQTT)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("SOUNDLOGIC_OSC_LISTEN", "127.0.0.1:7333")
	t.Setenv("SOUNDLOGIC_DEVICE_MODEL", "ufxii")

	cfg, err := Load(writeConfig(t, "osc:\n  listen: \"127.0.0.1:7000\"\n"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.OSC.Listen != "127.0.0.1:7333" {
		t.Errorf("env override lost: %q", cfg.OSC.Listen)
	}
}

func TestValidateFailures(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"missing model", "device:\n  model: \"\"\n", "device.model"},
		{"bad listen", "osc:\n  listen: nonsense\n", "osc.listen"},
		{"tiny interval", "timer:\n  interval: 1\n", "timer.interval"},
		{"mqtt without broker", "mqtt:\n  enabled: true\n  broker: \"\"\n", "mqtt.broker"},
		{"influx without url", "influxdb:\n  enabled: true\n  token: t\n", "influxdb.url"},
		{"influx without token", "influxdb:\n  enabled: true\n  url: http://x\n", "influxdb.token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.yaml))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load() error = %v, want mention of %s", err, tt.want)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Load() on a missing file succeeded")
	}
}
