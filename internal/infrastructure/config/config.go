package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for Sound Logic.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Device    DeviceConfig    `yaml:"device"`
	OSC       OSCConfig       `yaml:"osc"`
	MIDI      MIDIConfig      `yaml:"midi"`
	Timer     TimerConfig     `yaml:"timer"`
	Refresh   RefreshConfig   `yaml:"refresh"`
	MQTT      MQTTConfig      `yaml:"mqtt"`
	InfluxDB  InfluxDBConfig  `yaml:"influxdb"`
	History   HistoryConfig   `yaml:"history"`
	Snapshots SnapshotConfig  `yaml:"snapshots"`
	WebSocket WebSocketConfig `yaml:"websocket"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// DeviceConfig identifies which mixer model the bridge talks to.
type DeviceConfig struct {
	// Model is the device id or the MIDI port name prefix, e.g. "ufxii"
	// or "Fireface UFX II".
	Model string `yaml:"model"`
}

// OSCConfig contains the UDP endpoints for client traffic.
type OSCConfig struct {
	// Listen is the address inbound client messages arrive on.
	Listen string `yaml:"listen"`
	// Reply is the address notifications are sent to.
	Reply string `yaml:"reply"`
}

// MIDIConfig contains the MIDI port settings.
type MIDIConfig struct {
	// InPort and OutPort name the MIDI ports; a prefix match is enough.
	// Empty selects the first port whose name matches the device model.
	InPort  string `yaml:"in_port"`
	OutPort string `yaml:"out_port"`
	// SysExBufferSize is the receive buffer for large parameter dumps.
	SysExBufferSize int `yaml:"sysex_buffer_size"`
}

// TimerConfig controls the periodic poll cycle.
type TimerConfig struct {
	// Interval is the poll period in milliseconds.
	Interval int `yaml:"interval"`
	// Levels enables level-meter polling.
	Levels bool `yaml:"levels"`
}

// RefreshConfig controls parameter dump handling.
type RefreshConfig struct {
	// QuietPeriod ends a refresh without an end-of-dump marker after this
	// many milliseconds of device silence.
	QuietPeriod int `yaml:"quiet_period"`
	// OnStart triggers a full refresh when the bridge starts.
	OnStart bool `yaml:"on_start"`
}

// MQTTConfig contains MQTT broker connection settings. Disabled by default;
// when enabled, every parameter change is published for other systems.
type MQTTConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Broker   string `yaml:"broker"`
	ClientID string `yaml:"client_id"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	// TopicPrefix is prepended to the parameter address, e.g.
	// "soundlogic" publishes /output/1/volume to soundlogic/output/1/volume.
	TopicPrefix string `yaml:"topic_prefix"`
	QoS         int    `yaml:"qos"`
}

// InfluxDBConfig contains the level-meter metric sink settings.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// HistoryConfig contains the register change history settings.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
	// Retain caps the number of rows kept; 0 keeps everything.
	Retain int `yaml:"retain"`
}

// SnapshotConfig controls where /dump/save snapshots are written.
type SnapshotConfig struct {
	Dir string `yaml:"dir"`
}

// WebSocketConfig contains the WebSocket gateway settings.
type WebSocketConfig struct {
	Enabled        bool   `yaml:"enabled"`
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	Path           string `yaml:"path"`
	MaxMessageSize int    `yaml:"max_message_size"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: SOUNDLOGIC_SECTION_KEY
// For example: SOUNDLOGIC_MQTT_BROKER, SOUNDLOGIC_OSC_LISTEN
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults. The defaults run a
// bare bridge: OSC on the loopback, no MQTT, no metrics, no history.
func defaultConfig() *Config {
	return &Config{
		Device: DeviceConfig{
			Model: "ufxii",
		},
		OSC: OSCConfig{
			Listen: "127.0.0.1:7222",
			Reply:  "127.0.0.1:8222",
		},
		MIDI: MIDIConfig{
			SysExBufferSize: 8192,
		},
		Timer: TimerConfig{
			Interval: 100,
			Levels:   true,
		},
		Refresh: RefreshConfig{
			QuietPeriod: 2000,
			OnStart:     true,
		},
		MQTT: MQTTConfig{
			Broker:      "tcp://localhost:1883",
			ClientID:    "soundlogic",
			TopicPrefix: "soundlogic",
			QoS:         1,
		},
		InfluxDB: InfluxDBConfig{
			Bucket:        "soundlogic",
			BatchSize:     200,
			FlushInterval: 1000,
		},
		History: HistoryConfig{
			Path: "./data/soundlogic.db",
		},
		Snapshots: SnapshotConfig{
			Dir: "./data/snapshots",
		},
		WebSocket: WebSocketConfig{
			Host:           "127.0.0.1",
			Port:           8222,
			Path:           "/ws",
			MaxMessageSize: 8192,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: SOUNDLOGIC_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SOUNDLOGIC_DEVICE_MODEL"); v != "" {
		cfg.Device.Model = v
	}
	if v := os.Getenv("SOUNDLOGIC_OSC_LISTEN"); v != "" {
		cfg.OSC.Listen = v
	}
	if v := os.Getenv("SOUNDLOGIC_OSC_REPLY"); v != "" {
		cfg.OSC.Reply = v
	}
	if v := os.Getenv("SOUNDLOGIC_MIDI_IN_PORT"); v != "" {
		cfg.MIDI.InPort = v
	}
	if v := os.Getenv("SOUNDLOGIC_MIDI_OUT_PORT"); v != "" {
		cfg.MIDI.OutPort = v
	}
	if v := os.Getenv("SOUNDLOGIC_MQTT_BROKER"); v != "" {
		cfg.MQTT.Broker = v
	}
	if v := os.Getenv("SOUNDLOGIC_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Username = v
	}
	if v := os.Getenv("SOUNDLOGIC_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Password = v
	}
	if v := os.Getenv("SOUNDLOGIC_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}
	if v := os.Getenv("SOUNDLOGIC_HISTORY_PATH"); v != "" {
		cfg.History.Path = v
	}
	if v := os.Getenv("SOUNDLOGIC_SNAPSHOTS_DIR"); v != "" {
		cfg.Snapshots.Dir = v
	}
	if v := os.Getenv("SOUNDLOGIC_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []string

	if c.Device.Model == "" {
		errs = append(errs, "device.model is required")
	}
	if err := checkHostPort(c.OSC.Listen); err != nil {
		errs = append(errs, fmt.Sprintf("osc.listen: %v", err))
	}
	if err := checkHostPort(c.OSC.Reply); err != nil {
		errs = append(errs, fmt.Sprintf("osc.reply: %v", err))
	}
	if c.Timer.Interval < 10 {
		errs = append(errs, "timer.interval must be at least 10 ms")
	}
	if c.Refresh.QuietPeriod < 0 {
		errs = append(errs, "refresh.quiet_period must not be negative")
	}
	if c.MQTT.Enabled {
		if c.MQTT.Broker == "" {
			errs = append(errs, "mqtt.broker is required when mqtt is enabled")
		}
		if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
			errs = append(errs, "mqtt.qos must be 0, 1, or 2")
		}
	}
	if c.InfluxDB.Enabled {
		if c.InfluxDB.URL == "" {
			errs = append(errs, "influxdb.url is required when influxdb is enabled")
		}
		if c.InfluxDB.Token == "" {
			errs = append(errs, "influxdb.token is required when influxdb is enabled (set SOUNDLOGIC_INFLUXDB_TOKEN)")
		}
	}
	if c.History.Enabled && c.History.Path == "" {
		errs = append(errs, "history.path is required when history is enabled")
	}
	if c.WebSocket.Enabled && (c.WebSocket.Port < 1 || c.WebSocket.Port > 65535) {
		errs = append(errs, "websocket.port must be between 1 and 65535")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}
	return nil
}

// checkHostPort validates a host:port address string.
func checkHostPort(addr string) error {
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("%q is not host:port", addr)
	}
	n, err := strconv.Atoi(port)
	if err != nil || n < 1 || n > 65535 {
		return fmt.Errorf("%q has an invalid port", addr)
	}
	return nil
}

// TimerInterval returns the poll period as a Duration.
func (c *Config) TimerInterval() time.Duration {
	return time.Duration(c.Timer.Interval) * time.Millisecond
}

// RefreshQuietPeriod returns the refresh silence cutoff as a Duration.
func (c *Config) RefreshQuietPeriod() time.Duration {
	return time.Duration(c.Refresh.QuietPeriod) * time.Millisecond
}

// InfluxFlushInterval returns the metric flush interval as a Duration.
func (c *Config) InfluxFlushInterval() time.Duration {
	return time.Duration(c.InfluxDB.FlushInterval) * time.Millisecond
}
