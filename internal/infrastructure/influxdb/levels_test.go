package influxdb

import (
	"math"
	"testing"

	"github.com/nerrad567/sound-logic-core/internal/infrastructure/config"
)

func TestClampDB(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"normal", -10.5, -10.5},
		{"zero", 0, 0},
		{"negative infinity", math.Inf(-1), silenceFloorDB},
		{"nan", math.NaN(), silenceFloorDB},
		{"below floor", -200, silenceFloorDB},
		{"at floor", silenceFloorDB, silenceFloorDB},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := clampDB(tt.in); got != tt.want {
				t.Errorf("clampDB(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestWriteLevelsDisconnected(t *testing.T) {
	c := &Client{}
	// Must not panic on a never-connected client.
	c.WriteLevels("input", false, nil)
	c.Flush()
}

func TestConnectDisabled(t *testing.T) {
	_, err := Connect(config.InfluxDBConfig{Enabled: false})
	if err != ErrDisabled {
		t.Errorf("Connect() with disabled config: got %v, want ErrDisabled", err)
	}
}
