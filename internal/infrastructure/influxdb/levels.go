package influxdb

import (
	"math"
	"strconv"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/nerrad567/sound-logic-core/internal/sysex"
)

// silenceFloorDB replaces -Inf readings; InfluxDB rejects non-finite floats.
const silenceFloorDB = -140

// WriteLevels records one meter frame as a point per channel.
//
// bank names the channel bank ("input", "output", "playback"); fx marks
// the post-FX variant of the input and output banks. Channel numbers
// are 1-based to match the OSC address space.
func (c *Client) WriteLevels(bank string, fx bool, levels []sysex.Level) {
	if !c.IsConnected() {
		return
	}

	now := time.Now()
	for i, lvl := range levels {
		point := write.NewPoint(
			"meter",
			map[string]string{
				"bank":    bank,
				"channel": strconv.Itoa(i + 1),
				"fx":      strconv.FormatBool(fx),
			},
			map[string]interface{}{
				"peak_db": clampDB(float64(lvl.Peak)),
				"rms_db":  clampDB(float64(lvl.RMS)),
			},
			now,
		)
		c.writeAPI.WritePoint(point)
	}
}

func clampDB(v float64) float64 {
	if math.IsInf(v, -1) || math.IsNaN(v) || v < silenceFloorDB {
		return silenceFloorDB
	}
	return v
}
