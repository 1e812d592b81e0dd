// Package influxdb streams level meter readings to InfluxDB v2.
//
// The mixer reports RMS and peak levels for every channel bank several
// times a second; the client batches those into non-blocking writes so
// the meter stream can be graphed without touching the OSC path. It
// satisfies the bridge's LevelSink interface.
package influxdb
