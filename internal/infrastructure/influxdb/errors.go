package influxdb

import "errors"

var (
	// ErrDisabled is returned by Connect when the sink is disabled in config.
	ErrDisabled = errors.New("influxdb: disabled in configuration")

	// ErrConnectionFailed is returned when the server cannot be reached.
	ErrConnectionFailed = errors.New("influxdb: connection failed")

	// ErrNotConnected is returned for operations on a closed client.
	ErrNotConnected = errors.New("influxdb: client not connected")
)
