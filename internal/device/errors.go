package device

import "errors"

// ErrUnsupportedDevice is returned by Lookup when no registered descriptor
// matches the requested ID or port name.
var ErrUnsupportedDevice = errors.New("device: unsupported device")
