package bridge

import "errors"

// Domain errors for the dispatch engine.
var (
	// ErrReadOnly is logged when a client writes to a status parameter.
	// The message is dropped; the device never sees the write.
	ErrReadOnly = errors.New("bridge: parameter is read-only")

	// ErrNotALeaf is logged when a client addresses an interior group
	// node where a parameter is required.
	ErrNotALeaf = errors.New("bridge: address is not a parameter")

	// ErrNoTransport is returned when the bridge is built without a
	// required send function.
	ErrNoTransport = errors.New("bridge: transport not configured")
)
