package osc

import "errors"

// Domain errors for the OSC codec.
var (
	// ErrTruncated is returned when the buffer ends before a field completes.
	ErrTruncated = errors.New("osc: truncated message")

	// ErrUnterminatedString is returned when a string field has no nul
	// terminator within the remaining buffer.
	ErrUnterminatedString = errors.New("osc: string is not nul-terminated")

	// ErrUnknownTag is returned when the type-tag string contains a tag the
	// codec does not support.
	ErrUnknownTag = errors.New("osc: unknown type tag")

	// ErrTooManyArguments is returned when a message carries more than
	// MaxArguments arguments.
	ErrTooManyArguments = errors.New("osc: too many arguments")

	// ErrBufferFull is returned by Writer when the destination buffer has no
	// room for the next field.
	ErrBufferFull = errors.New("osc: buffer too small")

	// ErrWrongType is returned by Reader accessors when the next tag cannot
	// be coerced to the requested type.
	ErrWrongType = errors.New("osc: incorrect argument type")

	// ErrNoMoreArguments is returned by Reader accessors when the type-tag
	// string is exhausted.
	ErrNoMoreArguments = errors.New("osc: not enough arguments")

	// ErrNotAligned is returned when a packet length is not a multiple of 4.
	ErrNotAligned = errors.New("osc: packet length not 4-byte aligned")
)
