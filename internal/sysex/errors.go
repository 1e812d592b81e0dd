package sysex

import "errors"

// Sentinel errors returned by the frame and payload codecs.
var (
	ErrShortFrame      = errors.New("sysex: frame too short")
	ErrBadFraming      = errors.New("sysex: missing start or end byte")
	ErrWrongVendor     = errors.New("sysex: unknown manufacturer id")
	ErrHighBitSet      = errors.New("sysex: payload byte has high bit set")
	ErrMisalignedWords = errors.New("sysex: payload is not a whole number of words")
)
