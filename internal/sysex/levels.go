package sysex

import (
	"fmt"
	"math"
)

// Level is one channel's meter reading in decibels relative to full scale.
// A silent channel decodes to negative infinity on both fields.
type Level struct {
	RMS  float32
	Peak float32
}

// IsLevelKind reports whether kind is one of the level-meter message kinds.
func IsLevelKind(kind byte) bool {
	return kind >= KindInputLevels && kind <= KindOutputFXLevels
}

// DecodeLevels parses a level payload: three words per channel, the RMS
// power as a 64-bit value split low word first, then the 32-bit peak sample.
// The fixed-point scaling puts full scale at 2^54 for RMS power and 2^23 for
// the peak sample, whose low four bits are padding.
func DecodeLevels(words []uint32) ([]Level, error) {
	if len(words)%3 != 0 {
		return nil, fmt.Errorf("%w: %d words", ErrMisalignedWords, len(words))
	}
	levels := make([]Level, 0, len(words)/3)
	for pos := 0; pos < len(words); pos += 3 {
		rms := uint64(words[pos]) | uint64(words[pos+1])<<32
		peak := words[pos+2] >> 4
		levels = append(levels, Level{
			RMS:  float32(10 * math.Log10(float64(rms)/(1<<54))),
			Peak: float32(20 * math.Log10(float64(peak)/(1<<23))),
		})
	}
	return levels, nil
}
