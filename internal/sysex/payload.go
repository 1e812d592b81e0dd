package sysex

import (
	"encoding/binary"
	"fmt"
)

// PackedLen returns the packed size of n raw bytes: one packed byte per raw
// byte, one extra byte for every complete group of seven, and one trailing
// byte for a partial group.
func PackedLen(n int) int {
	return n + (n+6)/7
}

// UnpackedLen returns the raw size recoverable from n packed bytes.
func UnpackedLen(n int) int {
	return n * 7 / 8
}

// Pack encodes raw bytes into the 7-bit-clean payload form, least
// significant bits first. Every output byte has its high bit clear.
func Pack(dst, src []byte) []byte {
	var b uint32
	i := 0
	for _, s := range src {
		b |= uint32(s) << i
		dst = append(dst, byte(b&0x7f))
		b >>= 7
		if i++; i == 7 {
			dst = append(dst, byte(b))
			b = 0
			i = 0
		}
	}
	if i > 0 {
		dst = append(dst, byte(b))
	}
	return dst
}

// Unpack decodes a 7-bit-clean payload back into raw bytes. A payload byte
// with the high bit set is malformed.
func Unpack(dst, src []byte) ([]byte, error) {
	var b uint32
	i := 0
	for pos, c := range src {
		if c&0x80 != 0 {
			return nil, fmt.Errorf("%w: 0x%02x at offset %d", ErrHighBitSet, c, pos)
		}
		b |= uint32(c) << i
		i += 7
		if i >= 8 {
			dst = append(dst, byte(b))
			b >>= 8
			i -= 8
		}
	}
	return dst, nil
}

// RegisterWord builds the 32-bit word for one register write: the register
// number in bits 30..16, the value in bits 15..0, and bit 31 set so the
// whole word has odd parity.
func RegisterWord(reg uint16, val int16) uint32 {
	w := uint32(reg&0x7fff)<<16 | uint32(uint16(val))
	par := w>>16 ^ w
	par ^= par >> 8
	par ^= par >> 4
	par ^= par >> 2
	par ^= par >> 1
	w |= (par&1 ^ 1) << 31
	return w
}

// SplitWord extracts the register number and sign-extended value from a
// register word, ignoring the parity bit.
func SplitWord(w uint32) (reg uint16, val int) {
	reg = uint16(w >> 16 & 0x7fff)
	val = int(w&0xffff^0x8000) - 0x8000
	return reg, val
}

// EncodeWords serializes words into little-endian raw payload bytes,
// appending to dst.
func EncodeWords(dst []byte, words []uint32) []byte {
	for _, w := range words {
		dst = binary.LittleEndian.AppendUint32(dst, w)
	}
	return dst
}

// DecodeWords parses little-endian raw payload bytes into 32-bit words.
func DecodeWords(raw []byte) ([]uint32, error) {
	if len(raw)%4 != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrMisalignedWords, len(raw))
	}
	words := make([]uint32, 0, len(raw)/4)
	for pos := 0; pos < len(raw); pos += 4 {
		words = append(words, binary.LittleEndian.Uint32(raw[pos:]))
	}
	return words, nil
}
