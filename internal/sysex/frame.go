package sysex

import "fmt"

// Message kinds carried in the byte after the manufacturer id.
const (
	KindRegisters      byte = 0x01
	KindInputLevels    byte = 0x02
	KindOutputLevels   byte = 0x03
	KindPlaybackLevels byte = 0x04
	KindInputFXLevels  byte = 0x05
	KindOutputFXLevels byte = 0x06
)

const (
	startByte = 0xf0
	endByte   = 0xf7
)

// manufacturer is the three-byte extended manufacturer id every frame
// carries.
var manufacturer = [3]byte{0x00, 0x20, 0x0d}

// Encode frames raw payload bytes as one SysEx message of the given kind,
// packing the payload into 7-bit-clean form.
func Encode(kind byte, raw []byte) []byte {
	frame := make([]byte, 0, 6+PackedLen(len(raw)))
	frame = append(frame, startByte)
	frame = append(frame, manufacturer[:]...)
	frame = append(frame, kind)
	frame = Pack(frame, raw)
	return append(frame, endByte)
}

// EncodeRegisters frames register words as a KindRegisters message.
func EncodeRegisters(words []uint32) []byte {
	raw := EncodeWords(make([]byte, 0, len(words)*4), words)
	return Encode(KindRegisters, raw)
}

// Decode validates the framing and manufacturer id of one SysEx message and
// returns its kind and unpacked payload. Frames from other vendors return
// ErrWrongVendor so the caller can ignore them without logging noise.
func Decode(data []byte) (kind byte, raw []byte, err error) {
	if len(data) < 6 {
		return 0, nil, fmt.Errorf("%w: %d bytes", ErrShortFrame, len(data))
	}
	if data[0] != startByte || data[len(data)-1] != endByte {
		return 0, nil, fmt.Errorf("%w: 0x%02x..0x%02x", ErrBadFraming, data[0], data[len(data)-1])
	}
	if data[1] != manufacturer[0] || data[2] != manufacturer[1] || data[3] != manufacturer[2] {
		return 0, nil, fmt.Errorf("%w: % x", ErrWrongVendor, data[1:4])
	}
	kind = data[4]
	payload := data[5 : len(data)-1]
	raw, err = Unpack(make([]byte, 0, UnpackedLen(len(payload))), payload)
	if err != nil {
		return 0, nil, err
	}
	return kind, raw, nil
}
