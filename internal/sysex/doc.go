// Package sysex implements the vendor SysEx wire format used by the mixer.
//
// A frame is a MIDI system-exclusive message: the 0xF0 start byte, the
// three-byte manufacturer id, a one-byte message kind, a 7-bit-clean payload
// and the 0xF7 terminator. Payload bytes carry arbitrary binary data packed
// seven bits per byte; Pack and Unpack convert between the raw and packed
// forms. Register traffic rides in the payload as little-endian 32-bit words
// combining a register number, a 16-bit value and a parity bit.
package sysex
