package sysex

import (
	"bytes"
	"errors"
	"math/bits"
	"testing"
)

func TestPackUnpackRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
	}{
		{"empty", nil},
		{"single byte", []byte{0xab}},
		{"one word", []byte{0xde, 0xad, 0xbe, 0xef}},
		{"two words", []byte{0, 1, 2, 3, 0xfc, 0xfd, 0xfe, 0xff}},
		{"seven bytes", []byte{1, 2, 3, 4, 5, 6, 7}},
		{"eight bytes", []byte{0x80, 0x81, 0x82, 0x83, 0x84, 0x85, 0x86, 0x87}},
		{"all high bits", bytes.Repeat([]byte{0xff}, 16)},
		{"long run", bytes.Repeat([]byte{0x5a, 0xa5}, 50)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			packed := Pack(nil, tt.raw)
			if got, want := len(packed), PackedLen(len(tt.raw)); got != want {
				t.Errorf("packed length = %d, PackedLen(%d) = %d", got, len(tt.raw), want)
			}
			for i, c := range packed {
				if c&0x80 != 0 {
					t.Errorf("packed byte %d = 0x%02x, high bit set", i, c)
				}
			}
			raw, err := Unpack(nil, packed)
			if err != nil {
				t.Fatalf("Unpack() error = %v", err)
			}
			if !bytes.Equal(raw, tt.raw) {
				t.Errorf("Unpack(Pack(x)) = % x, want % x", raw, tt.raw)
			}
			if got, want := len(tt.raw), UnpackedLen(len(packed)); got != want {
				t.Errorf("UnpackedLen(%d) = %d, want %d", len(packed), want, got)
			}
		})
	}
}

func TestUnpackRejectsHighBit(t *testing.T) {
	if _, err := Unpack(nil, []byte{0x12, 0x80, 0x34}); !errors.Is(err, ErrHighBitSet) {
		t.Errorf("Unpack() error = %v, want ErrHighBitSet", err)
	}
}

func TestRegisterWordParity(t *testing.T) {
	cases := []struct {
		reg uint16
		val int16
	}{
		{0x0000, 0},
		{0x0000, 1},
		{0x2fc0, 0},
		{0x8000, -1}, // top bit of reg masks off
		{0x3e04, 0x7fff},
		{0x0500, -6500},
		{0x7fff, -0x8000},
	}
	for _, c := range cases {
		w := RegisterWord(c.reg, c.val)
		if bits.OnesCount32(w)%2 != 1 {
			t.Errorf("RegisterWord(%#x, %d) = %#x, parity is even", c.reg, c.val, w)
		}
		reg, val := SplitWord(w)
		if reg != c.reg&0x7fff {
			t.Errorf("SplitWord register = %#x, want %#x", reg, c.reg&0x7fff)
		}
		if val != int(c.val) {
			t.Errorf("SplitWord value = %d, want %d", val, c.val)
		}
	}
}

func TestSplitWordSignExtension(t *testing.T) {
	tests := []struct {
		w    uint32
		reg  uint16
		val  int
	}{
		{0x05000000, 0x0500, 0},
		{0x0500ffff, 0x0500, -1},
		{0x05008000, 0x0500, -0x8000},
		{0x05007fff, 0x0500, 0x7fff},
		{0x85000001, 0x0500, 1}, // parity bit ignored
	}
	for _, tt := range tests {
		reg, val := SplitWord(tt.w)
		if reg != tt.reg || val != tt.val {
			t.Errorf("SplitWord(%#x) = (%#x, %d), want (%#x, %d)", tt.w, reg, val, tt.reg, tt.val)
		}
	}
}

func TestWordsRoundTrip(t *testing.T) {
	words := []uint32{0x00000000, 0x12345678, 0xffffffff, 0x80000001}
	raw := EncodeWords(nil, words)
	if len(raw) != len(words)*4 {
		t.Fatalf("EncodeWords produced %d bytes, want %d", len(raw), len(words)*4)
	}
	// Little-endian: low byte of the first word comes first.
	if raw[4] != 0x78 || raw[7] != 0x12 {
		t.Errorf("word byte order = % x, want little-endian", raw[4:8])
	}
	got, err := DecodeWords(raw)
	if err != nil {
		t.Fatalf("DecodeWords() error = %v", err)
	}
	for i := range words {
		if got[i] != words[i] {
			t.Errorf("word %d = %#x, want %#x", i, got[i], words[i])
		}
	}
}

func TestDecodeWordsMisaligned(t *testing.T) {
	if _, err := DecodeWords(make([]byte, 6)); !errors.Is(err, ErrMisalignedWords) {
		t.Errorf("DecodeWords() error = %v, want ErrMisalignedWords", err)
	}
}
