package osc

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

// MaxArguments is the most arguments a single message may carry.
// Anything beyond this is treated as malformed input.
const MaxArguments = 32

// Argument type tags supported by the codec.
const (
	TagInt32     byte = 'i'
	TagFloat32   byte = 'f'
	TagString    byte = 's'
	TagBlob      byte = 'b'
	TagTrue      byte = 'T'
	TagFalse     byte = 'F'
	TagNil       byte = 'N'
	TagInfinitum byte = 'I'
)

// Argument is one typed OSC argument. Which field is meaningful depends on
// Tag; the T, F, N and I tags carry no payload at all.
type Argument struct {
	Tag   byte
	Int   int32
	Float float32
	Str   string
	Blob  []byte
}

// Int32 returns an int32 argument.
func Int32(v int32) Argument { return Argument{Tag: TagInt32, Int: v} }

// Float32 returns a float32 argument.
func Float32(v float32) Argument { return Argument{Tag: TagFloat32, Float: v} }

// String returns a string argument.
func String(v string) Argument { return Argument{Tag: TagString, Str: v} }

// Blob returns a blob argument.
func Blob(v []byte) Argument { return Argument{Tag: TagBlob, Blob: v} }

// Bool returns a T or F argument.
func Bool(v bool) Argument {
	if v {
		return Argument{Tag: TagTrue}
	}
	return Argument{Tag: TagFalse}
}

// Message is a decoded OSC message: an address pattern and an ordered
// argument list. The type-tag string and the argument sequence always have
// equal length; TypeTags derives the former from the latter.
type Message struct {
	Address string
	Args    []Argument
}

// TypeTags returns the type-tag string without the leading comma.
func (m *Message) TypeTags() string {
	tags := make([]byte, len(m.Args))
	for i, a := range m.Args {
		tags[i] = a.Tag
	}
	return string(tags)
}

// paddedLen returns the wire length of a nul-terminated string of n bytes:
// the terminator plus zero padding up to the next 4-byte boundary.
func paddedLen(n int) int {
	return (n + 4) &^ 3
}

// readPaddedString reads a nul-terminated, 4-byte padded string at pos.
func readPaddedString(data []byte, pos int) (string, int, error) {
	if pos >= len(data) {
		return "", 0, fmt.Errorf("%w: string at offset %d", ErrTruncated, pos)
	}
	n := bytes.IndexByte(data[pos:], 0)
	if n < 0 {
		return "", 0, fmt.Errorf("%w: at offset %d", ErrUnterminatedString, pos)
	}
	next := pos + paddedLen(n)
	if next > len(data) {
		return "", 0, fmt.Errorf("%w: string padding at offset %d", ErrTruncated, pos)
	}
	return string(data[pos : pos+n]), next, nil
}

// Parse decodes a single OSC message from a raw packet.
//
// A message with no type-tag string decodes with zero arguments. Tag and
// argument counts beyond MaxArguments, unknown tags, and any field running
// past the end of the buffer are errors.
func Parse(data []byte) (Message, error) {
	if len(data) == 0 || len(data)%4 != 0 {
		return Message{}, fmt.Errorf("%w: %d bytes", ErrNotAligned, len(data))
	}

	addr, pos, err := readPaddedString(data, 0)
	if err != nil {
		return Message{}, err
	}
	msg := Message{Address: addr}

	if pos >= len(data) || data[pos] != ',' {
		return msg, nil
	}

	tags, pos, err := readPaddedString(data, pos)
	if err != nil {
		return Message{}, err
	}
	tags = tags[1:] // drop the leading comma
	if len(tags) > MaxArguments {
		return Message{}, fmt.Errorf("%w: %d", ErrTooManyArguments, len(tags))
	}

	msg.Args = make([]Argument, 0, len(tags))
	for _, tag := range []byte(tags) {
		var arg Argument
		arg.Tag = tag
		switch tag {
		case TagInt32:
			if pos+4 > len(data) {
				return Message{}, fmt.Errorf("%w: int32 argument", ErrTruncated)
			}
			arg.Int = int32(binary.BigEndian.Uint32(data[pos:]))
			pos += 4
		case TagFloat32:
			if pos+4 > len(data) {
				return Message{}, fmt.Errorf("%w: float32 argument", ErrTruncated)
			}
			arg.Float = math.Float32frombits(binary.BigEndian.Uint32(data[pos:]))
			pos += 4
		case TagString:
			arg.Str, pos, err = readPaddedString(data, pos)
			if err != nil {
				return Message{}, err
			}
		case TagBlob:
			if pos+4 > len(data) {
				return Message{}, fmt.Errorf("%w: blob length", ErrTruncated)
			}
			size := int(binary.BigEndian.Uint32(data[pos:]))
			pos += 4
			if size < 0 || pos+size > len(data) {
				return Message{}, fmt.Errorf("%w: blob of %d bytes", ErrTruncated, size)
			}
			arg.Blob = append([]byte(nil), data[pos:pos+size]...)
			pos += (size + 3) &^ 3
			if pos > len(data) {
				return Message{}, fmt.Errorf("%w: blob padding", ErrTruncated)
			}
		case TagTrue, TagFalse, TagNil, TagInfinitum:
			// No payload.
		default:
			return Message{}, fmt.Errorf("%w: %q", ErrUnknownTag, tag)
		}
		msg.Args = append(msg.Args, arg)
	}

	return msg, nil
}

// encodedSize returns the exact wire size of the message.
func (m *Message) encodedSize() int {
	n := paddedLen(len(m.Address)) + paddedLen(len(m.Args)+1)
	for _, a := range m.Args {
		switch a.Tag {
		case TagInt32, TagFloat32:
			n += 4
		case TagString:
			n += paddedLen(len(a.Str))
		case TagBlob:
			n += 4 + (len(a.Blob)+3)&^3
		}
	}
	return n
}

// Encode serializes the message to its OSC wire form. The type-tag string is
// always emitted, even for argument-less messages.
func (m *Message) Encode() ([]byte, error) {
	if len(m.Args) > MaxArguments {
		return nil, fmt.Errorf("%w: %d", ErrTooManyArguments, len(m.Args))
	}

	w := NewWriter(make([]byte, m.encodedSize()))
	w.PutString(m.Address)
	w.PutString("," + m.TypeTags())
	for _, a := range m.Args {
		switch a.Tag {
		case TagInt32:
			w.PutInt(a.Int)
		case TagFloat32:
			w.PutFloat(a.Float)
		case TagString:
			w.PutString(a.Str)
		case TagBlob:
			w.PutBlob(a.Blob)
		case TagTrue, TagFalse, TagNil, TagInfinitum:
			// No payload.
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownTag, a.Tag)
		}
	}
	return w.Bytes()
}
