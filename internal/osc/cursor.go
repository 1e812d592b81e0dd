package osc

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

// Reader is an incremental cursor over an encoded OSC message. It tracks the
// current position in both the argument data and the type-tag string, and
// applies the protocol's loose coercions: T/F read as integers 1/0, N reads
// as the empty string, and an integer argument may be read as a float.
//
// Errors are sticky: after the first failure every accessor returns the zero
// value and Err reports the failure.
type Reader struct {
	data []byte
	pos  int
	tags string
	err  error
}

// NewReader decodes the address and type-tag header of a message and returns
// a cursor positioned at the first argument.
func NewReader(data []byte) (*Reader, string, error) {
	if len(data) == 0 || len(data)%4 != 0 {
		return nil, "", fmt.Errorf("%w: %d bytes", ErrNotAligned, len(data))
	}
	addr, pos, err := readPaddedString(data, 0)
	if err != nil {
		return nil, "", err
	}
	r := &Reader{data: data, pos: pos}
	if pos < len(data) && data[pos] == ',' {
		tags, next, err := readPaddedString(data, pos)
		if err != nil {
			return nil, "", err
		}
		r.tags = tags[1:]
		r.pos = next
	}
	if len(r.tags) > MaxArguments {
		return nil, "", fmt.Errorf("%w: %d", ErrTooManyArguments, len(r.tags))
	}
	return r, addr, nil
}

// Remaining returns the unconsumed part of the type-tag string.
func (r *Reader) Remaining() string { return r.tags }

// Err returns the first error encountered, if any.
func (r *Reader) Err() error { return r.err }

func (r *Reader) fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

func (r *Reader) nextTag() (byte, bool) {
	if r.err != nil {
		return 0, false
	}
	if len(r.tags) == 0 {
		r.fail(ErrNoMoreArguments)
		return 0, false
	}
	return r.tags[0], true
}

func (r *Reader) advance() {
	r.tags = r.tags[1:]
}

func (r *Reader) takeWord() (uint32, bool) {
	if r.pos+4 > len(r.data) {
		r.fail(fmt.Errorf("%w: argument data", ErrTruncated))
		return 0, false
	}
	v := binary.BigEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return v, true
}

// Int consumes the next argument as an int32. Accepts i, T and F tags.
func (r *Reader) Int() int32 {
	tag, ok := r.nextTag()
	if !ok {
		return 0
	}
	var val int32
	switch tag {
	case TagInt32:
		w, ok := r.takeWord()
		if !ok {
			return 0
		}
		val = int32(w)
	case TagTrue:
		val = 1
	case TagFalse:
		val = 0
	default:
		r.fail(fmt.Errorf("%w: have %q, want int", ErrWrongType, tag))
		return 0
	}
	r.advance()
	return val
}

// Float consumes the next argument as a float32. Accepts f and i tags.
func (r *Reader) Float() float32 {
	tag, ok := r.nextTag()
	if !ok {
		return 0
	}
	var val float32
	switch tag {
	case TagFloat32:
		w, ok := r.takeWord()
		if !ok {
			return 0
		}
		val = math.Float32frombits(w)
	case TagInt32:
		w, ok := r.takeWord()
		if !ok {
			return 0
		}
		val = float32(int32(w))
	default:
		r.fail(fmt.Errorf("%w: have %q, want float", ErrWrongType, tag))
		return 0
	}
	r.advance()
	return val
}

// String consumes the next argument as a string. Accepts s and N tags.
func (r *Reader) String() string {
	tag, ok := r.nextTag()
	if !ok {
		return ""
	}
	var val string
	switch tag {
	case TagString:
		s, next, err := readPaddedString(r.data, r.pos)
		if err != nil {
			r.fail(err)
			return ""
		}
		val = s
		r.pos = next
	case TagNil:
		val = ""
	default:
		r.fail(fmt.Errorf("%w: have %q, want string", ErrWrongType, tag))
		return ""
	}
	r.advance()
	return val
}

// End reports whether the cursor consumed the whole message cleanly: no
// pending error, no unread tags, no trailing argument data.
func (r *Reader) End() error {
	if r.err != nil {
		return r.err
	}
	if len(r.tags) != 0 {
		return fmt.Errorf("%w: %d unread arguments", ErrWrongType, len(r.tags))
	}
	if r.pos != len(r.data) {
		return fmt.Errorf("%w: %d trailing bytes", ErrWrongType, len(r.data)-r.pos)
	}
	return nil
}

// Writer is an incremental cursor producing OSC fields into a fixed-capacity
// buffer. Unlike Message.Encode it never allocates; it fails with
// ErrBufferFull when the destination cannot hold the next field, which is the
// behavior handlers building multi-argument replies rely on.
//
// Errors are sticky, mirroring Reader.
type Writer struct {
	buf []byte
	pos int
	err error
}

// NewWriter returns a Writer over buf. The writer never grows buf.
func NewWriter(buf []byte) *Writer {
	return &Writer{buf: buf}
}

// Err returns the first error encountered, if any.
func (w *Writer) Err() error { return w.err }

func (w *Writer) fail(err error) {
	if w.err == nil {
		w.err = err
	}
}

// PutString appends a nul-terminated, 4-byte padded string.
func (w *Writer) PutString(s string) {
	if w.err != nil {
		return
	}
	if bytes.IndexByte([]byte(s), 0) >= 0 {
		w.fail(fmt.Errorf("%w: embedded nul", ErrUnterminatedString))
		return
	}
	n := paddedLen(len(s))
	if w.pos+n > len(w.buf) {
		w.fail(fmt.Errorf("%w: string of %d bytes", ErrBufferFull, len(s)))
		return
	}
	copy(w.buf[w.pos:], s)
	for i := w.pos + len(s); i < w.pos+n; i++ {
		w.buf[i] = 0
	}
	w.pos += n
}

// PutInt appends a big-endian int32.
func (w *Writer) PutInt(v int32) {
	w.putWord(uint32(v))
}

// PutFloat appends a big-endian IEEE-754 float32.
func (w *Writer) PutFloat(v float32) {
	w.putWord(math.Float32bits(v))
}

// PutBlob appends a length-prefixed, 4-byte padded blob.
func (w *Writer) PutBlob(b []byte) {
	if w.err != nil {
		return
	}
	n := 4 + (len(b)+3)&^3
	if w.pos+n > len(w.buf) {
		w.fail(fmt.Errorf("%w: blob of %d bytes", ErrBufferFull, len(b)))
		return
	}
	binary.BigEndian.PutUint32(w.buf[w.pos:], uint32(len(b)))
	copy(w.buf[w.pos+4:], b)
	for i := w.pos + 4 + len(b); i < w.pos+n; i++ {
		w.buf[i] = 0
	}
	w.pos += n
}

func (w *Writer) putWord(v uint32) {
	if w.err != nil {
		return
	}
	if w.pos+4 > len(w.buf) {
		w.fail(fmt.Errorf("%w: 4-byte field", ErrBufferFull))
		return
	}
	binary.BigEndian.PutUint32(w.buf[w.pos:], v)
	w.pos += 4
}

// Bytes returns the written portion of the buffer, or the first error.
func (w *Writer) Bytes() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	return w.buf[:w.pos], nil
}
