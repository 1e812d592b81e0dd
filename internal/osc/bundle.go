package osc

import "encoding/binary"

// bundleHeader is the fixed "#bundle" marker plus the immediate time tag
// (seconds 0, fraction 1), meaning "deliver now".
var bundleHeader = []byte{
	'#', 'b', 'u', 'n', 'd', 'l', 'e', 0,
	0, 0, 0, 0, 0, 0, 0, 1,
}

// Bundle accumulates encoded messages and frames them as one OSC bundle with
// an immediate time tag. The dispatch engine appends every notification
// produced during a dispatch cycle and flushes the result as a single packet.
type Bundle struct {
	buf   []byte
	count int
}

// NewBundle returns an empty bundle.
func NewBundle() *Bundle {
	return &Bundle{}
}

// Append adds one encoded message as a size-prefixed bundle element.
func (b *Bundle) Append(packet []byte) {
	if b.count == 0 {
		b.buf = append(b.buf, bundleHeader...)
	}
	var size [4]byte
	binary.BigEndian.PutUint32(size[:], uint32(len(packet)))
	b.buf = append(b.buf, size[:]...)
	b.buf = append(b.buf, packet...)
	b.count++
}

// AppendMessage encodes msg and adds it to the bundle. Encoding failures are
// reported so the caller can log and drop the one message.
func (b *Bundle) AppendMessage(msg *Message) error {
	packet, err := msg.Encode()
	if err != nil {
		return err
	}
	b.Append(packet)
	return nil
}

// Len returns the number of elements collected so far.
func (b *Bundle) Len() int { return b.count }

// Bytes returns the framed bundle, or nil when nothing was appended.
func (b *Bundle) Bytes() []byte {
	if b.count == 0 {
		return nil
	}
	return b.buf
}

// Reset empties the bundle for reuse, keeping the allocation.
func (b *Bundle) Reset() {
	b.buf = b.buf[:0]
	b.count = 0
}
