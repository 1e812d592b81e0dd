package device

import (
	"fmt"
	"strings"
)

// Device capability flags.
const (
	// FlagDURec indicates the device has a Direct USB Recording unit.
	FlagDURec uint32 = 1 << iota

	// FlagRoomEQ indicates the device has per-output room EQ.
	FlagRoomEQ

	// FlagFXLevels indicates the device reports separate pre/post-FX
	// level meters (SysEx message kinds 0x05 and 0x06).
	FlagFXLevels
)

// Input channel capability flags.
const (
	// InputGain indicates the channel has an analog gain stage.
	InputGain uint32 = 1 << iota

	// Input48V indicates the channel has switchable phantom power.
	Input48V

	// InputRefLevel indicates the channel has reference level selection.
	InputRefLevel

	// InputHiZ indicates the channel has a high-impedance instrument mode.
	InputHiZ
)

// Output channel capability flags.
const (
	// OutputRefLevel indicates the channel has reference level selection.
	OutputRefLevel uint32 = 1 << iota
)

// Channel describes a single physical input or output channel.
type Channel struct {
	// Name is the front-panel label (e.g., "Mic/Line 1", "Phones 9").
	Name string

	// Flags is a bitmask of Input*/Output* capability flags.
	Flags uint32
}

// Has reports whether the channel has the given capability flag set.
func (c Channel) Has(flag uint32) bool {
	return c.Flags&flag != 0
}

// Descriptor describes one supported device model.
//
// Descriptors are immutable after registration. The parameter tree and the
// dispatch engine hold a descriptor for the lifetime of the process.
type Descriptor struct {
	// ID is the short identifier used in configuration (e.g., "ufxii").
	ID string

	// Name is the model name as reported by the MIDI port (e.g.,
	// "Fireface UFX II").
	Name string

	// Version is the minimum firmware version the register map assumes.
	Version int

	// Flags is a bitmask of Flag* device capabilities.
	Flags uint32

	// Inputs and Outputs are the physical channel tables, in register order.
	Inputs  []Channel
	Outputs []Channel
}

// Has reports whether the descriptor has the given capability flag set.
func (d *Descriptor) Has(flag uint32) bool {
	return d.Flags&flag != 0
}

// registry of supported devices, in lookup order.
var descriptors = []*Descriptor{
	&UFXII,
}

// Lookup finds a descriptor by ID or by MIDI port name.
//
// Port names as reported by the OS typically carry a suffix (for example
// "Fireface UFX II (23732123)"), so a port matches when it equals the model
// name or continues it with " (".
func Lookup(port string) (*Descriptor, error) {
	for _, d := range descriptors {
		if port == d.ID {
			return d, nil
		}
		if rest, ok := strings.CutPrefix(port, d.Name); ok {
			if rest == "" || strings.HasPrefix(rest, " (") {
				return d, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedDevice, port)
}
