package midiio

import (
	"errors"
	"fmt"
	"strings"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"github.com/nerrad567/sound-logic-core/internal/infrastructure/config"
)

// defaultSysExBuffer holds the largest parameter dump the mixer sends.
const defaultSysExBuffer = 8192

var (
	// ErrNoInPort is returned when no MIDI input matches the configured name.
	ErrNoInPort = errors.New("midiio: no matching MIDI input port")

	// ErrNoOutPort is returned when no MIDI output matches the configured name.
	ErrNoOutPort = errors.New("midiio: no matching MIDI output port")
)

// Ports is an open MIDI connection pair.
type Ports struct {
	drv  *rtmididrv.Driver
	in   drivers.In
	out  drivers.Out
	cfg  config.MIDIConfig
	stop func()
}

// Open creates the rtmidi driver and opens the first in/out ports
// matching the configured names. Empty port names fall back to the
// device model, so a bare config still finds the mixer.
func Open(cfg config.MIDIConfig, model string) (*Ports, error) {
	drv, err := rtmididrv.New()
	if err != nil {
		return nil, fmt.Errorf("midiio: creating driver: %w", err)
	}

	inWant := cfg.InPort
	if inWant == "" {
		inWant = model
	}
	outWant := cfg.OutPort
	if outWant == "" {
		outWant = model
	}

	ins, err := drv.Ins()
	if err != nil {
		drv.Close() //nolint:errcheck // Best effort cleanup on error path
		return nil, fmt.Errorf("midiio: listing inputs: %w", err)
	}
	in := findIn(ins, inWant)
	if in == nil {
		drv.Close() //nolint:errcheck // Best effort cleanup on error path
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrNoInPort, inWant, portNames(ins))
	}

	outs, err := drv.Outs()
	if err != nil {
		drv.Close() //nolint:errcheck // Best effort cleanup on error path
		return nil, fmt.Errorf("midiio: listing outputs: %w", err)
	}
	out := findOut(outs, outWant)
	if out == nil {
		drv.Close() //nolint:errcheck // Best effort cleanup on error path
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrNoOutPort, outWant, outNames(outs))
	}

	if err := in.Open(); err != nil {
		drv.Close() //nolint:errcheck // Best effort cleanup on error path
		return nil, fmt.Errorf("midiio: opening input %q: %w", in.String(), err)
	}
	if err := out.Open(); err != nil {
		in.Close()  //nolint:errcheck // Best effort cleanup on error path
		drv.Close() //nolint:errcheck // Best effort cleanup on error path
		return nil, fmt.Errorf("midiio: opening output %q: %w", out.String(), err)
	}

	return &Ports{drv: drv, in: in, out: out, cfg: cfg}, nil
}

// InPort returns the name of the opened input port.
func (p *Ports) InPort() string { return p.in.String() }

// OutPort returns the name of the opened output port.
func (p *Ports) OutPort() string { return p.out.String() }

// Listen starts delivering complete SysEx frames to fn. Non-SysEx
// messages are filtered out; fn runs on the driver's receive goroutine.
func (p *Ports) Listen(fn func(frame []byte)) error {
	bufSize := p.cfg.SysExBufferSize
	if bufSize <= 0 {
		bufSize = defaultSysExBuffer
	}

	stop, err := midi.ListenTo(p.in, func(msg midi.Message, _ int32) {
		if len(msg) > 0 && msg[0] == 0xf0 {
			fn(msg)
		}
	}, midi.UseSysEx(), midi.SysExBufferSize(uint32(bufSize)))
	if err != nil {
		return fmt.Errorf("midiio: listening on %q: %w", p.in.String(), err)
	}
	p.stop = stop
	return nil
}

// Send transmits one complete SysEx frame to the mixer.
func (p *Ports) Send(frame []byte) error {
	if err := p.out.Send(frame); err != nil {
		return fmt.Errorf("midiio: send: %w", err)
	}
	return nil
}

// Close stops listening and releases the ports and driver.
func (p *Ports) Close() error {
	if p.stop != nil {
		p.stop()
		p.stop = nil
	}
	var errs []error
	if p.in != nil {
		if err := p.in.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if p.out != nil {
		if err := p.out.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if p.drv != nil {
		if err := p.drv.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// matchPort reports whether a port name matches the wanted name,
// case-insensitively and by substring.
func matchPort(name, want string) bool {
	if want == "" {
		return false
	}
	return strings.Contains(strings.ToLower(name), strings.ToLower(want))
}

func findIn(ins []drivers.In, want string) drivers.In {
	for _, in := range ins {
		if matchPort(in.String(), want) {
			return in
		}
	}
	return nil
}

func findOut(outs []drivers.Out, want string) drivers.Out {
	for _, out := range outs {
		if matchPort(out.String(), want) {
			return out
		}
	}
	return nil
}

func portNames(ins []drivers.In) string {
	names := make([]string, len(ins))
	for i, in := range ins {
		names[i] = in.String()
	}
	return strings.Join(names, ", ")
}

func outNames(outs []drivers.Out) string {
	names := make([]string, len(outs))
	for i, out := range outs {
		names[i] = out.String()
	}
	return strings.Join(names, ", ")
}
