package bridge

import (
	"fmt"
	"sync"
	"time"

	"github.com/nerrad567/sound-logic-core/internal/device"
	"github.com/nerrad567/sound-logic-core/internal/osc"
	"github.com/nerrad567/sound-logic-core/internal/state"
	"github.com/nerrad567/sound-logic-core/internal/sysex"
	"github.com/nerrad567/sound-logic-core/internal/tree"
)

// maxBundleBytes bounds an outbound bundle to a safe UDP datagram size. A
// dispatch cycle producing more notifications than fit is flushed in
// several bundles.
const maxBundleBytes = 1400

// Logger is the minimal structured logging surface the bridge needs.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// Observer is notified after a device parameter change has been accepted
// into the store. Optional; called with the bridge lock held, so
// implementations must not call back into the bridge and must return
// quickly, handing slow work (broker round trips, disk writes) to
// their own goroutine.
type Observer interface {
	ParameterChanged(address string, register uint16, raw int, args []osc.Argument)
}

// LevelSink receives decoded meter readings. Optional.
type LevelSink interface {
	WriteLevels(bank string, fx bool, levels []sysex.Level)
}

// Recorder persists the register change history. Optional; the same
// contract as Observer applies, implementations must not block.
type Recorder interface {
	RecordChange(register uint16, address string, previous, current int, first bool)
}

// SnapshotWriter persists a full parameter snapshot and returns its id.
// Optional; backs the dump/save operation.
type SnapshotWriter interface {
	WriteSnapshot(values map[string]any) (string, error)
}

// Options configures a Bridge. Tree, SendMIDI and SendOSC are required;
// everything else is optional.
type Options struct {
	Tree    *tree.Tree
	Version string

	// SendMIDI transmits one SysEx frame to the device. SendOSC
	// transmits one OSC packet (message or bundle) to clients.
	SendMIDI func([]byte) error
	SendOSC  func([]byte) error

	// QuietPeriod ends a refresh cycle when the device stops sending
	// register words without an end-of-dump marker. Zero disables the
	// fallback.
	QuietPeriod time.Duration

	Logger    Logger
	Observers []Observer
	Levels    LevelSink
	History   Recorder
	Snapshots SnapshotWriter

	// Now is the clock, replaceable in tests.
	Now func() time.Time
}

// Bridge is the dispatch engine. One mutex serializes the three event
// sources; every handler batches its outbound OSC traffic and flushes it
// before returning.
type Bridge struct {
	opts  Options
	tree  *tree.Tree
	store *state.Store

	mu         sync.Mutex
	refreshing bool
	lastDevice time.Time
	bundle     *osc.Bundle
}

// New validates opts and returns a ready Bridge.
func New(opts Options) (*Bridge, error) {
	if opts.Tree == nil {
		return nil, fmt.Errorf("%w: parameter tree", ErrNoTransport)
	}
	if opts.SendMIDI == nil || opts.SendOSC == nil {
		return nil, ErrNoTransport
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Bridge{
		opts:   opts,
		tree:   opts.Tree,
		store:  state.NewStore(),
		bundle: osc.NewBundle(),
	}, nil
}

// Store exposes the register store for diagnostics.
func (b *Bridge) Store() *state.Store { return b.store }

// Refreshing reports whether a parameter dump is in progress.
func (b *Bridge) Refreshing() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.refreshing
}

// HandleOSC dispatches one inbound OSC packet from a client.
func (b *Bridge) HandleOSC(data []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	defer b.flush()

	r, addr, err := osc.NewReader(data)
	if err != nil {
		b.logDebug("dropping malformed osc packet", "error", err)
		return
	}

	if b.handleVerb(addr, r) {
		return
	}

	res, err := b.tree.Resolve(addr)
	if err != nil {
		b.logDebug("unresolved osc address", "address", addr, "error", err)
		return
	}

	if len(r.Remaining()) == 0 {
		b.handleGet(addr, res)
		return
	}
	b.handleSet(addr, res, r)
}

// handleVerb dispatches the addresses handled before tree resolution.
func (b *Bridge) handleVerb(addr string, r *osc.Reader) bool {
	switch addr {
	case "/refresh":
		b.startRefresh()
	case "/version":
		b.notifyRaw(&osc.Message{Address: "/version", Args: []osc.Argument{osc.String(b.opts.Version)}})
	case "/enum":
		target := r.String()
		if err := r.Err(); err != nil {
			b.logDebug("enum request without address", "error", err)
			return true
		}
		b.handleEnum(target)
	case "/dump":
		b.dumpState()
	case "/dump/save":
		b.saveSnapshot()
	default:
		return false
	}
	return true
}

func (b *Bridge) startRefresh() {
	// The device answers a write of all-ones to the sample-rate register
	// with a dump of every parameter, terminated by the end-of-dump
	// marker.
	b.refreshing = true
	b.lastDevice = b.opts.Now()
	b.setRegister(tree.RegSampleRate, -1)
	b.logInfo("refresh started")
}

func (b *Bridge) handleEnum(target string) {
	res, err := b.tree.Resolve(target)
	if err != nil {
		b.logDebug("enum of unresolved address", "address", target, "error", err)
		return
	}
	node := res.Node()
	if node.Kind != tree.KindEnum {
		b.logDebug("enum of non-enum address", "address", target, "kind", node.Kind.String())
		return
	}
	args := make([]osc.Argument, 0, len(node.Names)+1)
	args = append(args, osc.String(target))
	for _, name := range node.Names {
		args = append(args, osc.String(name))
	}
	b.notifyRaw(&osc.Message{Address: "/enum", Args: args})
}

// dumpState replays the current value of every reported parameter as
// notifications, walking the address tree depth-first. Parameters the
// device has not reported yet are skipped.
func (b *Bridge) dumpState() {
	snap := b.store.Snapshot()
	for _, addr := range b.tree.Addresses() {
		res, err := b.tree.Resolve(addr)
		if err != nil || res.Node().WriteOnly {
			continue
		}
		raw, ok := snap[res.Register]
		if !ok {
			continue
		}
		args, err := state.ToClient(res.Node(), raw)
		if err != nil {
			b.logDebug("undumpable parameter", "address", addr, "error", err)
			continue
		}
		b.notifyRaw(&osc.Message{Address: addr, Args: args})
	}
}

func (b *Bridge) saveSnapshot() {
	if b.opts.Snapshots == nil {
		b.logDebug("snapshot requested but no snapshot store configured")
		return
	}
	values := make(map[string]any)
	for reg, raw := range b.store.Snapshot() {
		for _, binding := range b.tree.Lookup(reg) {
			args, err := state.ToClient(binding.Node, raw)
			if err != nil {
				continue
			}
			values[binding.Address] = clientValue(args)
		}
	}
	id, err := b.opts.Snapshots.WriteSnapshot(values)
	if err != nil {
		b.logError("snapshot failed", err)
		return
	}
	b.logInfo("snapshot saved", "id", id, "parameters", len(values))
	b.notifyRaw(&osc.Message{Address: "/dump/save", Args: []osc.Argument{osc.String(id)}})
}

// handleGet answers a zero-argument message with the parameter's stored
// value. An unseen register produces no reply; clients refresh first.
func (b *Bridge) handleGet(addr string, res tree.Resolved) {
	node := res.Node()
	if node.Kind == tree.KindGroup {
		b.logDebug("get rejected", "address", addr, "error", ErrNotALeaf)
		return
	}
	raw, ok := b.store.Get(res.Register)
	if !ok {
		b.logDebug("get before first device report", "address", addr, "register", res.Register)
		return
	}
	args, err := state.ToClient(node, raw)
	if err != nil {
		b.logError("stored value does not convert", err, "address", addr)
		return
	}
	b.notifyRaw(&osc.Message{Address: addr, Args: args})
}

// handleSet converts the client value and writes the register. The store is
// not updated here; the device echoes accepted writes back and the echo
// drives notification.
func (b *Bridge) handleSet(addr string, res tree.Resolved, r *osc.Reader) {
	node := res.Node()
	if node.Kind == tree.KindGroup {
		b.logDebug("set rejected", "address", addr, "error", ErrNotALeaf)
		return
	}
	if node.ReadOnly {
		b.logWarn("set rejected", "address", addr, "error", ErrReadOnly)
		return
	}
	raw, err := state.FromClient(node, r)
	if err != nil {
		b.logWarn("rejected client value", "address", addr, "error", err)
		return
	}
	b.setRegister(res.Register, raw)
	b.logDebug("register write", "address", addr, "register", res.Register, "value", raw)
}

// HandleSysEx dispatches one inbound SysEx frame from the device.
func (b *Bridge) HandleSysEx(data []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	defer b.flush()

	kind, raw, err := sysex.Decode(data)
	if err != nil {
		b.logDebug("dropping sysex frame", "error", err)
		return
	}
	words, err := sysex.DecodeWords(raw)
	if err != nil {
		b.logDebug("misaligned sysex payload", "kind", kind, "error", err)
		return
	}

	switch {
	case kind == sysex.KindRegisters:
		b.handleRegisters(words)
	case sysex.IsLevelKind(kind):
		b.handleLevels(kind, words)
	default:
		b.logDebug("unknown sysex kind", "kind", kind)
	}
}

func (b *Bridge) handleRegisters(words []uint32) {
	b.lastDevice = b.opts.Now()
	for _, w := range words {
		reg, val := sysex.SplitWord(w)
		if reg == tree.RegEndOfDump {
			if b.refreshing {
				b.refreshing = false
				b.logInfo("refresh complete", "registers", b.store.Len())
			}
			continue
		}
		change := b.store.Apply(reg, val)
		if !change.Changed {
			continue
		}
		bindings := b.tree.Lookup(reg)
		if len(bindings) == 0 {
			// Stored for diagnostics, but not a parameter we expose.
			continue
		}
		for _, binding := range bindings {
			args, err := state.ToClient(binding.Node, val)
			if err != nil {
				b.logDebug("device value does not convert", "register", reg, "error", err)
				continue
			}
			b.notifyRaw(&osc.Message{Address: binding.Address, Args: args})
			for _, obs := range b.opts.Observers {
				obs.ParameterChanged(binding.Address, reg, val, args)
			}
			if b.opts.History != nil {
				b.opts.History.RecordChange(reg, binding.Address, change.Previous, change.Current, change.First)
			}
		}
	}
}

func (b *Bridge) handleLevels(kind byte, words []uint32) {
	bank, fx := levelBank(kind)
	if fx && !b.tree.Device.Has(device.FlagFXLevels) {
		b.logDebug("fx levels from device without fx meters", "kind", kind)
		return
	}
	levels, err := sysex.DecodeLevels(words)
	if err != nil {
		b.logDebug("bad level payload", "kind", kind, "error", err)
		return
	}
	levels = levels[:min(len(levels), b.channelCount(bank))]

	suffix := "/level"
	if fx {
		suffix = "/fxlevel"
	}
	for i, lvl := range levels {
		b.notifyRaw(&osc.Message{
			Address: fmt.Sprintf("/%s/%d%s", bank, i+1, suffix),
			Args:    []osc.Argument{osc.Float32(lvl.Peak), osc.Float32(lvl.RMS)},
		})
	}
	if b.opts.Levels != nil {
		b.opts.Levels.WriteLevels(bank, fx, levels)
	}
}

func levelBank(kind byte) (bank string, fx bool) {
	switch kind {
	case sysex.KindInputLevels:
		return "input", false
	case sysex.KindOutputLevels:
		return "output", false
	case sysex.KindPlaybackLevels:
		return "playback", false
	case sysex.KindInputFXLevels:
		return "input", true
	case sysex.KindOutputFXLevels:
		return "output", true
	}
	return "", false
}

func (b *Bridge) channelCount(bank string) int {
	switch bank {
	case "input":
		return len(b.tree.Device.Inputs)
	default:
		return len(b.tree.Device.Outputs)
	}
}

// HandleTimer runs the periodic poll. Level meters are requested only when
// withLevels is set and never while a refresh dump is in flight.
func (b *Bridge) HandleTimer(withLevels bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.refreshing {
		if b.opts.QuietPeriod > 0 && b.opts.Now().Sub(b.lastDevice) > b.opts.QuietPeriod {
			b.refreshing = false
			b.logWarn("refresh ended without end-of-dump marker",
				"registers", b.store.Len(), "quiet", b.opts.QuietPeriod.String())
		}
		return
	}
	if !withLevels {
		return
	}

	b.setRegister(tree.RegLevelInput, 1)
	b.setRegister(tree.RegLevelOutput, 1)
	b.setRegister(tree.RegLevelPlayback, 1)
	if b.tree.Device.Has(device.FlagFXLevels) {
		b.setRegister(tree.RegLevelInputFX, 1)
		b.setRegister(tree.RegLevelOutputFX, 1)
	}
}

// setRegister frames and transmits one register write.
func (b *Bridge) setRegister(reg uint16, val int) {
	frame := sysex.EncodeRegisters([]uint32{sysex.RegisterWord(reg, int16(val))})
	if err := b.opts.SendMIDI(frame); err != nil {
		b.logError("midi send failed", err, "register", reg)
	}
}

// notifyRaw queues one outbound message, flushing when the bundle reaches
// the datagram size limit.
func (b *Bridge) notifyRaw(msg *osc.Message) {
	if err := b.bundle.AppendMessage(msg); err != nil {
		b.logError("dropping unencodable message", err, "address", msg.Address)
		return
	}
	if len(b.bundle.Bytes()) >= maxBundleBytes {
		b.flush()
	}
}

func (b *Bridge) flush() {
	data := b.bundle.Bytes()
	if data == nil {
		return
	}
	if err := b.opts.SendOSC(data); err != nil {
		b.logError("osc send failed", err)
	}
	b.bundle.Reset()
}

// clientValue flattens a notification argument list to a plain value for
// snapshots: enums keep their name, single arguments their scalar.
func clientValue(args []osc.Argument) any {
	if len(args) == 2 && args[1].Tag == osc.TagString {
		return args[1].Str
	}
	if len(args) == 0 {
		return nil
	}
	switch a := args[0]; a.Tag {
	case osc.TagInt32:
		return a.Int
	case osc.TagFloat32:
		return a.Float
	case osc.TagString:
		return a.Str
	case osc.TagTrue:
		return true
	case osc.TagFalse:
		return false
	}
	return nil
}

func (b *Bridge) logDebug(msg string, keysAndValues ...any) {
	if b.opts.Logger != nil {
		b.opts.Logger.Debug(msg, keysAndValues...)
	}
}

func (b *Bridge) logInfo(msg string, keysAndValues ...any) {
	if b.opts.Logger != nil {
		b.opts.Logger.Info(msg, keysAndValues...)
	}
}

func (b *Bridge) logWarn(msg string, keysAndValues ...any) {
	if b.opts.Logger != nil {
		b.opts.Logger.Warn(msg, keysAndValues...)
	}
}

func (b *Bridge) logError(msg string, err error, keysAndValues ...any) {
	if b.opts.Logger != nil {
		b.opts.Logger.Error(msg, append([]any{"error", err}, keysAndValues...)...)
	}
}
