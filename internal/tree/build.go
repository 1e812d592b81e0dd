package tree

import (
	"strconv"

	"github.com/nerrad567/sound-logic-core/internal/device"
)

// Register layout. Per-channel blocks are 0x40 registers apart with the
// parameter number in the low bits; the mixer matrix packs the source index
// into the low six bits of each destination block.
const (
	regInputBase    = 0x0000
	regOutputBase   = 0x0a00
	regPlaybackBase = 0x0f00
	regSystemBase   = 0x1400
	regMixerVolume  = 0x2000
	regMixerPan     = 0x2a00
	regHardwareBase = 0x3e04
	regDURecBase    = 0x3e90
	regChannelStep  = 0x40

	// RegSampleRate doubles as the refresh trigger register; its top bit
	// masks off on the wire.
	RegSampleRate = 0x8000
	// RegEndOfDump is reported by the device as the final word of a
	// parameter dump.
	RegEndOfDump = 0x2fc0
)

// Level-request registers polled on the periodic timer.
const (
	RegLevelInput    = 0x9000
	RegLevelOutput   = 0x9001
	RegLevelPlayback = 0x9002
	RegLevelInputFX  = 0x9003
	RegLevelOutputFX = 0x9004
)

var (
	clockSourceNames = []string{"Internal", "AES", "ADAT", "Sync In"}
	bufferSizeNames  = []string{"32", "64", "128", "256", "512", "1024"}
	inputRefNames    = []string{"-10 dBV", "+4 dBu", "HiZ", "LoGain"}
	outputRefNames   = []string{"-10 dBV", "+4 dBu", "HiGain", "LoGain"}
	ditherNames      = []string{"Off", "16 bit", "20 bit"}
	durecStatusNames = []string{
		"No Media", "FS Error", "Initializing", "Reinitializing",
		"Unknown", "Stopped", "Recording", "Unknown",
		"Unknown", "Unknown", "Playing", "Paused",
	}
	durecPlayModeNames = []string{"Single", "Repeat", "Sequence", "Random"}
	clockStatusNames   = []string{"Lock", "No Lock"}
)

// Binding ties one register address to one parameter node. A register may
// have several bindings when addresses alias the same device state.
type Binding struct {
	Address string
	Node    *Node
}

// Tree is the immutable parameter hierarchy plus a reverse index from
// register address to the nodes bound to it.
type Tree struct {
	Root       *Node
	Device     *device.Descriptor
	byRegister map[uint16][]Binding
}

// Lookup returns the bindings for a register address, or nil.
func (t *Tree) Lookup(reg uint16) []Binding {
	return t.byRegister[reg]
}

// Addresses returns every concrete leaf address in depth-first order. The
// state dump replays parameters in this order.
func (t *Tree) Addresses() []string {
	var addrs []string
	var walk func(prefix string, n *Node)
	walk = func(prefix string, n *Node) {
		addr := prefix + "/" + n.Pattern
		if n.Kind != KindGroup {
			addrs = append(addrs, addr)
			return
		}
		for _, c := range n.Children {
			walk(addr, c)
		}
	}
	for _, c := range t.Root.Children {
		walk("", c)
	}
	return addrs
}

func volumeNode(name string, offset int) *Node {
	return &Node{Pattern: name, Offset: offset, Kind: KindFixed, Scale: 100, Min: -6500, Max: 600}
}

func boolNode(name string, offset int) *Node {
	return &Node{Pattern: name, Offset: offset, Kind: KindBool, Min: 0, Max: 1}
}

func enumNode(name string, offset int, names []string) *Node {
	return &Node{Pattern: name, Offset: offset, Kind: KindEnum, Min: 0, Max: len(names) - 1, Names: names}
}

func inputChannelNode(ch int, flags uint32) *Node {
	n := &Node{
		Pattern: strconv.Itoa(ch + 1),
		Offset:  regInputBase + ch*regChannelStep,
		Kind:    KindGroup,
		Children: []*Node{
			volumeNode("volume", 0),
			{Pattern: "pan", Offset: 1, Kind: KindInt, Min: -100, Max: 100},
			boolNode("stereo", 2),
			boolNode("mute", 3),
		},
	}
	if flags&device.Input48V != 0 {
		n.Children = append(n.Children, boolNode("48v", 4))
	}
	if flags&device.InputHiZ != 0 {
		n.Children = append(n.Children, boolNode("hiz", 5))
	}
	if flags&device.InputGain != 0 {
		n.Children = append(n.Children,
			&Node{Pattern: "gain", Offset: 6, Kind: KindFixed, Scale: 10, Min: 0, Max: 750})
	}
	if flags&device.InputRefLevel != 0 {
		n.Children = append(n.Children, enumNode("reflevel", 7, inputRefNames))
	}
	n.Children = append(n.Children, boolNode("autoset", 8))
	return n
}

func outputChannelNode(ch int, flags uint32) *Node {
	n := &Node{
		Pattern: strconv.Itoa(ch + 1),
		Offset:  regOutputBase + ch*regChannelStep,
		Kind:    KindGroup,
		Children: []*Node{
			volumeNode("volume", 0),
			boolNode("mute", 1),
		},
	}
	if flags&device.OutputRefLevel != 0 {
		n.Children = append(n.Children, enumNode("reflevel", 2, outputRefNames))
	}
	n.Children = append(n.Children,
		enumNode("dither", 3, ditherNames),
		boolNode("phase", 4),
		boolNode("mono", 5),
		boolNode("loopback", 6),
	)
	return n
}

func playbackChannelNode(ch int) *Node {
	return &Node{
		Pattern: strconv.Itoa(ch + 1),
		Offset:  regPlaybackBase + ch*regChannelStep,
		Kind:    KindGroup,
		Children: []*Node{
			volumeNode("volume", 0),
			boolNode("mute", 1),
			boolNode("phase", 2),
		},
	}
}

// mixerSourceNode is one source column of the mix matrix: the destination
// children contribute the row offset and the leaves pick the plane.
func mixerSourceNode(src, srcOffset, outputs int) *Node {
	n := &Node{
		Pattern: strconv.Itoa(src + 1),
		Offset:  src + srcOffset,
		Kind:    KindGroup,
	}
	for dst := 0; dst < outputs; dst++ {
		n.Children = append(n.Children, &Node{
			Pattern: strconv.Itoa(dst + 1),
			Offset:  dst * regChannelStep,
			Kind:    KindGroup,
			Children: []*Node{
				{Pattern: "volume", Offset: regMixerVolume, Kind: KindFixed, Scale: 100, Min: -6500, Max: 600},
				{Pattern: "pan", Offset: regMixerPan, Kind: KindInt, Min: -100, Max: 100},
			},
		})
	}
	return n
}

func systemNodes() []*Node {
	return []*Node{
		{Pattern: "samplerate", Offset: RegSampleRate, Kind: KindInt, ReadOnly: true},
		enumNode("clocksource", regSystemBase+0, clockSourceNames),
		enumNode("buffersize", regSystemBase+1, bufferSizeNames),
		boolNode("phantompower", regSystemBase+2),
		volumeNode("mastervol", regSystemBase+3),
		boolNode("mastermute", regSystemBase+4),
		volumeNode("digitalgain", regSystemBase+5),
	}
}

func hardwareNodes() []*Node {
	return []*Node{
		{Pattern: "dspload", Offset: regHardwareBase + 0, Kind: KindInt, ReadOnly: true},
		{Pattern: "dspversion", Offset: regHardwareBase + 1, Kind: KindInt, ReadOnly: true},
		func() *Node {
			n := enumNode("clockstatus", regHardwareBase+2, clockStatusNames)
			n.ReadOnly = true
			return n
		}(),
		{Pattern: "temperature", Offset: regHardwareBase + 3, Kind: KindInt, ReadOnly: true},
	}
}

func durecNodes() []*Node {
	status := enumNode("status", regDURecBase+0, durecStatusNames)
	status.ReadOnly = true
	trigger := func(name string, offset int) *Node {
		n := boolNode(name, offset)
		n.WriteOnly = true
		return n
	}
	return []*Node{
		status,
		{Pattern: "time", Offset: regDURecBase + 1, Kind: KindInt, ReadOnly: true},
		{Pattern: "totalspace", Offset: regDURecBase + 3, Kind: KindInt, ReadOnly: true},
		{Pattern: "freespace", Offset: regDURecBase + 4, Kind: KindInt, ReadOnly: true},
		{Pattern: "file", Offset: regDURecBase + 5, Kind: KindInt, Min: 0, Max: 0xffff},
		trigger("record", regDURecBase + 0x0b),
		trigger("stop", regDURecBase + 0x0c),
		trigger("play", regDURecBase + 0x0d),
		trigger("pause", regDURecBase + 0x0e),
		enumNode("playmode", regDURecBase+0x0f, durecPlayModeNames),
	}
}

// Build constructs the parameter tree for one device and indexes every
// readable leaf by its absolute register address.
func Build(desc *device.Descriptor) (*Tree, error) {
	group := func(name string, children ...*Node) *Node {
		return &Node{Pattern: name, Kind: KindGroup, Children: children}
	}

	input := group("input")
	for ch := range desc.Inputs {
		input.Children = append(input.Children, inputChannelNode(ch, desc.Inputs[ch].Flags))
	}
	output := group("output")
	playback := group("playback")
	for ch := range desc.Outputs {
		output.Children = append(output.Children, outputChannelNode(ch, desc.Outputs[ch].Flags))
		playback.Children = append(playback.Children, playbackChannelNode(ch))
	}

	mixerInput := group("input")
	for src := range desc.Inputs {
		mixerInput.Children = append(mixerInput.Children, mixerSourceNode(src, 0, len(desc.Outputs)))
	}
	mixerPlayback := group("playback")
	for src := range desc.Outputs {
		// Playback sources sit after the hardware inputs in the matrix.
		mixerPlayback.Children = append(mixerPlayback.Children, mixerSourceNode(src, len(desc.Inputs), len(desc.Outputs)))
	}

	// The main output alias shares registers with the system master pair.
	main := group("main",
		volumeNode("volume", regSystemBase+3),
		boolNode("mute", regSystemBase+4),
	)

	root := group("/",
		group("system", systemNodes()...),
		input,
		output,
		playback,
		group("mixer", mixerInput, mixerPlayback),
		main,
		group("hardware", hardwareNodes()...),
	)
	if desc.Has(device.FlagDURec) {
		root.Children = append(root.Children, group("durec", durecNodes()...))
	}

	for _, c := range root.Children {
		if err := c.validate(); err != nil {
			return nil, err
		}
	}

	t := &Tree{Root: root, Device: desc, byRegister: make(map[uint16][]Binding)}
	t.index("", 0, root)
	return t, nil
}

// index builds the register-to-binding map. Construction uses only literal
// patterns, so every visited address is concrete.
func (t *Tree) index(prefix string, base int, n *Node) {
	for _, c := range n.Children {
		addr := prefix + "/" + c.Pattern
		reg := base + c.Offset
		if c.Kind == KindGroup {
			t.index(addr, reg, c)
			continue
		}
		if c.WriteOnly {
			continue
		}
		t.byRegister[uint16(reg)] = append(t.byRegister[uint16(reg)], Binding{Address: addr, Node: c})
	}
}
