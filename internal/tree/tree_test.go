package tree

import (
	"errors"
	"testing"

	"github.com/nerrad567/sound-logic-core/internal/device"
)

func buildUFXII(t *testing.T) *Tree {
	t.Helper()
	tr, err := Build(&device.UFXII)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return tr
}

func TestResolveAccumulatesRegisters(t *testing.T) {
	tr := buildUFXII(t)
	tests := []struct {
		addr string
		reg  uint16
		kind Kind
	}{
		{"/input/1/volume", 0x0000, KindFixed},
		{"/input/1/mute", 0x0003, KindBool},
		{"/input/3/mute", 0x0083, KindBool},
		{"/output/1/volume", 0x0a00, KindFixed},
		{"/output/16/loopback", 0x0dc6, KindBool},
		{"/playback/2/phase", 0x0f42, KindBool},
		{"/system/mastervol", 0x1403, KindFixed},
		{"/main/volume", 0x1403, KindFixed},
		{"/mixer/input/1/1/volume", 0x2000, KindFixed},
		{"/mixer/input/3/2/volume", 0x2042, KindFixed},
		{"/mixer/playback/1/1/volume", 0x2018, KindFixed},
		{"/mixer/input/2/1/pan", 0x2a01, KindInt},
		{"/hardware/dspload", 0x3e04, KindInt},
		{"/durec/status", 0x3e90, KindEnum},
		{"/durec/play", 0x3e9d, KindBool},
	}
	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			res, err := tr.Resolve(tt.addr)
			if err != nil {
				t.Fatalf("Resolve(%q) error = %v", tt.addr, err)
			}
			if res.Register != tt.reg {
				t.Errorf("register = %#04x, want %#04x", res.Register, tt.reg)
			}
			if got := res.Node().Kind; got != tt.kind {
				t.Errorf("kind = %v, want %v", got, tt.kind)
			}
		})
	}
}

func TestResolveNotFound(t *testing.T) {
	tr := buildUFXII(t)
	tests := []struct {
		addr   string
		suffix string
	}{
		{"/nosuch", "nosuch"},
		{"/input/99/mute", "99/mute"},
		{"/input/1/nosuch", "nosuch"},
		{"/input/1/mute/extra", "extra"},
		{"/", ""},
	}
	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			_, err := tr.Resolve(tt.addr)
			var nf *NotFoundError
			if !errors.As(err, &nf) {
				t.Fatalf("Resolve(%q) error = %v, want NotFoundError", tt.addr, err)
			}
			if nf.Suffix != tt.suffix {
				t.Errorf("suffix = %q, want %q", nf.Suffix, tt.suffix)
			}
		})
	}
}

func TestResolveGroupAddress(t *testing.T) {
	tr := buildUFXII(t)
	res, err := tr.Resolve("/input/1")
	if err != nil {
		t.Fatalf("Resolve(/input/1) error = %v", err)
	}
	if res.Node().Kind != KindGroup {
		t.Errorf("kind = %v, want KindGroup", res.Node().Kind)
	}
}

func TestLookupAliases(t *testing.T) {
	tr := buildUFXII(t)
	bindings := tr.Lookup(0x1403)
	if len(bindings) != 2 {
		t.Fatalf("Lookup(0x1403) returned %d bindings, want 2", len(bindings))
	}
	addrs := map[string]bool{}
	for _, b := range bindings {
		addrs[b.Address] = true
	}
	if !addrs["/system/mastervol"] || !addrs["/main/volume"] {
		t.Errorf("alias addresses = %v, want mastervol and main volume", addrs)
	}
}

func TestLookupSkipsTriggers(t *testing.T) {
	tr := buildUFXII(t)
	res, err := tr.Resolve("/durec/play")
	if err != nil {
		t.Fatal(err)
	}
	if got := tr.Lookup(res.Register); got != nil {
		t.Errorf("Lookup on write-only register = %v, want nil", got)
	}
}

func TestLookupMatchesResolve(t *testing.T) {
	tr := buildUFXII(t)
	for _, addr := range tr.Addresses() {
		res, err := tr.Resolve(addr)
		if err != nil {
			t.Fatalf("Resolve(%q) error = %v", addr, err)
		}
		if res.Node().WriteOnly {
			continue
		}
		found := false
		for _, b := range tr.Lookup(res.Register) {
			if b.Address == addr {
				found = true
			}
		}
		if !found {
			t.Errorf("register index missing %q at %#04x", addr, res.Register)
		}
	}
}

func TestChannelFlagsGateNodes(t *testing.T) {
	tr := buildUFXII(t)
	// Mic inputs have gain and phantom power; line inputs must not.
	if _, err := tr.Resolve("/input/1/gain"); err != nil {
		t.Errorf("mic input gain missing: %v", err)
	}
	if _, err := tr.Resolve("/input/13/gain"); err == nil {
		t.Error("line input unexpectedly has a gain node")
	}
}
