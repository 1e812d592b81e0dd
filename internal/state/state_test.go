package state

import (
	"errors"
	"testing"

	"github.com/nerrad567/sound-logic-core/internal/osc"
	"github.com/nerrad567/sound-logic-core/internal/tree"
)

func TestStoreApply(t *testing.T) {
	s := NewStore()

	ch := s.Apply(0x0a00, -1050)
	if !ch.Changed || !ch.First || ch.Current != -1050 {
		t.Errorf("first apply = %+v, want changed and first", ch)
	}

	ch = s.Apply(0x0a00, -1050)
	if ch.Changed || ch.First {
		t.Errorf("idempotent apply = %+v, want no change", ch)
	}

	ch = s.Apply(0x0a00, 0)
	if !ch.Changed || ch.First || ch.Previous != -1050 {
		t.Errorf("update = %+v, want changed with previous -1050", ch)
	}

	if v, ok := s.Get(0x0a00); !ok || v != 0 {
		t.Errorf("Get = (%d, %v), want (0, true)", v, ok)
	}
	if _, ok := s.Get(0x0a01); ok {
		t.Error("Get on unseen register reported a value")
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}

func TestStoreSnapshot(t *testing.T) {
	s := NewStore()
	s.Apply(1, 10)
	s.Apply(2, 20)
	snap := s.Snapshot()
	snap[1] = 99
	if v, _ := s.Get(1); v != 10 {
		t.Error("Snapshot aliases the live map")
	}
	if len(snap) != 2 || snap[2] != 20 {
		t.Errorf("Snapshot = %v, want two registers", snap)
	}
}

func fixedNode() *tree.Node {
	return &tree.Node{Pattern: "volume", Kind: tree.KindFixed, Scale: 100, Min: -6500, Max: 600}
}

func enumNode() *tree.Node {
	return &tree.Node{Pattern: "clocksource", Kind: tree.KindEnum, Min: 0, Max: 3,
		Names: []string{"Internal", "AES", "ADAT", "Sync In"}}
}

func TestToClient(t *testing.T) {
	args, err := ToClient(fixedNode(), -1050)
	if err != nil {
		t.Fatal(err)
	}
	if len(args) != 1 || args[0].Tag != osc.TagFloat32 || args[0].Float != -10.5 {
		t.Errorf("fixed -1050 = %+v, want float -10.5", args)
	}

	args, err = ToClient(enumNode(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(args) != 2 || args[0].Int != 1 || args[1].Str != "AES" {
		t.Errorf("enum 1 = %+v, want (1, AES)", args)
	}

	if _, err = ToClient(enumNode(), 7); !errors.Is(err, ErrBadIndex) {
		t.Errorf("enum 7 error = %v, want ErrBadIndex", err)
	}

	args, err = ToClient(&tree.Node{Pattern: "mute", Kind: tree.KindBool}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if args[0].Tag != osc.TagTrue {
		t.Errorf("bool 1 = %+v, want T", args[0])
	}

	if _, err = ToClient(&tree.Node{Pattern: "input", Kind: tree.KindGroup}, 0); !errors.Is(err, ErrNotAValue) {
		t.Errorf("group error = %v, want ErrNotAValue", err)
	}
}

func readerFor(t *testing.T, args ...osc.Argument) *osc.Reader {
	t.Helper()
	msg := osc.Message{Address: "/x", Args: args}
	data, err := msg.Encode()
	if err != nil {
		t.Fatal(err)
	}
	r, _, err := osc.NewReader(data)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestFromClient(t *testing.T) {
	t.Run("fixed scales and rounds", func(t *testing.T) {
		raw, err := FromClient(fixedNode(), readerFor(t, osc.Float32(-10.5)))
		if err != nil {
			t.Fatal(err)
		}
		if raw != -1050 {
			t.Errorf("raw = %d, want -1050", raw)
		}
	})

	t.Run("fixed rejects out of range", func(t *testing.T) {
		if _, err := FromClient(fixedNode(), readerFor(t, osc.Float32(12))); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("error = %v, want ErrOutOfRange", err)
		}
	})

	t.Run("enum by index", func(t *testing.T) {
		raw, err := FromClient(enumNode(), readerFor(t, osc.Int32(2)))
		if err != nil {
			t.Fatal(err)
		}
		if raw != 2 {
			t.Errorf("raw = %d, want 2", raw)
		}
	})

	t.Run("enum by name", func(t *testing.T) {
		raw, err := FromClient(enumNode(), readerFor(t, osc.String("Sync In")))
		if err != nil {
			t.Fatal(err)
		}
		if raw != 3 {
			t.Errorf("raw = %d, want 3", raw)
		}
	})

	t.Run("enum rejects unknown name", func(t *testing.T) {
		if _, err := FromClient(enumNode(), readerFor(t, osc.String("Word Clock"))); !errors.Is(err, ErrUnknownName) {
			t.Errorf("error = %v, want ErrUnknownName", err)
		}
	})

	t.Run("enum rejects out-of-range index", func(t *testing.T) {
		if _, err := FromClient(enumNode(), readerFor(t, osc.Int32(9))); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("error = %v, want ErrOutOfRange", err)
		}
	})

	t.Run("bool normalizes", func(t *testing.T) {
		raw, err := FromClient(&tree.Node{Pattern: "mute", Kind: tree.KindBool}, readerFor(t, osc.Int32(7)))
		if err != nil {
			t.Fatal(err)
		}
		if raw != 1 {
			t.Errorf("raw = %d, want 1", raw)
		}
	})

	t.Run("bool accepts true tag", func(t *testing.T) {
		raw, err := FromClient(&tree.Node{Pattern: "mute", Kind: tree.KindBool}, readerFor(t, osc.Bool(true)))
		if err != nil {
			t.Fatal(err)
		}
		if raw != 1 {
			t.Errorf("raw = %d, want 1", raw)
		}
	})

	t.Run("missing argument", func(t *testing.T) {
		if _, err := FromClient(fixedNode(), readerFor(t)); err == nil {
			t.Error("FromClient with no arguments succeeded")
		}
	})
}
