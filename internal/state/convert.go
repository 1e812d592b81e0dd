package state

import (
	"errors"
	"fmt"
	"math"

	"github.com/nerrad567/sound-logic-core/internal/osc"
	"github.com/nerrad567/sound-logic-core/internal/tree"
)

// Conversion failures.
var (
	ErrOutOfRange  = errors.New("state: value out of range")
	ErrUnknownName = errors.New("state: unknown enum name")
	ErrBadIndex    = errors.New("state: enum index outside name list")
	ErrNotAValue   = errors.New("state: node carries no value")
)

// ToClient converts a raw register value into the OSC arguments clients see.
// Enum values reply with both the index and its name; an index outside the
// node's name list is an error, since it means the register map and the
// device disagree.
func ToClient(n *tree.Node, raw int) ([]osc.Argument, error) {
	switch n.Kind {
	case tree.KindInt:
		return []osc.Argument{osc.Int32(int32(raw))}, nil
	case tree.KindFixed:
		return []osc.Argument{osc.Float32(float32(float64(raw) / n.Scale))}, nil
	case tree.KindEnum:
		if raw < 0 || raw >= len(n.Names) {
			return nil, fmt.Errorf("%w: %d of %d names", ErrBadIndex, raw, len(n.Names))
		}
		return []osc.Argument{osc.Int32(int32(raw)), osc.String(n.Names[raw])}, nil
	case tree.KindBool:
		return []osc.Argument{osc.Bool(raw != 0)}, nil
	}
	return nil, fmt.Errorf("%w: kind %v", ErrNotAValue, n.Kind)
}

// FromClient consumes one client argument from r and converts it to the raw
// register value for n. Out-of-range values are rejected, not clamped; an
// enum accepts either its integer index or one of its names.
func FromClient(n *tree.Node, r *osc.Reader) (int, error) {
	switch n.Kind {
	case tree.KindInt:
		raw := int(r.Int())
		if err := r.Err(); err != nil {
			return 0, err
		}
		return checkRange(n, raw)
	case tree.KindFixed:
		f := r.Float()
		if err := r.Err(); err != nil {
			return 0, err
		}
		return checkRange(n, int(math.Round(float64(f)*n.Scale)))
	case tree.KindEnum:
		if rem := r.Remaining(); len(rem) > 0 && rem[0] == osc.TagString {
			name := r.String()
			if err := r.Err(); err != nil {
				return 0, err
			}
			for i, candidate := range n.Names {
				if candidate == name {
					return i, nil
				}
			}
			return 0, fmt.Errorf("%w: %q", ErrUnknownName, name)
		}
		raw := int(r.Int())
		if err := r.Err(); err != nil {
			return 0, err
		}
		return checkRange(n, raw)
	case tree.KindBool:
		raw := r.Int()
		if err := r.Err(); err != nil {
			return 0, err
		}
		if raw != 0 {
			return 1, nil
		}
		return 0, nil
	}
	return 0, fmt.Errorf("%w: kind %v", ErrNotAValue, n.Kind)
}

func checkRange(n *tree.Node, raw int) (int, error) {
	if raw < n.Min || raw > n.Max {
		return 0, fmt.Errorf("%w: %d not in [%d, %d]", ErrOutOfRange, raw, n.Min, n.Max)
	}
	return raw, nil
}
