package tree

import (
	"errors"
	"fmt"
)

// Kind classifies a node's value transform.
type Kind int

const (
	// KindGroup is an interior node with no value of its own.
	KindGroup Kind = iota
	// KindInt is a plain integer passed through unscaled.
	KindInt
	// KindFixed is a fixed-point value: the register holds the client
	// value multiplied by Scale.
	KindFixed
	// KindEnum is an index into an ordered name list.
	KindEnum
	// KindBool maps nonzero to true.
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindGroup:
		return "group"
	case KindInt:
		return "int"
	case KindFixed:
		return "fixed"
	case KindEnum:
		return "enum"
	case KindBool:
		return "bool"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ErrInvalidTree is wrapped by all construction-time validation failures.
var ErrInvalidTree = errors.New("tree: invalid node")

// Node is one level of the parameter hierarchy. Offset is the node's
// register delta relative to its parent; the absolute register of a leaf is
// the sum of offsets along its path. Leaves carry their kind metadata;
// interior nodes are KindGroup and carry children.
type Node struct {
	Pattern string
	Offset  int
	Kind    Kind

	// Scale is the number of raw register units per client unit, used by
	// KindFixed. Min and Max bound the raw value for KindInt and
	// KindFixed writes; Names is the KindEnum name list, indexed by the
	// raw value.
	Scale    float64
	Min, Max int
	Names    []string

	// ReadOnly marks status parameters the device reports but refuses to
	// set. WriteOnly marks action triggers with no readable state.
	ReadOnly  bool
	WriteOnly bool

	Children []*Node
}

// validate checks the construction invariants of the subtree rooted at n.
func (n *Node) validate() error {
	if n.Pattern == "" {
		return fmt.Errorf("%w: empty pattern", ErrInvalidTree)
	}
	if n.Kind == KindGroup {
		if len(n.Children) == 0 {
			return fmt.Errorf("%w: group %q has no children", ErrInvalidTree, n.Pattern)
		}
	} else if len(n.Children) != 0 {
		return fmt.Errorf("%w: leaf %q has children", ErrInvalidTree, n.Pattern)
	}
	if n.Kind == KindEnum && len(n.Names) == 0 {
		return fmt.Errorf("%w: enum %q has no names", ErrInvalidTree, n.Pattern)
	}
	if n.Kind == KindFixed && n.Scale == 0 {
		return fmt.Errorf("%w: fixed %q has zero scale", ErrInvalidTree, n.Pattern)
	}
	if n.ReadOnly && n.WriteOnly {
		return fmt.Errorf("%w: %q is both read-only and write-only", ErrInvalidTree, n.Pattern)
	}
	for _, c := range n.Children {
		if err := c.validate(); err != nil {
			return err
		}
	}
	return nil
}
