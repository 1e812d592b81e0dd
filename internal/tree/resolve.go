package tree

import (
	"fmt"
	"strings"
)

// NotFoundError reports a failed resolution, carrying the part of the
// address that could not be consumed.
type NotFoundError struct {
	Address string
	Suffix  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("tree: no node for %q (unresolved %q)", e.Address, e.Suffix)
}

// Resolved is the outcome of a successful address resolution: the node path
// from the root and the accumulated absolute register address.
type Resolved struct {
	Path     []*Node
	Register uint16
}

// Node returns the final node on the path.
func (r *Resolved) Node() *Node {
	return r.Path[len(r.Path)-1]
}

// Resolve walks addr through the tree. At each level the siblings are
// scanned in order and the first node whose pattern matches the next address
// component is taken; there is no backtracking, so sibling order decides
// ambiguous matches. Resolution fails unless the whole address is consumed.
func (t *Tree) Resolve(addr string) (Resolved, error) {
	remaining := strings.TrimPrefix(addr, "/")
	if remaining == "" {
		return Resolved{}, &NotFoundError{Address: addr, Suffix: remaining}
	}

	res := Resolved{Path: make([]*Node, 0, 6)}
	reg := 0
	children := t.Root.Children
	for {
		var next *Node
		var rest string
		for _, c := range children {
			if r, ok := Match(c.Pattern, remaining); ok {
				next, rest = c, r
				break
			}
		}
		if next == nil {
			return Resolved{}, &NotFoundError{Address: addr, Suffix: remaining}
		}
		res.Path = append(res.Path, next)
		reg += next.Offset
		if rest == "" {
			res.Register = uint16(reg)
			return res, nil
		}
		if len(next.Children) == 0 {
			return Resolved{}, &NotFoundError{Address: addr, Suffix: rest}
		}
		children = next.Children
		remaining = rest
	}
}
