// Package tree holds the static parameter hierarchy of the mixer.
//
// Every addressable parameter is a node in a tree keyed by slash-separated
// address components. A node's name may be a literal or an OSC-style
// pattern, its register offset accumulates along the path from the root, and
// its kind metadata describes the raw-to-client value transform. The tree is
// built once from a device descriptor and never mutated afterwards; the
// dispatch engine resolves inbound client addresses through Resolve and maps
// inbound device registers back to addresses through the register index.
package tree
