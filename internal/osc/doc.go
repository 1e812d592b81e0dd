// Package osc implements the Open Sound Control 1.0 wire codec used on the
// network side of the bridge.
//
// The codec is deliberately small: messages only (no nested bundles on the
// inbound path), the type tags the mixer protocol actually uses
// (i, f, s, b, T, F, N, I), and strict 4-byte field alignment.
//
// Two APIs are provided:
//
//   - Parse/Message.Encode for whole-message handling.
//   - Reader/Writer cursors for handlers that consume or produce arguments
//     one at a time while tracking position in the type-tag string.
//
// Outbound traffic is batched: a Bundle collects encoded messages and frames
// them as a single "#bundle" packet with an immediate time tag, which is how
// the device-state fanout keeps one UDP datagram per dispatch cycle.
//
// All parse failures are reported as wrapped ErrInvalid* sentinel errors and
// are non-fatal to the caller: a malformed packet is logged and dropped.
package osc
