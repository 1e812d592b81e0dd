// Package wsdgram exposes the OSC datagram stream over WebSocket.
//
// Browsers cannot open UDP sockets, so web control surfaces connect
// here instead: each binary WebSocket frame carries exactly one OSC
// packet, in both directions. Frames from clients are handed to the
// bridge as if they had arrived on the UDP socket; packets the bridge
// sends to clients are fanned out to every connected WebSocket.
//
// The HTTP side is a small chi router with a health endpoint next to
// the upgrade path.
package wsdgram
