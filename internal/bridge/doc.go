// Package bridge contains the dispatch engine tying the OSC and SysEx
// codecs together. It owns the device-state store and translates three
// asynchronous event sources into each other's wire formats: OSC packets
// from network clients, SysEx frames from the device, and the periodic
// timer that polls level meters. All outbound OSC traffic produced during
// one dispatch cycle is batched into a single bundle.
package bridge
