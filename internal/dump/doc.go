// Package dump persists full mixer state snapshots as JSON files.
//
// A snapshot is the flattened client view of every parameter the
// bridge has seen, keyed by OSC address. Each snapshot gets a UUID and
// a timestamped envelope so saved scenes can be archived, diffed, or
// replayed by external tooling.
package dump
