// Package state tracks the last known raw value of every device register
// and converts between raw register encodings and client-visible values
// using parameter-node kind metadata. The store is the single source of
// truth for change detection: a device update only fans out to clients when
// Apply reports the value actually changed.
package state
