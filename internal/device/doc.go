// Package device holds the static capability descriptors for the supported
// audio interfaces.
//
// A Descriptor is pure data: identity, capability flags, and the input/output
// channel tables. The rest of the system consumes descriptors read-only — the
// parameter tree is built from one, and the dispatch engine consults its flags
// to decide which optional register categories (FX levels, the DURec recorder)
// exist on the connected hardware.
//
// Descriptors are registered at compile time; there is no runtime discovery.
package device
