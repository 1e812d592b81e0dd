// Package history keeps a SQLite log of mixer parameter changes.
//
// Every device-confirmed register change is appended with its OSC
// address, previous and new raw value, and a timestamp. The log gives
// operators an answer to "who moved that fader and when" that the
// mixer itself cannot provide. An optional retention cap prunes the
// oldest rows so the database stays bounded.
package history
