// Package midiio owns the MIDI connection to the mixer.
//
// It opens the in and out ports through the rtmidi driver, delivers
// complete SysEx frames to a callback, and sends encoded frames out.
// Port selection is by case-insensitive substring match, so a config
// of "UFX" finds "Fireface UFX II (23) Port 1".
package midiio
