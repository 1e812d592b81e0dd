// Package config loads and validates the Sound Logic configuration.
//
// Configuration is layered: hardcoded defaults, then the YAML file, then
// SOUNDLOGIC_* environment variable overrides. Validation runs once at load
// time so the rest of the program can trust the values it is handed.
package config
