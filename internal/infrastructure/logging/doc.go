// Package logging provides the structured logger used across Sound Logic,
// a thin wrapper over log/slog configured from the logging section of the
// configuration file.
package logging
