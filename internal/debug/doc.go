// Package debug provides optional file-based debug logging.
//
// When the COMPOSE_DEBUG environment variable is set to a file path, debug
// records are appended to that file as text-formatted slog records.
// Otherwise, logging is a no-op.
package debug
