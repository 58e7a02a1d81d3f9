// Package logging builds the daemon's slog loggers and provides attribute
// and context helpers so pipeline components log job and stage identifiers
// consistently.
package logging
