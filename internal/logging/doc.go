// Package logging constructs the application's slog loggers and provides
// attribute helpers shared across components.
package logging
