// Package logging assembles the structured slog loggers used across Inkjet.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes attribute helpers so components emit fields with
// consistent keys. A no-op logger is provided for tests and wiring code that
// cannot fail.
package logging
