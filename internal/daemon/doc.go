// Package daemon wires the conversion pipeline, history store, and HTTP
// server together and enforces single-instance execution via a lock file.
//
// The daemon runs startup preflight checks before serving: missing
// credentials or an unwritable data directory abort startup instead of
// failing the first conversion request.
package daemon
