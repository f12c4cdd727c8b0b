// Package api defines the wire types shared by the daemon's HTTP surface and
// the CLI, plus the client the CLI uses to talk to a running daemon.
//
// It owns request/response DTOs and conversions between history records and
// their transport representations. The client decorates calls with context
// deadlines so CLI commands fail fast when the daemon is offline.
package api
