// Package server exposes the daemon's HTTP surface: the conversion endpoint,
// status and history views for the CLI, and the embedded frontend page.
//
// The conversion handler validates and caps the request body before any
// vendor traffic happens, then streams the PDF straight through to the
// caller. Response headers are written lazily on the first PDF byte so
// failures that occur before streaming still produce plain-text error
// responses with accurate status codes.
package server
