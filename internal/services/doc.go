// Package services defines the shared error taxonomy for the conversion
// pipeline. Each stage wraps its failures with one of the exported sentinel
// markers so callers can classify an error with errors.Is without parsing
// message text, and the HTTP layer can map it to a response status.
package services
