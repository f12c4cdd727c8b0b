// Package history persists an audit trail of completed and failed
// conversions in SQLite. Records are write-once; nothing in the pipeline
// reads them back to resume work, so losing the database never affects
// in-flight or future requests.
package history
