// Package convert sequences one HTML-to-PDF conversion against the vendor:
// authenticate, mint an upload slot, upload the payload, start the job, poll
// to a terminal state, then stream the result to the caller.
//
// The pipeline is strictly linear. Every request obtains its own token, asset
// handle, and job; nothing is cached or shared between requests. The first
// failing step aborts the run, and no vendor-side cleanup is attempted for
// assets or jobs created before the failure.
package convert
