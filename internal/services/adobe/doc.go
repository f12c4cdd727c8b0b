// Package adobe wraps the Adobe PDF Services REST API.
//
// A conversion is a five-step sequence against the vendor: authenticate,
// request an upload slot, upload the HTML payload, start the conversion job,
// then poll the job until it reaches a terminal state. The client exposes one
// method per step; sequencing and error mapping belong to the convert package.
package adobe
