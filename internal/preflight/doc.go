// Package preflight provides readiness checks for the vendor API and the
// filesystem paths the daemon depends on.
//
// These checks run in two contexts:
//   - The daemon calls RunAll at startup and refuses to serve when a
//     required check fails, so misconfiguration surfaces before the first
//     conversion request instead of during it.
//   - The CLI "inkjet status" command reuses individual check functions to
//     display readiness alongside daemon state.
package preflight
