// Package syncer runs one synchronization pass: scan the registry, discover
// active targets, link every enabled item into every active target, persist
// each target's profile and write the sync report.
//
// Failures are contained at the smallest scope that owns them. An item that
// cannot be linked is recorded as an error outcome and the pass continues.
// A target whose root link is invalid, whose iteration panics or which is
// reached after cancellation is marked failed and the next target runs.
// Only configuration failures abort the pass.
package syncer
