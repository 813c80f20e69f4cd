// Package registrar converges an external inventory towards observed
// device snapshots.
//
// A run reads the remote state of every object the snapshot touches and
// issues the minimal creates and partial updates needed to match it, in
// dependency order: shared references, the device itself with chassis and
// bay placement for blades, hardware modules, then interfaces with their
// MAC and IP address objects. Nothing is ever deleted. Required references
// and the device are fatal when they fail, everything downstream of the
// device is converged best-effort per object.
//
// Dry-run mode performs the same lookups but suppresses every mutation,
// answering creates with synthetic negative ids so dependent actions can
// still be described. Every decision is recorded as an Action in the
// final Report.
package registrar
