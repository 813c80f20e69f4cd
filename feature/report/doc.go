// Package report exposes the registration history over HTTP. It serves
// the runs recorded in the journal, their action trails and the archived
// snapshots a run was computed from, so operators can audit what the
// registrator did to the inventory and when.
package report
