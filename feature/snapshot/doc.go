// Package snapshot builds the local view of a device that registration
// converges the inventory towards.
//
// # Observer
//
// Hardware facts come in through the Observer interface. The production
// implementation is FileObserver, which parses a YAML facts file recorded by
// the host tooling; tests substitute stubs. Observers never probe hardware,
// they only read what was recorded.
//
// # Builder
//
// Build assembles a DeviceSnapshot: it classifies interfaces (via the
// topology package), resolves bond/bridge parent relationships, normalizes
// hardware addresses, validates IP addresses, collects hardware modules per
// category and picks up the management controller. Identity and interface
// facts are mandatory, everything else degrades to warnings.
package snapshot
