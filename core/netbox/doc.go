// Package netbox implements the client side of the inventory API.
//
// The registrator only ever reads and upserts objects, so the surface is four
// calls: Get (filtered list), Create, Update (partial) and Replace (full).
// Everything above this package works against the Client interface; the
// HTTPClient here is the production implementation for a NetBox-compatible
// REST API.
//
// # Rows
//
// List results and mutation responses are decoded into Row, a loosely typed
// map with accessors (ID, Str, Int, Nested, Choice). The reconcilers compare
// observed values against Row fields to decide whether an update is needed.
//
// # Collections
//
// The collection constants (Devices, Interfaces, MACAddresses, ...) double as
// API paths relative to /api/.
package netbox
