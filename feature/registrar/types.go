package registrar

import (
	"github.com/devopstales/netbox-registrator/feature/topology"
)

// ActionType identifies what the engine did, or in dry-run mode would have
// done, to one inventory object.
type ActionType string

const (
	// ActionCreate means the object did not exist and was created.
	ActionCreate ActionType = "create"
	// ActionUpdate means the object existed and differing fields were patched.
	ActionUpdate ActionType = "update"
	// ActionNoop means no change was needed, either because the object
	// already matched or because the ownership policy kept it in place.
	ActionNoop ActionType = "noop"
	// ActionSkip means the object was given up on after a non-fatal error.
	ActionSkip ActionType = "skip"
)

// Action records one decision about one inventory object.
type Action struct {
	Type       ActionType `json:"type"`
	Collection string     `json:"collection"`
	Key        string     `json:"key"`
	Reason     string     `json:"reason,omitempty"`
}

// Summary counts the actions of a run by type.
type Summary struct {
	Creates   int `json:"creates"`
	Updates   int `json:"updates"`
	Unchanged int `json:"unchanged"`
	Skips     int `json:"skips"`
}

// Report is the outcome of one registration run.
type Report struct {
	Device   string   `json:"device"`
	DeviceID int      `json:"device_id"`
	DryRun   bool     `json:"dry_run"`
	Actions  []Action `json:"actions"`
	Summary  Summary  `json:"summary"`
}

// Options control a registration run.
type Options struct {
	// Site is the site devices get registered under when the snapshot
	// does not name one. Required, and the site must already exist.
	Site string
	// Role is the device role for plain servers when the snapshot does
	// not name one. Defaults to "Server". Blades and chassis get their
	// fixed roles regardless.
	Role string
	// DryRun suppresses every mutation. Lookups still run, would-be
	// creates are answered with synthetic negative ids so dependent
	// actions can still be described.
	DryRun bool
	// Priority scores interfaces for MAC ownership. Defaults to
	// DefaultPriority.
	Priority PriorityFunc
}

// PriorityFunc scores an interface for MAC ownership. A MAC only moves to
// an interface whose score is strictly higher than its current owner's.
type PriorityFunc func(class topology.Class, name string) int
