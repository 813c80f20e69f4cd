package snapshot

import (
	"context"
	"errors"
)

// Module categories an observer can report.
const (
	CategoryCPU        = "cpu"
	CategoryMemory     = "memory"
	CategoryDisk       = "disk"
	CategoryGPU        = "gpu"
	CategoryController = "controller"
	CategoryNIC        = "nic"
	CategoryPSU        = "psu"
)

// Categories lists every module category in collection order.
var Categories = []string{
	CategoryCPU,
	CategoryMemory,
	CategoryDisk,
	CategoryGPU,
	CategoryController,
	CategoryNIC,
	CategoryPSU,
}

// ErrUnavailable signals that the source backing an observer call is not
// usable on this host. The builder skips the category with a warning
// instead of failing the run.
var ErrUnavailable = errors.New("observer source unavailable")

// Identity describes the machine itself.
type Identity struct {
	// Product is the system product name, e.g. "PowerEdge R640".
	Product string
	// Serial is the system serial number.
	Serial string
	// ChassisProduct is the enclosure product name. Set only for machines
	// sitting in a chassis.
	ChassisProduct string
}

// InterfaceFact is one raw observed interface before classification.
type InterfaceFact struct {
	Name        string
	MAC         string
	SpeedMbps   int
	MTU         int
	Up          bool
	Master      string
	Transceiver string
	Addresses   []string
}

// IPMIFact describes the management controller.
type IPMIFact struct {
	MAC  string
	IPv4 string
}

// Observer supplies locally recorded hardware facts. Implementations read
// recorded data, they never probe hardware themselves.
type Observer interface {
	// Identity returns the machine identity.
	Identity(ctx context.Context) (Identity, error)
	// Interfaces returns the observed network interfaces.
	Interfaces(ctx context.Context) ([]InterfaceFact, error)
	// Modules returns the observed modules of one category.
	// It returns ErrUnavailable when the recording source for the
	// category was not usable.
	Modules(ctx context.Context, category string) ([]ModuleSpec, error)
	// IPMI returns the management controller facts, or nil if the host
	// has none.
	IPMI(ctx context.Context) (*IPMIFact, error)
}
