package registrar

import (
	"strings"

	"github.com/devopstales/netbox-registrator/feature/topology"
)

// Default MAC ownership priorities.
const (
	priorityBridge = 100
	priorityLAG    = 90
	priorityOther  = 10
)

// DefaultPriority prefers bridges over LAGs over everything else, so a MAC
// bubbling up an aggregation stack settles on the topmost interface. The
// name prefixes catch remote interfaces whose class is only known from
// their inventory type.
func DefaultPriority(class topology.Class, name string) int {
	lower := strings.ToLower(name)
	switch {
	case class == topology.ClassBridge, strings.HasPrefix(lower, "vmbr"):
		return priorityBridge
	case class == topology.ClassLAG, strings.HasPrefix(lower, "bond"):
		return priorityLAG
	default:
		return priorityOther
	}
}

// classFromType maps an inventory interface type back to a reconciliation
// class, for scoring interfaces that only exist remotely.
func classFromType(ifType string) topology.Class {
	switch ifType {
	case "lag":
		return topology.ClassLAG
	case "bridge":
		return topology.ClassBridge
	case "other":
		return topology.ClassOther
	default:
		return topology.ClassPhysical
	}
}
