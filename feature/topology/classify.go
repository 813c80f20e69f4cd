package topology

import "strings"

// Class is the reconciliation class of an interface. It drives naming,
// parent handling and MAC ownership priority.
type Class string

const (
	ClassPhysical Class = "physical"
	ClassLAG      Class = "lag"
	ClassBridge   Class = "bridge"
	ClassOther    Class = "other"
)

// Classify determines the class and the inventory interface type of an
// observed interface.
//
// Explicit name patterns decide aggregates: bond* is a LAG, br*/vmbr* is a
// bridge. For everything else the reported link speed wins over the
// transceiver model, which wins over name prefix heuristics. Interfaces
// nothing matches come back as ClassOther.
func Classify(name string, speedMbps int, transceiver string) (Class, string) {
	lower := strings.ToLower(name)

	switch {
	case strings.HasPrefix(lower, "bond"):
		return ClassLAG, "lag"
	case strings.HasPrefix(lower, "vmbr"), strings.HasPrefix(lower, "br"):
		return ClassBridge, "bridge"
	}

	if slug := speedSlug(speedMbps); slug != "" {
		return ClassPhysical, slug
	}
	if slug := transceiverSlug(transceiver); slug != "" {
		return ClassPhysical, slug
	}

	switch {
	case strings.HasPrefix(lower, "eth"), strings.HasPrefix(lower, "en"), strings.HasPrefix(lower, "em"):
		return ClassPhysical, "1000base-t"
	case strings.HasPrefix(lower, "wl"), strings.HasPrefix(lower, "wifi"):
		return ClassPhysical, "ieee802.11a"
	}

	return ClassOther, "other"
}

func speedSlug(mbps int) string {
	switch {
	case mbps >= 100000:
		return "100gbase-x-qsfp28"
	case mbps >= 40000:
		return "40gbase-x-qsfpp"
	case mbps >= 25000:
		return "25gbase-x-sfp28"
	case mbps >= 10000:
		return "10gbase-x-sfpp"
	case mbps >= 1000:
		return "1000base-t"
	case mbps > 0:
		return "100base-tx"
	default:
		return ""
	}
}

func transceiverSlug(model string) string {
	m := strings.ToUpper(model)
	switch {
	case m == "":
		return ""
	case strings.Contains(m, "QSFP28"):
		return "100gbase-x-qsfp28"
	case strings.Contains(m, "QSFP"):
		return "40gbase-x-qsfpp"
	case strings.Contains(m, "SFP28"):
		return "25gbase-x-sfp28"
	case strings.Contains(m, "SFP+"):
		return "10gbase-x-sfpp"
	case strings.Contains(m, "SFP"):
		return "1000base-x-sfp"
	default:
		return ""
	}
}
