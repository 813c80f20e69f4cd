package snapshot

import (
	"net"
	"strings"

	"github.com/devopstales/netbox-registrator/feature/topology"
)

// DeviceSnapshot is the full desired state for one device, assembled from
// observer facts. It is what the registration engine converges the
// inventory towards.
type DeviceSnapshot struct {
	Name       string          `json:"name"`
	DeviceType string          `json:"device_type"`
	Site       string          `json:"site,omitempty"`
	Role       string          `json:"role,omitempty"`
	Serial     string          `json:"serial,omitempty"`
	AssetTag   string          `json:"asset_tag,omitempty"`
	Comments   string          `json:"comments,omitempty"`
	Chassis    *ChassisHint    `json:"chassis,omitempty"`
	Interfaces []InterfaceSpec `json:"interfaces"`
	IPMI       *InterfaceSpec  `json:"ipmi,omitempty"`
	Modules    []ModuleSpec    `json:"modules"`
}

// InterfaceSpec is the desired state of one network interface. Speed is
// in kbit/s, the unit the inventory stores.
type InterfaceSpec struct {
	Name      string         `json:"name"`
	Class     topology.Class `json:"class"`
	Type      string         `json:"type"`
	MAC       string         `json:"mac,omitempty"`
	Speed     int            `json:"speed,omitempty"`
	MTU       int            `json:"mtu,omitempty"`
	Enabled   bool           `json:"enabled"`
	MgmtOnly  bool           `json:"mgmt_only,omitempty"`
	Parent    string         `json:"parent,omitempty"`
	Addresses []string       `json:"addresses,omitempty"`
}

// ModuleSpec describes one hardware module observed in a bay.
type ModuleSpec struct {
	Category     string         `json:"category"`
	Bay          string         `json:"bay"`
	Manufacturer string         `json:"manufacturer"`
	Model        string         `json:"model"`
	Serial       string         `json:"serial,omitempty"`
	Attributes   map[string]any `json:"attributes,omitempty"`
}

// ChassisHint carries the blade placement derived from the hostname, plus
// the enclosure product if the observer saw one.
type ChassisHint struct {
	Name     string `json:"name"`
	Bay      string `json:"bay"`
	TypeName string `json:"type_name,omitempty"`
}

// NormalizeMAC canonicalizes a hardware address to colon-separated
// lowercase hex. Invalid input yields "".
func NormalizeMAC(s string) string {
	hw, err := net.ParseMAC(strings.TrimSpace(s))
	if err != nil {
		return ""
	}
	return hw.String()
}
