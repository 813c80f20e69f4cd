package topology

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name        string
		iface       string
		speedMbps   int
		transceiver string
		wantClass   Class
		wantType    string
	}{
		{"bond is lag", "bond0", 20000, "", ClassLAG, "lag"},
		{"bridge", "br0", 0, "", ClassBridge, "bridge"},
		{"proxmox bridge", "vmbr0", 1000, "", ClassBridge, "bridge"},
		{"speed beats name prefix", "eno1", 10000, "", ClassPhysical, "10gbase-x-sfpp"},
		{"25g", "ens1f0", 25000, "", ClassPhysical, "25gbase-x-sfp28"},
		{"40g", "ens2", 40000, "", ClassPhysical, "40gbase-x-qsfpp"},
		{"100g", "ens3", 100000, "", ClassPhysical, "100gbase-x-qsfp28"},
		{"gigabit copper", "eth0", 1000, "", ClassPhysical, "1000base-t"},
		{"fast ethernet", "eth1", 100, "", ClassPhysical, "100base-tx"},
		{"transceiver when speed unknown", "ens1f1", 0, "SFP+ 10G SR", ClassPhysical, "10gbase-x-sfpp"},
		{"sfp28 transceiver", "ens1f2", 0, "SFP28-25G-LR", ClassPhysical, "25gbase-x-sfp28"},
		{"plain sfp transceiver", "ens4", 0, "SFP 1G LX", ClassPhysical, "1000base-x-sfp"},
		{"copper prefix fallback", "eno2", 0, "", ClassPhysical, "1000base-t"},
		{"legacy em prefix", "em1", 0, "", ClassPhysical, "1000base-t"},
		{"wireless prefix", "wlp3s0", 0, "", ClassPhysical, "ieee802.11a"},
		{"unknown is other", "dummy0", 0, "", ClassOther, "other"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			class, ifType := Classify(tt.iface, tt.speedMbps, tt.transceiver)
			assert.Equal(t, tt.wantClass, class)
			assert.Equal(t, tt.wantType, ifType)
		})
	}
}
