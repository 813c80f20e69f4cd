package snapshot

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/devopstales/netbox-registrator/feature/topology"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubObserver struct {
	identity    Identity
	identityErr error
	interfaces  []InterfaceFact
	ifaceErr    error
	modules     map[string][]ModuleSpec
	unavailable map[string]bool
	moduleErr   map[string]error
	ipmi        *IPMIFact
	ipmiErr     error
}

func (s *stubObserver) Identity(ctx context.Context) (Identity, error) {
	return s.identity, s.identityErr
}

func (s *stubObserver) Interfaces(ctx context.Context) ([]InterfaceFact, error) {
	return s.interfaces, s.ifaceErr
}

func (s *stubObserver) Modules(ctx context.Context, category string) ([]ModuleSpec, error) {
	if s.unavailable[category] {
		return nil, fmt.Errorf("%s: %w", category, ErrUnavailable)
	}
	if err := s.moduleErr[category]; err != nil {
		return nil, err
	}
	return s.modules[category], nil
}

func (s *stubObserver) IPMI(ctx context.Context) (*IPMIFact, error) {
	return s.ipmi, s.ipmiErr
}

func TestBuild(t *testing.T) {
	obs := &stubObserver{
		identity: Identity{Product: "PowerEdge R640", Serial: "SN-1"},
		interfaces: []InterfaceFact{
			{Name: "eno1", MAC: "AA:BB:CC:DD:EE:01", SpeedMbps: 10000, MTU: 9000, Up: true, Master: "bond0", Addresses: []string{"192.0.2.10/24", "bogus"}},
			{Name: "eno2", MAC: "not-a-mac", Up: true, Master: "bond0"},
			{Name: "bond0", Up: true},
		},
		modules: map[string][]ModuleSpec{
			CategoryCPU: {{Category: CategoryCPU, Bay: "CPU1", Manufacturer: "Intel", Model: "Xeon"}},
			CategoryDisk: {
				{Category: CategoryDisk, Bay: "DISK-sdb", Model: "MZ7KH480"},
				{Category: CategoryDisk, Bay: "DISK-sda", Model: "MZ7KH480"},
			},
		},
		unavailable: map[string]bool{CategoryGPU: true},
		ipmi:        &IPMIFact{MAC: "aa:bb:cc:dd:ee:ff", IPv4: "10.0.0.5/24"},
	}

	snap, err := Build(context.Background(), obs, Options{Name: "srv01", AutoDetect: true, Site: "DC1", Role: "Hypervisor"}, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, "srv01", snap.Name)
	assert.Equal(t, "PowerEdge R640", snap.DeviceType)
	assert.Equal(t, "DC1", snap.Site)
	assert.Equal(t, "Hypervisor", snap.Role)
	assert.Equal(t, "SN-1", snap.Serial)
	assert.Nil(t, snap.Chassis, "srv01 does not match the blade convention")

	require.Len(t, snap.Interfaces, 3)

	eno1 := snap.Interfaces[0]
	assert.Equal(t, topology.ClassPhysical, eno1.Class)
	assert.Equal(t, "10gbase-x-sfpp", eno1.Type)
	assert.Equal(t, 10000000, eno1.Speed, "speed is carried in kbit/s")
	assert.Equal(t, "aa:bb:cc:dd:ee:01", eno1.MAC)
	assert.Equal(t, "bond0", eno1.Parent)
	assert.Equal(t, []string{"192.0.2.10/24"}, eno1.Addresses, "the invalid address is dropped")

	assert.Empty(t, snap.Interfaces[1].MAC, "unparseable mac is dropped")
	assert.Equal(t, topology.ClassLAG, snap.Interfaces[2].Class)
	assert.Empty(t, snap.Interfaces[2].Parent)

	// cpu before disk, disk bays sorted
	require.Len(t, snap.Modules, 3)
	assert.Equal(t, "CPU1", snap.Modules[0].Bay)
	assert.Equal(t, "DISK-sda", snap.Modules[1].Bay)
	assert.Equal(t, "DISK-sdb", snap.Modules[2].Bay)

	require.NotNil(t, snap.IPMI)
	assert.True(t, snap.IPMI.MgmtOnly)
	assert.Equal(t, "aa:bb:cc:dd:ee:ff", snap.IPMI.MAC)
	assert.Equal(t, []string{"10.0.0.5/24"}, snap.IPMI.Addresses)
}

func TestBuildRequiresName(t *testing.T) {
	_, err := Build(context.Background(), &stubObserver{}, Options{}, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "device name is required")
}

func TestBuildRequiresDeviceType(t *testing.T) {
	obs := &stubObserver{identity: Identity{Product: "PowerEdge R640"}}

	// No override and autodetection off.
	_, err := Build(context.Background(), obs, Options{Name: "srv01"}, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "device type")

	// Autodetection on but nothing observed either.
	obs.identity.Product = ""
	_, err = Build(context.Background(), obs, Options{Name: "srv01", AutoDetect: true}, zap.NewNop())
	require.Error(t, err)
}

func TestBuildOverrides(t *testing.T) {
	obs := &stubObserver{identity: Identity{Product: "PowerEdge R640", Serial: "SN-1"}}

	snap, err := Build(context.Background(), obs, Options{
		Name:       "srv01",
		DeviceType: "Custom Type",
		Serial:     "OVERRIDE",
		AssetTag:   "A-17",
		Comments:   "rack 4",
	}, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, "Custom Type", snap.DeviceType)
	assert.Equal(t, "OVERRIDE", snap.Serial)
	assert.Equal(t, "A-17", snap.AssetTag)
	assert.Equal(t, "rack 4", snap.Comments)
}

func TestBuildBladeHint(t *testing.T) {
	obs := &stubObserver{
		identity: Identity{Product: "ProLiant BL460c", ChassisProduct: "BladeSystem c7000"},
	}

	snap, err := Build(context.Background(), obs, Options{Name: "bc01b3", AutoDetect: true}, zap.NewNop())
	require.NoError(t, err)

	require.NotNil(t, snap.Chassis)
	assert.Equal(t, "bc01", snap.Chassis.Name)
	assert.Equal(t, "3", snap.Chassis.Bay)
	assert.Equal(t, "BladeSystem c7000", snap.Chassis.TypeName)
}

func TestBuildIdentityErrorIsFatal(t *testing.T) {
	obs := &stubObserver{identityErr: errors.New("no facts")}

	_, err := Build(context.Background(), obs, Options{Name: "srv01", AutoDetect: true}, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read identity")
}

func TestBuildModuleErrorsDegrade(t *testing.T) {
	obs := &stubObserver{
		identity:  Identity{Product: "X"},
		moduleErr: map[string]error{CategoryDisk: errors.New("broken recording")},
		modules: map[string][]ModuleSpec{
			CategoryCPU: {{Category: CategoryCPU, Bay: "CPU1", Model: "Xeon"}},
		},
	}

	snap, err := Build(context.Background(), obs, Options{Name: "srv01", AutoDetect: true}, zap.NewNop())
	require.NoError(t, err)
	require.Len(t, snap.Modules, 1)
	assert.Equal(t, CategoryCPU, snap.Modules[0].Category)
}

func TestBuildDropsDuplicateBays(t *testing.T) {
	obs := &stubObserver{
		identity: Identity{Product: "X"},
		modules: map[string][]ModuleSpec{
			CategoryMemory: {
				{Category: CategoryMemory, Bay: "DIMM-A1", Model: "M393A2K40"},
				{Category: CategoryMemory, Bay: "DIMM-A1", Model: "HMA84GR7"},
			},
			// The same bay name in another category is fine.
			CategoryDisk: {{Category: CategoryDisk, Bay: "DIMM-A1", Model: "MZ7KH480"}},
		},
	}

	snap, err := Build(context.Background(), obs, Options{Name: "srv01", AutoDetect: true}, zap.NewNop())
	require.NoError(t, err)
	require.Len(t, snap.Modules, 2)
	assert.Equal(t, "M393A2K40", snap.Modules[1].Model, "the first module keeps the bay")
}

func TestBuildLimitsCategories(t *testing.T) {
	obs := &stubObserver{
		identity: Identity{Product: "X"},
		modules: map[string][]ModuleSpec{
			CategoryCPU:  {{Category: CategoryCPU, Bay: "CPU1"}},
			CategoryDisk: {{Category: CategoryDisk, Bay: "DISK-sda"}},
		},
	}

	snap, err := Build(context.Background(), obs, Options{
		Name:       "srv01",
		AutoDetect: true,
		Categories: []string{CategoryDisk},
	}, zap.NewNop())
	require.NoError(t, err)
	require.Len(t, snap.Modules, 1)
	assert.Equal(t, CategoryDisk, snap.Modules[0].Category)
}
