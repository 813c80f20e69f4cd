package netbox

// Inventory collections the registrator converges. Values are API paths
// relative to /api/.
const (
	Sites              = "dcim/sites"
	DeviceRoles        = "dcim/device-roles"
	DeviceTypes        = "dcim/device-types"
	Devices            = "dcim/devices"
	DeviceBays         = "dcim/device-bays"
	Manufacturers      = "dcim/manufacturers"
	ModuleTypeProfiles = "dcim/module-type-profiles"
	ModuleTypes        = "dcim/module-types"
	ModuleBays         = "dcim/module-bays"
	Modules            = "dcim/modules"
	Interfaces         = "dcim/interfaces"
	MACAddresses       = "dcim/mac-addresses"
	IPAddresses        = "ipam/ip-addresses"
	Prefixes           = "ipam/prefixes"
)
