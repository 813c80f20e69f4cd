package registrar

import (
	"context"
	"fmt"
	"strconv"

	"github.com/devopstales/netbox-registrator/core/netbox"
	"github.com/devopstales/netbox-registrator/feature/snapshot"

	"go.uber.org/zap"
)

// Fixed roles for the chassis hierarchy. Plain servers use Options.Role.
const (
	roleBlade   = "Blade"
	roleChassis = "Chassis"
)

// ensureDevice converges the device itself, including chassis and bay
// placement for blades. Everything here is a prerequisite for the rest of
// the run, so every failure is fatal.
func (r *run) ensureDevice(ctx context.Context, snap *snapshot.DeviceSnapshot) (netbox.Row, error) {
	dt, err := r.refs.deviceType(ctx, snap.DeviceType)
	if err != nil {
		return nil, err
	}
	siteName := snap.Site
	if siteName == "" {
		siteName = r.opts.Site
	}
	siteID, err := r.refs.site(ctx, siteName)
	if err != nil {
		return nil, err
	}

	isBlade := dt.Choice("subdevice_role") == "child"
	if isBlade && snap.Chassis == nil {
		return nil, &ConventionError{Host: snap.Name}
	}

	roleName := snap.Role
	if roleName == "" {
		roleName = r.opts.Role
	}
	if isBlade {
		roleName = roleBlade
	}
	roleID, err := r.refs.role(ctx, roleName)
	if err != nil {
		return nil, err
	}

	var bay netbox.Row
	var bayKey string
	if isBlade {
		chassis, err := r.ensureChassis(ctx, snap.Chassis, siteID)
		if err != nil {
			return nil, err
		}
		bay, bayKey, err = r.ensureBay(ctx, chassis, snap.Chassis)
		if err != nil {
			return nil, err
		}
	}

	device, err := r.exec.findOne(ctx, netbox.Devices, netbox.Params{"name": snap.Name}, func(row netbox.Row) bool {
		return row.Str("name") == snap.Name
	})
	if err != nil {
		return nil, fmt.Errorf("failed to look up device %q: %w", snap.Name, err)
	}

	if device == nil {
		body := netbox.Body{
			"name":        snap.Name,
			"device_type": dt.ID(),
			"role":        roleID,
			"site":        siteID,
			"status":      "active",
		}
		if snap.Serial != "" {
			body["serial"] = snap.Serial
		}
		if snap.AssetTag != "" {
			body["asset_tag"] = snap.AssetTag
		}
		if snap.Comments != "" {
			body["comments"] = snap.Comments
		}
		device, err = r.exec.create(ctx, netbox.Devices, snap.Name, "device not registered", body)
		if err != nil {
			return nil, fmt.Errorf("failed to create device %q: %w", snap.Name, err)
		}
	} else {
		body := netbox.Body{}
		if device.Ref("device_type") != dt.ID() {
			body["device_type"] = dt.ID()
		}
		if device.Ref("role") != roleID {
			body["role"] = roleID
		}
		if snap.Serial != "" && device.Str("serial") != snap.Serial {
			body["serial"] = snap.Serial
		}
		if snap.AssetTag != "" && device.Str("asset_tag") != snap.AssetTag {
			body["asset_tag"] = snap.AssetTag
		}
		if snap.Comments != "" && device.Str("comments") != snap.Comments {
			body["comments"] = snap.Comments
		}
		if len(body) == 0 {
			r.exec.noop(netbox.Devices, snap.Name)
		} else {
			device, err = r.exec.update(ctx, netbox.Devices, device.ID(), snap.Name, "device drifted", body)
			if err != nil {
				return nil, fmt.Errorf("failed to update device %q: %w", snap.Name, err)
			}
		}
	}

	if isBlade {
		if err := r.seatBlade(ctx, bayKey, bay, device); err != nil {
			return nil, err
		}
	}
	return device, nil
}

// ensureChassis converges the enclosure a blade sits in. The chassis is
// looked up by the name parsed out of the blade hostname; when absent it is
// created from the observed enclosure product, which must resolve to a
// device type with a parent subdevice role.
func (r *run) ensureChassis(ctx context.Context, hint *snapshot.ChassisHint, siteID int) (netbox.Row, error) {
	chassis, err := r.exec.findOne(ctx, netbox.Devices, netbox.Params{"name": hint.Name}, func(row netbox.Row) bool {
		return row.Str("name") == hint.Name
	})
	if err != nil {
		return nil, fmt.Errorf("failed to look up chassis %q: %w", hint.Name, err)
	}
	if chassis != nil {
		r.exec.noop(netbox.Devices, hint.Name)
		return chassis, nil
	}

	if hint.TypeName == "" {
		return nil, fmt.Errorf("chassis %q is not registered and no enclosure product was observed to create it from", hint.Name)
	}
	chassisType, err := r.refs.deviceType(ctx, hint.TypeName)
	if err != nil {
		return nil, err
	}
	if chassisType.Choice("subdevice_role") != "parent" {
		return nil, &HierarchyError{DeviceType: hint.TypeName, Detail: "does not parent subdevices"}
	}
	roleID, err := r.refs.role(ctx, roleChassis)
	if err != nil {
		return nil, err
	}

	chassis, err = r.exec.create(ctx, netbox.Devices, hint.Name, "chassis not registered", netbox.Body{
		"name":        hint.Name,
		"device_type": chassisType.ID(),
		"role":        roleID,
		"site":        siteID,
		"status":      "active",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create chassis %q: %w", hint.Name, err)
	}
	return chassis, nil
}

// ensureBay resolves the chassis bay a blade seats into. Bays are named
// Bay-<n> after the number encoded in the hostname. A rejected bay create
// means the chassis device type does not support subdevices.
func (r *run) ensureBay(ctx context.Context, chassis netbox.Row, hint *snapshot.ChassisHint) (netbox.Row, string, error) {
	bayName := "Bay-" + hint.Bay
	bayKey := hint.Name + "/" + bayName

	bay, err := r.exec.findOne(ctx, netbox.DeviceBays, netbox.Params{
		"device_id": strconv.Itoa(chassis.ID()),
		"name":      bayName,
	}, func(row netbox.Row) bool {
		return row.Str("name") == bayName && row.Ref("device") == chassis.ID()
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to look up device bay %s: %w", bayKey, err)
	}
	if bay == nil {
		bay, err = r.exec.create(ctx, netbox.DeviceBays, bayKey, "bay not registered", netbox.Body{
			"device": chassis.ID(),
			"name":   bayName,
		})
		if err != nil {
			typeName := chassis.Nested("device_type").Str("model")
			if typeName == "" {
				typeName = hint.TypeName
			}
			return nil, "", &HierarchyError{DeviceType: typeName, Detail: "rejected device bay creation"}
		}
	}
	return bay, bayKey, nil
}

// seatBlade patches the bay so it holds the blade. A bay occupied by a
// different device is never stolen.
func (r *run) seatBlade(ctx context.Context, bayKey string, bay, device netbox.Row) error {
	switch installed := bay.Ref("installed_device"); installed {
	case device.ID():
		r.exec.noop(netbox.DeviceBays, bayKey)
	case 0:
		if _, err := r.exec.update(ctx, netbox.DeviceBays, bay.ID(), bayKey, "blade not seated", netbox.Body{
			"installed_device": device.ID(),
		}); err != nil {
			return fmt.Errorf("failed to seat blade in bay %s: %w", bayKey, err)
		}
	default:
		r.log.Error("device bay is occupied by another device",
			zap.String("bay", bayKey), zap.Int("occupant_id", installed))
		return fmt.Errorf("device bay %s is occupied by device id %d", bayKey, installed)
	}
	return nil
}
