package registrar

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/devopstales/netbox-registrator/core/netbox"
	"github.com/devopstales/netbox-registrator/feature/snapshot"
	"github.com/devopstales/netbox-registrator/feature/topology"

	"go.uber.org/zap"
)

// orderParentsFirst sorts interfaces so every parent precedes its
// children. The builder guarantees the parent graph is acyclic and has no
// dangling names, children with equal depth keep their snapshot order.
func orderParentsFirst(ifaces []snapshot.InterfaceSpec) []snapshot.InterfaceSpec {
	parents := make(map[string]string, len(ifaces))
	for _, iface := range ifaces {
		parents[iface.Name] = iface.Parent
	}

	depths := make(map[string]int, len(ifaces))
	var depthOf func(name string) int
	depthOf = func(name string) int {
		if d, ok := depths[name]; ok {
			return d
		}
		d := 0
		if parent := parents[name]; parent != "" {
			d = depthOf(parent) + 1
		}
		depths[name] = d
		return d
	}

	sorted := append([]snapshot.InterfaceSpec(nil), ifaces...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return depthOf(sorted[i].Name) < depthOf(sorted[j].Name)
	})
	return sorted
}

// parentFieldFor picks the inventory field a child uses to point at its
// parent. Bond members hang off lag, bridge ports off bridge.
func parentFieldFor(class topology.Class) string {
	switch class {
	case topology.ClassLAG:
		return "lag"
	case topology.ClassBridge:
		return "bridge"
	default:
		return "parent"
	}
}

// ensureInterfaces converges the interfaces of a device parents-first,
// then the MAC and IP objects hanging off each one. A failed interface is
// skipped together with its addresses, the rest continue.
func (r *run) ensureInterfaces(ctx context.Context, deviceID int, ifaces []snapshot.InterfaceSpec) {
	classes := make(map[string]topology.Class, len(ifaces))
	for _, iface := range ifaces {
		classes[iface.Name] = iface.Class
	}
	rows := make(map[string]netbox.Row, len(ifaces))

	for _, iface := range orderParentsFirst(ifaces) {
		parentField, parentID := "", 0
		if iface.Parent != "" {
			if parent, ok := rows[iface.Parent]; ok {
				parentField = parentFieldFor(classes[iface.Parent])
				parentID = parent.ID()
			} else {
				r.log.Warn("parent interface was not ensured, leaving link unset",
					zap.String("interface", iface.Name), zap.String("parent", iface.Parent))
			}
		}

		row, err := r.ensureInterface(ctx, deviceID, iface, parentField, parentID)
		if err != nil {
			r.exec.skip(netbox.Interfaces, iface.Name, err.Error())
			continue
		}
		rows[iface.Name] = row

		r.ensureMAC(ctx, iface, row)
		r.ensureIPs(ctx, iface, row)
	}
}

// ensureInterface converges one interface. Observed facts are asserted,
// fields the observer knows nothing about are left untouched, and an
// existing parent link is never cleared.
func (r *run) ensureInterface(ctx context.Context, deviceID int, iface snapshot.InterfaceSpec, parentField string, parentID int) (netbox.Row, error) {
	row, err := r.exec.findOne(ctx, netbox.Interfaces, netbox.Params{
		"device_id": strconv.Itoa(deviceID),
		"name":      iface.Name,
	}, func(row netbox.Row) bool {
		return row.Str("name") == iface.Name && row.Ref("device") == deviceID
	})
	if err != nil {
		return nil, fmt.Errorf("lookup failed: %w", err)
	}

	if row == nil {
		body := netbox.Body{
			"device":  deviceID,
			"name":    iface.Name,
			"type":    iface.Type,
			"enabled": iface.Enabled,
		}
		if iface.Speed > 0 {
			body["speed"] = iface.Speed
		}
		if iface.MTU > 0 {
			body["mtu"] = iface.MTU
		}
		if iface.MgmtOnly {
			body["mgmt_only"] = true
		}
		if parentID != 0 {
			body[parentField] = parentID
		}
		row, err = r.exec.create(ctx, netbox.Interfaces, iface.Name, "interface not registered", body)
		if err != nil {
			return nil, fmt.Errorf("create failed: %w", err)
		}
		return row, nil
	}

	body := netbox.Body{}
	if row.Choice("type") != iface.Type {
		body["type"] = iface.Type
	}
	if row.Bool("enabled") != iface.Enabled {
		body["enabled"] = iface.Enabled
	}
	if iface.Speed > 0 && row.Int("speed") != iface.Speed {
		body["speed"] = iface.Speed
	}
	if iface.MTU > 0 && row.Int("mtu") != iface.MTU {
		body["mtu"] = iface.MTU
	}
	if iface.MgmtOnly && !row.Bool("mgmt_only") {
		body["mgmt_only"] = true
	}
	if parentID != 0 && row.Ref(parentField) != parentID {
		body[parentField] = parentID
	}
	if len(body) == 0 {
		r.exec.noop(netbox.Interfaces, iface.Name)
		return row, nil
	}

	updated, err := r.exec.update(ctx, netbox.Interfaces, row.ID(), iface.Name, "interface drifted", body)
	if err != nil {
		return nil, fmt.Errorf("update failed: %w", err)
	}
	return updated, nil
}
