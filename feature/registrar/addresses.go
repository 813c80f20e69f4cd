package registrar

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/devopstales/netbox-registrator/core/netbox"
	"github.com/devopstales/netbox-registrator/feature/snapshot"

	"go.uber.org/zap"
)

// assignedTypeInterface is the inventory content type for device interfaces.
const assignedTypeInterface = "dcim.interface"

// macClaim remembers which interface won a MAC earlier in the run, so a
// later claim on the same address is settled locally instead of against
// half-applied remote state.
type macClaim struct {
	id       int
	owner    string
	priority int
}

// ensureMAC converges the MAC address object of one interface. Several
// interfaces legitimately share one hardware address, a bond reuses its
// member's MAC. The address only moves to a claimant scoring strictly
// higher than the current owner, so it settles on the topmost interface
// regardless of processing order.
func (r *run) ensureMAC(ctx context.Context, iface snapshot.InterfaceSpec, row netbox.Row) {
	if iface.MAC == "" {
		return
	}
	prio := r.opts.Priority(iface.Class, iface.Name)

	if claim, ok := r.macs[iface.MAC]; ok {
		if claim.owner == iface.Name {
			r.exec.noop(netbox.MACAddresses, iface.MAC)
			return
		}
		if prio <= claim.priority {
			r.exec.keep(netbox.MACAddresses, iface.MAC, "kept on "+claim.owner)
			return
		}
		if _, err := r.exec.update(ctx, netbox.MACAddresses, claim.id, iface.MAC, "outranks "+claim.owner, netbox.Body{
			"assigned_object_type": assignedTypeInterface,
			"assigned_object_id":   row.ID(),
		}); err != nil {
			r.exec.skip(netbox.MACAddresses, iface.MAC, "reassign failed: "+err.Error())
			return
		}
		r.macs[iface.MAC] = macClaim{id: claim.id, owner: iface.Name, priority: prio}
		return
	}

	existing, err := r.exec.findOne(ctx, netbox.MACAddresses, netbox.Params{"mac_address": iface.MAC}, func(row netbox.Row) bool {
		return strings.EqualFold(row.Str("mac_address"), iface.MAC)
	})
	if err != nil {
		r.exec.skip(netbox.MACAddresses, iface.MAC, "lookup failed: "+err.Error())
		return
	}

	if existing == nil {
		created, err := r.exec.create(ctx, netbox.MACAddresses, iface.MAC, "mac not registered", netbox.Body{
			"mac_address":          iface.MAC,
			"assigned_object_type": assignedTypeInterface,
			"assigned_object_id":   row.ID(),
		})
		if err != nil {
			r.exec.skip(netbox.MACAddresses, iface.MAC, "create failed: "+err.Error())
			return
		}
		r.macs[iface.MAC] = macClaim{id: created.ID(), owner: iface.Name, priority: prio}
		return
	}

	curType := existing.Str("assigned_object_type")
	curID := existing.Int("assigned_object_id")

	if curType == assignedTypeInterface && curID == row.ID() {
		r.exec.noop(netbox.MACAddresses, iface.MAC)
		r.macs[iface.MAC] = macClaim{id: existing.ID(), owner: iface.Name, priority: prio}
		return
	}
	if curID != 0 && curType != "" && curType != assignedTypeInterface {
		r.exec.skip(netbox.MACAddresses, iface.MAC, "assigned to a "+curType+" object")
		return
	}

	reason := "mac not assigned"
	if curID != 0 {
		owner, err := r.exec.findOne(ctx, netbox.Interfaces, netbox.Params{"id": strconv.Itoa(curID)}, func(row netbox.Row) bool {
			return row.ID() == curID
		})
		if err != nil {
			r.exec.skip(netbox.MACAddresses, iface.MAC, "owner lookup failed: "+err.Error())
			return
		}
		if owner == nil {
			reason = "previous owner is gone"
		} else {
			ownerName := owner.Str("name")
			ownerPrio := r.opts.Priority(classFromType(owner.Choice("type")), ownerName)
			if prio <= ownerPrio {
				r.exec.keep(netbox.MACAddresses, iface.MAC, "kept on "+ownerName)
				r.macs[iface.MAC] = macClaim{id: existing.ID(), owner: ownerName, priority: ownerPrio}
				return
			}
			reason = "outranks " + ownerName
		}
	}

	if _, err := r.exec.update(ctx, netbox.MACAddresses, existing.ID(), iface.MAC, reason, netbox.Body{
		"assigned_object_type": assignedTypeInterface,
		"assigned_object_id":   row.ID(),
	}); err != nil {
		r.exec.skip(netbox.MACAddresses, iface.MAC, "reassign failed: "+err.Error())
		return
	}
	r.macs[iface.MAC] = macClaim{id: existing.ID(), owner: iface.Name, priority: prio}
}

// ensureIPs converges the addresses of one interface, ensuring the
// containing prefix for each. An address observed on an interface follows
// it unconditionally, an IP lives in exactly one place.
func (r *run) ensureIPs(ctx context.Context, iface snapshot.InterfaceSpec, row netbox.Row) {
	for _, addr := range iface.Addresses {
		r.ensurePrefix(ctx, addr)
		r.ensureIP(ctx, addr, iface.Name, row)
	}
}

// ensurePrefix registers the network an address sits in. Prefixes are
// shared infrastructure, failures here never block the address itself.
func (r *run) ensurePrefix(ctx context.Context, addr string) {
	_, ipnet, err := net.ParseCIDR(addr)
	if err != nil {
		return
	}
	prefix := ipnet.String()
	if r.prefixes[prefix] {
		return
	}

	row, err := r.exec.findOne(ctx, netbox.Prefixes, netbox.Params{"prefix": prefix}, func(row netbox.Row) bool {
		return row.Str("prefix") == prefix
	})
	if err != nil {
		r.log.Warn("failed to look up prefix", zap.String("prefix", prefix), zap.Error(err))
		return
	}
	if row == nil {
		if _, err := r.exec.create(ctx, netbox.Prefixes, prefix, "prefix not registered", netbox.Body{
			"prefix": prefix,
			"status": "active",
		}); err != nil {
			r.log.Warn("failed to create prefix", zap.String("prefix", prefix), zap.Error(err))
			return
		}
	} else {
		r.exec.noop(netbox.Prefixes, prefix)
	}
	r.prefixes[prefix] = true
}

// ensureIP converges one address object onto its interface.
func (r *run) ensureIP(ctx context.Context, addr, ifaceName string, row netbox.Row) {
	existing, err := r.exec.findOne(ctx, netbox.IPAddresses, netbox.Params{"address": addr}, func(row netbox.Row) bool {
		return row.Str("address") == addr
	})
	if err != nil {
		r.exec.skip(netbox.IPAddresses, addr, "lookup failed: "+err.Error())
		return
	}

	if existing == nil {
		if _, err := r.exec.create(ctx, netbox.IPAddresses, addr, "address not registered", netbox.Body{
			"address":              addr,
			"status":               "active",
			"assigned_object_type": assignedTypeInterface,
			"assigned_object_id":   row.ID(),
		}); err != nil {
			r.exec.skip(netbox.IPAddresses, addr, "create failed: "+err.Error())
		}
		return
	}

	if existing.Str("assigned_object_type") == assignedTypeInterface && existing.Int("assigned_object_id") == row.ID() {
		r.exec.noop(netbox.IPAddresses, addr)
		return
	}
	if _, err := r.exec.update(ctx, netbox.IPAddresses, existing.ID(), addr, fmt.Sprintf("address moved to %s", ifaceName), netbox.Body{
		"assigned_object_type": assignedTypeInterface,
		"assigned_object_id":   row.ID(),
	}); err != nil {
		r.exec.skip(netbox.IPAddresses, addr, "reassign failed: "+err.Error())
	}
}
