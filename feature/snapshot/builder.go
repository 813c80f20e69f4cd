package snapshot

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sort"

	"github.com/devopstales/netbox-registrator/feature/topology"

	"go.uber.org/zap"
)

// Options control how a snapshot gets built.
type Options struct {
	// Name is the device name. Required.
	Name string
	// DeviceType overrides the observed product name.
	DeviceType string
	// AutoDetect enables falling back to the observed product name when
	// DeviceType is empty.
	AutoDetect bool
	// Site is the site the device is registered under.
	Site string
	// Role is the device role. Blades get theirs from the chassis placement.
	Role string
	// Serial overrides the observed serial number.
	Serial string
	// AssetTag is attached to the device as-is.
	AssetTag string
	// Comments is attached to the device as-is.
	Comments string
	// Categories limits which module categories get collected.
	// Empty means all of them.
	Categories []string
}

// Build assembles a DeviceSnapshot from observer facts. Identity and
// interface facts are required, module categories and the management
// controller are collected best-effort.
func Build(ctx context.Context, obs Observer, opts Options, log *zap.Logger) (*DeviceSnapshot, error) {
	if opts.Name == "" {
		return nil, errors.New("device name is required")
	}

	ident, err := obs.Identity(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read identity: %w", err)
	}

	deviceType := opts.DeviceType
	if deviceType == "" && opts.AutoDetect {
		deviceType = ident.Product
	}
	if deviceType == "" {
		return nil, errors.New("device type was neither given nor detected")
	}

	serial := opts.Serial
	if serial == "" {
		serial = ident.Serial
	}

	snap := &DeviceSnapshot{
		Name:       opts.Name,
		DeviceType: deviceType,
		Site:       opts.Site,
		Role:       opts.Role,
		Serial:     serial,
		AssetTag:   opts.AssetTag,
		Comments:   opts.Comments,
	}

	// Blade placement from the hostname. Whether the hint applies is
	// decided later against the device type's subdevice role.
	if chassis, bay, ok := topology.ParseBladeHost(opts.Name); ok {
		snap.Chassis = &ChassisHint{Name: chassis, Bay: bay, TypeName: ident.ChassisProduct}
	}

	facts, err := obs.Interfaces(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read interfaces: %w", err)
	}

	links := make([]topology.Link, 0, len(facts))
	for _, f := range facts {
		links = append(links, topology.Link{Name: f.Name, Master: f.Master})
	}
	parents := topology.ResolveParents(links, log)

	for _, f := range facts {
		spec := InterfaceSpec{
			Name:    f.Name,
			Speed:   f.SpeedMbps * 1000,
			MTU:     f.MTU,
			Enabled: f.Up,
			Parent:  parents[f.Name],
		}
		spec.Class, spec.Type = topology.Classify(f.Name, f.SpeedMbps, f.Transceiver)

		if f.MAC != "" {
			spec.MAC = NormalizeMAC(f.MAC)
			if spec.MAC == "" {
				log.Warn("dropping unparseable hardware address",
					zap.String("interface", f.Name), zap.String("mac", f.MAC))
			}
		}

		for _, addr := range f.Addresses {
			if _, _, err := net.ParseCIDR(addr); err != nil {
				log.Warn("dropping unparseable address",
					zap.String("interface", f.Name), zap.String("address", addr))
				continue
			}
			spec.Addresses = append(spec.Addresses, addr)
		}

		snap.Interfaces = append(snap.Interfaces, spec)
	}

	categories := opts.Categories
	if len(categories) == 0 {
		categories = Categories
	}
	seenBays := map[string]bool{}
	for _, category := range categories {
		modules, err := obs.Modules(ctx, category)
		if err != nil {
			if errors.Is(err, ErrUnavailable) {
				log.Warn("module source unavailable, skipping category",
					zap.String("category", category))
				continue
			}
			log.Warn("failed to collect modules, skipping category",
				zap.String("category", category), zap.Error(err))
			continue
		}
		for _, m := range modules {
			// Bay names are unique within a category. A duplicate would
			// make two modules fight over one bay on every run.
			key := m.Category + "/" + m.Bay
			if seenBays[key] {
				log.Warn("dropping module with duplicate bay name",
					zap.String("category", m.Category), zap.String("bay", m.Bay))
				continue
			}
			seenBays[key] = true
			snap.Modules = append(snap.Modules, m)
		}
	}
	sort.SliceStable(snap.Modules, func(i, j int) bool {
		if snap.Modules[i].Category != snap.Modules[j].Category {
			return snap.Modules[i].Category < snap.Modules[j].Category
		}
		return snap.Modules[i].Bay < snap.Modules[j].Bay
	})

	ipmi, err := obs.IPMI(ctx)
	if err != nil {
		log.Warn("failed to read management controller facts", zap.Error(err))
	} else if ipmi != nil {
		spec := InterfaceSpec{
			Name:     "ipmi",
			Class:    topology.ClassPhysical,
			Type:     "1000base-t",
			Enabled:  true,
			MgmtOnly: true,
		}
		if ipmi.MAC != "" {
			spec.MAC = NormalizeMAC(ipmi.MAC)
			if spec.MAC == "" {
				log.Warn("dropping unparseable management controller mac",
					zap.String("mac", ipmi.MAC))
			}
		}
		if ipmi.IPv4 != "" {
			if _, _, err := net.ParseCIDR(ipmi.IPv4); err != nil {
				log.Warn("dropping unparseable management controller address",
					zap.String("address", ipmi.IPv4))
			} else {
				spec.Addresses = []string{ipmi.IPv4}
			}
		}
		snap.IPMI = &spec
	}

	return snap, nil
}
