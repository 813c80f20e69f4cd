package registrar

import (
	"context"
	"strconv"

	"github.com/devopstales/netbox-registrator/core/netbox"
	"github.com/devopstales/netbox-registrator/feature/snapshot"

	"go.uber.org/zap"
)

// moduleKey identifies one module within a run.
func moduleKey(spec snapshot.ModuleSpec) string {
	return spec.Category + "/" + spec.Bay
}

// ensureModules converges the installed hardware modules in three ordered
// phases: module types, module bays, then the modules placed in them. Each
// later phase only consumes ids the earlier phase resolved, so a module is
// never created against a bay or type that was not ensured in this run.
// Failures here are per-module warnings, never fatal.
func (r *run) ensureModules(ctx context.Context, deviceID int, modules []snapshot.ModuleSpec) {
	if len(modules) == 0 {
		return
	}
	types := r.ensureModuleTypes(ctx, modules)
	bays := r.ensureModuleBays(ctx, deviceID, modules)
	r.ensureInstalledModules(ctx, deviceID, modules, types, bays)
}

// ensureModuleTypes resolves the module type for every module, deduplicated
// by manufacturer and model within the run. Types carry shared template
// data, so they are created once and never updated afterwards.
func (r *run) ensureModuleTypes(ctx context.Context, modules []snapshot.ModuleSpec) map[string]int {
	types := make(map[string]int, len(modules))
	byPair := map[string]int{}

	for _, spec := range modules {
		mfr, err := r.refs.manufacturer(ctx, spec.Manufacturer)
		if err != nil {
			r.log.Warn("failed to resolve manufacturer for module",
				zap.String("module", moduleKey(spec)), zap.Error(err))
			continue
		}

		pair := strconv.Itoa(mfr.ID) + "/" + spec.Model
		if id, ok := byPair[pair]; ok {
			types[moduleKey(spec)] = id
			continue
		}
		typeKey := mfr.Name + " " + spec.Model

		row, err := r.exec.findOne(ctx, netbox.ModuleTypes, netbox.Params{
			"manufacturer_id": strconv.Itoa(mfr.ID),
			"model":           spec.Model,
		}, func(row netbox.Row) bool {
			return row.Str("model") == spec.Model && row.Ref("manufacturer") == mfr.ID
		})
		if err != nil {
			r.log.Warn("failed to look up module type",
				zap.String("module_type", typeKey), zap.Error(err))
			continue
		}
		if row == nil {
			body := netbox.Body{
				"manufacturer": mfr.ID,
				"model":        spec.Model,
			}
			if pid := r.refs.profile(ctx, spec.Category); pid != 0 {
				body["profile"] = pid
				if len(spec.Attributes) > 0 {
					body["attribute_data"] = spec.Attributes
				}
			}
			row, err = r.exec.create(ctx, netbox.ModuleTypes, typeKey, "module type not registered", body)
			if err != nil {
				r.log.Warn("failed to create module type",
					zap.String("module_type", typeKey), zap.Error(err))
				continue
			}
		} else {
			r.exec.noop(netbox.ModuleTypes, typeKey)
		}

		byPair[pair] = row.ID()
		types[moduleKey(spec)] = row.ID()
	}
	return types
}

// ensureModuleBays resolves the bay every module sits in, keyed for the
// install phase. Bays found on the device are adopted as is.
func (r *run) ensureModuleBays(ctx context.Context, deviceID int, modules []snapshot.ModuleSpec) map[string]int {
	bays := make(map[string]int, len(modules))
	byName := map[string]int{}

	for _, spec := range modules {
		if id, ok := byName[spec.Bay]; ok {
			bays[moduleKey(spec)] = id
			continue
		}

		row, err := r.exec.findOne(ctx, netbox.ModuleBays, netbox.Params{
			"device_id": strconv.Itoa(deviceID),
			"name":      spec.Bay,
		}, func(row netbox.Row) bool {
			return row.Str("name") == spec.Bay && row.Ref("device") == deviceID
		})
		if err != nil {
			r.log.Warn("failed to look up module bay",
				zap.String("bay", spec.Bay), zap.Error(err))
			continue
		}
		if row == nil {
			row, err = r.exec.create(ctx, netbox.ModuleBays, spec.Bay, "module bay not registered", netbox.Body{
				"device": deviceID,
				"name":   spec.Bay,
			})
			if err != nil {
				r.log.Warn("failed to create module bay",
					zap.String("bay", spec.Bay), zap.Error(err))
				continue
			}
		} else {
			r.exec.noop(netbox.ModuleBays, spec.Bay)
		}

		byName[spec.Bay] = row.ID()
		bays[moduleKey(spec)] = row.ID()
	}
	return bays
}

// ensureInstalledModules converges the module in each resolved bay. A
// module whose type or bay could not be resolved is skipped.
func (r *run) ensureInstalledModules(ctx context.Context, deviceID int, modules []snapshot.ModuleSpec, types, bays map[string]int) {
	for _, spec := range modules {
		key := moduleKey(spec)
		typeID, okType := types[key]
		bayID, okBay := bays[key]
		if !okType {
			r.exec.skip(netbox.Modules, key, "module type unresolved")
			continue
		}
		if !okBay {
			r.exec.skip(netbox.Modules, key, "module bay unresolved")
			continue
		}

		row, err := r.exec.findOne(ctx, netbox.Modules, netbox.Params{
			"device_id":     strconv.Itoa(deviceID),
			"module_bay_id": strconv.Itoa(bayID),
		}, func(row netbox.Row) bool {
			return row.Ref("module_bay") == bayID
		})
		if err != nil {
			r.exec.skip(netbox.Modules, key, "lookup failed: "+err.Error())
			continue
		}

		if row == nil {
			body := netbox.Body{
				"device":      deviceID,
				"module_bay":  bayID,
				"module_type": typeID,
				"status":      "active",
			}
			if spec.Serial != "" {
				body["serial"] = spec.Serial
			}
			if _, err := r.exec.create(ctx, netbox.Modules, key, "module not registered", body); err != nil {
				r.exec.skip(netbox.Modules, key, "create failed: "+err.Error())
			}
			continue
		}

		body := netbox.Body{}
		if row.Ref("module_type") != typeID {
			body["module_type"] = typeID
		}
		if spec.Serial != "" && row.Str("serial") != spec.Serial {
			body["serial"] = spec.Serial
		}
		if len(body) == 0 {
			r.exec.noop(netbox.Modules, key)
			continue
		}
		if _, err := r.exec.update(ctx, netbox.Modules, row.ID(), key, "module drifted", body); err != nil {
			r.exec.skip(netbox.Modules, key, "update failed: "+err.Error())
		}
	}
}
