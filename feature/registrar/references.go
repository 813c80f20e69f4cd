package registrar

import (
	"context"
	"fmt"

	"github.com/devopstales/netbox-registrator/core/netbox"
	"github.com/devopstales/netbox-registrator/core/utils"
	"github.com/devopstales/netbox-registrator/feature/snapshot"

	"go.uber.org/zap"
)

// defaultRoleColor is used for device roles the engine creates itself.
const defaultRoleColor = "9e9e9e"

// profileNames maps module categories to their inventory profile names.
var profileNames = map[string]string{
	snapshot.CategoryCPU:        "CPU",
	snapshot.CategoryMemory:     "Memory",
	snapshot.CategoryDisk:       "Hard disk",
	snapshot.CategoryGPU:        "GPU",
	snapshot.CategoryController: "Controller",
	snapshot.CategoryNIC:        "Network adapter",
	snapshot.CategoryPSU:        "Power supply",
}

// profileSchemas describe the attributes module types of a category may
// carry. Kept in sync with what the observers record.
var profileSchemas = map[string]netbox.Body{
	snapshot.CategoryCPU: {"properties": map[string]any{
		"cores":     map[string]any{"type": "integer"},
		"threads":   map[string]any{"type": "integer"},
		"speed_mhz": map[string]any{"type": "integer"},
	}},
	snapshot.CategoryMemory: {"properties": map[string]any{
		"size_gb": map[string]any{"type": "integer"},
		"type":    map[string]any{"type": "string"},
	}},
	snapshot.CategoryDisk: {"properties": map[string]any{
		"size_gb": map[string]any{"type": "integer"},
		"type":    map[string]any{"type": "string"},
	}},
	snapshot.CategoryGPU: {"properties": map[string]any{
		"memory_gb": map[string]any{"type": "integer"},
	}},
	snapshot.CategoryController: {"properties": map[string]any{
		"firmware": map[string]any{"type": "string"},
	}},
	snapshot.CategoryNIC: {"properties": map[string]any{
		"ports": map[string]any{"type": "integer"},
	}},
	snapshot.CategoryPSU: {"properties": map[string]any{
		"wattage": map[string]any{"type": "integer"},
	}},
}

// resolved is the outcome of a name resolution. Name may differ from the
// requested one when an existing row with the same slug was adopted.
type resolved struct {
	ID   int
	Name string
}

// references resolves the shared objects every other step points at.
// Results are memoized, so each reference costs at most one lookup per run.
type references struct {
	exec *exec
	log  *zap.Logger

	sites         map[string]int
	roles         map[string]int
	deviceTypes   map[string]netbox.Row
	manufacturers map[string]resolved
	profiles      map[string]int
	noProfiles    bool
}

func newReferences(e *exec, log *zap.Logger) *references {
	return &references{
		exec:          e,
		log:           log,
		sites:         map[string]int{},
		roles:         map[string]int{},
		deviceTypes:   map[string]netbox.Row{},
		manufacturers: map[string]resolved{},
		profiles:      map[string]int{},
	}
}

// site resolves a site by name. Sites are owned by the operators, the
// engine never creates one.
func (r *references) site(ctx context.Context, name string) (int, error) {
	if id, ok := r.sites[name]; ok {
		return id, nil
	}

	row, err := r.exec.findOne(ctx, netbox.Sites, netbox.Params{"name": name}, func(row netbox.Row) bool {
		return row.Str("name") == name
	})
	if err != nil {
		return 0, &ReferenceError{Collection: netbox.Sites, Name: name, Err: err}
	}
	if row == nil {
		return 0, &ReferenceError{Collection: netbox.Sites, Name: name}
	}

	r.sites[name] = row.ID()
	return row.ID(), nil
}

// role resolves a device role by name, creating it when absent.
func (r *references) role(ctx context.Context, name string) (int, error) {
	if id, ok := r.roles[name]; ok {
		return id, nil
	}

	row, err := r.exec.findOne(ctx, netbox.DeviceRoles, netbox.Params{"name": name}, func(row netbox.Row) bool {
		return row.Str("name") == name
	})
	if err != nil {
		return 0, &ReferenceError{Collection: netbox.DeviceRoles, Name: name, Err: err}
	}
	if row == nil {
		row, err = r.exec.create(ctx, netbox.DeviceRoles, name, "role not registered", netbox.Body{
			"name":    name,
			"slug":    utils.Slugify(name),
			"color":   defaultRoleColor,
			"vm_role": false,
		})
		if err != nil {
			return 0, &ReferenceError{Collection: netbox.DeviceRoles, Name: name, Err: err}
		}
	}

	r.roles[name] = row.ID()
	return row.ID(), nil
}

// deviceType resolves a device type by model. Device types carry curated
// template data, so a missing one is an operator problem, never created
// here. The full row is returned, its subdevice role drives blade and
// chassis handling.
func (r *references) deviceType(ctx context.Context, model string) (netbox.Row, error) {
	if row, ok := r.deviceTypes[model]; ok {
		return row, nil
	}

	row, err := r.exec.findOne(ctx, netbox.DeviceTypes, netbox.Params{"model": model}, func(row netbox.Row) bool {
		return row.Str("model") == model
	})
	if err != nil {
		return nil, &ReferenceError{Collection: netbox.DeviceTypes, Name: model, Err: err}
	}
	if row == nil {
		return nil, &ReferenceError{Collection: netbox.DeviceTypes, Name: model}
	}

	r.deviceTypes[model] = row
	return row, nil
}

// manufacturer resolves a manufacturer by name, creating it when absent.
// When the create collides with a row already owning the derived slug
// ("Samsung" vs "SAMSUNG"), that row is adopted as the canonical one.
func (r *references) manufacturer(ctx context.Context, name string) (resolved, error) {
	if name == "" {
		name = "Unknown"
	}
	if res, ok := r.manufacturers[name]; ok {
		return res, nil
	}

	row, err := r.exec.findOne(ctx, netbox.Manufacturers, netbox.Params{"name": name}, func(row netbox.Row) bool {
		return row.Str("name") == name
	})
	if err != nil {
		return resolved{}, fmt.Errorf("failed to look up manufacturer %q: %w", name, err)
	}
	if row == nil {
		slug := utils.Slugify(name)
		row, err = r.exec.create(ctx, netbox.Manufacturers, name, "manufacturer not registered", netbox.Body{
			"name": name,
			"slug": slug,
		})
		if err != nil {
			bySlug, slugErr := r.exec.findOne(ctx, netbox.Manufacturers, netbox.Params{"slug": slug}, func(row netbox.Row) bool {
				return row.Str("slug") == slug
			})
			if slugErr != nil || bySlug == nil {
				return resolved{}, fmt.Errorf("failed to create manufacturer %q: %w", name, err)
			}
			r.log.Debug("adopting manufacturer with colliding slug",
				zap.String("requested", name), zap.String("canonical", bySlug.Str("name")))
			row = bySlug
		}
	}

	res := resolved{ID: row.ID(), Name: row.Str("name")}
	r.manufacturers[name] = res
	return res, nil
}

// profile resolves the module type profile for a category, creating it on
// first use. Profiles are optional classification, every failure degrades
// to "no profile" instead of failing the module. Inventories predating
// profiles are detected once and remembered.
func (r *references) profile(ctx context.Context, category string) int {
	if r.noProfiles {
		return 0
	}
	name, ok := profileNames[category]
	if !ok {
		return 0
	}
	if id, ok := r.profiles[name]; ok {
		return id
	}

	row, err := r.exec.findOne(ctx, netbox.ModuleTypeProfiles, netbox.Params{"name": name}, func(row netbox.Row) bool {
		return row.Str("name") == name
	})
	if err != nil {
		if netbox.IsNotFound(err) {
			r.log.Debug("inventory has no module type profile support, not assigning profiles")
			r.noProfiles = true
			return 0
		}
		r.log.Warn("failed to look up module type profile",
			zap.String("profile", name), zap.Error(err))
		return 0
	}
	if row == nil {
		row, err = r.exec.create(ctx, netbox.ModuleTypeProfiles, name, "profile not registered", netbox.Body{
			"name":   name,
			"schema": profileSchemas[category],
		})
		if err != nil {
			r.log.Warn("failed to create module type profile",
				zap.String("profile", name), zap.Error(err))
			return 0
		}
	}

	r.profiles[name] = row.ID()
	return row.ID()
}
