package registrar

import (
	"context"
	"errors"

	"github.com/devopstales/netbox-registrator/core/netbox"
	"github.com/devopstales/netbox-registrator/feature/snapshot"

	"go.uber.org/zap"
)

// DefaultRole is the device role plain servers are registered under.
const DefaultRole = "Server"

// Registrar converges the inventory towards device snapshots. One
// Registrar can run any number of snapshots, each Run keeps its own state.
type Registrar struct {
	client netbox.Client
	opts   Options
	log    *zap.Logger
}

// New builds a Registrar. Zero option fields get their defaults, except
// Site which must name a site that already exists in the inventory.
func New(client netbox.Client, opts Options, log *zap.Logger) (*Registrar, error) {
	if opts.Site == "" {
		return nil, errors.New("a site is required")
	}
	if opts.Role == "" {
		opts.Role = DefaultRole
	}
	if opts.Priority == nil {
		opts.Priority = DefaultPriority
	}
	if log == nil {
		log = zap.L()
	}
	return &Registrar{client: client, opts: opts, log: log}, nil
}

// run holds the state of one convergence pass.
type run struct {
	exec     *exec
	refs     *references
	opts     Options
	log      *zap.Logger
	macs     map[string]macClaim
	prefixes map[string]bool
}

// Run converges the inventory towards snap. The device and its chassis
// placement are prerequisites and abort the run when they fail, modules
// and interfaces are converged best-effort afterwards. The report covers
// every action taken, including the partial trail of an aborted run.
func (reg *Registrar) Run(ctx context.Context, snap *snapshot.DeviceSnapshot) (*Report, error) {
	log := reg.log.With(zap.String("device", snap.Name))
	e := newExec(reg.client, reg.opts.DryRun, log)
	r := &run{
		exec:     e,
		refs:     newReferences(e, log),
		opts:     reg.opts,
		log:      log,
		macs:     map[string]macClaim{},
		prefixes: map[string]bool{},
	}
	report := &Report{Device: snap.Name, DryRun: reg.opts.DryRun}

	device, err := r.ensureDevice(ctx, snap)
	if err != nil {
		report.Actions = e.actions
		report.Summary = e.summary
		return report, err
	}
	report.DeviceID = device.ID()

	r.ensureModules(ctx, device.ID(), snap.Modules)

	ifaces := snap.Interfaces
	if snap.IPMI != nil {
		ifaces = append(append([]snapshot.InterfaceSpec(nil), ifaces...), *snap.IPMI)
	}
	r.ensureInterfaces(ctx, device.ID(), ifaces)

	report.Actions = e.actions
	report.Summary = e.summary
	log.Info("run finished",
		zap.Int("creates", e.summary.Creates),
		zap.Int("updates", e.summary.Updates),
		zap.Int("unchanged", e.summary.Unchanged),
		zap.Int("skips", e.summary.Skips),
		zap.Bool("dry_run", reg.opts.DryRun))
	return report, nil
}
