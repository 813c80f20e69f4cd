package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/devopstales/netbox-registrator/core/archive"
	"github.com/devopstales/netbox-registrator/core/config"
	"github.com/devopstales/netbox-registrator/core/journal"
	"github.com/devopstales/netbox-registrator/core/logger"
	"github.com/devopstales/netbox-registrator/core/netbox"
	"github.com/devopstales/netbox-registrator/feature/registrar"
	"github.com/devopstales/netbox-registrator/feature/snapshot"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for the register command
	registerName         string
	registerDeviceType   string
	registerNoAutodetect bool
	registerSerial       string
	registerAssetTag     string
	registerComments     string
	registerFacts        string
	registerDryRun       bool
	registerDebug        bool
)

// registerCmd converges the inventory towards the observed facts of one device.
var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register this device and its hardware in the inventory",
	Long: `Register builds a snapshot of the device from a recorded facts file and
converges the inventory to match it: the device itself, its chassis placement,
hardware modules, network interfaces, MAC and IP addresses.

Existing objects are updated only where they differ, and nothing is ever
deleted. Missing sites and device types abort the run.

Examples:
  # Register this host (name defaults to the hostname)
  netbox-registrator register --facts /var/lib/registrator/facts.yaml

  # Describe what would happen without touching the inventory
  netbox-registrator register --dry-run

  # Register under an explicit name and device type
  netbox-registrator register --name srv01 --device-type "PowerEdge R640"`,
	RunE: runRegister,
}

func init() {
	registerCmd.Flags().StringVar(&registerName, "name", "", "Device name (defaults to the hostname)")
	registerCmd.Flags().StringVar(&registerDeviceType, "device-type", "", "Device type model (overrides the observed product name)")
	registerCmd.Flags().BoolVar(&registerNoAutodetect, "no-autodetect", false, "Do not fall back to the observed product name for the device type")
	registerCmd.Flags().StringVar(&registerSerial, "serial", "", "Serial number (overrides the observed one)")
	registerCmd.Flags().StringVar(&registerAssetTag, "asset-tag", "", "Asset tag attached to the device")
	registerCmd.Flags().StringVar(&registerComments, "comments", "", "Comments attached to the device")
	registerCmd.Flags().StringVar(&registerFacts, "facts", "facts.yaml", "Path to the recorded facts file")
	registerCmd.Flags().BoolVar(&registerDryRun, "dry-run", false, "Describe every action without mutating the inventory")
	registerCmd.Flags().BoolVar(&registerDebug, "debug", false, "Force debug logging")

	RootCmd.AddCommand(registerCmd)
}

func runRegister(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if registerDebug {
		cfg.Log.Level = "debug"
	}

	// Initialize logger
	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	// The device name defaults to the hostname
	name := registerName
	if name == "" {
		name, err = os.Hostname()
		if err != nil {
			return fmt.Errorf("failed to read hostname: %w", err)
		}
	}

	// Build the snapshot from the recorded facts
	obs := snapshot.NewFileObserver(registerFacts)
	snap, err := snapshot.Build(ctx, obs, snapshot.Options{
		Name:       name,
		DeviceType: registerDeviceType,
		AutoDetect: !registerNoAutodetect,
		Site:       cfg.Netbox.Site,
		Role:       cfg.Netbox.Role,
		Serial:     registerSerial,
		AssetTag:   registerAssetTag,
		Comments:   registerComments,
	}, l)
	if err != nil {
		return fmt.Errorf("failed to build snapshot: %w", err)
	}

	// Connect to the inventory
	client, err := netbox.NewClient(&cfg.Netbox, l)
	if err != nil {
		return fmt.Errorf("failed to create inventory client: %w", err)
	}

	reg, err := registrar.New(client, registrar.Options{
		Site:   cfg.Netbox.Site,
		Role:   cfg.Netbox.Role,
		DryRun: registerDryRun,
	}, l)
	if err != nil {
		return fmt.Errorf("failed to create registrar: %w", err)
	}

	// Converge
	started := time.Now()
	report, runErr := reg.Run(ctx, snap)

	// Record the run, including a failed one, in the journal
	runID := uuid.NewString()
	if cfg.Journal.Enabled {
		if err := recordRun(ctx, cfg.Journal, runID, started, report, runErr); err != nil {
			l.Warn("Failed to record run in the journal", zap.Error(err))
		}
	}

	// Archive the snapshot
	if cfg.Archive.Enabled && !registerDryRun {
		if err := archiveSnapshot(ctx, cfg.Archive, snap, runID, l); err != nil {
			l.Warn("Failed to archive snapshot", zap.Error(err))
		}
	}

	printSkips(l, report)

	if runErr != nil {
		return fmt.Errorf("registration failed: %w", runErr)
	}
	return nil
}

// recordRun appends the run and its full action trail to the journal.
func recordRun(ctx context.Context, cfg journal.Config, runID string, started time.Time, report *registrar.Report, runErr error) error {
	db, err := journal.Connect(cfg)
	if err != nil {
		return err
	}
	j, err := journal.New(db)
	if err != nil {
		return err
	}

	run := &journal.Run{
		ID:         runID,
		Device:     report.Device,
		StartedAt:  started,
		FinishedAt: time.Now(),
		DryRun:     report.DryRun,
		Status:     journal.StatusOK,
		Creates:    report.Summary.Creates,
		Updates:    report.Summary.Updates,
		Unchanged:  report.Summary.Unchanged,
		Skips:      report.Summary.Skips,
	}
	if runErr != nil {
		run.Status = journal.StatusFailed
		run.Error = runErr.Error()
	}
	for _, action := range report.Actions {
		run.Actions = append(run.Actions, journal.Action{
			Collection: action.Collection,
			Kind:       string(action.Type),
			Key:        action.Key,
			Reason:     action.Reason,
		})
	}
	return j.Record(ctx, run)
}

// archiveSnapshot uploads the built snapshot as one JSON object per run.
func archiveSnapshot(ctx context.Context, cfg archive.Config, snap *snapshot.DeviceSnapshot, runID string, l *zap.Logger) error {
	client, err := archive.NewClient(cfg)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	arc := archive.New(client, cfg, l)
	object, err := arc.Store(ctx, snap.Name, runID, payload)
	if err != nil {
		return err
	}
	l.Info("Snapshot archived", zap.String("object", object))
	return nil
}

// printSkips repeats the skipped objects at the end of the run so they do
// not get lost in the action log.
func printSkips(l *zap.Logger, report *registrar.Report) {
	for _, action := range report.Actions {
		if action.Type != registrar.ActionSkip {
			continue
		}
		l.Warn("Object was skipped",
			zap.String("collection", action.Collection),
			zap.String("key", action.Key),
			zap.String("reason", action.Reason),
		)
	}
}
