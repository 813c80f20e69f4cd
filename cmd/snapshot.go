package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/devopstales/netbox-registrator/core/config"
	"github.com/devopstales/netbox-registrator/core/logger"
	"github.com/devopstales/netbox-registrator/feature/snapshot"

	"github.com/spf13/cobra"
)

var (
	// Flags for the snapshot command
	snapshotName       string
	snapshotDeviceType string
	snapshotFacts      string
)

// snapshotCmd builds the device snapshot and prints it without touching
// the inventory. Useful to inspect what register would converge towards.
var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Print the device snapshot built from the facts file",
	Long: `Snapshot builds the same device snapshot the register command would
converge the inventory towards, and prints it as JSON. The inventory is
never contacted.`,
	RunE: runSnapshot,
}

func init() {
	snapshotCmd.Flags().StringVar(&snapshotName, "name", "", "Device name (defaults to the hostname)")
	snapshotCmd.Flags().StringVar(&snapshotDeviceType, "device-type", "", "Device type model (overrides the observed product name)")
	snapshotCmd.Flags().StringVar(&snapshotFacts, "facts", "facts.yaml", "Path to the recorded facts file")

	RootCmd.AddCommand(snapshotCmd)
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	name := snapshotName
	if name == "" {
		name, err = os.Hostname()
		if err != nil {
			return fmt.Errorf("failed to read hostname: %w", err)
		}
	}

	obs := snapshot.NewFileObserver(snapshotFacts)
	snap, err := snapshot.Build(ctx, obs, snapshot.Options{
		Name:       name,
		DeviceType: snapshotDeviceType,
		AutoDetect: true,
		Site:       cfg.Netbox.Site,
		Role:       cfg.Netbox.Role,
	}, l)
	if err != nil {
		return fmt.Errorf("failed to build snapshot: %w", err)
	}

	out, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
