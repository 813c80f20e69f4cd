package cmd

import (
	"context"
	"fmt"

	"github.com/devopstales/netbox-registrator/core/config"
	"github.com/devopstales/netbox-registrator/core/journal"
	"github.com/devopstales/netbox-registrator/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var runsLimit int

// runsCmd lists recent registration runs from the journal.
var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recent registration runs from the journal",
	RunE:  runRuns,
}

func init() {
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "Maximum number of runs to list")

	RootCmd.AddCommand(runsCmd)
}

func runRuns(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := journal.Connect(cfg.Journal)
	if err != nil {
		return fmt.Errorf("failed to connect to journal database: %w", err)
	}
	j, err := journal.New(db)
	if err != nil {
		return err
	}

	runs, err := j.Recent(ctx, runsLimit)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		l.Info("No runs recorded yet")
		return nil
	}

	for _, run := range runs {
		fields := []zap.Field{
			zap.String("id", run.ID),
			zap.String("device", run.Device),
			zap.Time("started_at", run.StartedAt),
			zap.String("status", run.Status),
			zap.Bool("dry_run", run.DryRun),
			zap.Int("creates", run.Creates),
			zap.Int("updates", run.Updates),
			zap.Int("unchanged", run.Unchanged),
			zap.Int("skips", run.Skips),
		}
		if run.Error != "" {
			fields = append(fields, zap.String("error", run.Error))
		}
		l.Info("Run", fields...)
	}
	return nil
}
