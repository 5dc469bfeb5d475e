package commands

import (
	"context"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"kanban-chat-api/internal/database"
	"kanban-chat-api/internal/job"
	"kanban-chat-api/internal/printer"
	"kanban-chat-api/internal/repository"
	"kanban-chat-api/internal/storage"
)

var sweepGrace time.Duration

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run one orphan sweep pass now",
	Long: `Reconcile file rows with stored blobs once, outside the server's schedule.

Rows whose blob is missing are deleted together with their attachments, and
blobs without a row are removed. Both only when older than the grace period.`,
	Args: cobra.NoArgs,
	RunE: runSweep,
}

func init() {
	sweepCmd.Flags().DurationVar(&sweepGrace, "grace", 0, "Override jobs.orphan_grace_period")
	rootCmd.AddCommand(sweepCmd)
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if sweepGrace > 0 {
		cfg.Jobs.OrphanGracePeriod = sweepGrace
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer database.Close(db)

	blobs, err := storage.Open(ctx, cfg, nil)
	if err != nil {
		return printer.Error("Failed to open blob storage", err.Error(), []string{"Check the storage and s3 sections of the config"})
	}

	printer.Step("Sweeping %s storage (grace %s)", cfg.Storage.Driver, cfg.Jobs.OrphanGracePeriod)
	start := time.Now()
	result, err := job.NewOrphanSweep(repository.NewStore(db), blobs, cfg.Jobs.OrphanGracePeriod, nil, newLogger()).Sweep(ctx)
	if err != nil {
		return printer.Error("Sweep aborted", err.Error(), nil)
	}

	printer.Table(sweepRows(result, time.Since(start)))
	if result.Failed > 0 {
		printer.Warning("%d orphan(s) could not be removed; rerun with --verbose for details", result.Failed)
		return nil
	}
	printer.Success("Sweep complete")
	return nil
}

func sweepRows(result job.SweepResult, took time.Duration) [][2]string {
	return [][2]string{
		{"rows removed", strconv.Itoa(result.RowsRemoved)},
		{"blobs removed", strconv.Itoa(result.BlobsRemoved)},
		{"failures", strconv.Itoa(result.Failed)},
		{"duration", took.Round(time.Millisecond).String()},
	}
}
