package job

import (
	"context"
	"errors"
	"path"
	"time"

	"go.uber.org/zap"

	"kanban-chat-api/internal/metrics"
	"kanban-chat-api/internal/repository"
	"kanban-chat-api/internal/storage"
)

// SweepResult summarizes one pass
type SweepResult struct {
	RowsRemoved  int
	BlobsRemoved int
	Failed       int
}

// OrphanSweep reconciles file rows with blobs. A crash between committing a
// row and writing its blob (or between deleting a row and removing its
// blob) leaves one side dangling; anything older than the grace period is
// assumed abandoned.
type OrphanSweep struct {
	store   *repository.Store
	blobs   storage.BlobStore
	grace   time.Duration
	now     func() time.Time
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewOrphanSweep creates a new OrphanSweep instance
func NewOrphanSweep(
	store *repository.Store,
	blobs storage.BlobStore,
	grace time.Duration,
	m *metrics.Metrics,
	logger *zap.Logger,
) *OrphanSweep {
	return &OrphanSweep{
		store:   store,
		blobs:   blobs,
		grace:   grace,
		now:     time.Now,
		metrics: m,
		logger:  logger,
	}
}

// Run satisfies cron.Job
func (j *OrphanSweep) Run() {
	if _, err := j.Sweep(context.Background()); err != nil {
		j.logger.Error("Orphan sweep failed", zap.Error(err))
	}
}

// Sweep runs one pass. Individual failures are logged and counted; the
// returned error is reserved for listing failures that abort the pass.
func (j *OrphanSweep) Sweep(ctx context.Context) (SweepResult, error) {
	var result SweepResult
	cutoff := j.now().Add(-j.grace)

	j.logger.Info("Starting orphan sweep", zap.Time("cutoff", cutoff))

	if err := j.sweepRows(ctx, cutoff, &result); err != nil {
		return result, err
	}
	if err := j.sweepBlobs(ctx, cutoff, &result); err != nil {
		return result, err
	}

	j.metrics.RecordOrphansSwept("row", result.RowsRemoved)
	j.metrics.RecordOrphansSwept("blob", result.BlobsRemoved)

	j.logger.Info("Orphan sweep completed",
		zap.Int("rows_removed", result.RowsRemoved),
		zap.Int("blobs_removed", result.BlobsRemoved),
		zap.Int("failed", result.Failed),
	)
	return result, nil
}

// sweepRows deletes rows whose blob never landed, detaching them from
// cards on the way
func (j *OrphanSweep) sweepRows(ctx context.Context, cutoff time.Time, result *SweepResult) error {
	files, err := j.store.Files.ListCreatedBefore(ctx, cutoff)
	if err != nil {
		return err
	}

	for _, f := range files {
		exists, err := j.blobs.Exists(ctx, f.BlobKey())
		if err != nil {
			j.logger.Warn("Failed to stat blob",
				zap.String("file_name", f.Name),
				zap.Error(err),
			)
			result.Failed++
			continue
		}
		if exists {
			continue
		}

		err = j.store.WithTx(ctx, func(tx *repository.Store) error {
			return tx.DeleteFileCascade(ctx, f)
		})
		if err != nil {
			j.logger.Error("Failed to delete orphaned file row",
				zap.String("file_id", f.ID.String()),
				zap.String("file_name", f.Name),
				zap.Error(err),
			)
			result.Failed++
			continue
		}
		result.RowsRemoved++
		j.logger.Debug("Deleted orphaned file row", zap.String("file_name", f.Name))
	}
	return nil
}

// sweepBlobs removes blobs no row refers to
func (j *OrphanSweep) sweepBlobs(ctx context.Context, cutoff time.Time, result *SweepResult) error {
	infos, err := j.blobs.List(ctx)
	if err != nil {
		return err
	}

	stale := make([]storage.BlobInfo, 0, len(infos))
	names := make([]string, 0, len(infos))
	for _, info := range infos {
		if !info.ModTime.Before(cutoff) {
			continue
		}
		stale = append(stale, info)
		names = append(names, path.Base(info.Key))
	}
	if len(stale) == 0 {
		return nil
	}

	known, err := j.store.Files.ExistingNames(ctx, names)
	if err != nil {
		return err
	}

	for _, info := range stale {
		if known[path.Base(info.Key)] {
			continue
		}
		err := j.blobs.Remove(ctx, info.Key)
		if err != nil && !errors.Is(err, storage.ErrBlobNotFound) {
			j.metrics.IncrementBlobRemoveFailure()
			j.logger.Error("Failed to remove orphaned blob",
				zap.String("key", info.Key),
				zap.Error(err),
			)
			result.Failed++
			continue
		}
		result.BlobsRemoved++
	}
	return nil
}
