package storage

import (
	"context"
	"fmt"

	"kanban-chat-api/internal/client"
	"kanban-chat-api/internal/config"
	"kanban-chat-api/internal/metrics"
)

// Open builds the backend selected by storage.driver. For s3, storage.root
// becomes the key prefix inside the bucket.
func Open(ctx context.Context, cfg *config.Config, m *metrics.Metrics) (BlobStore, error) {
	switch cfg.Storage.Driver {
	case "local":
		return NewLocalStore(cfg.Storage.Root)
	case "s3":
		s3Client, err := client.NewS3Client(ctx, cfg.S3, m)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize S3 client: %w", err)
		}
		return NewS3Store(s3Client, cfg.Storage.Root), nil
	default:
		return nil, config.ErrUnknownDriver
	}
}
