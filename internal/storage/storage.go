// Package storage keeps uploaded blobs. Keys are slash separated paths
// relative to the store root: "<name>" for public files and
// "<owner>/<name>" for private ones.
package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

var (
	ErrBlobNotFound = errors.New("blob not found")
	ErrInvalidKey   = errors.New("invalid blob key")
)

// BlobInfo describes a stored blob
type BlobInfo struct {
	Key     string
	ModTime time.Time
}

// BlobStore is implemented by the local filesystem and S3 backends. Write
// must never leave a partially written blob visible under key.
type BlobStore interface {
	Write(ctx context.Context, key string, r io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Remove(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	List(ctx context.Context) ([]BlobInfo, error)
}
