package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"

	"kanban-chat-api/internal/client"
)

// S3Store keeps blobs in a bucket under an optional key prefix. A single
// PutObject is atomic, so no temp key is needed.
type S3Store struct {
	client client.S3ClientInterface
	prefix string
}

func NewS3Store(c client.S3ClientInterface, prefix string) *S3Store {
	return &S3Store{client: c, prefix: prefix}
}

func (s *S3Store) key(key string) (string, error) {
	if key == "" || path.Clean(key) != key || path.IsAbs(key) || key == ".." || strings.HasPrefix(key, "../") {
		return "", ErrInvalidKey
	}
	if s.prefix == "" {
		return key, nil
	}
	return path.Join(s.prefix, key), nil
}

func (s *S3Store) Write(ctx context.Context, key string, r io.Reader) error {
	k, err := s.key(key)
	if err != nil {
		return err
	}
	return s.client.PutObject(ctx, k, r, "")
}

func (s *S3Store) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	k, err := s.key(key)
	if err != nil {
		return nil, err
	}
	rc, err := s.client.GetObject(ctx, k)
	if errors.Is(err, client.ErrObjectNotFound) {
		return nil, ErrBlobNotFound
	}
	return rc, err
}

// Remove checks existence first since S3 deletes of missing keys succeed
func (s *S3Store) Remove(ctx context.Context, key string) error {
	k, err := s.key(key)
	if err != nil {
		return err
	}
	ok, err := s.client.HeadObject(ctx, k)
	if err != nil {
		return err
	}
	if !ok {
		return ErrBlobNotFound
	}
	return s.client.DeleteObject(ctx, k)
}

func (s *S3Store) Exists(ctx context.Context, key string) (bool, error) {
	k, err := s.key(key)
	if err != nil {
		return false, err
	}
	return s.client.HeadObject(ctx, k)
}

func (s *S3Store) List(ctx context.Context) ([]BlobInfo, error) {
	prefix := ""
	if s.prefix != "" {
		prefix = s.prefix + "/"
	}
	objects, err := s.client.ListObjects(ctx, prefix)
	if err != nil {
		return nil, err
	}
	blobs := make([]BlobInfo, 0, len(objects))
	for _, o := range objects {
		blobs = append(blobs, BlobInfo{Key: o.Key[len(prefix):], ModTime: o.LastModified})
	}
	return blobs, nil
}

var _ BlobStore = (*S3Store)(nil)
