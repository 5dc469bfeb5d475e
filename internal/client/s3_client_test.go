package client

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kanban-chat-api/internal/config"
)

func TestNewS3Client_Validation(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		cfg     config.S3Config
		wantErr string
	}{
		{"실패: missing bucket", config.S3Config{Region: "ap-northeast-2"}, "bucket is required"},
		{"실패: missing region", config.S3Config{Bucket: "b"}, "region is required"},
		{"실패: endpoint without keys", config.S3Config{Bucket: "b", Region: "us-east-1", Endpoint: "http://minio:9000"}, "access key"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewS3Client(ctx, tt.cfg, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	t.Run("성공: minio endpoint with static keys", func(t *testing.T) {
		c, err := NewS3Client(ctx, config.S3Config{
			Bucket:    "blobs",
			Region:    "us-east-1",
			Endpoint:  "http://localhost:9000",
			AccessKey: "minio",
			SecretKey: "minio123",
		}, nil)
		require.NoError(t, err)
		assert.Equal(t, "blobs", c.bucket)
	})
}

func TestMockS3Client(t *testing.T) {
	ctx := context.Background()
	m := NewMockS3Client()

	require.NoError(t, m.PutObject(ctx, "a/one", strings.NewReader("1"), ""))
	require.NoError(t, m.PutObject(ctx, "two", strings.NewReader("2"), ""))

	ok, err := m.HeadObject(ctx, "a/one")
	require.NoError(t, err)
	assert.True(t, ok)

	rc, err := m.GetObject(ctx, "two")
	require.NoError(t, err)
	body, _ := io.ReadAll(rc)
	assert.Equal(t, "2", string(body))

	listed, err := m.ListObjects(ctx, "a/")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "a/one", listed[0].Key)

	require.NoError(t, m.DeleteObject(ctx, "two"))
	_, err = m.GetObject(ctx, "two")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}
