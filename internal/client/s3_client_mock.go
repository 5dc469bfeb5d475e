package client

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"time"
)

// MockS3Client implements S3ClientInterface in memory for tests. The Func
// fields override the default behaviour when set.
type MockS3Client struct {
	mu      sync.Mutex
	objects map[string]mockObject

	PutObjectFunc    func(ctx context.Context, key string, body io.Reader, contentType string) error
	GetObjectFunc    func(ctx context.Context, key string) (io.ReadCloser, error)
	DeleteObjectFunc func(ctx context.Context, key string) error
	HeadObjectFunc   func(ctx context.Context, key string) (bool, error)
	ListObjectsFunc  func(ctx context.Context, prefix string) ([]ObjectInfo, error)
}

type mockObject struct {
	data     []byte
	modified time.Time
}

func NewMockS3Client() *MockS3Client {
	return &MockS3Client{objects: make(map[string]mockObject)}
}

func (m *MockS3Client) PutObject(ctx context.Context, key string, body io.Reader, contentType string) error {
	if m.PutObjectFunc != nil {
		return m.PutObjectFunc(ctx, key, body, contentType)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = mockObject{data: data, modified: time.Now()}
	return nil
}

func (m *MockS3Client) GetObject(ctx context.Context, key string) (io.ReadCloser, error) {
	if m.GetObjectFunc != nil {
		return m.GetObjectFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	obj, ok := m.objects[key]
	if !ok {
		return nil, ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(obj.data)), nil
}

func (m *MockS3Client) DeleteObject(ctx context.Context, key string) error {
	if m.DeleteObjectFunc != nil {
		return m.DeleteObjectFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *MockS3Client) HeadObject(ctx context.Context, key string) (bool, error) {
	if m.HeadObjectFunc != nil {
		return m.HeadObjectFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[key]
	return ok, nil
}

func (m *MockS3Client) ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	if m.ListObjectsFunc != nil {
		return m.ListObjectsFunc(ctx, prefix)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []ObjectInfo
	for k, obj := range m.objects {
		if strings.HasPrefix(k, prefix) {
			out = append(out, ObjectInfo{Key: k, LastModified: obj.modified})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// Backdate sets the modification time of key, for grace period tests
func (m *MockS3Client) Backdate(key string, t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if obj, ok := m.objects[key]; ok {
		obj.modified = t
		m.objects[key] = obj
	}
}

var _ S3ClientInterface = (*MockS3Client)(nil)
