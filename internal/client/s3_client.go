package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	appConfig "kanban-chat-api/internal/config"
	"kanban-chat-api/internal/metrics"
)

// ErrObjectNotFound is returned when the key does not exist in the bucket
var ErrObjectNotFound = errors.New("s3 object not found")

// ObjectInfo describes one listed object
type ObjectInfo struct {
	Key          string
	LastModified time.Time
}

// S3ClientInterface defines the S3 operations the blob store needs
type S3ClientInterface interface {
	PutObject(ctx context.Context, key string, body io.Reader, contentType string) error
	GetObject(ctx context.Context, key string) (io.ReadCloser, error)
	DeleteObject(ctx context.Context, key string) error
	HeadObject(ctx context.Context, key string) (bool, error)
	ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error)
}

// S3Client wraps the AWS S3 client and implements S3ClientInterface
type S3Client struct {
	client  *s3.Client
	bucket  string
	metrics *metrics.Metrics
}

// NewS3Client creates a new S3 client. A non-empty endpoint targets an
// S3-compatible server such as MinIO with static credentials.
func NewS3Client(ctx context.Context, cfg appConfig.S3Config, m *metrics.Metrics) (*S3Client, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("S3 bucket is required")
	}
	if cfg.Region == "" {
		return nil, fmt.Errorf("S3 region is required")
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	} else if cfg.Endpoint != "" {
		return nil, fmt.Errorf("access key and secret key are required for a custom endpoint")
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Client{client: client, bucket: cfg.Bucket, metrics: m}, nil
}

func (c *S3Client) record(op string, start time.Time, err error) {
	status := 200
	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) {
		status = respErr.HTTPStatusCode()
	} else if err != nil {
		status = 0
	}
	c.metrics.RecordExternalAPICall("s3/"+op, "", status, time.Since(start), err)
}

func (c *S3Client) PutObject(ctx context.Context, key string, body io.Reader, contentType string) (err error) {
	defer func(start time.Time) { c.record("PutObject", start, err) }(time.Now())

	input := &s3.PutObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if _, err = c.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("failed to upload object to S3: %w", err)
	}
	return nil
}

func (c *S3Client) GetObject(ctx context.Context, key string) (body io.ReadCloser, err error) {
	defer func(start time.Time) { c.record("GetObject", start, err) }(time.Now())

	out, err := c.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("failed to get object from S3: %w", err)
	}
	return out.Body, nil
}

// DeleteObject succeeds for missing keys, as S3 itself does
func (c *S3Client) DeleteObject(ctx context.Context, key string) (err error) {
	defer func(start time.Time) { c.record("DeleteObject", start, err) }(time.Now())

	_, err = c.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object from S3: %w", err)
	}
	return nil
}

func (c *S3Client) HeadObject(ctx context.Context, key string) (exists bool, err error) {
	defer func(start time.Time) { c.record("HeadObject", start, err) }(time.Now())

	_, err = c.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nf *types.NotFound
		if errors.As(err, &nf) {
			return false, nil
		}
		return false, fmt.Errorf("failed to head object in S3: %w", err)
	}
	return true, nil
}

func (c *S3Client) ListObjects(ctx context.Context, prefix string) (objects []ObjectInfo, err error) {
	defer func(start time.Time) { c.record("ListObjectsV2", start, err) }(time.Now())

	paginator := s3.NewListObjectsV2Paginator(c.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(c.bucket),
		Prefix: aws.String(prefix),
	})
	for paginator.HasMorePages() {
		page, perr := paginator.NextPage(ctx)
		if perr != nil {
			return nil, fmt.Errorf("failed to list objects in S3: %w", perr)
		}
		for _, obj := range page.Contents {
			objects = append(objects, ObjectInfo{
				Key:          aws.ToString(obj.Key),
				LastModified: aws.ToTime(obj.LastModified),
			})
		}
	}
	return objects, nil
}

var _ S3ClientInterface = (*S3Client)(nil)
