package minio

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/turtacn/KeyIP-Dashboard/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/KeyIP-Dashboard/pkg/errors"
)

// MinIOAPI is the subset of *minio.Client used here, narrowed so tests can
// substitute a mock.
type MinIOAPI interface {
	ListBuckets(ctx context.Context) ([]minio.BucketInfo, error)
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (*minio.Object, error)
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
}

type MinIOConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Endpoint        string        `mapstructure:"endpoint"`
	AccessKeyID     string        `mapstructure:"access_key_id"`
	SecretAccessKey string        `mapstructure:"secret_access_key"`
	UseSSL          bool          `mapstructure:"use_ssl"`
	Region          string        `mapstructure:"region"`
	Bucket          string        `mapstructure:"bucket"`
	ConnectTimeout  time.Duration `mapstructure:"connect_timeout"`
	// CreateBucket makes the bucket at startup when it is missing.
	CreateBucket bool `mapstructure:"create_bucket"`
}

type MinIOClient struct {
	client MinIOAPI
	config *MinIOConfig
	logger logging.Logger
	mu     sync.RWMutex
	closed bool
}

var ErrMinIOClientClosed = errors.New(errors.ErrCodeInternal, "minio client is closed")

func NewMinIOClient(cfg *MinIOConfig, log logging.Logger) (*MinIOClient, error) {
	applyDefaults(cfg)

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorageError, "failed to create minio client")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()

	mClient := newWithAPI(client, cfg, log)
	if err := mClient.EnsureBucket(ctx); err != nil {
		return nil, err
	}

	log.Info("MinIO client connected", logging.String("endpoint", cfg.Endpoint), logging.Bool("ssl", cfg.UseSSL))
	return mClient, nil
}

// newWithAPI builds a client over an existing API implementation.
func newWithAPI(api MinIOAPI, cfg *MinIOConfig, log logging.Logger) *MinIOClient {
	applyDefaults(cfg)
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &MinIOClient{client: api, config: cfg, logger: log}
}

func applyDefaults(cfg *MinIOConfig) {
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}
	if cfg.Bucket == "" {
		cfg.Bucket = "keyipdash-datasets"
	}
	if cfg.ConnectTimeout == 0 {
		cfg.ConnectTimeout = 10 * time.Second
	}
}

// EnsureBucket verifies the configured bucket, creating it when allowed.
func (c *MinIOClient) EnsureBucket(ctx context.Context) error {
	exists, err := c.client.BucketExists(ctx, c.config.Bucket)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeServiceUnavailable, "failed to connect to minio")
	}
	if exists {
		return nil
	}
	if !c.config.CreateBucket {
		return errors.New(errors.ErrCodeObjectNotFound, "bucket not found").WithDetail(c.config.Bucket)
	}
	if err := c.client.MakeBucket(ctx, c.config.Bucket, minio.MakeBucketOptions{Region: c.config.Region}); err != nil {
		return errors.Wrap(err, errors.ErrCodeStorageError, "failed to create bucket").WithDetail(c.config.Bucket)
	}
	c.logger.Info("Created bucket", logging.String("bucket", c.config.Bucket))
	return nil
}

// Bucket is the configured dataset bucket.
func (c *MinIOClient) Bucket() string { return c.config.Bucket }

// OpenObject streams bucket/key.  A missing bucket or key is OBJ_001.
func (c *MinIOClient) OpenObject(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	if err := c.StatObject(ctx, bucket, key); err != nil {
		return nil, err
	}
	obj, err := c.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, mapObjectError(err, bucket, key)
	}
	return obj, nil
}

// StatObject checks that bucket/key exists.
func (c *MinIOClient) StatObject(ctx context.Context, bucket, key string) error {
	if c.isClosed() {
		return ErrMinIOClientClosed
	}
	if _, err := c.client.StatObject(ctx, bucket, key, minio.StatObjectOptions{}); err != nil {
		return mapObjectError(err, bucket, key)
	}
	return nil
}

// PutObject stores size bytes from r as bucket/key.
func (c *MinIOClient) PutObject(ctx context.Context, bucket, key string, r io.Reader, size int64, contentType string) error {
	if c.isClosed() {
		return ErrMinIOClientClosed
	}
	info, err := c.client.PutObject(ctx, bucket, key, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return mapObjectError(err, bucket, key)
	}
	c.logger.Info("Object stored",
		logging.String("bucket", bucket),
		logging.String("key", key),
		logging.Int64("size", info.Size))
	return nil
}

// RemoveObject deletes bucket/key.
func (c *MinIOClient) RemoveObject(ctx context.Context, bucket, key string) error {
	if c.isClosed() {
		return ErrMinIOClientClosed
	}
	if err := c.client.RemoveObject(ctx, bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return mapObjectError(err, bucket, key)
	}
	return nil
}

// Name identifies the client in readiness reports.
func (c *MinIOClient) Name() string { return "minio" }

// Check lists buckets to confirm the endpoint answers.
func (c *MinIOClient) Check(ctx context.Context) error {
	if c.isClosed() {
		return ErrMinIOClientClosed
	}
	if _, err := c.client.ListBuckets(ctx); err != nil {
		return errors.Wrap(err, errors.ErrCodeServiceUnavailable, "minio unreachable")
	}
	return nil
}

func (c *MinIOClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *MinIOClient) isClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// mapObjectError converts S3 error responses into typed AppErrors.
func mapObjectError(err error, bucket, key string) error {
	detail := bucket + "/" + key
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NoSuchBucket", "NoSuchObject":
		return errors.Wrap(err, errors.ErrCodeObjectNotFound, "object not found").WithDetail(detail)
	}
	return errors.Wrap(err, errors.ErrCodeStorageError, "object storage request failed").WithDetail(detail)
}

//Personal.AI order the ending
