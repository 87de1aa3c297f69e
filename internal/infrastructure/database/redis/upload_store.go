package redis

import (
	"context"
	stderrors "errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/turtacn/KeyIP-Dashboard/internal/infrastructure/dataset"
	"github.com/turtacn/KeyIP-Dashboard/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/KeyIP-Dashboard/pkg/errors"
	dtypes "github.com/turtacn/KeyIP-Dashboard/pkg/types/dashboard"
)

// DefaultUploadTTL is how long an uploaded dataset is kept after upload.
// Reads do not extend it.
const DefaultUploadTTL = time.Hour

const defaultUploadPrefix = "keyipdash:upload:"

// UploadMeta describes a stored upload.
type UploadMeta = dtypes.UploadMeta

// UploadStore keeps uploaded CSV payloads in Redis under a TTL.  Each upload
// owns two keys: the raw bytes and a metadata hash; both expire together.
type UploadStore struct {
	client *Client
	prefix string
	ttl    time.Duration
	logger logging.Logger
	now    func() time.Time
}

// UploadStoreOption customises an UploadStore.
type UploadStoreOption func(*UploadStore)

// WithKeyPrefix overrides the key namespace.
func WithKeyPrefix(prefix string) UploadStoreOption {
	return func(s *UploadStore) { s.prefix = prefix }
}

// WithUploadClock overrides the clock used for timestamps.
func WithUploadClock(now func() time.Time) UploadStoreOption {
	return func(s *UploadStore) { s.now = now }
}

// NewUploadStore creates an UploadStore.  A non-positive ttl uses
// DefaultUploadTTL.
func NewUploadStore(client *Client, ttl time.Duration, log logging.Logger, opts ...UploadStoreOption) *UploadStore {
	if ttl <= 0 {
		ttl = DefaultUploadTTL
	}
	if log == nil {
		log = logging.NewNopLogger()
	}
	s := &UploadStore{
		client: client,
		prefix: defaultUploadPrefix,
		ttl:    ttl,
		logger: log.Named("upload_store"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *UploadStore) dataKey(id string) string { return s.prefix + id + ":data" }
func (s *UploadStore) metaKey(id string) string { return s.prefix + id + ":meta" }

// Put stores data and returns its metadata with a fresh upload ID.
func (s *UploadStore) Put(ctx context.Context, filename, encoding string, data []byte) (*UploadMeta, error) {
	now := s.now().UTC()
	meta := &UploadMeta{
		ID:        uuid.NewString(),
		Filename:  filename,
		Encoding:  encoding,
		Size:      int64(len(data)),
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.dataKey(meta.ID), data, s.ttl)
	pipe.HSet(ctx, s.metaKey(meta.ID),
		"filename", meta.Filename,
		"encoding", meta.Encoding,
		"size", meta.Size,
		"created_at", meta.CreatedAt.Format(time.RFC3339Nano),
	)
	pipe.Expire(ctx, s.metaKey(meta.ID), s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeCacheError, "store upload")
	}

	s.logger.Info("upload stored",
		logging.String("upload_id", meta.ID),
		logging.String("filename", filename),
		logging.Int64("size", meta.Size))
	return meta, nil
}

// Meta returns the metadata of an upload.
func (s *UploadStore) Meta(ctx context.Context, id string) (*UploadMeta, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	fields, err := s.client.HGetAll(ctx, s.metaKey(id)).Result()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeCacheError, "read upload metadata")
	}
	if len(fields) == 0 {
		return nil, uploadNotFound(id)
	}
	meta := &UploadMeta{ID: id, Filename: fields["filename"], Encoding: fields["encoding"]}
	meta.Size, _ = strconv.ParseInt(fields["size"], 10, 64)
	meta.CreatedAt, _ = time.Parse(time.RFC3339Nano, fields["created_at"])

	ttl, err := s.client.TTL(ctx, s.metaKey(id)).Result()
	if err == nil && ttl > 0 {
		meta.ExpiresAt = s.now().UTC().Add(ttl)
	}
	return meta, nil
}

// Source returns the upload as a dataset.Source.
func (s *UploadStore) Source(ctx context.Context, id string) (*dataset.UploadSource, error) {
	meta, err := s.Meta(ctx, id)
	if err != nil {
		return nil, err
	}
	data, err := s.client.Get(ctx, s.dataKey(id)).Bytes()
	if stderrors.Is(err, redis.Nil) {
		return nil, uploadNotFound(id)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeCacheError, "read upload")
	}
	return dataset.NewUploadSource(meta.Filename, data, meta.Encoding), nil
}

// Delete removes an upload.  Deleting an unknown ID reports UPL_001.
func (s *UploadStore) Delete(ctx context.Context, id string) error {
	if err := validateID(id); err != nil {
		return err
	}
	n, err := s.client.Del(ctx, s.dataKey(id), s.metaKey(id)).Result()
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "delete upload")
	}
	if n == 0 {
		return uploadNotFound(id)
	}
	s.logger.Info("upload deleted", logging.String("upload_id", id))
	return nil
}

// TTL is the configured upload lifetime.
func (s *UploadStore) TTL() time.Duration { return s.ttl }

func validateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return uploadNotFound(id)
	}
	return nil
}

func uploadNotFound(id string) error {
	return errors.New(errors.ErrCodeUploadNotFound, "upload not found or expired").WithDetail(id)
}

//Personal.AI order the ending
