// Package dataset loads patent CSV tables from a local file, an uploaded
// payload or an object-storage key, validates the column contract once and
// yields an immutable patent.Dataset.
package dataset

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"os"

	"github.com/turtacn/KeyIP-Dashboard/pkg/errors"
)

// ErrNoInput is reported by a Source that has nothing to read, such as an
// upload form submitted without a file.  It is a state, not a failure.
var ErrNoInput = stderrors.New("dataset: no input provided")

// Source kinds, also used as metric labels.
const (
	KindFile   = "file"
	KindUpload = "upload"
	KindObject = "object"
)

// Source yields the raw bytes of one dataset.
type Source interface {
	// Kind is one of KindFile, KindUpload or KindObject.
	Kind() string
	// Name identifies the source in logs (path, filename or bucket/key).
	Name() string
	// Open returns a reader over the CSV bytes.  The caller closes it.
	Open(ctx context.Context) (io.ReadCloser, error)
}

// EncodingHint is implemented by sources that know their text encoding.
// An empty result defers to the loader default.
type EncodingHint interface {
	Encoding() string
}

// Prober is implemented by sources that can check reachability without
// reading the whole payload.
type Prober interface {
	Probe(ctx context.Context) error
}

// ─────────────────────────────────────────────────────────────────────────────
// FileSource
// ─────────────────────────────────────────────────────────────────────────────

// FileSource reads a fixed local path.
type FileSource struct {
	Path string
	Enc  string
}

// NewFileSource returns a FileSource for path.
func NewFileSource(path, encoding string) *FileSource {
	return &FileSource{Path: path, Enc: encoding}
}

func (s *FileSource) Kind() string     { return KindFile }
func (s *FileSource) Name() string     { return s.Path }
func (s *FileSource) Encoding() string { return s.Enc }

func (s *FileSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if s.Path == "" {
		return nil, errors.New(errors.ErrCodeDatasetSourceInvalid, "dataset path is not configured")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatasetUnreadable, "open dataset").WithDetail(s.Path)
	}
	return f, nil
}

// Probe stats the file.
func (s *FileSource) Probe(_ context.Context) error {
	if s.Path == "" {
		return errors.New(errors.ErrCodeDatasetSourceInvalid, "dataset path is not configured")
	}
	fi, err := os.Stat(s.Path)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatasetUnreadable, "stat dataset").WithDetail(s.Path)
	}
	if fi.IsDir() {
		return errors.New(errors.ErrCodeDatasetSourceInvalid, "dataset path is a directory").WithDetail(s.Path)
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// UploadSource
// ─────────────────────────────────────────────────────────────────────────────

// UploadSource wraps an uploaded payload held in memory.  A nil Data means
// no file was provided.
type UploadSource struct {
	Filename string
	Data     []byte
	Enc      string
}

// NewUploadSource returns an UploadSource over data.
func NewUploadSource(filename string, data []byte, encoding string) *UploadSource {
	return &UploadSource{Filename: filename, Data: data, Enc: encoding}
}

func (s *UploadSource) Kind() string     { return KindUpload }
func (s *UploadSource) Name() string     { return s.Filename }
func (s *UploadSource) Encoding() string { return s.Enc }

func (s *UploadSource) Open(_ context.Context) (io.ReadCloser, error) {
	if s == nil || s.Data == nil {
		return nil, ErrNoInput
	}
	return io.NopCloser(bytes.NewReader(s.Data)), nil
}

// ─────────────────────────────────────────────────────────────────────────────
// ObjectSource
// ─────────────────────────────────────────────────────────────────────────────

// ObjectOpener streams an object from a bucket.  It is satisfied by the
// MinIO client in internal/infrastructure/storage/minio.
type ObjectOpener interface {
	OpenObject(ctx context.Context, bucket, key string) (io.ReadCloser, error)
	StatObject(ctx context.Context, bucket, key string) error
}

// ObjectSource reads a dataset stored in object storage.
type ObjectSource struct {
	Opener ObjectOpener
	Bucket string
	Key    string
	Enc    string
}

// NewObjectSource returns an ObjectSource for bucket/key.
func NewObjectSource(opener ObjectOpener, bucket, key, encoding string) *ObjectSource {
	return &ObjectSource{Opener: opener, Bucket: bucket, Key: key, Enc: encoding}
}

func (s *ObjectSource) Kind() string     { return KindObject }
func (s *ObjectSource) Name() string     { return s.Bucket + "/" + s.Key }
func (s *ObjectSource) Encoding() string { return s.Enc }

func (s *ObjectSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s.Opener.OpenObject(ctx, s.Bucket, s.Key)
}

// Probe stats the object.
func (s *ObjectSource) Probe(ctx context.Context) error {
	if err := s.validate(); err != nil {
		return err
	}
	return s.Opener.StatObject(ctx, s.Bucket, s.Key)
}

func (s *ObjectSource) validate() error {
	if s.Opener == nil {
		return errors.New(errors.ErrCodeDatasetSourceInvalid, "object storage is not configured")
	}
	if s.Bucket == "" || s.Key == "" {
		return errors.New(errors.ErrCodeDatasetSourceInvalid, "object bucket and key are required").
			WithDetail(s.Name())
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Health check adapter
// ─────────────────────────────────────────────────────────────────────────────

// SourceChecker reports whether a Source is reachable.  It satisfies the
// HTTP layer's HealthChecker interface.
type SourceChecker struct {
	src Source
}

// NewSourceChecker wraps src.
func NewSourceChecker(src Source) *SourceChecker {
	return &SourceChecker{src: src}
}

func (c *SourceChecker) Name() string { return "dataset" }

func (c *SourceChecker) Check(ctx context.Context) error {
	if p, ok := c.src.(Prober); ok {
		return p.Probe(ctx)
	}
	rc, err := c.src.Open(ctx)
	if err != nil {
		return err
	}
	return rc.Close()
}

var (
	_ Source = (*FileSource)(nil)
	_ Source = (*UploadSource)(nil)
	_ Source = (*ObjectSource)(nil)
)

//Personal.AI order the ending
