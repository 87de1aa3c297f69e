package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/KeyIP-Dashboard/internal/application/dashboard"
	"github.com/turtacn/KeyIP-Dashboard/internal/infrastructure/database/redis"
	"github.com/turtacn/KeyIP-Dashboard/internal/infrastructure/dataset"
	"github.com/turtacn/KeyIP-Dashboard/internal/testutil"
	"github.com/turtacn/KeyIP-Dashboard/pkg/errors"
)

func newService() dashboard.Service {
	return dashboard.NewService(dataset.NewLoader(dataset.LoaderOptions{}, nil), testutil.NewMockLogger())
}

func decodeSnapshot(t *testing.T, w *httptest.ResponseRecorder) *dashboard.Snapshot {
	t.Helper()
	var snap dashboard.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap), w.Body.String())
	return &snap
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

// withURLParam injects a chi route parameter into r.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// multipartRequest builds a multipart POST with the given form parts; a
// part named "file" is sent as a file called filename.
func multipartRequest(t *testing.T, target, filename string, parts map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for name, content := range parts {
		if name == UploadFormField {
			fw, err := mw.CreateFormFile(name, filename)
			require.NoError(t, err)
			_, _ = fw.Write([]byte(content))
			continue
		}
		require.NoError(t, mw.WriteField(name, content))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

// memoryUploadStore is an in-process UploadStore.
type memoryUploadStore struct {
	mu      sync.Mutex
	metas   map[string]*redis.UploadMeta
	data    map[string][]byte
	failPut error
}

func newMemoryUploadStore() *memoryUploadStore {
	return &memoryUploadStore{metas: map[string]*redis.UploadMeta{}, data: map[string][]byte{}}
}

func (s *memoryUploadStore) Put(_ context.Context, filename, encoding string, data []byte) (*redis.UploadMeta, error) {
	if s.failPut != nil {
		return nil, s.failPut
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	meta := &redis.UploadMeta{
		ID: uuid.NewString(), Filename: filename, Encoding: encoding,
		Size: int64(len(data)), CreatedAt: now, ExpiresAt: now.Add(time.Hour),
	}
	s.metas[meta.ID] = meta
	s.data[meta.ID] = data
	return meta, nil
}

func (s *memoryUploadStore) Meta(_ context.Context, id string) (*redis.UploadMeta, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	meta, ok := s.metas[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeUploadNotFound, "upload not found or expired").WithDetail(id)
	}
	return meta, nil
}

func (s *memoryUploadStore) Source(ctx context.Context, id string) (*dataset.UploadSource, error) {
	meta, err := s.Meta(ctx, id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return dataset.NewUploadSource(meta.Filename, s.data[id], meta.Encoding), nil
}

func (s *memoryUploadStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.metas[id]; !ok {
		return errors.New(errors.ErrCodeUploadNotFound, "upload not found or expired").WithDetail(id)
	}
	delete(s.metas, id)
	delete(s.data, id)
	return nil
}

type countingUploadMetrics struct {
	mu     sync.Mutex
	counts map[string]int
}

func (m *countingUploadMetrics) RecordUpload(status string, _ int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.counts == nil {
		m.counts = map[string]int{}
	}
	m.counts[status]++
}

//Personal.AI order the ending
