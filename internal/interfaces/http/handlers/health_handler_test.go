package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/KeyIP-Dashboard/pkg/errors"
)

type stubChecker struct {
	name string
	err  error
}

func (s stubChecker) Name() string                  { return s.name }
func (s stubChecker) Check(_ context.Context) error { return s.err }

type healthRecord struct {
	mu  sync.Mutex
	ups map[string]bool
}

func (h *healthRecord) RecordHealth(component string, up bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.ups == nil {
		h.ups = map[string]bool{}
	}
	h.ups[component] = up
}

func TestLiveness(t *testing.T) {
	h := NewHealthHandler("v1.2.3", stubChecker{name: "redis", err: errors.New(errors.ErrCodeCacheError, "down")})
	w := httptest.NewRecorder()
	h.Liveness(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp LivenessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "alive", resp.Status)
	assert.Equal(t, "v1.2.3", resp.Version)
}

func TestReadiness_NoCheckers(t *testing.T) {
	w := httptest.NewRecorder()
	NewHealthHandler("dev").Readiness(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestReadiness_AllHealthy(t *testing.T) {
	h := NewHealthHandler("dev", stubChecker{name: "dataset"}, stubChecker{name: "redis"})
	w := httptest.NewRecorder()
	h.Readiness(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp ReadinessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ready", resp.Status)
	assert.Len(t, resp.Components, 2)
}

func TestReadiness_OneUnhealthy(t *testing.T) {
	rec := &healthRecord{}
	h := NewHealthHandler("dev",
		stubChecker{name: "dataset", err: errors.New(errors.ErrCodeDatasetUnreadable, "missing")},
		stubChecker{name: "redis"},
	).WithRecorder(rec)

	w := httptest.NewRecorder()
	h.Readiness(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	var resp ReadinessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, StatusNotReady, resp.Status)
	assert.Equal(t, []string{"dataset"}, resp.Failing)
	assert.Equal(t, "unhealthy", resp.Components["dataset"].Status)
	assert.Contains(t, resp.Components["dataset"].Error, "DS_002")
	assert.Equal(t, map[string]bool{"dataset": false, "redis": true}, rec.ups)
}

func TestReadiness_OptionalDegrades(t *testing.T) {
	rec := &healthRecord{}
	h := NewHealthHandler("dev",
		stubChecker{name: "dataset"},
		Optional(stubChecker{name: "redis", err: errors.New(errors.ErrCodeCacheError, "connection refused")}),
	).WithRecorder(rec)

	w := httptest.NewRecorder()
	h.Readiness(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp ReadinessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, StatusDegraded, resp.Status)
	assert.Equal(t, []string{"redis"}, resp.Failing)
	assert.True(t, resp.Components["redis"].Optional)
	assert.False(t, resp.Components["dataset"].Optional)
	assert.Equal(t, map[string]bool{"dataset": true, "redis": false}, rec.ups)
}

func TestReadiness_CriticalBeatsOptional(t *testing.T) {
	h := NewHealthHandler("dev",
		Optional(stubChecker{name: "redis", err: errors.New(errors.ErrCodeCacheError, "down")}),
		stubChecker{name: "dataset", err: errors.New(errors.ErrCodeDatasetColumnMissing, "missing")},
	)

	w := httptest.NewRecorder()
	h.Readiness(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	var resp ReadinessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, StatusNotReady, resp.Status)
	assert.Equal(t, []string{"dataset", "redis"}, resp.Failing)
}

func TestReadiness_Timeout(t *testing.T) {
	h := NewHealthHandler("dev", blockingChecker{}).WithTimeout(20 * time.Millisecond)

	w := httptest.NewRecorder()
	h.Readiness(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), context.DeadlineExceeded.Error())
}

type blockingChecker struct{}

func (blockingChecker) Name() string { return "slow" }
func (blockingChecker) Check(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

//Personal.AI order the ending
