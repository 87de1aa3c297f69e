package handlers

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"
)

// HealthChecker is implemented by components that can report their health.
type HealthChecker interface {
	Name() string
	Check(ctx context.Context) error
}

// HealthRecorder receives per-component health results.
type HealthRecorder interface {
	RecordHealth(component string, up bool)
}

// Readiness states.
const (
	StatusReady    = "ready"
	StatusDegraded = "degraded"
	StatusNotReady = "not_ready"
)

// Optional marks c as non-critical.  A failing optional component degrades
// readiness without failing the check; the upload store is one, since the
// fixed dashboard keeps working without it.
func Optional(c HealthChecker) HealthChecker { return optionalChecker{c} }

type optionalChecker struct{ HealthChecker }

// HealthHandler serves /healthz and /readyz.
type HealthHandler struct {
	checkers []HealthChecker
	version  string
	startAt  time.Time
	timeout  time.Duration
	recorder HealthRecorder
}

func NewHealthHandler(version string, checkers ...HealthChecker) *HealthHandler {
	return &HealthHandler{
		checkers: checkers,
		version:  version,
		startAt:  time.Now(),
		timeout:  5 * time.Second,
	}
}

// WithRecorder publishes every readiness result to rec.
func (h *HealthHandler) WithRecorder(rec HealthRecorder) *HealthHandler {
	h.recorder = rec
	return h
}

// WithTimeout bounds a whole readiness pass.
func (h *HealthHandler) WithTimeout(d time.Duration) *HealthHandler {
	if d > 0 {
		h.timeout = d
	}
	return h
}

type LivenessResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}

type ReadinessResponse struct {
	Status     string                    `json:"status"`
	Components map[string]ComponentCheck `json:"components,omitempty"`
	// Failing lists unhealthy components in name order.
	Failing []string `json:"failing,omitempty"`
}

type ComponentCheck struct {
	Status   string `json:"status"`
	Optional bool   `json:"optional,omitempty"`
	Latency  string `json:"latency,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Liveness never touches dependencies.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, LivenessResponse{
		Status:  "alive",
		Version: h.version,
		Uptime:  time.Since(h.startAt).Truncate(time.Second).String(),
	})
}

// Readiness answers 200 when every critical checker passes (status "ready",
// or "degraded" if an optional one failed) and 503 otherwise.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	if len(h.checkers) == 0 {
		writeJSON(w, http.StatusOK, ReadinessResponse{Status: StatusReady})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	resp := ReadinessResponse{Status: StatusReady, Components: h.checkAll(ctx)}
	for name, c := range resp.Components {
		if c.Status == "healthy" {
			continue
		}
		resp.Failing = append(resp.Failing, name)
		switch {
		case !c.Optional:
			resp.Status = StatusNotReady
		case resp.Status == StatusReady:
			resp.Status = StatusDegraded
		}
	}
	sort.Strings(resp.Failing)

	code := http.StatusOK
	if resp.Status == StatusNotReady {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, resp)
}

// checkAll runs the checkers concurrently.
func (h *HealthHandler) checkAll(ctx context.Context) map[string]ComponentCheck {
	results := make(map[string]ComponentCheck, len(h.checkers))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, checker := range h.checkers {
		wg.Add(1)
		go func(c HealthChecker) {
			defer wg.Done()

			_, optional := c.(optionalChecker)
			start := time.Now()
			err := c.Check(ctx)
			cc := ComponentCheck{
				Status:   "healthy",
				Optional: optional,
				Latency:  time.Since(start).Truncate(time.Microsecond).String(),
			}
			if err != nil {
				cc.Status = "unhealthy"
				cc.Error = err.Error()
			}
			if h.recorder != nil {
				h.recorder.RecordHealth(c.Name(), err == nil)
			}

			mu.Lock()
			results[c.Name()] = cc
			mu.Unlock()
		}(checker)
	}

	wg.Wait()
	return results
}

//Personal.AI order the ending
