package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/turtacn/KeyIP-Dashboard/internal/application/dashboard"
	"github.com/turtacn/KeyIP-Dashboard/internal/infrastructure/dataset"
	"github.com/turtacn/KeyIP-Dashboard/internal/infrastructure/monitoring/logging"
)

// DashboardHandler serves snapshots over the configured fixed dataset.
type DashboardHandler struct {
	svc         dashboard.Service
	source      dataset.Source
	stripPrefix bool
	topN        int
	timeout     time.Duration
	logger      logging.Logger
}

// DashboardHandlerConfig configures NewDashboardHandler.  A nil Source makes
// every request answer with the awaiting-input snapshot.
type DashboardHandlerConfig struct {
	Source      dataset.Source
	StripPrefix bool
	TopN        int
	Timeout     time.Duration
}

func NewDashboardHandler(svc dashboard.Service, cfg DashboardHandlerConfig, logger logging.Logger) *DashboardHandler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &DashboardHandler{
		svc:         svc,
		source:      cfg.Source,
		stripPrefix: cfg.StripPrefix,
		topN:        cfg.TopN,
		timeout:     cfg.Timeout,
		logger:      logger,
	}
}

// Get handles GET /api/v1/dashboard?stage=..&applicant=..&top=..&strip_prefix=..
func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	top, err := queryInt(r, "top")
	if err != nil {
		writeAppError(w, err)
		return
	}
	strip, err := queryBool(r, "strip_prefix", h.stripPrefix)
	if err != nil {
		writeAppError(w, err)
		return
	}
	h.respond(w, r, selectionFromQuery(r), strip, top)
}

// Query handles POST /api/v1/dashboard/query.
func (h *DashboardHandler) Query(w http.ResponseWriter, r *http.Request) {
	req, err := decodeQuery(r)
	if err != nil {
		writeAppError(w, err)
		return
	}
	strip := h.stripPrefix
	if req.StripPrefix != nil {
		strip = *req.StripPrefix
	}
	h.respond(w, r, req.selection(), strip, req.Top)
}

func (h *DashboardHandler) respond(w http.ResponseWriter, r *http.Request, sel dashboard.FilterSelection, strip bool, top int) {
	if top == 0 {
		top = h.topN
	}
	ctx := r.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	snap, err := h.svc.Refresh(ctx, &dashboard.RefreshInput{
		Source:      h.source,
		Selection:   sel,
		StripPrefix: strip,
		TopN:        top,
	})
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

//Personal.AI order the ending
