package handlers

import (
	"context"
	stderrors "errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/turtacn/KeyIP-Dashboard/internal/application/dashboard"
	"github.com/turtacn/KeyIP-Dashboard/internal/infrastructure/database/redis"
	"github.com/turtacn/KeyIP-Dashboard/internal/infrastructure/dataset"
	"github.com/turtacn/KeyIP-Dashboard/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/KeyIP-Dashboard/pkg/errors"
)

// UploadFormField is the multipart field carrying the CSV.
const UploadFormField = "file"

// UploadStore persists uploaded payloads between requests.
type UploadStore interface {
	Put(ctx context.Context, filename, encoding string, data []byte) (*redis.UploadMeta, error)
	Meta(ctx context.Context, id string) (*redis.UploadMeta, error)
	Source(ctx context.Context, id string) (*dataset.UploadSource, error)
	Delete(ctx context.Context, id string) error
}

// UploadMetrics receives upload outcomes.
type UploadMetrics interface {
	RecordUpload(status string, size int64)
}

// UploadHandlerConfig configures NewUploadHandler.
type UploadHandlerConfig struct {
	MaxBytes    int64
	StripPrefix bool
	Encoding    string
	TopN        int
	Timeout     time.Duration
}

// UploadHandler implements the upload variant of the dashboard.
type UploadHandler struct {
	svc     dashboard.Service
	store   UploadStore
	cfg     UploadHandlerConfig
	metrics UploadMetrics
	logger  logging.Logger
}

// UploadResponse is returned by a successful upload.
type UploadResponse struct {
	Upload   *redis.UploadMeta   `json:"upload,omitempty"`
	Snapshot *dashboard.Snapshot `json:"snapshot"`
}

// NewUploadHandler creates an UploadHandler.  A nil store disables uploads
// (UPL_003).  metrics may be nil.
func NewUploadHandler(svc dashboard.Service, store UploadStore, cfg UploadHandlerConfig, metrics UploadMetrics, logger logging.Logger) *UploadHandler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &UploadHandler{svc: svc, store: store, cfg: cfg, metrics: metrics, logger: logger}
}

func (h *UploadHandler) record(status string, size int64) {
	if h.metrics != nil {
		h.metrics.RecordUpload(status, size)
	}
}

func (h *UploadHandler) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if h.cfg.Timeout > 0 {
		return context.WithTimeout(ctx, h.cfg.Timeout)
	}
	return context.WithCancel(ctx)
}

// Create handles POST /api/v1/uploads (multipart field "file", optional
// "encoding").  A request without a file is not an error: the response is
// the awaiting-input snapshot.
func (h *UploadHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeAppError(w, errors.New(errors.ErrCodeUploadDisabled, "uploads are disabled"))
		return
	}

	filename, data, encoding, err := h.readUpload(w, r)
	if err != nil {
		h.record("rejected", 0)
		writeAppError(w, err)
		return
	}

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	if data == nil {
		snap, _ := h.svc.Refresh(ctx, nil)
		writeJSON(w, http.StatusOK, UploadResponse{Snapshot: snap})
		return
	}

	snap, err := h.svc.Refresh(ctx, &dashboard.RefreshInput{
		Source:      dataset.NewUploadSource(filename, data, encoding),
		StripPrefix: h.cfg.StripPrefix,
		TopN:        h.cfg.TopN,
	})
	if err != nil {
		h.record("rejected", int64(len(data)))
		writeUploadError(w, err)
		return
	}

	meta, err := h.store.Put(ctx, filename, encoding, data)
	if err != nil {
		h.record("error", int64(len(data)))
		writeAppError(w, err)
		return
	}
	h.record("accepted", meta.Size)
	writeJSON(w, http.StatusCreated, UploadResponse{Upload: meta, Snapshot: snap})
}

// readUpload returns a nil data slice when the request carries no file.
func (h *UploadHandler) readUpload(w http.ResponseWriter, r *http.Request) (string, []byte, string, error) {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return "", nil, "", nil
	}
	maxBytes := h.cfg.MaxBytes
	// Multipart framing adds a little on top of the file itself.
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+64<<10)

	mr, err := r.MultipartReader()
	if err != nil {
		return "", nil, "", errors.Wrap(err, errors.ErrCodeBadRequest, "invalid multipart body")
	}

	var (
		filename string
		data     []byte
		encoding = h.cfg.Encoding
	)
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", nil, "", multipartError(err)
		}
		switch part.FormName() {
		case UploadFormField:
			filename = part.FileName()
			data, err = readLimited(part, maxBytes)
			if err != nil {
				return "", nil, "", err
			}
		case "encoding":
			b, err := readLimited(part, 64)
			if err != nil {
				return "", nil, "", err
			}
			if v := strings.TrimSpace(string(b)); v != "" {
				encoding = v
			}
		}
		_ = part.Close()
	}
	// Browsers submit an empty unnamed part when no file was chosen.
	if filename == "" && len(data) == 0 {
		return "", nil, encoding, nil
	}
	if filename == "" {
		filename = "upload.csv"
	}
	return filename, data, encoding, nil
}

func readLimited(part *multipart.Part, max int64) ([]byte, error) {
	b, err := io.ReadAll(io.LimitReader(part, max+1))
	if err != nil {
		return nil, multipartError(err)
	}
	if int64(len(b)) > max {
		return nil, errors.New(errors.ErrCodeUploadTooLarge, "upload exceeds size limit")
	}
	if b == nil {
		b = []byte{}
	}
	return b, nil
}

func multipartError(err error) error {
	var tooLarge *http.MaxBytesError
	if stderrors.As(err, &tooLarge) {
		return errors.Wrap(err, errors.ErrCodeUploadTooLarge, "upload exceeds size limit")
	}
	return errors.Wrap(err, errors.ErrCodeBadRequest, "invalid multipart body")
}

// writeUploadError reports unreadable uploads as 422: the client sent the
// bytes, so the failure is theirs.
func writeUploadError(w http.ResponseWriter, err error) {
	if errors.IsCode(err, errors.ErrCodeDatasetUnreadable) {
		writeAppErrorStatus(w, err, http.StatusUnprocessableEntity)
		return
	}
	writeAppError(w, err)
}

// Get handles GET /api/v1/uploads/{uploadID}.
func (h *UploadHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeAppError(w, errors.New(errors.ErrCodeUploadDisabled, "uploads are disabled"))
		return
	}
	meta, err := h.store.Meta(r.Context(), chi.URLParam(r, "uploadID"))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, meta)
}

// Dashboard handles GET|POST /api/v1/uploads/{uploadID}/dashboard.  GET reads
// the selection from the query string, POST from a QueryRequest body.
func (h *UploadHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeAppError(w, errors.New(errors.ErrCodeUploadDisabled, "uploads are disabled"))
		return
	}

	sel, strip, top, err := h.parseSelection(r)
	if err != nil {
		writeAppError(w, err)
		return
	}

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	src, err := h.store.Source(ctx, chi.URLParam(r, "uploadID"))
	if err != nil {
		writeAppError(w, err)
		return
	}
	snap, err := h.svc.Refresh(ctx, &dashboard.RefreshInput{
		Source:      src,
		Selection:   sel,
		StripPrefix: strip,
		TopN:        top,
	})
	if err != nil {
		writeUploadError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (h *UploadHandler) parseSelection(r *http.Request) (dashboard.FilterSelection, bool, int, error) {
	strip, top := h.cfg.StripPrefix, h.cfg.TopN
	if r.Method == http.MethodPost {
		req, err := decodeQuery(r)
		if err != nil {
			return dashboard.FilterSelection{}, false, 0, err
		}
		if req.StripPrefix != nil {
			strip = *req.StripPrefix
		}
		if req.Top > 0 {
			top = req.Top
		}
		return req.selection(), strip, top, nil
	}

	n, err := queryInt(r, "top")
	if err != nil {
		return dashboard.FilterSelection{}, false, 0, err
	}
	if n > 0 {
		top = n
	}
	strip, err = queryBool(r, "strip_prefix", strip)
	if err != nil {
		return dashboard.FilterSelection{}, false, 0, err
	}
	return selectionFromQuery(r), strip, top, nil
}

// Delete handles DELETE /api/v1/uploads/{uploadID}.
func (h *UploadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeAppError(w, errors.New(errors.ErrCodeUploadDisabled, "uploads are disabled"))
		return
	}
	if err := h.store.Delete(r.Context(), chi.URLParam(r, "uploadID")); err != nil {
		writeAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

//Personal.AI order the ending
