package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/turtacn/KeyIP-Dashboard/internal/application/dashboard"
	"github.com/turtacn/KeyIP-Dashboard/pkg/errors"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// ErrorResponse is the standard error response body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// writeAppError maps err to a status through the error code table.  Errors
// without a code, and server-side failures outside the dataset module, are
// masked.
func writeAppError(w http.ResponseWriter, err error) {
	writeAppErrorStatus(w, err, 0)
}

// writeAppErrorStatus is writeAppError with an explicit status; zero means
// the code table's status.
func writeAppErrorStatus(w http.ResponseWriter, err error, status int) {
	var ae *errors.AppError
	if !errors.As(err, &ae) {
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Code:    errors.ErrCodeInternal.String(),
			Message: errors.DefaultMessageForCode(errors.ErrCodeInternal),
		})
		return
	}
	if status == 0 {
		status = errors.HTTPStatusForCode(ae.Code)
	}
	resp := ErrorResponse{Code: ae.Code.String(), Message: ae.Message, Detail: ae.Detail}
	if status >= 500 && !errors.IsDatasetError(err) {
		resp.Message = errors.DefaultMessageForCode(ae.Code)
		resp.Detail = ""
	}
	writeJSON(w, status, resp)
}

// selectionFromQuery reads repeated "stage" and "applicant" parameters.  An
// absent parameter keeps the default.
func selectionFromQuery(r *http.Request) dashboard.FilterSelection {
	q := r.URL.Query()
	return dashboard.FilterSelection{
		Stages:     queryValues(q, "stage"),
		Applicants: queryValues(q, "applicant"),
	}
}

// queryValues returns nil when key is absent so the default selection
// applies.  Blank values are kept; "?stage=" matches only records with a blank
// stage, which is nothing unless the dataset has such records.
func queryValues(q map[string][]string, key string) []string {
	raw, ok := q[key]
	if !ok {
		return nil
	}
	out := make([]string, len(raw))
	copy(out, raw)
	return out
}

// queryInt parses an optional positive integer parameter.
func queryInt(r *http.Request, key string) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 0, errors.New(errors.ErrCodeBadRequest, "invalid query parameter").WithDetail(key + "=" + v)
	}
	return n, nil
}

// queryBool parses an optional boolean parameter, returning def when absent.
func queryBool(r *http.Request, key string, def bool) (bool, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def, errors.New(errors.ErrCodeBadRequest, "invalid query parameter").WithDetail(key + "=" + v)
	}
	return b, nil
}

// QueryRequest is the body of the POST dashboard endpoints.  A null or
// missing selection field keeps the default; [] selects nothing.
type QueryRequest struct {
	Stages      []string `json:"stages"`
	Applicants  []string `json:"applicants"`
	StripPrefix *bool    `json:"strip_prefix,omitempty"`
	Top         int      `json:"top,omitempty"`
}

func decodeQuery(r *http.Request) (*QueryRequest, error) {
	req := &QueryRequest{}
	if r.Body == nil || r.ContentLength == 0 {
		return req, nil
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(req); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeBadRequest, "invalid request body")
	}
	if req.Top < 0 {
		return nil, errors.New(errors.ErrCodeBadRequest, "top must be positive")
	}
	return req, nil
}

func (q *QueryRequest) selection() dashboard.FilterSelection {
	return dashboard.FilterSelection{Stages: q.Stages, Applicants: q.Applicants}
}

//Personal.AI order the ending
