package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/sells-group/halfway/internal/geo"
	"github.com/sells-group/halfway/internal/lookup"
	"github.com/sells-group/halfway/internal/ranking"
	"github.com/sells-group/halfway/pkg/geocode"
	"github.com/sells-group/halfway/pkg/google"
)

// Error codes returned in the error envelope.
const (
	CodeBadRequest  = "bad_request"
	CodeValidation  = "validation_error"
	CodeNotFound    = "not_found"
	CodeUpstream    = "upstream_error"
	CodeUnavailable = "unavailable"
	CodeInternal    = "internal_error"
)

// ErrorResponse is the body of every 4xx and 5xx reply:
// {"error": {"code": "...", "message": "..."}}.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail holds the error code and a human-readable message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("api: encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

// writeFailure maps a domain error onto a status code and envelope.
func writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *google.APIError
	switch {
	case errors.Is(err, geo.ErrInvalidCoordinate), errors.Is(err, ranking.ErrUnknownSort):
		writeError(w, http.StatusBadRequest, CodeValidation, err.Error())
	case errors.Is(err, lookup.ErrNoResult):
		writeError(w, http.StatusNotFound, CodeNotFound, err.Error())
	case errors.Is(err, google.ErrMissingAPIKey), errors.Is(err, geocode.ErrMissingAPIKey):
		writeError(w, http.StatusServiceUnavailable, CodeUnavailable, "Google Maps API key is not configured.")
	case errors.As(err, &apiErr):
		writeError(w, http.StatusBadGateway, CodeUpstream, apiErr.Message)
	default:
		zap.L().Error("api: request failed",
			zap.String("path", r.URL.Path),
			zap.String("request_id", RequestIDFrom(r.Context())),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, CodeInternal, "internal server error")
	}
}

// MaxBodyBytes caps JSON request bodies.
const MaxBodyBytes = 1 << 20

// readJSON decodes the request body into v. On failure it writes a 413 for
// an oversized body or a 400 otherwise, and returns false.
func readJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()
	err := dec.Decode(v)
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, CodeBadRequest, "request body too large")
		return false
	}
	writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid request body")
	return false
}
