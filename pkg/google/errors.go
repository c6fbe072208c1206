package google

import (
	"encoding/json"
	"fmt"

	"github.com/rotisserie/eris"
)

// Sentinel errors.
var (
	ErrMissingAPIKey = eris.New("google: missing Google Maps API key")
	ErrZeroResults   = eris.New("google: zero results")
)

// Web service status values.
const (
	StatusOK             = "OK"
	StatusZeroResults    = "ZERO_RESULTS"
	StatusOverQueryLimit = "OVER_QUERY_LIMIT"
	StatusRequestDenied  = "REQUEST_DENIED"
	StatusUnknownError   = "UNKNOWN_ERROR"
)

// APIError is a non-OK reply from a Google API.
type APIError struct {
	HTTPStatus int
	Status     string
	Message    string
}

func (e *APIError) Error() string {
	if e.Status == "" {
		return fmt.Sprintf("google: %s (http %d)", e.Message, e.HTTPStatus)
	}
	return fmt.Sprintf("google: %s (%s)", e.Message, e.Status)
}

// StatusMessage turns a web service status into a user-facing message. An
// explicit message from the payload wins over the canned ones.
func StatusMessage(status, explicit, fallback string) string {
	if explicit != "" {
		return explicit
	}
	switch status {
	case StatusOverQueryLimit:
		return "Quota exceeded. Try again later."
	case StatusRequestDenied:
		return "Request was denied. Check your API key settings."
	case StatusUnknownError:
		return "Google service unavailable. Please try again shortly."
	default:
		return fallback
	}
}

// StatusError builds the error for a legacy web service reply whose status
// is neither OK nor ZERO_RESULTS.
func StatusError(status, explicit, op string) error {
	return &APIError{
		Status:  status,
		Message: StatusMessage(status, explicit, fmt.Sprintf("%s failed: %s", op, status)),
	}
}

// v1 APIs report failures as {"error": {"code", "message", "status"}}.
type v1ErrorBody struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

func placesError(httpStatus int, body []byte) error {
	e := &APIError{HTTPStatus: httpStatus, Message: fmt.Sprintf("unexpected status %d", httpStatus)}

	var parsed v1ErrorBody
	if json.Unmarshal(body, &parsed) == nil && parsed.Error.Message != "" {
		e.Message = parsed.Error.Message
		e.Status = parsed.Error.Status
	} else if len(body) > 0 {
		e.Message = fmt.Sprintf("unexpected status %d: %s", httpStatus, string(body))
	}
	return e
}
