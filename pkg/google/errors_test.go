package google

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusMessage(t *testing.T) {
	assert.Equal(t, "Google service unavailable. Please try again shortly.", StatusMessage(StatusUnknownError, "", "fallback"))
	assert.Equal(t, "fallback", StatusMessage("NOT_FOUND", "", "fallback"))
	assert.Equal(t, "explicit", StatusMessage(StatusOverQueryLimit, "explicit", "fallback"))
}

func TestAPIError_Error(t *testing.T) {
	assert.Equal(t, "google: denied (REQUEST_DENIED)", (&APIError{Status: "REQUEST_DENIED", Message: "denied"}).Error())
	assert.Equal(t, "google: boom (http 500)", (&APIError{HTTPStatus: 500, Message: "boom"}).Error())
}
