//go:build unit || e2e

package httptest

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"court-booking/internal/handler/httperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertSuccessResponse checks the status and, for 2xx replies, decodes the body into target.
func AssertSuccessResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, target any) {
	t.Helper()

	if !assert.Equal(t, expectedStatus, w.Code, "unexpected status, body: %s", w.Body.String()) {
		return
	}
	if target == nil || expectedStatus < 200 || expectedStatus >= 300 {
		return
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), target), "decode response: %s", w.Body.String())
}

// AssertErrorResponse checks the status and that the error message contains expectedMsg (skipped when empty).
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedMsg string) httperr.Response {
	t.Helper()

	assert.Equal(t, expectedStatus, w.Code, "unexpected status, body: %s", w.Body.String())

	var resp httperr.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "decode error response: %s", w.Body.String())
	if expectedMsg != "" {
		assert.Contains(t, resp.Error.Message, expectedMsg)
	}
	return resp
}

func AssertErrorCode(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedCode string) {
	t.Helper()

	resp := AssertErrorResponse(t, w, expectedStatus, "")
	assert.Equal(t, expectedCode, resp.Error.Code)
}

func AssertHeaders(t *testing.T, w *httptest.ResponseRecorder, expected map[string]string) {
	t.Helper()
	for k, v := range expected {
		assert.Equal(t, v, w.Header().Get(k), "header %s mismatch", k)
	}
}
