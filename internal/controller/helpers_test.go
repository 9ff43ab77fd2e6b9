package controller

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainErrors "github.com/menapay/orchestrator/internal/domain/errors"
)

func TestWriteSuccess_Envelope(t *testing.T) {
	w := httptest.NewRecorder()
	writeSuccess(w, http.StatusCreated, map[string]string{"transaction_id": "TX_PAYMOB_1_ab"})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"success":true,"data":{"transaction_id":"TX_PAYMOB_1_ab"}}`, w.Body.String())
}

func TestWriteError_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", domainErrors.NewValidationError("amount", "gt validation failed"), http.StatusBadRequest, "validation_error"},
		{"unsupported region", domainErrors.ErrUnsupportedRegion, http.StatusBadRequest, "unsupported_region"},
		{"gateway not supported", domainErrors.ErrGatewayNotSupported, http.StatusBadRequest, "gateway_not_supported"},
		{"invalid signature", domainErrors.ErrInvalidSignature, http.StatusBadRequest, "invalid_signature"},
		{"missing signature", domainErrors.ErrMissingSignature, http.StatusBadRequest, "missing_signature"},
		{"payout not supported", domainErrors.ErrPayoutNotSupported, http.StatusBadRequest, "payout_not_supported"},
		{"adapter unavailable", domainErrors.ErrAdapterUnavailable, http.StatusBadRequest, "adapter_unavailable"},
		{"adapter not initialized", domainErrors.ErrAdapterNotInitialized, http.StatusServiceUnavailable, "adapter_not_initialized"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			writeError(w, tt.err)

			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), `"success":false`)
			assert.Contains(t, w.Body.String(), tt.code)
		})
	}
}

func TestWriteError_WrappedSentinel(t *testing.T) {
	w := httptest.NewRecorder()
	writeError(w, errors.New("PAYTABS: "+domainErrors.ErrPayoutNotSupported.Error()))
	// A string match is not enough; mapping requires errors.Is.
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	w = httptest.NewRecorder()
	writeError(w, &domainErrors.DomainError{Code: "provider_rejected", Message: "declined", Err: nil})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "provider_rejected")
}

func TestWriteError_MaskedInternalMessage(t *testing.T) {
	w := httptest.NewRecorder()
	writeError(w, errors.New("secret connection string"))

	assert.NotContains(t, w.Body.String(), "secret")
	assert.Contains(t, w.Body.String(), "internal server error")
}
