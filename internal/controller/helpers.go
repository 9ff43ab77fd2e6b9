package controller

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	domainErrors "github.com/menapay/orchestrator/internal/domain/errors"
)

var validate = validator.New()

type errorMapping struct {
	err    error
	status int
	code   string
}

var errorMappings = []errorMapping{
	{domainErrors.ErrUnsupportedRegion, http.StatusBadRequest, "unsupported_region"},
	{domainErrors.ErrGatewayNotSupported, http.StatusBadRequest, "gateway_not_supported"},
	{domainErrors.ErrInvalidSignature, http.StatusBadRequest, "invalid_signature"},
	{domainErrors.ErrMissingSignature, http.StatusBadRequest, "missing_signature"},
	{domainErrors.ErrPayoutNotSupported, http.StatusBadRequest, "payout_not_supported"},
	{domainErrors.ErrInvalidAmount, http.StatusBadRequest, "invalid_amount"},
	{domainErrors.ErrAdapterUnavailable, http.StatusBadRequest, "adapter_unavailable"},
	{domainErrors.ErrAdapterNotInitialized, http.StatusServiceUnavailable, "adapter_not_initialized"},
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeSuccess(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, SuccessResponse{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, err error) {
	resp := ErrorResponse{Error: err.Error()}

	var validationErr *domainErrors.ValidationError
	if errors.As(err, &validationErr) {
		resp.Code = "validation_error"
		writeJSON(w, http.StatusBadRequest, resp)
		return
	}

	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			resp.Code = m.code
			writeJSON(w, m.status, resp)
			return
		}
	}

	var domainErr *domainErrors.DomainError
	if errors.As(err, &domainErr) {
		resp.Code = domainErr.Code
		writeJSON(w, http.StatusUnprocessableEntity, resp)
		return
	}

	log.Error().Err(err).Msg("unhandled error in handler")
	resp.Code = "internal_error"
	resp.Error = "internal server error"
	writeJSON(w, http.StatusInternalServerError, resp)
}

func decodeAndValidate(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return domainErrors.NewValidationError("body", "invalid JSON: "+err.Error())
	}
	if err := validate.Struct(dst); err != nil {
		if ve, ok := err.(validator.ValidationErrors); ok && len(ve) > 0 {
			return domainErrors.NewValidationError(ve[0].Field(), ve[0].Tag()+" validation failed")
		}
		return domainErrors.NewValidationError("body", err.Error())
	}
	return nil
}
