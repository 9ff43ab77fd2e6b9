package controller

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	domainErrors "github.com/menapay/orchestrator/internal/domain/errors"
	"github.com/menapay/orchestrator/internal/domain/payment"
	"github.com/menapay/orchestrator/internal/orchestrator"
)

// idempotencyKeyHeader carries a client-supplied idempotency key on
// mutating endpoints. Absent header means the call is not idempotent.
const idempotencyKeyHeader = "x-idempotency-key"

// PaymentController handles the payment-facing HTTP surface.
type PaymentController struct {
	orch *orchestrator.Orchestrator
}

// NewPaymentController creates a new PaymentController.
func NewPaymentController(orch *orchestrator.Orchestrator) *PaymentController {
	return &PaymentController{orch: orch}
}

// CreatePayment handles POST /create
func (h *PaymentController) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var req CreatePaymentRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	resp, err := h.orch.CreatePayment(r.Context(), req.ToContract(r.Header.Get(idempotencyKeyHeader)))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, resp)
}

// HandleCallback handles POST /callback/{gateway}. The gateway comes
// from the route, never from the payload; signature headers are passed
// through untouched for the adapter to verify.
func (h *PaymentController) HandleCallback(w http.ResponseWriter, r *http.Request) {
	gw := payment.ParseGateway(chi.URLParam(r, "gateway"))

	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, domainErrors.NewValidationError("body", "invalid JSON: "+err.Error()))
		return
	}

	resp, err := h.orch.HandleCallback(r.Context(), gw, payload, r.Header)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, resp)
}

// RefundPayment handles POST /refund
func (h *PaymentController) RefundPayment(w http.ResponseWriter, r *http.Request) {
	var req RefundPaymentRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	resp, err := h.orch.Refund(r.Context(), req.ToDomain(r.Header.Get(idempotencyKeyHeader)))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, resp)
}

// Payout handles POST /payout
func (h *PaymentController) Payout(w http.ResponseWriter, r *http.Request) {
	var req PayoutRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	resp, err := h.orch.Payout(r.Context(), req.ToDomain(r.Header.Get(idempotencyKeyHeader)))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, resp)
}

// GetTransaction handles GET /transaction/{transactionID}
func (h *PaymentController) GetTransaction(w http.ResponseWriter, r *http.Request) {
	transactionID := chi.URLParam(r, "transactionID")
	if transactionID == "" {
		writeError(w, domainErrors.NewValidationError("transactionID", "required"))
		return
	}

	resp, err := h.orch.GetTransactionStatus(r.Context(), transactionID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, resp)
}

// GetGateways handles GET /gateways/{region}
func (h *PaymentController) GetGateways(w http.ResponseWriter, r *http.Request) {
	region := payment.ParseRegion(chi.URLParam(r, "region"))

	gateways, err := h.orch.AvailableGateways(region)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, GatewaysResponse{Region: region, Gateways: gateways})
}

// GetConfig handles GET /config
func (h *PaymentController) GetConfig(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, h.orch.RoutingConfig())
}

// GenerateIdempotencyKey handles POST /idempotency-key
func (h *PaymentController) GenerateIdempotencyKey(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusCreated, IdempotencyKeyResponse{
		IdempotencyKey: h.orch.GenerateIdempotencyKey(),
	})
}
