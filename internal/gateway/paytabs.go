package gateway

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/menapay/orchestrator/internal/domain/payment"
)

// PayTabsAdapter integrates PayTabs hosted payment pages for Gulf card
// payments. Hosted pages expire after 30 minutes.
type PayTabsAdapter struct {
	baseAdapter
}

const paytabsLinkExpiry = 30 * time.Minute

func NewPayTabsAdapter() Adapter {
	return &PayTabsAdapter{baseAdapter: newBaseAdapter(payment.GatewayPayTabs)}
}

func (a *PayTabsAdapter) CreatePayment(_ context.Context, c *payment.Contract) (*payment.CreateResponse, error) {
	if err := a.ensureInitialized(); err != nil {
		return nil, err
	}

	txID := a.newTransactionID()
	base := a.cfg.BaseURL(
		"https://secure-egypt.paytabs.com/payment/page",
		"https://secure.paytabs.com/payment/page",
	)

	return &payment.CreateResponse{
		Status:        payment.StatusPending,
		TransactionID: txID,
		PaymentURL:    fmt.Sprintf("%s/%s/%s", base, a.cfg.MerchantID, txID),
		Gateway:       a.gateway,
		ExpiresAt:     time.Now().UTC().Add(paytabsLinkExpiry),
	}, nil
}

// HandleCallback maps PayTabs' IPN. payment_result.response_status is
// a single letter: A authorized, H hold, P pending, V voided,
// D declined, E error.
func (a *PayTabsAdapter) HandleCallback(_ context.Context, payload map[string]any, _ http.Header) (*payment.CallbackResponse, error) {
	result := payloadMap(payload, "payment_result")

	resp := &payment.CallbackResponse{
		TransactionID:    payloadString(payload, "cart_id"),
		Amount:           payloadFloat(payload, "cart_amount"),
		Currency:         currencyOrDefault(payloadString(payload, "cart_currency"), "AED"),
		Gateway:          a.gateway,
		GatewayReference: payloadString(payload, "tran_ref"),
	}

	switch payloadString(result, "response_status") {
	case "A":
		resp.Status = payment.StatusSuccess
		paidAt := payloadTime(result, "transaction_time")
		resp.PaidAt = &paidAt
	case "H", "P":
		resp.Status = payment.StatusPending
	case "V":
		resp.Status = payment.StatusCancelled
	default:
		resp.Status = payment.StatusFailed
	}
	return resp, nil
}

// VerifySignature recomputes PayTabs' HMAC-SHA256 over the transaction
// reference and cart fields joined with dots.
func (a *PayTabsAdapter) VerifySignature(payload map[string]any, signature string) bool {
	if a.cfg == nil || a.cfg.WebhookSecret == "" {
		return false
	}
	result := payloadMap(payload, "payment_result")
	canonical := payloadString(payload, "tran_ref") + "." +
		payloadString(payload, "cart_id") + "." +
		payloadString(payload, "cart_amount") + "." +
		payloadString(payload, "cart_currency") + "." +
		payloadString(result, "response_status")
	return signaturesEqual(hmacSHA256Hex(a.cfg.WebhookSecret, canonical), signature)
}

func (a *PayTabsAdapter) Refund(_ context.Context, req *payment.RefundRequest) (*payment.RefundResponse, error) {
	if err := a.ensureInitialized(); err != nil {
		return nil, err
	}
	return &payment.RefundResponse{
		RefundID: payment.NewID(payment.RefundIDPrefix, a.gateway),
		Status:   payment.StatusPending,
		Amount:   req.Amount,
		Currency: "AED",
		Gateway:  a.gateway,
	}, nil
}
