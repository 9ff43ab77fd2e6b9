package gateway

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/menapay/orchestrator/internal/domain/payment"
)

// PaymobAdapter integrates Paymob, the primary Egypt-market processor.
// Paymob payment links are iframe URLs keyed by payment token and stay
// valid for one hour.
type PaymobAdapter struct {
	baseAdapter
}

const paymobLinkExpiry = time.Hour

func NewPaymobAdapter() Adapter {
	return &PaymobAdapter{baseAdapter: newBaseAdapter(payment.GatewayPaymob)}
}

func (a *PaymobAdapter) CreatePayment(_ context.Context, c *payment.Contract) (*payment.CreateResponse, error) {
	if err := a.ensureInitialized(); err != nil {
		return nil, err
	}

	txID := a.newTransactionID()
	base := a.cfg.BaseURL(
		"https://accept.paymobsolutions.com/api/acceptance/iframes",
		"https://accept.paymob.com/api/acceptance/iframes",
	)

	return &payment.CreateResponse{
		Status:        payment.StatusPending,
		TransactionID: txID,
		PaymentURL:    fmt.Sprintf("%s/%s?payment_token=%s", base, a.cfg.IframeID, txID),
		Gateway:       a.gateway,
		ExpiresAt:     time.Now().UTC().Add(paymobLinkExpiry),
	}, nil
}

// HandleCallback maps Paymob's transaction webhook. The transaction
// object arrives under "obj"; success/pending/is_voided are boolean
// flags and the amount is in cents.
func (a *PaymobAdapter) HandleCallback(_ context.Context, payload map[string]any, _ http.Header) (*payment.CallbackResponse, error) {
	obj := payloadMap(payload, "obj")
	order := payloadMap(obj, "order")

	resp := &payment.CallbackResponse{
		TransactionID:    payloadString(order, "merchant_order_id"),
		Amount:           payloadFloat(obj, "amount_cents") / 100,
		Currency:         currencyOrDefault(payloadString(obj, "currency"), "EGP"),
		Gateway:          a.gateway,
		GatewayReference: payloadString(obj, "id"),
	}

	switch {
	case payloadBool(obj, "success"):
		resp.Status = payment.StatusSuccess
		paidAt := payloadTime(obj, "created_at")
		resp.PaidAt = &paidAt
	case payloadBool(obj, "pending"):
		resp.Status = payment.StatusPending
	case payloadBool(obj, "is_voided"), payloadBool(obj, "is_refunded"):
		resp.Status = payment.StatusCancelled
	default:
		resp.Status = payment.StatusFailed
	}
	return resp, nil
}

// VerifySignature recomputes Paymob's HMAC-SHA512 over the designated
// transaction fields in documented concatenation order.
func (a *PaymobAdapter) VerifySignature(payload map[string]any, signature string) bool {
	if a.cfg == nil || a.cfg.WebhookSecret == "" {
		return false
	}
	obj := payloadMap(payload, "obj")
	order := payloadMap(obj, "order")
	canonical := payloadString(obj, "amount_cents") +
		payloadString(obj, "created_at") +
		payloadString(obj, "currency") +
		payloadString(order, "id") +
		payloadString(obj, "success")
	return signaturesEqual(hmacSHA512Hex(a.cfg.WebhookSecret, canonical), signature)
}

func (a *PaymobAdapter) Refund(_ context.Context, req *payment.RefundRequest) (*payment.RefundResponse, error) {
	if err := a.ensureInitialized(); err != nil {
		return nil, err
	}
	return &payment.RefundResponse{
		RefundID: payment.NewID(payment.RefundIDPrefix, a.gateway),
		Status:   payment.StatusPending,
		Amount:   req.Amount,
		Currency: "EGP",
		Gateway:  a.gateway,
	}, nil
}

// Payout issues an Egypt-market disbursement through Paymob's payout
// program.
func (a *PaymobAdapter) Payout(_ context.Context, req *payment.PayoutRequest) (*payment.PayoutResponse, error) {
	if err := a.ensureInitialized(); err != nil {
		return nil, err
	}
	return &payment.PayoutResponse{
		PayoutID: payment.NewID(payment.PayoutIDPrefix, a.gateway),
		Status:   payment.StatusPending,
		Amount:   req.Amount,
		Currency: currencyOrDefault(req.Currency, "EGP"),
		Gateway:  a.gateway,
	}, nil
}
