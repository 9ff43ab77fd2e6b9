package gateway

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/menapay/orchestrator/internal/domain/payment"
)

// HyperPayAdapter integrates HyperPay (OPP) checkout for Gulf card
// payments. Checkout ids are valid for 30 minutes.
type HyperPayAdapter struct {
	baseAdapter
}

const hyperpayLinkExpiry = 30 * time.Minute

func NewHyperPayAdapter() Adapter {
	return &HyperPayAdapter{baseAdapter: newBaseAdapter(payment.GatewayHyperPay)}
}

func (a *HyperPayAdapter) CreatePayment(_ context.Context, c *payment.Contract) (*payment.CreateResponse, error) {
	if err := a.ensureInitialized(); err != nil {
		return nil, err
	}

	txID := a.newTransactionID()
	base := a.cfg.BaseURL(
		"https://eu-test.oppwa.com/v1/checkouts",
		"https://eu-prod.oppwa.com/v1/checkouts",
	)

	return &payment.CreateResponse{
		Status:        payment.StatusPending,
		TransactionID: txID,
		PaymentURL:    fmt.Sprintf("%s/%s/payment", base, txID),
		Gateway:       a.gateway,
		ExpiresAt:     time.Now().UTC().Add(hyperpayLinkExpiry),
	}, nil
}

// hyperpayStatus maps OPP dotted result codes. 000.000.* and 000.100.1*
// are approvals, 000.200.* is still in progress, 100.396.* is shopper
// abandonment. Anything unrecognized is a failure.
func hyperpayStatus(code string) payment.Status {
	switch {
	case strings.HasPrefix(code, "000.000."), strings.HasPrefix(code, "000.100.1"):
		return payment.StatusSuccess
	case strings.HasPrefix(code, "000.200"):
		return payment.StatusPending
	case strings.HasPrefix(code, "100.396."):
		return payment.StatusCancelled
	default:
		return payment.StatusFailed
	}
}

func (a *HyperPayAdapter) HandleCallback(_ context.Context, payload map[string]any, _ http.Header) (*payment.CallbackResponse, error) {
	result := payloadMap(payload, "result")

	resp := &payment.CallbackResponse{
		TransactionID:    payloadString(payload, "merchantTransactionId"),
		Amount:           payloadFloat(payload, "amount"),
		Currency:         currencyOrDefault(payloadString(payload, "currency"), "SAR"),
		Gateway:          a.gateway,
		GatewayReference: payloadString(payload, "id"),
	}

	resp.Status = hyperpayStatus(payloadString(result, "code"))
	if resp.Status == payment.StatusSuccess {
		paidAt := payloadTime(payload, "timestamp")
		resp.PaidAt = &paidAt
	}
	return resp, nil
}

// VerifySignature recomputes HyperPay's HMAC-SHA256 over the checkout
// id, amount, currency and result code joined with dots.
func (a *HyperPayAdapter) VerifySignature(payload map[string]any, signature string) bool {
	if a.cfg == nil || a.cfg.WebhookSecret == "" {
		return false
	}
	result := payloadMap(payload, "result")
	canonical := payloadString(payload, "id") + "." +
		payloadString(payload, "amount") + "." +
		payloadString(payload, "currency") + "." +
		payloadString(result, "code")
	return signaturesEqual(hmacSHA256Hex(a.cfg.WebhookSecret, canonical), signature)
}

func (a *HyperPayAdapter) Refund(_ context.Context, req *payment.RefundRequest) (*payment.RefundResponse, error) {
	if err := a.ensureInitialized(); err != nil {
		return nil, err
	}
	return &payment.RefundResponse{
		RefundID: payment.NewID(payment.RefundIDPrefix, a.gateway),
		Status:   payment.StatusPending,
		Amount:   req.Amount,
		Currency: "SAR",
		Gateway:  a.gateway,
	}, nil
}
