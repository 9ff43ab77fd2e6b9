package gateway

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/menapay/orchestrator/internal/domain/payment"
)

// MadaAdapter integrates mada, the Saudi domestic card scheme, via its
// hosted payment page. Pages expire after 20 minutes.
type MadaAdapter struct {
	baseAdapter
}

const madaLinkExpiry = 20 * time.Minute

func NewMadaAdapter() Adapter {
	return &MadaAdapter{baseAdapter: newBaseAdapter(payment.GatewayMada)}
}

func (a *MadaAdapter) CreatePayment(_ context.Context, c *payment.Contract) (*payment.CreateResponse, error) {
	if err := a.ensureInitialized(); err != nil {
		return nil, err
	}

	txID := a.newTransactionID()
	base := a.cfg.BaseURL(
		"https://test.mada.com.sa/payment/page",
		"https://pay.mada.com.sa/payment/page",
	)

	return &payment.CreateResponse{
		Status:        payment.StatusPending,
		TransactionID: txID,
		PaymentURL:    fmt.Sprintf("%s/%s", base, txID),
		Gateway:       a.gateway,
		ExpiresAt:     time.Now().UTC().Add(madaLinkExpiry),
	}, nil
}

// HandleCallback maps mada's scheme response. respStatus is a single
// letter: A approved, H hold, C cancelled, D declined, E error.
func (a *MadaAdapter) HandleCallback(_ context.Context, payload map[string]any, _ http.Header) (*payment.CallbackResponse, error) {
	resp := &payment.CallbackResponse{
		TransactionID:    payloadString(payload, "orderRef"),
		Amount:           payloadFloat(payload, "amount"),
		Currency:         currencyOrDefault(payloadString(payload, "currency"), "SAR"),
		Gateway:          a.gateway,
		GatewayReference: payloadString(payload, "tranRef"),
	}

	switch payloadString(payload, "respStatus") {
	case "A":
		resp.Status = payment.StatusSuccess
		paidAt := payloadTime(payload, "tranDate")
		resp.PaidAt = &paidAt
	case "H":
		resp.Status = payment.StatusPending
	case "C":
		resp.Status = payment.StatusCancelled
	default:
		resp.Status = payment.StatusFailed
	}
	return resp, nil
}

// VerifySignature recomputes mada's plain SHA256 over the transaction
// fields with the webhook secret appended.
func (a *MadaAdapter) VerifySignature(payload map[string]any, signature string) bool {
	if a.cfg == nil || a.cfg.WebhookSecret == "" {
		return false
	}
	canonical := payloadString(payload, "tranRef") +
		payloadString(payload, "amount") +
		payloadString(payload, "currency") +
		payloadString(payload, "respStatus") +
		a.cfg.WebhookSecret
	return signaturesEqual(sha256Hex(canonical), signature)
}

func (a *MadaAdapter) Refund(_ context.Context, req *payment.RefundRequest) (*payment.RefundResponse, error) {
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
