package gateway

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/menapay/orchestrator/internal/domain/payment"
)

// FawryAdapter integrates Fawry reference-code payments for the Egypt
// market. Reference codes are payable at kiosks for a full day, the
// longest expiry window of any supported provider.
type FawryAdapter struct {
	baseAdapter
}

const fawryLinkExpiry = 24 * time.Hour

func NewFawryAdapter() Adapter {
	return &FawryAdapter{baseAdapter: newBaseAdapter(payment.GatewayFawry)}
}

func (a *FawryAdapter) CreatePayment(_ context.Context, c *payment.Contract) (*payment.CreateResponse, error) {
	if err := a.ensureInitialized(); err != nil {
		return nil, err
	}

	txID := a.newTransactionID()
	base := a.cfg.BaseURL(
		"https://atfawry.fawrystaging.com/ECommerceWeb/Fawry/payments/charge",
		"https://www.atfawry.com/ECommerceWeb/Fawry/payments/charge",
	)

	return &payment.CreateResponse{
		Status:        payment.StatusPending,
		TransactionID: txID,
		PaymentURL:    fmt.Sprintf("%s?merchantRefNum=%s", base, txID),
		Gateway:       a.gateway,
		ExpiresAt:     time.Now().UTC().Add(fawryLinkExpiry),
	}, nil
}

// HandleCallback maps Fawry's V2 notification. orderStatus carries the
// provider vocabulary: NEW/UNPAID are still payable, PAID is final,
// CANCELED and EXPIRED terminate the reference code.
func (a *FawryAdapter) HandleCallback(_ context.Context, payload map[string]any, _ http.Header) (*payment.CallbackResponse, error) {
	resp := &payment.CallbackResponse{
		TransactionID:    payloadString(payload, "merchantRefNumber"),
		Amount:           payloadFloat(payload, "paymentAmount"),
		Currency:         currencyOrDefault(payloadString(payload, "orderCurrency"), "EGP"),
		Gateway:          a.gateway,
		GatewayReference: payloadString(payload, "fawryRefNumber"),
	}
	if resp.Amount == 0 {
		resp.Amount = payloadFloat(payload, "orderAmount")
	}

	switch payloadString(payload, "orderStatus") {
	case "PAID":
		resp.Status = payment.StatusSuccess
		paidAt := payloadTime(payload, "paymentTime")
		resp.PaidAt = &paidAt
	case "NEW", "UNPAID":
		resp.Status = payment.StatusPending
	case "CANCELED", "EXPIRED":
		resp.Status = payment.StatusCancelled
	default:
		resp.Status = payment.StatusFailed
	}
	return resp, nil
}

// VerifySignature recomputes Fawry's plain SHA256 over the merchant
// code, reference number, amount and status with the secure key
// appended.
func (a *FawryAdapter) VerifySignature(payload map[string]any, signature string) bool {
	if a.cfg == nil || a.cfg.WebhookSecret == "" {
		return false
	}
	canonical := a.cfg.MerchantID +
		payloadString(payload, "merchantRefNumber") +
		payloadString(payload, "paymentAmount") +
		payloadString(payload, "orderStatus") +
		a.cfg.WebhookSecret
	return signaturesEqual(sha256Hex(canonical), signature)
}

func (a *FawryAdapter) Refund(_ context.Context, req *payment.RefundRequest) (*payment.RefundResponse, error) {
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
