package gateway

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/menapay/orchestrator/internal/domain/payment"
)

// STCPayAdapter integrates the STC Pay wallet for the Saudi market.
// Wallet push requests are OTP-confirmed and expire after 15 minutes,
// the shortest window of any supported provider.
type STCPayAdapter struct {
	baseAdapter
}

const stcpayLinkExpiry = 15 * time.Minute

func NewSTCPayAdapter() Adapter {
	return &STCPayAdapter{baseAdapter: newBaseAdapter(payment.GatewaySTCPay)}
}

func (a *STCPayAdapter) CreatePayment(_ context.Context, c *payment.Contract) (*payment.CreateResponse, error) {
	if err := a.ensureInitialized(); err != nil {
		return nil, err
	}

	txID := a.newTransactionID()
	base := a.cfg.BaseURL(
		"https://b2btest.stcpay.com.sa/DirectPayment",
		"https://b2b.stcpay.com.sa/DirectPayment",
	)

	return &payment.CreateResponse{
		Status:        payment.StatusPending,
		TransactionID: txID,
		PaymentURL:    fmt.Sprintf("%s/%s", base, txID),
		Gateway:       a.gateway,
		ExpiresAt:     time.Now().UTC().Add(stcpayLinkExpiry),
	}, nil
}

// HandleCallback maps STC Pay's DirectPayment notification.
// PaymentStatus is numeric: 1 pending, 2 paid, 4 cancelled, 5 expired.
func (a *STCPayAdapter) HandleCallback(_ context.Context, payload map[string]any, _ http.Header) (*payment.CallbackResponse, error) {
	resp := &payment.CallbackResponse{
		TransactionID:    payloadString(payload, "MerchantNote"),
		Amount:           payloadFloat(payload, "Amount"),
		Currency:         "SAR",
		Gateway:          a.gateway,
		GatewayReference: payloadString(payload, "RefNum"),
	}

	switch payloadString(payload, "PaymentStatus") {
	case "2", "Paid":
		resp.Status = payment.StatusSuccess
		paidAt := payloadTime(payload, "PaymentDate")
		resp.PaidAt = &paidAt
	case "1", "Pending":
		resp.Status = payment.StatusPending
	case "4", "Cancelled", "5", "Expired":
		resp.Status = payment.StatusCancelled
	default:
		resp.Status = payment.StatusFailed
	}
	return resp, nil
}

// VerifySignature recomputes STC Pay's HMAC-SHA256 over RefNum, Amount
// and PaymentStatus.
func (a *STCPayAdapter) VerifySignature(payload map[string]any, signature string) bool {
	if a.cfg == nil || a.cfg.WebhookSecret == "" {
		return false
	}
	canonical := payloadString(payload, "RefNum") +
		payloadString(payload, "Amount") +
		payloadString(payload, "PaymentStatus")
	return signaturesEqual(hmacSHA256Hex(a.cfg.WebhookSecret, canonical), signature)
}

func (a *STCPayAdapter) Refund(_ context.Context, req *payment.RefundRequest) (*payment.RefundResponse, error) {
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

// Payout issues a wallet disbursement to an STC Pay account.
func (a *STCPayAdapter) Payout(_ context.Context, req *payment.PayoutRequest) (*payment.PayoutResponse, error) {
	if err := a.ensureInitialized(); err != nil {
		return nil, err
	}
	return &payment.PayoutResponse{
		PayoutID: payment.NewID(payment.PayoutIDPrefix, a.gateway),
		Status:   payment.StatusPending,
		Amount:   req.Amount,
		Currency: currencyOrDefault(req.Currency, "SAR"),
		Gateway:  a.gateway,
	}, nil
}
