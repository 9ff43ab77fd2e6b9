package gateway

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainErrors "github.com/menapay/orchestrator/internal/domain/errors"
	"github.com/menapay/orchestrator/internal/domain/payment"
)

func allAdapters() []Adapter {
	return []Adapter{
		NewPaymobAdapter(),
		NewFawryAdapter(),
		NewPayTabsAdapter(),
		NewHyperPayAdapter(),
		NewSTCPayAdapter(),
		NewMadaAdapter(),
	}
}

func initialized(t *testing.T, a Adapter, cfg Config) Adapter {
	t.Helper()
	require.NoError(t, a.Initialize(cfg))
	return a
}

func TestAdapter_NotInitializedGuard(t *testing.T) {
	ctx := context.Background()
	contract := &payment.Contract{Amount: 100, Currency: "EGP", Region: payment.RegionEgypt}

	for _, a := range allAdapters() {
		t.Run(string(a.Gateway()), func(t *testing.T) {
			if a.HealthCheck() {
				t.Fatal("uninitialized adapter must not report healthy")
			}

			_, err := a.CreatePayment(ctx, contract)
			if !errors.Is(err, domainErrors.ErrAdapterNotInitialized) {
				t.Errorf("CreatePayment: expected ErrAdapterNotInitialized, got %v", err)
			}
			_, err = a.Refund(ctx, &payment.RefundRequest{TransactionID: "TX_PAYMOB_1_a", Amount: 10})
			if !errors.Is(err, domainErrors.ErrAdapterNotInitialized) {
				t.Errorf("Refund: expected ErrAdapterNotInitialized, got %v", err)
			}
			_, err = a.GetTransactionStatus(ctx, "TX_PAYMOB_1_a")
			if !errors.Is(err, domainErrors.ErrAdapterNotInitialized) {
				t.Errorf("GetTransactionStatus: expected ErrAdapterNotInitialized, got %v", err)
			}
		})
	}
}

func TestAdapter_HealthAfterInitialize(t *testing.T) {
	for _, a := range allAdapters() {
		initialized(t, a, Config{})
		if !a.HealthCheck() {
			t.Errorf("%s: initialized adapter must report healthy", a.Gateway())
		}
	}
}

func TestAdapter_VerifySignature_FailClosedWithoutSecret(t *testing.T) {
	payload := map[string]any{"anything": "at all"}
	for _, a := range allAdapters() {
		initialized(t, a, Config{}) // no webhook secret
		if a.VerifySignature(payload, "deadbeef") {
			t.Errorf("%s: VerifySignature must be false when no secret is configured", a.Gateway())
		}
	}
}

func TestAdapter_PayoutSupportMatrix(t *testing.T) {
	ctx := context.Background()
	req := &payment.PayoutRequest{Amount: 50, Currency: "SAR", Destination: "966500000000"}

	supported := map[payment.Gateway]bool{
		payment.GatewayPaymob: true,
		payment.GatewaySTCPay: true,
	}

	for _, a := range allAdapters() {
		initialized(t, a, Config{})
		resp, err := a.Payout(ctx, req)
		if supported[a.Gateway()] {
			require.NoError(t, err, a.Gateway())
			assert.Equal(t, payment.StatusPending, resp.Status)
			assert.Equal(t, a.Gateway(), resp.Gateway)
			assert.Equal(t, a.Gateway(), payment.GatewayFromTransactionID(resp.PayoutID))
		} else {
			if !errors.Is(err, domainErrors.ErrPayoutNotSupported) {
				t.Errorf("%s: expected ErrPayoutNotSupported, got %v", a.Gateway(), err)
			}
		}
	}
}

func TestAdapter_CreatePayment_ExpiryWindowsDiffer(t *testing.T) {
	ctx := context.Background()
	contract := &payment.Contract{Amount: 100, Currency: "SAR", Region: payment.RegionKSA}

	want := map[payment.Gateway]time.Duration{
		payment.GatewayPaymob:   time.Hour,
		payment.GatewayFawry:    24 * time.Hour,
		payment.GatewayPayTabs:  30 * time.Minute,
		payment.GatewayHyperPay: 30 * time.Minute,
		payment.GatewaySTCPay:   15 * time.Minute,
		payment.GatewayMada:     20 * time.Minute,
	}

	for _, a := range allAdapters() {
		initialized(t, a, Config{})
		before := time.Now().UTC()
		resp, err := a.CreatePayment(ctx, contract)
		require.NoError(t, err, a.Gateway())

		expiry := want[a.Gateway()]
		assert.WithinDuration(t, before.Add(expiry), resp.ExpiresAt, 5*time.Second,
			"%s expiry window", a.Gateway())
		assert.Equal(t, payment.StatusPending, resp.Status)
		assert.Equal(t, a.Gateway(), resp.Gateway)
		assert.Equal(t, a.Gateway(), payment.GatewayFromTransactionID(resp.TransactionID))
		assert.NotEmpty(t, resp.PaymentURL)
	}
}

func TestAdapter_UnknownCallbackStatusIsFailed(t *testing.T) {
	ctx := context.Background()

	payloads := map[payment.Gateway]map[string]any{
		payment.GatewayPaymob:   {"obj": map[string]any{"id": float64(1)}},
		payment.GatewayFawry:    {"orderStatus": "SOMETHING_NEW", "merchantRefNumber": "x"},
		payment.GatewayPayTabs:  {"payment_result": map[string]any{"response_status": "Z"}},
		payment.GatewayHyperPay: {"result": map[string]any{"code": "800.100.151"}},
		payment.GatewaySTCPay:   {"PaymentStatus": "99"},
		payment.GatewayMada:     {"respStatus": "X"},
	}

	for _, a := range allAdapters() {
		initialized(t, a, Config{})
		resp, err := a.HandleCallback(ctx, payloads[a.Gateway()], http.Header{})
		require.NoError(t, err, a.Gateway())
		if resp.Status != payment.StatusFailed {
			t.Errorf("%s: unknown provider status must map to FAILED, got %s", a.Gateway(), resp.Status)
		}
	}
}

func TestPaymobCallbackMapping(t *testing.T) {
	a := initialized(t, NewPaymobAdapter(), Config{})

	payload := map[string]any{
		"obj": map[string]any{
			"id":           float64(9912),
			"success":      true,
			"pending":      false,
			"amount_cents": float64(15000),
			"currency":     "EGP",
			"order":        map[string]any{"id": float64(77), "merchant_order_id": "TX_PAYMOB_172839_ab12cd34"},
		},
	}

	resp, err := a.HandleCallback(context.Background(), payload, http.Header{})
	require.NoError(t, err)
	assert.Equal(t, payment.StatusSuccess, resp.Status)
	assert.Equal(t, "TX_PAYMOB_172839_ab12cd34", resp.TransactionID)
	assert.Equal(t, 150.0, resp.Amount)
	assert.Equal(t, "EGP", resp.Currency)
	assert.Equal(t, "9912", resp.GatewayReference)
	assert.NotNil(t, resp.PaidAt)
}

func TestPaymobCallbackPendingAndVoided(t *testing.T) {
	a := initialized(t, NewPaymobAdapter(), Config{})
	ctx := context.Background()

	pending := map[string]any{"obj": map[string]any{"pending": true}}
	resp, err := a.HandleCallback(ctx, pending, http.Header{})
	require.NoError(t, err)
	assert.Equal(t, payment.StatusPending, resp.Status)
	assert.Nil(t, resp.PaidAt)

	voided := map[string]any{"obj": map[string]any{"is_voided": true}}
	resp, err = a.HandleCallback(ctx, voided, http.Header{})
	require.NoError(t, err)
	assert.Equal(t, payment.StatusCancelled, resp.Status)
}

func TestFawryCallbackMapping(t *testing.T) {
	a := initialized(t, NewFawryAdapter(), Config{})
	ctx := context.Background()

	tests := []struct {
		orderStatus string
		want        payment.Status
	}{
		{"PAID", payment.StatusSuccess},
		{"NEW", payment.StatusPending},
		{"UNPAID", payment.StatusPending},
		{"CANCELED", payment.StatusCancelled},
		{"EXPIRED", payment.StatusCancelled},
		{"FAILED", payment.StatusFailed},
	}
	for _, tt := range tests {
		payload := map[string]any{
			"merchantRefNumber": "TX_FAWRY_1_ab",
			"orderStatus":       tt.orderStatus,
			"paymentAmount":     float64(75.5),
			"fawryRefNumber":    "931000123",
		}
		resp, err := a.HandleCallback(ctx, payload, http.Header{})
		require.NoError(t, err)
		assert.Equal(t, tt.want, resp.Status, tt.orderStatus)
	}
}

func TestPaymobSignatureRoundTrip(t *testing.T) {
	a := initialized(t, NewPaymobAdapter(), Config{WebhookSecret: "paymob-hmac-secret"})

	payload := map[string]any{
		"obj": map[string]any{
			"amount_cents": float64(15000),
			"created_at":   "2026-08-30T10:00:00Z",
			"currency":     "EGP",
			"success":      true,
			"order":        map[string]any{"id": float64(77)},
		},
	}
	canonical := "150002026-08-30T10:00:00ZEGP77true"
	sig := hmacSHA512Hex("paymob-hmac-secret", canonical)

	assert.True(t, a.VerifySignature(payload, sig))
	assert.False(t, a.VerifySignature(payload, "tampered"+sig[8:]))
}

func TestFawrySignatureRoundTrip(t *testing.T) {
	a := initialized(t, NewFawryAdapter(), Config{MerchantID: "M123", WebhookSecret: "fawry-secure-key"})

	payload := map[string]any{
		"merchantRefNumber": "TX_FAWRY_1_ab",
		"paymentAmount":     float64(75.5),
		"orderStatus":       "PAID",
	}
	sig := sha256Hex("M123" + "TX_FAWRY_1_ab" + "75.5" + "PAID" + "fawry-secure-key")

	assert.True(t, a.VerifySignature(payload, sig))
	assert.False(t, a.VerifySignature(payload, sha256Hex("wrong")))
}

func TestPayTabsSignatureRoundTrip(t *testing.T) {
	a := initialized(t, NewPayTabsAdapter(), Config{WebhookSecret: "pt-server-key"})

	payload := map[string]any{
		"tran_ref":       "TST2026001",
		"cart_id":        "TX_PAYTABS_1_ab",
		"cart_amount":    "250.00",
		"cart_currency":  "AED",
		"payment_result": map[string]any{"response_status": "A"},
	}
	sig := hmacSHA256Hex("pt-server-key", "TST2026001.TX_PAYTABS_1_ab.250.00.AED.A")

	assert.True(t, a.VerifySignature(payload, sig))
}

func TestSTCPaySignatureRoundTrip(t *testing.T) {
	a := initialized(t, NewSTCPayAdapter(), Config{WebhookSecret: "stc-secret"})

	payload := map[string]any{
		"RefNum":        "STC-REF-1",
		"Amount":        float64(80),
		"PaymentStatus": "2",
	}
	sig := hmacSHA256Hex("stc-secret", "STC-REF-1802")

	assert.True(t, a.VerifySignature(payload, sig))
	// Hex comparison tolerates provider-supplied uppercase digests.
	assert.True(t, a.VerifySignature(payload, strings.ToUpper(sig)))
}

func TestHyperPayResultCodes(t *testing.T) {
	tests := []struct {
		code string
		want payment.Status
	}{
		{"000.000.000", payment.StatusSuccess},
		{"000.100.110", payment.StatusSuccess},
		{"000.200.000", payment.StatusPending},
		{"100.396.101", payment.StatusCancelled},
		{"800.100.151", payment.StatusFailed},
		{"", payment.StatusFailed},
	}
	for _, tt := range tests {
		if got := hyperpayStatus(tt.code); got != tt.want {
			t.Errorf("hyperpayStatus(%q) = %s, want %s", tt.code, got, tt.want)
		}
	}
}

func TestGetTransactionStatus_PendingPlaceholder(t *testing.T) {
	for _, a := range allAdapters() {
		initialized(t, a, Config{})
		resp, err := a.GetTransactionStatus(context.Background(), "TX_X_1_a")
		require.NoError(t, err)
		assert.Equal(t, payment.StatusPending, resp.Status, a.Gateway())
		assert.Equal(t, "TX_X_1_a", resp.TransactionID)
		assert.Equal(t, a.Gateway(), resp.Gateway)
	}
}
