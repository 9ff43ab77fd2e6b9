package gateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"strings"

	domainErrors "github.com/menapay/orchestrator/internal/domain/errors"
	"github.com/menapay/orchestrator/internal/domain/payment"
)

// baseAdapter provides the bookkeeping shared by every concrete
// adapter: one-shot configuration storage, the ensure-initialized
// guard, id generation, the default payout refusal and the PENDING
// status placeholder. Concrete adapters differ only in webhook field
// names, signature algorithm and concatenation order, default
// currency and payment-link expiry.
type baseAdapter struct {
	gateway payment.Gateway
	cfg     *Config
}

func newBaseAdapter(gw payment.Gateway) baseAdapter {
	return baseAdapter{gateway: gw}
}

func (b *baseAdapter) Gateway() payment.Gateway { return b.gateway }

func (b *baseAdapter) Initialize(cfg Config) error {
	b.cfg = &cfg
	return nil
}

// HealthCheck is true iff the adapter has been initialized.
func (b *baseAdapter) HealthCheck() bool { return b.cfg != nil }

func (b *baseAdapter) ensureInitialized() error {
	if b.cfg == nil {
		return fmt.Errorf("%s: %w", b.gateway, domainErrors.ErrAdapterNotInitialized)
	}
	return nil
}

func (b *baseAdapter) newTransactionID() string {
	return payment.NewTransactionID(b.gateway)
}

// currencyOrDefault falls back to the adapter's market currency when
// the contract carries none.
func currencyOrDefault(currency, def string) string {
	if currency == "" || currency == payment.CurrencyAuto {
		return def
	}
	return currency
}

// Payout is not implemented by default; adapters with payout support
// override it.
func (b *baseAdapter) Payout(_ context.Context, _ *payment.PayoutRequest) (*payment.PayoutResponse, error) {
	if err := b.ensureInitialized(); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("%s: %w", b.gateway, domainErrors.ErrPayoutNotSupported)
}

// GetTransactionStatus returns a PENDING placeholder. A real provider
// status API would replace this.
func (b *baseAdapter) GetTransactionStatus(_ context.Context, transactionID string) (*payment.CallbackResponse, error) {
	if err := b.ensureInitialized(); err != nil {
		return nil, err
	}
	return &payment.CallbackResponse{
		TransactionID: transactionID,
		Status:        payment.StatusPending,
		Gateway:       b.gateway,
	}, nil
}

// --- signature helpers ---

// hmacSHA256Hex computes the hex HMAC-SHA256 of canonical under secret.
func hmacSHA256Hex(secret, canonical string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(canonical))
	return hex.EncodeToString(mac.Sum(nil))
}

// hmacSHA512Hex computes the hex HMAC-SHA512 of canonical under secret.
func hmacSHA512Hex(secret, canonical string) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write([]byte(canonical))
	return hex.EncodeToString(mac.Sum(nil))
}

// sha256Hex computes the plain hex SHA256 digest of canonical.
func sha256Hex(canonical string) string {
	sum := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:])
}

// signaturesEqual compares hex digests in constant time, tolerating
// case differences in provider-supplied hex.
func signaturesEqual(want, got string) bool {
	return hmac.Equal([]byte(strings.ToLower(want)), []byte(strings.ToLower(got)))
}
