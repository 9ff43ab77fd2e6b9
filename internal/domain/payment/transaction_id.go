package payment

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Transaction-id segments are underscore-delimited and the owning
// gateway sits between the type prefix and the trailing
// timestamp+suffix pair: {prefix}_{GATEWAY}_{unixMillis}_{suffix}.
// Refund and payout routing depends on recovering the gateway from
// this encoding, so every id must be produced through these helpers.

const (
	TransactionIDPrefix = "TX"
	RefundIDPrefix      = "RF"
	PayoutIDPrefix      = "PO"
)

// NewID builds a gateway-attributable id with the given type prefix.
func NewID(prefix string, gw Gateway) string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return fmt.Sprintf("%s_%s_%d_%s", prefix, gw, time.Now().UnixMilli(), suffix)
}

// NewTransactionID builds a payment transaction id owned by gw.
func NewTransactionID(gw Gateway) string {
	return NewID(TransactionIDPrefix, gw)
}

// GatewayFromTransactionID recovers the owning gateway from a
// transaction id. Gateway identifiers may themselves contain
// underscores (STC_PAY), so the gateway is everything between the
// first segment and the trailing timestamp+suffix segments. An
// unparseable id, or one naming an unsupported gateway, yields
// DefaultGateway.
func GatewayFromTransactionID(id string) Gateway {
	parts := strings.Split(id, "_")
	if len(parts) < 4 {
		return DefaultGateway
	}
	gw := Gateway(strings.Join(parts[1:len(parts)-2], "_"))
	if !gw.IsSupported() {
		return DefaultGateway
	}
	return gw
}
