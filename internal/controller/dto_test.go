package controller

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/menapay/orchestrator/internal/domain/payment"
)

func TestCreatePaymentRequest_ToContract_Defaults(t *testing.T) {
	req := CreatePaymentRequest{
		Amount:        99,
		CustomerName:  "Nour Adel",
		CustomerEmail: "nour@example.com",
		OrderID:       "ORD-7",
	}

	c := req.ToContract("")
	assert.Equal(t, payment.CurrencyAuto, c.Currency)
	assert.Equal(t, payment.RegionAuto, c.Region)
	assert.Empty(t, c.PreferredGateway)
	assert.Empty(t, c.IdempotencyKey)
}

func TestCreatePaymentRequest_ToContract_Normalizes(t *testing.T) {
	req := CreatePaymentRequest{
		Amount:        99,
		Currency:      " sar ",
		Region:        "ksa",
		Gateway:       "stc_pay",
		CustomerName:  "Nour Adel",
		CustomerEmail: "nour@example.com",
		OrderID:       "ORD-7",
	}

	c := req.ToContract("ik-1")
	assert.Equal(t, "SAR", c.Currency)
	assert.Equal(t, payment.RegionKSA, c.Region)
	assert.Equal(t, payment.GatewaySTCPay, c.PreferredGateway)
	assert.Equal(t, "ik-1", c.IdempotencyKey)
}

func TestRefundPaymentRequest_ToDomain(t *testing.T) {
	req := RefundPaymentRequest{TransactionID: "TX_FAWRY_1_ab", Amount: 10, Gateway: "fawry"}

	r := req.ToDomain("ik-2")
	assert.Equal(t, payment.GatewayFawry, r.Gateway)
	assert.Equal(t, "ik-2", r.IdempotencyKey)
}
