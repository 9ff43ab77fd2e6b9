package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/menapay/orchestrator/internal/domain/payment"
)

func TestResolveRegion(t *testing.T) {
	r := NewRouter(DefaultConfig())

	assert.Equal(t, payment.RegionEgypt, r.ResolveRegion(payment.RegionAuto))
	assert.Equal(t, payment.RegionEgypt, r.ResolveRegion(""))
	assert.Equal(t, payment.RegionKSA, r.ResolveRegion(payment.RegionKSA))
	// Explicit selectors pass through even when unconfigured.
	assert.Equal(t, payment.Region("FRANCE"), r.ResolveRegion(payment.Region("FRANCE")))
}

func TestResolveRegion_ConfiguredDefault(t *testing.T) {
	// Deployments override the default region without touching the
	// rest of the table.
	cfg := DefaultConfig()
	cfg.DefaultRegion = payment.RegionKSA
	r := NewRouter(cfg)

	assert.Equal(t, payment.RegionKSA, r.ResolveRegion(payment.RegionAuto))
	assert.Equal(t, "SAR", r.ResolveCurrency(payment.CurrencyAuto, r.ResolveRegion(payment.RegionAuto)))
	assert.Equal(t, payment.GatewaySTCPay, r.SelectGateway(r.ResolveRegion(payment.RegionAuto), ""))
}

func TestResolveCurrency(t *testing.T) {
	r := NewRouter(DefaultConfig())

	assert.Equal(t, "EGP", r.ResolveCurrency(payment.CurrencyAuto, payment.RegionEgypt))
	assert.Equal(t, "AED", r.ResolveCurrency(payment.CurrencyAuto, payment.RegionUAE))
	assert.Equal(t, "SAR", r.ResolveCurrency(payment.CurrencyAuto, payment.RegionKSA))
	assert.Equal(t, "USD", r.ResolveCurrency("USD", payment.RegionKSA))
	// Unknown region resolves against the default region.
	assert.Equal(t, "EGP", r.ResolveCurrency(payment.CurrencyAuto, payment.Region("FRANCE")))
}

func TestAvailableGateways_RankedByWeight(t *testing.T) {
	r := NewRouter(DefaultConfig())

	got := r.AvailableGateways(payment.RegionKSA)

	// STC_PAY and PAYTABS both carry weight 100; the stable sort keeps
	// their configured relative order, followed by MADA at 95.
	want := []payment.Gateway{
		payment.GatewaySTCPay,
		payment.GatewayPayTabs,
		payment.GatewayMada,
		payment.GatewayHyperPay,
		payment.GatewayApplePay,
	}
	assert.Equal(t, want, got)
}

func TestAvailableGateways_UnknownRegionFallsBackToDefault(t *testing.T) {
	r := NewRouter(DefaultConfig())

	assert.Equal(t,
		r.AvailableGateways(payment.RegionEgypt),
		r.AvailableGateways(payment.Region("FRANCE")))
}

func TestAvailableGateways_DoesNotMutateConfig(t *testing.T) {
	cfg := DefaultConfig()
	r := NewRouter(cfg)

	_ = r.AvailableGateways(payment.RegionKSA)
	assert.Equal(t, payment.GatewaySTCPay, cfg.Regions[payment.RegionKSA].Gateways[0])
	assert.Equal(t, payment.GatewayMada, cfg.Regions[payment.RegionKSA].Gateways[1])
}

func TestSelectGateway(t *testing.T) {
	r := NewRouter(DefaultConfig())

	// Preferred gateway wins when eligible in the region.
	assert.Equal(t, payment.GatewayMada, r.SelectGateway(payment.RegionKSA, payment.GatewayMada))
	// Ineligible preference falls through to the top-ranked gateway.
	assert.Equal(t, payment.GatewaySTCPay, r.SelectGateway(payment.RegionKSA, payment.GatewayPaymob))
	// No preference picks the top-ranked gateway.
	assert.Equal(t, payment.GatewayPaymob, r.SelectGateway(payment.RegionEgypt, ""))
}

func TestSelectGateway_EmptyListUsesFallback(t *testing.T) {
	cfg := DefaultConfig()
	rc := cfg.Regions[payment.RegionKSA]
	rc.Gateways = nil
	cfg.Regions[payment.RegionKSA] = rc
	r := NewRouter(cfg)

	assert.Equal(t, payment.GatewayPayTabs, r.SelectGateway(payment.RegionKSA, ""))
}

func TestSupports(t *testing.T) {
	r := NewRouter(DefaultConfig())

	assert.True(t, r.Supports(payment.RegionEgypt, payment.GatewayFawry))
	assert.False(t, r.Supports(payment.RegionEgypt, payment.GatewaySTCPay))
	assert.True(t, r.Supports(payment.RegionKSA, payment.GatewayApplePay))
}

func TestRegionForCurrency(t *testing.T) {
	assert.Equal(t, payment.RegionEgypt, RegionForCurrency("EGP"))
	assert.Equal(t, payment.RegionUAE, RegionForCurrency("AED"))
	assert.Equal(t, payment.RegionKSA, RegionForCurrency("SAR"))
	assert.Equal(t, payment.RegionKSA, RegionForCurrency("USD"))
}
