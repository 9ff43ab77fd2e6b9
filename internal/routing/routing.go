// Package routing resolves the abstract region/currency selectors of
// the unified contract into a concrete region, currency and ranked
// gateway list. It is pure table math with no I/O.
package routing

import (
	"sort"

	"github.com/menapay/orchestrator/internal/domain/payment"
)

// RegionConfig describes one market: its default currency, the
// gateways eligible there in configured order, and the gateway of last
// resort.
type RegionConfig struct {
	Currency string            `json:"currency"`
	Gateways []payment.Gateway `json:"gateways"`
	Fallback payment.Gateway   `json:"fallback"`
}

// Config is the routing table: per-region configuration plus a flat
// gateway priority-weight map used to rank gateways within a region.
type Config struct {
	DefaultRegion payment.Region                  `json:"default_region"`
	Regions       map[payment.Region]RegionConfig `json:"regions"`
	Weights       map[payment.Gateway]int         `json:"priority_weights"`
}

// DefaultConfig returns the production routing table.
func DefaultConfig() Config {
	return Config{
		DefaultRegion: payment.RegionEgypt,
		Regions: map[payment.Region]RegionConfig{
			payment.RegionEgypt: {
				Currency: "EGP",
				Gateways: []payment.Gateway{payment.GatewayPaymob, payment.GatewayFawry},
				Fallback: payment.GatewayPaymob,
			},
			payment.RegionUAE: {
				Currency: "AED",
				Gateways: []payment.Gateway{payment.GatewayPayTabs, payment.GatewayHyperPay},
				Fallback: payment.GatewayPayTabs,
			},
			payment.RegionKSA: {
				Currency: "SAR",
				Gateways: []payment.Gateway{
					payment.GatewaySTCPay,
					payment.GatewayMada,
					payment.GatewayHyperPay,
					payment.GatewayPayTabs,
					payment.GatewayApplePay,
				},
				Fallback: payment.GatewayPayTabs,
			},
		},
		Weights: map[payment.Gateway]int{
			payment.GatewayPaymob:   100,
			payment.GatewayFawry:    85,
			payment.GatewaySTCPay:   100,
			payment.GatewayMada:     95,
			payment.GatewayHyperPay: 90,
			payment.GatewayPayTabs:  100,
			payment.GatewayApplePay: 80,
		},
	}
}

// Router performs region, currency and gateway resolution against a
// routing table.
type Router struct {
	cfg Config
}

func NewRouter(cfg Config) *Router {
	return &Router{cfg: cfg}
}

// Config returns the routing table currently in effect.
func (r *Router) Config() Config { return r.cfg }

// SupportedRegion reports whether region is in the routing table.
func (r *Router) SupportedRegion(region payment.Region) bool {
	_, ok := r.cfg.Regions[region]
	return ok
}

// ResolveRegion maps AUTO to the configured default region; explicit
// selectors pass through unchanged.
func (r *Router) ResolveRegion(selector payment.Region) payment.Region {
	if selector == payment.RegionAuto || selector == "" {
		return r.cfg.DefaultRegion
	}
	return selector
}

// ResolveCurrency maps AUTO to the resolved region's default currency;
// explicit selectors pass through unchanged.
func (r *Router) ResolveCurrency(selector string, region payment.Region) string {
	if selector != payment.CurrencyAuto && selector != "" {
		return selector
	}
	if rc, ok := r.cfg.Regions[region]; ok {
		return rc.Currency
	}
	return r.cfg.Regions[r.cfg.DefaultRegion].Currency
}

// AvailableGateways returns the region's gateway list sorted descending
// by priority weight. The sort is stable: equal weights keep their
// configured relative order. An unknown region falls back to the
// default region's list.
func (r *Router) AvailableGateways(region payment.Region) []payment.Gateway {
	rc, ok := r.cfg.Regions[region]
	if !ok {
		rc = r.cfg.Regions[r.cfg.DefaultRegion]
	}

	ranked := make([]payment.Gateway, len(rc.Gateways))
	copy(ranked, rc.Gateways)
	sort.SliceStable(ranked, func(i, j int) bool {
		return r.cfg.Weights[ranked[i]] > r.cfg.Weights[ranked[j]]
	})
	return ranked
}

// SelectGateway picks the gateway for a payment: the preferred gateway
// when it is eligible in the region, otherwise the highest-priority
// available gateway, otherwise the region's configured fallback.
func (r *Router) SelectGateway(region payment.Region, preferred payment.Gateway) payment.Gateway {
	available := r.AvailableGateways(region)

	if preferred != "" {
		for _, gw := range available {
			if gw == preferred {
				return preferred
			}
		}
	}
	if len(available) > 0 {
		return available[0]
	}

	rc, ok := r.cfg.Regions[region]
	if !ok {
		rc = r.cfg.Regions[r.cfg.DefaultRegion]
	}
	return rc.Fallback
}

// Supports reports whether gw is eligible in region (fallback included).
func (r *Router) Supports(region payment.Region, gw payment.Gateway) bool {
	rc, ok := r.cfg.Regions[region]
	if !ok {
		rc = r.cfg.Regions[r.cfg.DefaultRegion]
	}
	if gw == rc.Fallback {
		return true
	}
	for _, g := range rc.Gateways {
		if g == gw {
			return true
		}
	}
	return false
}

// RegionForCurrency maps a payout currency to the region whose market
// it belongs to. Unknown currencies default to KSA.
func RegionForCurrency(currency string) payment.Region {
	switch currency {
	case "EGP":
		return payment.RegionEgypt
	case "AED":
		return payment.RegionUAE
	case "SAR":
		return payment.RegionKSA
	default:
		return payment.RegionKSA
	}
}
