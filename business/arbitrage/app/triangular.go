package app

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/savexlabs/arb-engine/business/arbitrage/domain"
	pricingDomain "github.com/savexlabs/arb-engine/business/pricing/domain"
)

var triangularHighProfit = decimal.NewFromInt(3)

// detectTriangular walks every three-hop cycle starting and ending at the
// base symbol and emits an opportunity when the cumulative rate beats parity
// by at least the threshold. The graph supplies connectivity; hop rates are
// the external cross rates of the quote set. Hops revisiting the base or
// repeating a symbol are not cycles and are skipped.
func detectTriangular(graph pricingDomain.PriceGraph, prices pricingDomain.PriceSet, base string, threshold decimal.Decimal, now time.Time) []domain.Opportunity {
	var opps []domain.Opportunity

	for _, first := range graph.Neighbors(base) {
		if first == base {
			continue
		}

		for _, second := range graph.Neighbors(first) {
			if second == base || second == first {
				continue
			}
			if _, ok := graph.Edge(second, base); !ok {
				continue
			}

			hop1, ok1 := crossRate(prices, base, first)
			hop2, ok2 := crossRate(prices, first, second)
			hop3, ok3 := crossRate(prices, second, base)
			if !ok1 || !ok2 || !ok3 {
				continue
			}

			cumulative := hop1.Mul(hop2).Mul(hop3)
			profitPercent := cumulative.Sub(decimal.NewFromInt(1)).Mul(hundred)
			if profitPercent.LessThan(threshold) {
				continue
			}

			participants := []string{base, first, second, base}
			opps = append(opps, domain.Opportunity{
				Kind:            domain.KindTriangular,
				Participants:    participants,
				ProfitPercent:   profitPercent,
				EstimatedProfit: decimal.Zero,
				PoolOrPathID:    strings.Join(participants, ">"),
				Confidence:      triangularConfidence(profitPercent),
				ComputedAt:      now,
			})
		}
	}

	return opps
}

// crossRate is the number of destination units one source unit buys under
// the external quote set.
func crossRate(prices pricingDomain.PriceSet, from, to string) (decimal.Decimal, bool) {
	src, okSrc := prices.Get(from)
	dst, okDst := prices.Get(to)
	if !okSrc || !okDst || !src.USD.IsPositive() {
		return decimal.Decimal{}, false
	}
	return dst.USD.Div(src.USD), true
}

func triangularConfidence(profitPercent decimal.Decimal) domain.Confidence {
	if profitPercent.GreaterThan(triangularHighProfit) {
		return domain.ConfidenceHigh
	}
	return domain.ConfidenceMedium
}
