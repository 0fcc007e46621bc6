// Package app contains application services and port definitions for the arbitrage context.
package app

import (
	"runtime"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/savexlabs/arb-engine/business/arbitrage/domain"
	poolsDomain "github.com/savexlabs/arb-engine/business/pools/domain"
	pricingDomain "github.com/savexlabs/arb-engine/business/pricing/domain"
)

var (
	hundred = decimal.NewFromInt(100)

	directHighProfit   = decimal.NewFromInt(5)
	directMediumProfit = decimal.NewFromInt(2)
	directHighShares   = decimal.NewFromInt(1_000_000)
	directMediumShares = decimal.NewFromInt(100_000)
)

// detectDirect compares each pool's implied on-chain price against the
// external cross rate of its pair and emits an opportunity when the relative
// discrepancy meets the threshold. Pools with missing quotes, dry reserves,
// or incomplete asset pairs are skipped. Checks fan out across workers into
// per-pool slots, so the result keeps input order.
func detectDirect(pools []poolsDomain.Snapshot, prices pricingDomain.PriceSet, threshold decimal.Decimal, now time.Time) []domain.Opportunity {
	slots := make([]*domain.Opportunity, len(pools))

	chunk := (len(pools) + runtime.GOMAXPROCS(0) - 1) / runtime.GOMAXPROCS(0)
	if chunk < 1 {
		chunk = 1
	}

	var wg sync.WaitGroup
	for start := 0; start < len(pools); start += chunk {
		end := start + chunk
		if end > len(pools) {
			end = len(pools)
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := start; i < end; i++ {
				if opp, ok := checkDirect(pools[i], prices, threshold, now); ok {
					slots[i] = &opp
				}
			}
		}()
	}
	wg.Wait()

	var opps []domain.Opportunity
	for _, slot := range slots {
		if slot != nil {
			opps = append(opps, *slot)
		}
	}
	return opps
}

func checkDirect(pool poolsDomain.Snapshot, prices pricingDomain.PriceSet, threshold decimal.Decimal, now time.Time) (domain.Opportunity, bool) {
	if !pool.HasLiquidity() {
		return domain.Opportunity{}, false
	}
	if pool.AssetA.IsZero() || pool.AssetB.IsZero() {
		return domain.Opportunity{}, false
	}

	priceA, okA := prices.Get(pool.AssetA.Code)
	priceB, okB := prices.Get(pool.AssetB.Code)
	if !okA || !okB {
		return domain.Opportunity{}, false
	}
	if !priceA.USD.IsPositive() || !priceB.USD.IsPositive() {
		return domain.Opportunity{}, false
	}

	mainnet := pool.ImpliedPrice()
	external := priceB.USD.Div(priceA.USD)

	profitPercent := mainnet.Sub(external).Abs().Div(mainnet).Mul(hundred)
	if profitPercent.LessThan(threshold) {
		return domain.Opportunity{}, false
	}

	return domain.Opportunity{
		Kind:            domain.KindDirect,
		Participants:    []string{pool.AssetA.Code, pool.AssetB.Code},
		ProfitPercent:   profitPercent,
		EstimatedProfit: pool.TotalShares.Mul(profitPercent).Div(hundred),
		MainnetPrice:    mainnet,
		ExternalPrice:   external,
		PoolOrPathID:    pool.ID,
		Confidence:      directConfidence(profitPercent, pool.TotalShares),
		ComputedAt:      now,
	}, true
}

// directConfidence grades a direct opportunity by discrepancy size and pool
// depth.
func directConfidence(profitPercent, totalShares decimal.Decimal) domain.Confidence {
	switch {
	case profitPercent.GreaterThan(directHighProfit) && totalShares.GreaterThan(directHighShares):
		return domain.ConfidenceHigh
	case profitPercent.GreaterThan(directMediumProfit) && totalShares.GreaterThan(directMediumShares):
		return domain.ConfidenceMedium
	default:
		return domain.ConfidenceLow
	}
}
