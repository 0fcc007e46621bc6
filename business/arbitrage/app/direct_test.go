package app

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/savexlabs/arb-engine/business/arbitrage/domain"
	poolsDomain "github.com/savexlabs/arb-engine/business/pools/domain"
	pricingDomain "github.com/savexlabs/arb-engine/business/pricing/domain"
	"github.com/savexlabs/arb-engine/internal/asset"
)

var detectNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func pool(id, codeA, codeB, reserveA, reserveB, shares string) poolsDomain.Snapshot {
	refFor := func(code string) asset.Ref {
		if code == asset.NativeCode {
			return asset.NativeRef()
		}
		return asset.Ref{Code: code, Issuer: "GISSUER"}
	}
	return poolsDomain.Snapshot{
		ID:           id,
		AssetA:       refFor(codeA),
		AssetB:       refFor(codeB),
		ReserveA:     decimal.RequireFromString(reserveA),
		ReserveB:     decimal.RequireFromString(reserveB),
		TotalShares:  decimal.RequireFromString(shares),
		LastModified: detectNow,
	}
}

func quote(symbol, usd string) pricingDomain.ExternalPrice {
	return pricingDomain.ExternalPrice{Symbol: symbol, USD: decimal.RequireFromString(usd)}
}

func TestDetectDirect_WorkedExample(t *testing.T) {
	// Pool XLM/USDC with reserves 1000/120 implies 0.12 USDC per XLM.
	// External quotes imply 10 USDC per XLM, a huge discrepancy.
	pools := []poolsDomain.Snapshot{
		pool("pool-1", "XLM", "USDC", "1000", "120", "2000000"),
	}
	prices := pricingDomain.PriceSet{
		"XLM":  quote("XLM", "0.10"),
		"USDC": quote("USDC", "1.00"),
	}

	opps := detectDirect(pools, prices, decimal.NewFromInt(1), detectNow)
	if len(opps) != 1 {
		t.Fatalf("detected %d opportunities, want 1", len(opps))
	}

	opp := opps[0]
	if opp.MainnetPrice.StringFixed(2) != "0.12" {
		t.Errorf("mainnet price = %s, want 0.12", opp.MainnetPrice.StringFixed(2))
	}
	if opp.ExternalPrice.StringFixed(2) != "10.00" {
		t.Errorf("external price = %s, want 10.00", opp.ExternalPrice.StringFixed(2))
	}
	// |0.12 - 10| / 0.12 * 100
	if opp.ProfitPercent.StringFixed(2) != "8233.33" {
		t.Errorf("profit percent = %s, want 8233.33", opp.ProfitPercent.StringFixed(2))
	}
	// shares * pp / 100
	want := decimal.RequireFromString("2000000").Mul(opp.ProfitPercent).Div(decimal.NewFromInt(100))
	if !opp.EstimatedProfit.Equal(want) {
		t.Errorf("estimated profit = %s, want %s", opp.EstimatedProfit, want)
	}
	if opp.Confidence != domain.ConfidenceHigh {
		t.Errorf("confidence = %s, want high", opp.Confidence)
	}
	if opp.PoolOrPathID != "pool-1" {
		t.Errorf("pool ID = %s, want pool-1", opp.PoolOrPathID)
	}
	if opp.PairName() != "XLM/USDC" {
		t.Errorf("pair = %s, want XLM/USDC", opp.PairName())
	}
}

func TestDetectDirect_ThresholdBoundary(t *testing.T) {
	prices := pricingDomain.PriceSet{
		"XLM":  quote("XLM", "1.00"),
		"USDC": quote("USDC", "0.99"),
	}
	// Implied price 1.00 against external 0.99: exactly 1.00% discrepancy.
	pools := []poolsDomain.Snapshot{
		pool("pool-1", "XLM", "USDC", "1000", "1000", "500"),
	}

	opps := detectDirect(pools, prices, decimal.NewFromInt(1), detectNow)
	if len(opps) != 1 {
		t.Fatalf("exact-threshold discrepancy excluded, want included")
	}

	prices["USDC"] = quote("USDC", "0.991")
	opps = detectDirect(pools, prices, decimal.NewFromInt(1), detectNow)
	if len(opps) != 0 {
		t.Fatalf("sub-threshold discrepancy included, want excluded")
	}
}

func TestDetectDirect_SkipsBadInput(t *testing.T) {
	prices := pricingDomain.PriceSet{
		"XLM":  quote("XLM", "0.10"),
		"USDC": quote("USDC", "1.00"),
	}

	dry := pool("pool-dry", "XLM", "USDC", "0", "120", "500")
	unquoted := pool("pool-unquoted", "XLM", "RARE", "1000", "120", "500")
	incomplete := pool("pool-incomplete", "XLM", "USDC", "1000", "120", "500")
	incomplete.AssetB = asset.Ref{}

	opps := detectDirect([]poolsDomain.Snapshot{dry, unquoted, incomplete}, prices, decimal.NewFromInt(1), detectNow)
	if len(opps) != 0 {
		t.Fatalf("detected %d opportunities from bad input, want 0", len(opps))
	}
}

func TestDirectConfidence(t *testing.T) {
	tests := []struct {
		name    string
		percent string
		shares  string
		want    domain.Confidence
	}{
		{"big spread deep pool", "5.1", "1000001", domain.ConfidenceHigh},
		{"big spread shallow pool", "5.1", "999999", domain.ConfidenceMedium},
		{"moderate spread", "2.1", "100001", domain.ConfidenceMedium},
		{"moderate spread shallow pool", "2.1", "99999", domain.ConfidenceLow},
		{"small spread", "1.5", "2000000", domain.ConfidenceLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := directConfidence(
				decimal.RequireFromString(tt.percent),
				decimal.RequireFromString(tt.shares),
			)
			if got != tt.want {
				t.Errorf("confidence = %s, want %s", got, tt.want)
			}
		})
	}
}
