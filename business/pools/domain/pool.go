// Package domain contains the core domain types for the pools context.
package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/savexlabs/arb-engine/internal/asset"
)

// Snapshot represents the state of one liquidity pool at one point in time.
// Immutable input; a new Snapshot with the same ID supersedes the previous
// one, there is no in-place mutation.
type Snapshot struct {
	ID           string
	AssetA       asset.Ref
	AssetB       asset.Ref
	ReserveA     decimal.Decimal
	ReserveB     decimal.Decimal
	TotalShares  decimal.Decimal
	LastModified time.Time
}

// PairName returns the display pair, e.g. "XLM/USDC".
func (s Snapshot) PairName() string {
	return s.AssetA.Code + "/" + s.AssetB.Code
}

// HasLiquidity reports whether both reserves are strictly positive.
// Pools that exist with no liquidity are excluded from pricing.
func (s Snapshot) HasLiquidity() bool {
	return s.ReserveA.IsPositive() && s.ReserveB.IsPositive()
}

// ImpliedPrice returns the on-chain price of AssetA denominated in AssetB
// (reserveB / reserveA). Zero when the pool has no liquidity.
func (s Snapshot) ImpliedPrice() decimal.Decimal {
	if !s.HasLiquidity() {
		return decimal.Zero
	}
	return s.ReserveB.Div(s.ReserveA)
}
