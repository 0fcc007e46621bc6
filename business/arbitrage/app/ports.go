package app

import (
	"context"

	"github.com/savexlabs/arb-engine/business/arbitrage/domain"
	poolsDomain "github.com/savexlabs/arb-engine/business/pools/domain"
	pricingDomain "github.com/savexlabs/arb-engine/business/pricing/domain"
	rankingDomain "github.com/savexlabs/arb-engine/business/ranking/domain"
)

// PoolSource supplies liquidity pool snapshots from the chain.
type PoolSource interface {
	FetchPools(ctx context.Context, limit int) ([]poolsDomain.Snapshot, error)
}

// PriceSource supplies external reference quotes for token symbols.
type PriceSource interface {
	FetchPrices(ctx context.Context, symbols []string) (pricingDomain.PriceSet, error)
}

// Reporter renders the outcome of one scan.
type Reporter interface {
	Report(report *domain.Report, selection *rankingDomain.SelectionResult)
}

// OpportunityStore persists detected opportunities.
type OpportunityStore interface {
	SaveReport(ctx context.Context, report *domain.Report) error
}

// SelectionStore is optionally implemented by an OpportunityStore that also
// records the coverage set of each scan.
type SelectionStore interface {
	SaveSelection(ctx context.Context, selection *rankingDomain.SelectionResult) error
}
