package app

import (
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/savexlabs/arb-engine/business/arbitrage/domain"
	poolsDomain "github.com/savexlabs/arb-engine/business/pools/domain"
	pricingDomain "github.com/savexlabs/arb-engine/business/pricing/domain"
	"github.com/savexlabs/arb-engine/internal/apperror"
)

// Engine runs direct and triangular detection over one batch of pools and
// quotes and ranks the merged result.
type Engine struct {
	logger *slog.Logger
	now    func() time.Time
}

// NewEngine creates an Engine. A nil now defaults to time.Now.
func NewEngine(logger *slog.Logger, now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{logger: logger, now: now}
}

// DetectOpportunities scans pools against external quotes. The base symbol
// anchors triangular cycles and must appear as a leg of at least one pool;
// its absence is an input shape problem and fails with CodeMissingBaseAsset.
// A base symbol with no external quote skips the triangular pass only, and
// individual pools with missing data are skipped, never fatal.
func (e *Engine) DetectOpportunities(pools []poolsDomain.Snapshot, prices pricingDomain.PriceSet, base string, threshold decimal.Decimal) (*domain.Report, error) {
	if !hasBaseLeg(pools, base) {
		return nil, apperror.Validation(apperror.CodeMissingBaseAsset, "base asset "+base+" appears in no pool pair")
	}

	now := e.now()

	direct := detectDirect(pools, prices, threshold, now)

	var triangular []domain.Opportunity
	if _, ok := prices.Get(base); ok {
		graph := pricingDomain.BuildGraph(pools, prices)
		triangular = detectTriangular(graph, prices, base, threshold, now)
	} else {
		e.logger.Warn("no external quote for base symbol, skipping triangular pass",
			slog.String("base", base))
	}

	opps := make([]domain.Opportunity, 0, len(direct)+len(triangular))
	opps = append(opps, direct...)
	opps = append(opps, triangular...)
	rankByProfit(opps)

	e.logger.Debug("detection pass complete",
		slog.Int("pools", len(pools)),
		slog.Int("direct", len(direct)),
		slog.Int("triangular", len(triangular)),
	)

	return &domain.Report{
		Opportunities: opps,
		Counts:        domain.CountByConfidence(opps),
		ScannedPools:  len(pools),
		GeneratedAt:   now,
	}, nil
}

func hasBaseLeg(pools []poolsDomain.Snapshot, base string) bool {
	for _, pool := range pools {
		if pool.AssetA.Code == base || pool.AssetB.Code == base {
			return true
		}
	}
	return false
}

// rankByProfit orders opportunities by profit percent descending. The sort is
// stable so equal-profit opportunities keep detection order, direct before
// triangular.
func rankByProfit(opps []domain.Opportunity) {
	sort.SliceStable(opps, func(i, j int) bool {
		return opps[i].ProfitPercent.GreaterThan(opps[j].ProfitPercent)
	})
}
