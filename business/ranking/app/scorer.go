// Package app contains application services for the ranking context.
package app

import (
	"time"

	"github.com/shopspring/decimal"

	poolsDomain "github.com/savexlabs/arb-engine/business/pools/domain"
	"github.com/savexlabs/arb-engine/business/ranking/domain"
	"github.com/savexlabs/arb-engine/internal/asset"
)

// Scoring weights. Fixed constants of the design, not tunable per call.
var (
	weightLiquidity  = decimal.RequireFromString("0.4")
	weightPopularity = decimal.RequireFromString("0.3")
	weightActivity   = decimal.RequireFromString("0.3")

	two          = decimal.NewFromInt(2)
	decayWindow  = decimal.NewFromInt(365)
	hoursPerDay  = decimal.NewFromInt(24)
	fullActivity = decimal.NewFromInt(30) // days within which activity scores flat
)

// ScorerConfig holds the categorization knobs for the scorer.
type ScorerConfig struct {
	MajorIssuers        asset.MajorIssuers
	StablecoinKeywords  asset.StablecoinKeywords
	PopularityThreshold int
}

// DefaultScorerConfig returns the mainnet defaults.
func DefaultScorerConfig() ScorerConfig {
	return ScorerConfig{
		MajorIssuers:        asset.DefaultMajorIssuers(),
		StablecoinKeywords:  asset.DefaultStablecoinKeywords(),
		PopularityThreshold: 50,
	}
}

// Scorer computes a 0..1 weighted score per pool from liquidity, token
// popularity, and recency, and assigns each pool a category.
type Scorer struct {
	cfg        ScorerConfig
	stats      domain.BatchStats
	tokenStats map[string]poolsDomain.TokenStat
	now        time.Time
}

// NewScorer creates a Scorer for one batch. It fails loudly when the batch
// statistics are invalid rather than dividing by zero later.
func NewScorer(cfg ScorerConfig, stats domain.BatchStats, tokenStats []poolsDomain.TokenStat, now time.Time) (*Scorer, error) {
	if err := stats.Validate(); err != nil {
		return nil, err
	}

	byKey := make(map[string]poolsDomain.TokenStat, len(tokenStats))
	for _, ts := range tokenStats {
		byKey[ts.Key()] = ts
	}

	return &Scorer{
		cfg:        cfg,
		stats:      stats,
		tokenStats: byKey,
		now:        now,
	}, nil
}

// Score rates one pool snapshot. The second return value is false when the
// pool is excluded from scoring: reserves not both strictly positive, or an
// unparseable asset pair. Exclusion is a data-quality condition, not an error.
func (s *Scorer) Score(snap poolsDomain.Snapshot) (domain.Score, bool) {
	if !snap.HasLiquidity() {
		return domain.Score{}, false
	}
	if snap.AssetA.IsZero() || snap.AssetB.IsZero() {
		return domain.Score{}, false
	}

	liquidity := snap.TotalShares.Div(s.stats.MaxTotalShares).Mul(weightLiquidity)
	if liquidity.IsNegative() {
		liquidity = decimal.Zero
	}

	popA := s.popularity(snap.AssetA)
	popB := s.popularity(snap.AssetB)
	avgPopularity := decimal.NewFromInt(int64(popA + popB)).Div(two)
	popularity := avgPopularity.
		Div(decimal.NewFromInt(int64(s.stats.MaxTokenPopularity))).
		Mul(weightPopularity)

	activity := s.activityScore(snap.LastModified)

	total := liquidity.Add(popularity).Add(activity)

	return domain.Score{
		PoolID:          snap.ID,
		PairName:        snap.PairName(),
		Category:        s.categorize(snap, popA, popB),
		LiquidityScore:  liquidity,
		PopularityScore: popularity,
		ActivityScore:   activity,
		TotalScore:      total,
		TotalShares:     snap.TotalShares,
		LastModified:    snap.LastModified,
	}, true
}

// activityScore rewards recently-touched pools: flat 0.3 within 30 days,
// linear decay to zero at 365 days.
func (s *Scorer) activityScore(lastModified time.Time) decimal.Decimal {
	hours := decimal.NewFromFloat(s.now.Sub(lastModified).Hours())
	days := hours.Div(hoursPerDay)

	if days.LessThanOrEqual(fullActivity) {
		return weightActivity
	}

	decayed := weightActivity.Mul(decimal.NewFromInt(1).Sub(days.Div(decayWindow)))
	if decayed.IsNegative() {
		return decimal.Zero
	}
	return decayed
}

// categorize assigns the pool tier. First match wins: major, stablecoin,
// defi, longtail.
func (s *Scorer) categorize(snap poolsDomain.Snapshot, popA, popB int) domain.Category {
	if s.cfg.MajorIssuers.Contains(snap.AssetA.Issuer) || s.cfg.MajorIssuers.Contains(snap.AssetB.Issuer) {
		return domain.CategoryMajor
	}
	if s.cfg.StablecoinKeywords.Match(snap.AssetA.Code) && s.cfg.StablecoinKeywords.Match(snap.AssetB.Code) {
		return domain.CategoryStablecoin
	}
	if popA > s.cfg.PopularityThreshold || popB > s.cfg.PopularityThreshold {
		return domain.CategoryDefi
	}
	return domain.CategoryLongtail
}

func (s *Scorer) popularity(ref asset.Ref) int {
	if ref.Native {
		return 0
	}
	if stat, ok := s.tokenStats[ref.Code+":"+ref.Issuer]; ok {
		return stat.PoolCount
	}
	return 0
}
