package app

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	poolsDomain "github.com/savexlabs/arb-engine/business/pools/domain"
	"github.com/savexlabs/arb-engine/business/ranking/domain"
	"github.com/savexlabs/arb-engine/internal/apperror"
	"github.com/savexlabs/arb-engine/internal/asset"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func testScorerConfig() ScorerConfig {
	return ScorerConfig{
		MajorIssuers: asset.MajorIssuers{
			"GMAJOR": "USDC",
		},
		StablecoinKeywords:  asset.DefaultStablecoinKeywords(),
		PopularityThreshold: 50,
	}
}

func snapshot(id string, a, b asset.Ref, shares string, age time.Duration) poolsDomain.Snapshot {
	d := decimal.RequireFromString(shares)
	return poolsDomain.Snapshot{
		ID:           id,
		AssetA:       a,
		AssetB:       b,
		ReserveA:     decimal.NewFromInt(1000),
		ReserveB:     decimal.NewFromInt(1000),
		TotalShares:  d,
		LastModified: testNow.Add(-age),
	}
}

func TestNewScorer_InvalidStats(t *testing.T) {
	_, err := NewScorer(testScorerConfig(), domain.BatchStats{}, nil, testNow)
	if err == nil {
		t.Fatal("expected error for zero batch stats")
	}
	if !errors.Is(err, apperror.New(apperror.CodeInvalidBatchStats)) {
		t.Fatalf("expected CodeInvalidBatchStats, got %v", apperror.GetCode(err))
	}
}

func TestScorer_Weights(t *testing.T) {
	stats := domain.BatchStats{
		MaxTotalShares:     decimal.NewFromInt(1000),
		MaxTokenPopularity: 10,
	}
	tokenStats := []poolsDomain.TokenStat{
		{Code: "USDC", Issuer: "GISSUER1", PoolCount: 10},
		{Code: "AQUA", Issuer: "GISSUER2", PoolCount: 10},
	}
	scorer, err := NewScorer(testScorerConfig(), stats, tokenStats, testNow)
	if err != nil {
		t.Fatalf("NewScorer: %v", err)
	}

	// Max shares, max popularity on both legs, touched today: perfect score.
	snap := snapshot("pool-1",
		asset.Ref{Code: "USDC", Issuer: "GISSUER1"},
		asset.Ref{Code: "AQUA", Issuer: "GISSUER2"},
		"1000", 0)

	score, ok := scorer.Score(snap)
	if !ok {
		t.Fatal("expected pool to be scored")
	}
	if got := score.LiquidityScore.StringFixed(2); got != "0.40" {
		t.Errorf("liquidity = %s, want 0.40", got)
	}
	if got := score.PopularityScore.StringFixed(2); got != "0.30" {
		t.Errorf("popularity = %s, want 0.30", got)
	}
	if got := score.ActivityScore.StringFixed(2); got != "0.30" {
		t.Errorf("activity = %s, want 0.30", got)
	}
	if got := score.TotalScore.StringFixed(2); got != "1.00" {
		t.Errorf("total = %s, want 1.00", got)
	}
}

func TestScorer_ActivityDecay(t *testing.T) {
	stats := domain.BatchStats{
		MaxTotalShares:     decimal.NewFromInt(1000),
		MaxTokenPopularity: 10,
	}
	scorer, err := NewScorer(testScorerConfig(), stats, nil, testNow)
	if err != nil {
		t.Fatalf("NewScorer: %v", err)
	}

	tests := []struct {
		name string
		age  time.Duration
		want string
	}{
		{"fresh", 0, "0.30"},
		{"thirty days", 30 * 24 * time.Hour, "0.30"},
		// 0.3 * (1 - 182.5/365) = 0.15
		{"half year", 4380 * time.Hour, "0.15"},
		{"one year", 365 * 24 * time.Hour, "0.00"},
		{"two years", 730 * 24 * time.Hour, "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scorer.activityScore(testNow.Add(-tt.age))
			if got.StringFixed(2) != tt.want {
				t.Errorf("activityScore(age=%v) = %s, want %s", tt.age, got.StringFixed(2), tt.want)
			}
		})
	}
}

func TestScorer_SkipsIlliquidPools(t *testing.T) {
	stats := domain.BatchStats{
		MaxTotalShares:     decimal.NewFromInt(1000),
		MaxTokenPopularity: 1,
	}
	scorer, err := NewScorer(testScorerConfig(), stats, nil, testNow)
	if err != nil {
		t.Fatalf("NewScorer: %v", err)
	}

	snap := snapshot("pool-dry", asset.NativeRef(), asset.Ref{Code: "USDC", Issuer: "GISSUER1"}, "500", 0)
	snap.ReserveA = decimal.Zero

	if _, ok := scorer.Score(snap); ok {
		t.Error("expected zero-reserve pool to be excluded")
	}
}

func TestScorer_Categorize(t *testing.T) {
	stats := domain.BatchStats{
		MaxTotalShares:     decimal.NewFromInt(1000),
		MaxTokenPopularity: 100,
	}
	tokenStats := []poolsDomain.TokenStat{
		{Code: "AQUA", Issuer: "GPOPULAR", PoolCount: 60},
		{Code: "RARE", Issuer: "GRARE", PoolCount: 2},
	}
	scorer, err := NewScorer(testScorerConfig(), stats, tokenStats, testNow)
	if err != nil {
		t.Fatalf("NewScorer: %v", err)
	}

	tests := []struct {
		name string
		a, b asset.Ref
		want domain.Category
	}{
		{
			"major issuer wins over stablecoin codes",
			asset.Ref{Code: "USDC", Issuer: "GMAJOR"},
			asset.Ref{Code: "USDT", Issuer: "GOTHER"},
			domain.CategoryMajor,
		},
		{
			"both stablecoin codes",
			asset.Ref{Code: "USDC", Issuer: "GOTHER"},
			asset.Ref{Code: "EURC", Issuer: "GOTHER2"},
			domain.CategoryStablecoin,
		},
		{
			"one popular leg",
			asset.Ref{Code: "AQUA", Issuer: "GPOPULAR"},
			asset.Ref{Code: "RARE", Issuer: "GRARE"},
			domain.CategoryDefi,
		},
		{
			"neither popular nor stable",
			asset.Ref{Code: "RARE", Issuer: "GRARE"},
			asset.NativeRef(),
			domain.CategoryLongtail,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := snapshot("pool-x", tt.a, tt.b, "500", 0)
			score, ok := scorer.Score(snap)
			if !ok {
				t.Fatal("expected pool to be scored")
			}
			if score.Category != tt.want {
				t.Errorf("category = %s, want %s", score.Category, tt.want)
			}
		})
	}
}

func TestScorer_NativeLegHasZeroPopularity(t *testing.T) {
	stats := domain.BatchStats{
		MaxTotalShares:     decimal.NewFromInt(1000),
		MaxTokenPopularity: 10,
	}
	tokenStats := []poolsDomain.TokenStat{
		{Code: "USDC", Issuer: "GISSUER1", PoolCount: 10},
	}
	scorer, err := NewScorer(testScorerConfig(), stats, tokenStats, testNow)
	if err != nil {
		t.Fatalf("NewScorer: %v", err)
	}

	snap := snapshot("pool-n", asset.NativeRef(), asset.Ref{Code: "USDC", Issuer: "GISSUER1"}, "500", 0)
	score, ok := scorer.Score(snap)
	if !ok {
		t.Fatal("expected pool to be scored")
	}
	// avg(0, 10)/10 * 0.3 = 0.15
	if got := score.PopularityScore.StringFixed(2); got != "0.15" {
		t.Errorf("popularity = %s, want 0.15", got)
	}
}
