package domain

import (
	"github.com/shopspring/decimal"

	poolsDomain "github.com/savexlabs/arb-engine/business/pools/domain"
	"github.com/savexlabs/arb-engine/internal/apperror"
)

// BatchStats holds the batch-wide maxima the scorer normalizes against.
// Computed once per batch over all snapshots.
type BatchStats struct {
	MaxTotalShares     decimal.Decimal
	MaxTokenPopularity int
}

// ComputeBatchStats derives the maxima for one batch.
func ComputeBatchStats(snapshots []poolsDomain.Snapshot, tokenStats []poolsDomain.TokenStat) BatchStats {
	stats := BatchStats{MaxTotalShares: decimal.Zero}

	for _, snap := range snapshots {
		if snap.TotalShares.GreaterThan(stats.MaxTotalShares) {
			stats.MaxTotalShares = snap.TotalShares
		}
	}
	for _, ts := range tokenStats {
		if ts.PoolCount > stats.MaxTokenPopularity {
			stats.MaxTokenPopularity = ts.PoolCount
		}
	}

	return stats
}

// Validate fails with CodeInvalidBatchStats when a maximum is not strictly
// positive. With at least one snapshot in the batch this indicates the caller
// computed the statistics incorrectly; scoring against such maxima would
// divide by zero.
func (b BatchStats) Validate() error {
	if !b.MaxTotalShares.IsPositive() {
		return apperror.Validation(apperror.CodeInvalidBatchStats, "maxTotalShares must be positive")
	}
	if b.MaxTokenPopularity <= 0 {
		return apperror.Validation(apperror.CodeInvalidBatchStats, "maxTokenPopularity must be positive")
	}
	return nil
}
