package app

import (
	"context"
	"log/slog"
	"runtime"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	poolsDomain "github.com/savexlabs/arb-engine/business/pools/domain"
	"github.com/savexlabs/arb-engine/business/ranking/domain"
	"github.com/savexlabs/arb-engine/internal/apperror"
)

// Selector builds the pool coverage set for one batch: score every pool,
// partition by category, apply per-category caps in precedence order, backfill
// remaining global capacity by score, truncate to the global cap.
type Selector struct {
	cfg    ScorerConfig
	logger *slog.Logger
	now    func() time.Time
}

// NewSelector creates a Selector. A nil now defaults to time.Now.
func NewSelector(cfg ScorerConfig, logger *slog.Logger, now func() time.Time) *Selector {
	if now == nil {
		now = time.Now
	}
	return &Selector{cfg: cfg, logger: logger, now: now}
}

// SelectPools scores and selects pools from a batch of snapshots. It fails
// with CodeEmptySnapshotSet on an empty batch and CodeInvalidCaps on negative
// caps. Pools excluded by the scorer are skipped, not reported as errors.
func (s *Selector) SelectPools(ctx context.Context, snapshots []poolsDomain.Snapshot, tokenStats []poolsDomain.TokenStat, caps domain.Caps) (*domain.SelectionResult, error) {
	if len(snapshots) == 0 {
		return nil, apperror.Validation(apperror.CodeEmptySnapshotSet, "no pool snapshots to select from")
	}
	if err := caps.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	stats := domain.ComputeBatchStats(snapshots, tokenStats)
	scorer, err := NewScorer(s.cfg, stats, tokenStats, now)
	if err != nil {
		return nil, err
	}

	scores, err := s.scoreAll(ctx, scorer, snapshots)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("scored pool batch",
		slog.Int("snapshots", len(snapshots)),
		slog.Int("scored", len(scores)),
	)

	selected := selectByCaps(scores, caps)

	counts := make(map[domain.Category]int, len(domain.Categories))
	for _, sc := range selected {
		counts[sc.Category]++
	}

	return &domain.SelectionResult{
		Selected:         selected,
		CountsByCategory: counts,
		GeneratedAt:      now,
	}, nil
}

// scoreAll scores snapshots concurrently. Each worker owns a disjoint slot
// range so no locking is needed; excluded pools leave a nil hole that is
// compacted afterwards.
func (s *Selector) scoreAll(ctx context.Context, scorer *Scorer, snapshots []poolsDomain.Snapshot) ([]domain.Score, error) {
	slots := make([]*domain.Score, len(snapshots))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	chunk := (len(snapshots) + runtime.GOMAXPROCS(0) - 1) / runtime.GOMAXPROCS(0)
	if chunk < 1 {
		chunk = 1
	}

	for start := 0; start < len(snapshots); start += chunk {
		end := start + chunk
		if end > len(snapshots) {
			end = len(snapshots)
		}
		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				if score, ok := scorer.Score(snapshots[i]); ok {
					slots[i] = &score
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	scores := make([]domain.Score, 0, len(snapshots))
	for _, slot := range slots {
		if slot != nil {
			scores = append(scores, *slot)
		}
	}
	return scores, nil
}

// selectByCaps applies per-category caps in precedence order, then backfills
// leftover global capacity with the highest-scoring unselected pools, then
// truncates to the global cap.
func selectByCaps(scores []domain.Score, caps domain.Caps) []domain.Score {
	byCategory := make(map[domain.Category][]domain.Score, len(domain.Categories))
	for _, sc := range scores {
		byCategory[sc.Category] = append(byCategory[sc.Category], sc)
	}
	for _, cat := range domain.Categories {
		sortByScoreDesc(byCategory[cat])
	}

	selected := make([]domain.Score, 0, caps.Global)
	picked := make(map[string]bool, caps.Global)

	for _, cat := range domain.Categories {
		pool := byCategory[cat]
		limit := caps.ForCategory(cat)
		if limit > len(pool) {
			limit = len(pool)
		}
		for _, sc := range pool[:limit] {
			selected = append(selected, sc)
			picked[sc.PoolID] = true
		}
	}

	if len(selected) < caps.Global {
		rest := make([]domain.Score, 0, len(scores)-len(selected))
		for _, sc := range scores {
			if !picked[sc.PoolID] {
				rest = append(rest, sc)
			}
		}
		sortByScoreDesc(rest)

		room := caps.Global - len(selected)
		if room > len(rest) {
			room = len(rest)
		}
		selected = append(selected, rest[:room]...)
	}

	if len(selected) > caps.Global {
		selected = selected[:caps.Global]
	}
	return selected
}

// sortByScoreDesc orders by total score descending, pool ID ascending on
// ties, so selection is deterministic for a given batch.
func sortByScoreDesc(scores []domain.Score) {
	sort.SliceStable(scores, func(i, j int) bool {
		cmp := scores[i].TotalScore.Cmp(scores[j].TotalScore)
		if cmp != 0 {
			return cmp > 0
		}
		return scores[i].PoolID < scores[j].PoolID
	})
}
