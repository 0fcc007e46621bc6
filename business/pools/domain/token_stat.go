package domain

import (
	"sort"

	"github.com/savexlabs/arb-engine/internal/asset"
)

// TokenStat is the per-batch popularity metric for one distinct non-native
// token: the number of pools it appears in. Derived once per batch and
// read-only thereafter.
type TokenStat struct {
	Code      string
	Issuer    string
	PoolCount int
}

// Key returns the canonical "CODE:ISSUER" key.
func (t TokenStat) Key() string {
	return t.Code + ":" + t.Issuer
}

// DeriveTokenStats builds the TokenStat table from a batch of snapshots.
// Native legs carry no stat entry. The result is sorted by key so that the
// table is deterministic for a given batch.
func DeriveTokenStats(snapshots []Snapshot) []TokenStat {
	counts := make(map[string]*TokenStat)

	count := func(ref asset.Ref) {
		if ref.Native || ref.IsZero() {
			return
		}
		key := ref.Code + ":" + ref.Issuer
		if stat, ok := counts[key]; ok {
			stat.PoolCount++
			return
		}
		counts[key] = &TokenStat{Code: ref.Code, Issuer: ref.Issuer, PoolCount: 1}
	}

	for _, snap := range snapshots {
		count(snap.AssetA)
		count(snap.AssetB)
	}

	stats := make([]TokenStat, 0, len(counts))
	for _, stat := range counts {
		stats = append(stats, *stat)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Key() < stats[j].Key() })

	return stats
}
