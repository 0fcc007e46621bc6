package infra

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/savexlabs/arb-engine/business/arbitrage/domain"
	rankingDomain "github.com/savexlabs/arb-engine/business/ranking/domain"
	"github.com/savexlabs/arb-engine/internal/apperror"
)

// FileStore appends detected opportunities to a JSONL file, one record per
// line, and keeps the latest coverage set in a sibling JSON file. Safe for
// concurrent use within one process.
type FileStore struct {
	mu            sync.Mutex
	path          string
	selectionPath string
}

// NewFileStore creates a FileStore, creating the parent directory if needed.
func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	return &FileStore{
		path:          path,
		selectionPath: filepath.Join(filepath.Dir(path), "selection.json"),
	}, nil
}

type opportunityRecord struct {
	Kind            string          `json:"kind"`
	Route           string          `json:"route"`
	ProfitPercent   decimal.Decimal `json:"profit_percent"`
	EstimatedProfit decimal.Decimal `json:"estimated_profit"`
	MainnetPrice    decimal.Decimal `json:"mainnet_price,omitempty"`
	ExternalPrice   decimal.Decimal `json:"external_price,omitempty"`
	PoolOrPathID    string          `json:"pool_or_path_id"`
	Confidence      string          `json:"confidence"`
	ComputedAt      time.Time       `json:"computed_at"`
}

// SaveReport appends every opportunity in the report.
func (s *FileStore) SaveReport(ctx context.Context, report *domain.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return apperror.External(apperror.CodeStoreWriteFailed, s.path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	for _, opp := range report.Opportunities {
		if err := ctx.Err(); err != nil {
			return err
		}
		record := opportunityRecord{
			Kind:            string(opp.Kind),
			Route:           opp.PairName(),
			ProfitPercent:   opp.ProfitPercent,
			EstimatedProfit: opp.EstimatedProfit,
			MainnetPrice:    opp.MainnetPrice,
			ExternalPrice:   opp.ExternalPrice,
			PoolOrPathID:    opp.PoolOrPathID,
			Confidence:      string(opp.Confidence),
			ComputedAt:      opp.ComputedAt,
		}
		if err := enc.Encode(record); err != nil {
			return apperror.External(apperror.CodeStoreWriteFailed, s.path, err)
		}
	}
	return nil
}

type selectionRecord struct {
	GeneratedAt      time.Time       `json:"generated_at"`
	CountsByCategory map[string]int  `json:"counts_by_category"`
	Pools            []selectionPool `json:"pools"`
}

type selectionPool struct {
	PoolID   string          `json:"pool_id"`
	Pair     string          `json:"pair"`
	Category string          `json:"category"`
	Score    decimal.Decimal `json:"score"`
}

// SaveSelection overwrites the selection file with the latest coverage set.
func (s *FileStore) SaveSelection(ctx context.Context, selection *rankingDomain.SelectionResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	record := selectionRecord{
		GeneratedAt:      selection.GeneratedAt,
		CountsByCategory: make(map[string]int, len(selection.CountsByCategory)),
		Pools:            make([]selectionPool, 0, len(selection.Selected)),
	}
	for cat, n := range selection.CountsByCategory {
		record.CountsByCategory[string(cat)] = n
	}
	for _, score := range selection.Selected {
		record.Pools = append(record.Pools, selectionPool{
			PoolID:   score.PoolID,
			Pair:     score.PairName,
			Category: string(score.Category),
			Score:    score.TotalScore,
		})
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return apperror.External(apperror.CodeStoreWriteFailed, s.selectionPath, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.WriteFile(s.selectionPath, data, 0o644); err != nil {
		return apperror.External(apperror.CodeStoreWriteFailed, s.selectionPath, err)
	}
	return nil
}
