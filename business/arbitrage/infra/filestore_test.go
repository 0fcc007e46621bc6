package infra

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/savexlabs/arb-engine/business/arbitrage/domain"
	rankingDomain "github.com/savexlabs/arb-engine/business/ranking/domain"
)

func TestFileStore_SaveReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "opportunities.jsonl")
	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	report := &domain.Report{
		Opportunities: []domain.Opportunity{
			{
				Kind:            domain.KindDirect,
				Participants:    []string{"XLM", "USDC"},
				ProfitPercent:   decimal.RequireFromString("2.5"),
				EstimatedProfit: decimal.NewFromInt(100),
				PoolOrPathID:    "pool-1",
				Confidence:      domain.ConfidenceMedium,
				ComputedAt:      time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
			},
			{
				Kind:          domain.KindTriangular,
				Participants:  []string{"XLM", "USDC", "AQUA", "XLM"},
				ProfitPercent: decimal.RequireFromString("1.1"),
				PoolOrPathID:  "XLM>USDC>AQUA>XLM",
				Confidence:    domain.ConfidenceMedium,
				ComputedAt:    time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
			},
		},
	}

	if err := store.SaveReport(context.Background(), report); err != nil {
		t.Fatalf("SaveReport: %v", err)
	}
	// Second report appends rather than truncates.
	if err := store.SaveReport(context.Background(), report); err != nil {
		t.Fatalf("SaveReport (append): %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open store file: %v", err)
	}
	defer f.Close()

	var lines int
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var record opportunityRecord
		if err := json.Unmarshal(scanner.Bytes(), &record); err != nil {
			t.Fatalf("line %d not valid JSON: %v", lines+1, err)
		}
		lines++
	}
	if lines != 4 {
		t.Fatalf("store has %d lines, want 4", lines)
	}
}

func TestFileStore_SaveSelectionOverwrites(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(filepath.Join(dir, "opportunities.jsonl"))
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	selectionOf := func(poolID string) *rankingDomain.SelectionResult {
		return &rankingDomain.SelectionResult{
			Selected: []rankingDomain.Score{{
				PoolID:     poolID,
				PairName:   "XLM/USDC",
				Category:   rankingDomain.CategoryMajor,
				TotalScore: decimal.RequireFromString("0.7"),
			}},
			CountsByCategory: map[rankingDomain.Category]int{rankingDomain.CategoryMajor: 1},
			GeneratedAt:      time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		}
	}

	if err := store.SaveSelection(context.Background(), selectionOf("pool-old")); err != nil {
		t.Fatalf("SaveSelection: %v", err)
	}
	if err := store.SaveSelection(context.Background(), selectionOf("pool-new")); err != nil {
		t.Fatalf("SaveSelection (second): %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "selection.json"))
	if err != nil {
		t.Fatalf("read selection file: %v", err)
	}
	var record selectionRecord
	if err := json.Unmarshal(data, &record); err != nil {
		t.Fatalf("selection file not valid JSON: %v", err)
	}
	if len(record.Pools) != 1 || record.Pools[0].PoolID != "pool-new" {
		t.Fatalf("selection = %+v, want only pool-new", record.Pools)
	}
	if record.CountsByCategory["major"] != 1 {
		t.Errorf("major count = %d, want 1", record.CountsByCategory["major"])
	}
}
