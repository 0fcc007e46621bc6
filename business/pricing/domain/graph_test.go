package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	poolsDomain "github.com/savexlabs/arb-engine/business/pools/domain"
	"github.com/savexlabs/arb-engine/internal/asset"
)

func graphSnapshot(id, codeA, codeB, shares string) poolsDomain.Snapshot {
	refFor := func(code string) asset.Ref {
		if code == asset.NativeCode {
			return asset.NativeRef()
		}
		return asset.Ref{Code: code, Issuer: "GISSUER"}
	}
	return poolsDomain.Snapshot{
		ID:           id,
		AssetA:       refFor(codeA),
		AssetB:       refFor(codeB),
		ReserveA:     decimal.NewFromInt(1000),
		ReserveB:     decimal.NewFromInt(1000),
		TotalShares:  decimal.RequireFromString(shares),
		LastModified: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

func graphPrices() PriceSet {
	return PriceSet{
		"XLM":  {Symbol: "XLM", USD: decimal.RequireFromString("0.10")},
		"USDC": {Symbol: "USDC", USD: decimal.NewFromInt(1)},
		"AQUA": {Symbol: "AQUA", USD: decimal.RequireFromString("0.002")},
	}
}

func TestBuildGraph_BothDirections(t *testing.T) {
	snap := graphSnapshot("pool-1", "XLM", "USDC", "500")
	snap.ReserveA = decimal.NewFromInt(1000)
	snap.ReserveB = decimal.NewFromInt(10000)
	graph := BuildGraph([]poolsDomain.Snapshot{snap}, graphPrices())

	forward, ok := graph.Edge("XLM", "USDC")
	if !ok {
		t.Fatal("expected XLM->USDC edge")
	}
	// 10000 / 1000
	if forward.Rate.StringFixed(2) != "10.00" {
		t.Errorf("XLM->USDC rate = %s, want 10.00", forward.Rate.StringFixed(2))
	}

	back, ok := graph.Edge("USDC", "XLM")
	if !ok {
		t.Fatal("expected USDC->XLM edge")
	}
	if back.Rate.StringFixed(2) != "0.10" {
		t.Errorf("USDC->XLM rate = %s, want 0.10", back.Rate.StringFixed(2))
	}
	if forward.PoolID != "pool-1" || back.PoolID != "pool-1" {
		t.Error("edges should carry the backing pool ID")
	}
}

func TestBuildGraph_SkipsMissingQuotes(t *testing.T) {
	graph := BuildGraph([]poolsDomain.Snapshot{
		graphSnapshot("pool-1", "XLM", "RARE", "500"),
	}, graphPrices())

	if len(graph) != 0 {
		t.Fatalf("graph has %d nodes, want 0 for unquoted pair", len(graph))
	}
}

func TestBuildGraph_SkipsIlliquidPools(t *testing.T) {
	dry := graphSnapshot("pool-dry", "XLM", "USDC", "500")
	dry.ReserveA = decimal.Zero

	graph := BuildGraph([]poolsDomain.Snapshot{dry}, graphPrices())
	if len(graph) != 0 {
		t.Fatalf("graph has %d nodes, want 0 for dry pool", len(graph))
	}
}

func TestBuildGraph_DeeperPoolWinsDuplicateEdge(t *testing.T) {
	graph := BuildGraph([]poolsDomain.Snapshot{
		graphSnapshot("pool-shallow", "XLM", "USDC", "100"),
		graphSnapshot("pool-deep", "XLM", "USDC", "900"),
	}, graphPrices())

	edge, ok := graph.Edge("XLM", "USDC")
	if !ok {
		t.Fatal("expected XLM->USDC edge")
	}
	if edge.PoolID != "pool-deep" {
		t.Errorf("edge backed by %q, want pool-deep", edge.PoolID)
	}
}

func TestBuildGraph_DuplicateEdgeOrderIndependent(t *testing.T) {
	shallow := graphSnapshot("pool-shallow", "XLM", "USDC", "100")
	deep := graphSnapshot("pool-deep", "XLM", "USDC", "900")

	orderings := [][]poolsDomain.Snapshot{
		{shallow, deep},
		{deep, shallow},
	}
	for _, snaps := range orderings {
		graph := BuildGraph(snaps, graphPrices())
		edge, ok := graph.Edge("XLM", "USDC")
		if !ok {
			t.Fatal("expected XLM->USDC edge")
		}
		if edge.PoolID != "pool-deep" {
			t.Errorf("input order %q first: edge backed by %q, want pool-deep",
				snaps[0].ID, edge.PoolID)
		}
	}
}

func TestPriceGraph_NeighborsSorted(t *testing.T) {
	graph := BuildGraph([]poolsDomain.Snapshot{
		graphSnapshot("pool-1", "XLM", "USDC", "500"),
		graphSnapshot("pool-2", "XLM", "AQUA", "500"),
	}, graphPrices())

	got := graph.Neighbors("XLM")
	if len(got) != 2 || got[0] != "AQUA" || got[1] != "USDC" {
		t.Fatalf("Neighbors(XLM) = %v, want [AQUA USDC]", got)
	}
	if graph.Neighbors("RARE") != nil {
		t.Error("expected nil neighbors for unknown symbol")
	}
}
