package domain

import (
	"sort"

	"github.com/shopspring/decimal"

	poolsDomain "github.com/savexlabs/arb-engine/business/pools/domain"
)

// Edge is one tradable direction between two token symbols, backed by a
// liquidity pool. Rate is the pool's reserve ratio, destination reserve over
// source reserve. Cycle evaluation substitutes external cross rates for the
// hops, so Rate reflects on-chain depth rather than the quote set.
type Edge struct {
	Rate        decimal.Decimal
	TotalShares decimal.Decimal
	PoolID      string
}

// PriceGraph is a directed adjacency map over token symbols. Each pool with
// quotes on both legs contributes two edges, one per direction. When two
// pools cover the same symbol pair, the deeper pool wins.
type PriceGraph map[string]map[string]Edge

// BuildGraph assembles the price graph from pool snapshots and external
// quotes. Pools with a missing quote or a non-positive price on either leg
// are skipped silently.
func BuildGraph(snapshots []poolsDomain.Snapshot, prices PriceSet) PriceGraph {
	graph := make(PriceGraph)

	for _, snap := range snapshots {
		if !snap.HasLiquidity() {
			continue
		}
		symA, symB := snap.AssetA.Code, snap.AssetB.Code

		priceA, okA := prices.Get(symA)
		priceB, okB := prices.Get(symB)
		if !okA || !okB {
			continue
		}
		if !priceA.USD.IsPositive() || !priceB.USD.IsPositive() {
			continue
		}

		graph.addEdge(symA, symB, Edge{
			Rate:        snap.ReserveB.Div(snap.ReserveA),
			TotalShares: snap.TotalShares,
			PoolID:      snap.ID,
		})
		graph.addEdge(symB, symA, Edge{
			Rate:        snap.ReserveA.Div(snap.ReserveB),
			TotalShares: snap.TotalShares,
			PoolID:      snap.ID,
		})
	}

	return graph
}

// addEdge inserts an edge, keeping the existing one when it is backed by a
// deeper pool.
func (g PriceGraph) addEdge(from, to string, edge Edge) {
	neighbors, ok := g[from]
	if !ok {
		neighbors = make(map[string]Edge)
		g[from] = neighbors
	}
	if existing, ok := neighbors[to]; ok && existing.TotalShares.GreaterThanOrEqual(edge.TotalShares) {
		return
	}
	neighbors[to] = edge
}

// Neighbors returns the destination symbols reachable from the given symbol,
// sorted for deterministic traversal.
func (g PriceGraph) Neighbors(from string) []string {
	edges, ok := g[from]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(edges))
	for to := range edges {
		out = append(out, to)
	}
	sort.Strings(out)
	return out
}

// Edge returns the edge between two symbols, if present.
func (g PriceGraph) Edge(from, to string) (Edge, bool) {
	edges, ok := g[from]
	if !ok {
		return Edge{}, false
	}
	edge, ok := edges[to]
	return edge, ok
}
