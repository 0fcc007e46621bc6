// Package domain contains the core domain types for the arbitrage context.
package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Kind distinguishes the two opportunity shapes the engine emits.
type Kind string

const (
	KindDirect     Kind = "direct"
	KindTriangular Kind = "triangular"
)

// Confidence is a coarse quality grade assigned at detection time.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Opportunity is one detected price discrepancy. Direct opportunities have
// two participants and a pool ID; triangular ones have four participants
// (the cycle, base symbol repeated at the end) and a path ID.
type Opportunity struct {
	Kind            Kind
	Participants    []string
	ProfitPercent   decimal.Decimal
	EstimatedProfit decimal.Decimal
	MainnetPrice    decimal.Decimal
	ExternalPrice   decimal.Decimal
	PoolOrPathID    string
	Confidence      Confidence
	ComputedAt      time.Time
}

// PairName renders the participants as a human-readable route.
func (o Opportunity) PairName() string {
	if o.Kind == KindTriangular {
		return strings.Join(o.Participants, ">")
	}
	return strings.Join(o.Participants, "/")
}

// Report is the outcome of one detection run: all opportunities above the
// caller's threshold, ranked by profit percent descending.
type Report struct {
	Opportunities []Opportunity
	Counts        map[Confidence]int
	ScannedPools  int
	GeneratedAt   time.Time
}

// CountByConfidence tallies opportunities per confidence grade.
func CountByConfidence(opps []Opportunity) map[Confidence]int {
	counts := make(map[Confidence]int, 3)
	for _, opp := range opps {
		counts[opp.Confidence]++
	}
	return counts
}
