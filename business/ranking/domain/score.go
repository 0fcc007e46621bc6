// Package domain contains the core domain types for the ranking context.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category is the tier a scored pool belongs to.
type Category string

const (
	CategoryMajor      Category = "major"
	CategoryStablecoin Category = "stablecoin"
	CategoryDefi       Category = "defi"
	CategoryLongtail   Category = "longtail"
)

// Categories lists all categories in selection precedence order.
var Categories = []Category{CategoryMajor, CategoryStablecoin, CategoryDefi, CategoryLongtail}

// Score is the derived rating for one pool snapshot. Created by the scorer,
// consumed by the selector, never mutated after creation.
//
// TotalScore is exactly LiquidityScore + PopularityScore + ActivityScore and
// lies in [0, 1] since each term is individually bounded and non-negative.
type Score struct {
	PoolID          string
	PairName        string
	Category        Category
	LiquidityScore  decimal.Decimal
	PopularityScore decimal.Decimal
	ActivityScore   decimal.Decimal
	TotalScore      decimal.Decimal

	// Carried pool metadata, used downstream for persistence and reporting.
	TotalShares  decimal.Decimal
	LastModified time.Time
}
