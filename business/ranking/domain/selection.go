package domain

import (
	"time"

	"github.com/savexlabs/arb-engine/internal/apperror"
)

// Caps bounds the selection per category and globally.
type Caps struct {
	Major      int
	Stablecoin int
	Defi       int
	Longtail   int
	Global     int
}

// DefaultCaps returns the default coverage-set bounds.
func DefaultCaps() Caps {
	return Caps{
		Major:      50,
		Stablecoin: 100,
		Defi:       200,
		Longtail:   150,
		Global:     500,
	}
}

// ForCategory returns the cap configured for the given category.
func (c Caps) ForCategory(cat Category) int {
	switch cat {
	case CategoryMajor:
		return c.Major
	case CategoryStablecoin:
		return c.Stablecoin
	case CategoryDefi:
		return c.Defi
	case CategoryLongtail:
		return c.Longtail
	default:
		return 0
	}
}

// Validate fails with CodeInvalidCaps when any cap is negative.
func (c Caps) Validate() error {
	if c.Major < 0 || c.Stablecoin < 0 || c.Defi < 0 || c.Longtail < 0 || c.Global < 0 {
		return apperror.Validation(apperror.CodeInvalidCaps, "caps must be non-negative")
	}
	return nil
}

// SelectionResult is the pool coverage set for one batch. The ordering of
// Selected is significant: category blocks in precedence order, then
// score-sorted backfill.
type SelectionResult struct {
	Selected         []Score
	CountsByCategory map[Category]int
	GeneratedAt      time.Time
}
