// Package domain contains the core domain types for the pricing context.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExternalPrice is a reference quote for one token symbol, sourced off-chain.
type ExternalPrice struct {
	Symbol    string
	USD       decimal.Decimal
	Volume24h decimal.Decimal
	Change24h decimal.Decimal
	AsOf      time.Time
	Source    string
}

// PriceSet maps uppercase token symbols to their latest external quote.
type PriceSet map[string]ExternalPrice

// Get looks up the quote for symbol. Missing symbols are a data-quality
// condition: callers skip the affected pair rather than failing.
func (p PriceSet) Get(symbol string) (ExternalPrice, bool) {
	price, ok := p[symbol]
	return price, ok
}
