// Package app contains application services and port definitions for the pricing context.
package app

import (
	"context"

	"github.com/savexlabs/arb-engine/business/pricing/domain"
)

// QuoteProvider fetches external USD quotes for token symbols.
type QuoteProvider interface {
	FetchQuotes(ctx context.Context, symbols []string) (domain.PriceSet, error)
}

// QuoteCache is a shared quote cache, backed by memory or Redis.
type QuoteCache interface {
	Get(ctx context.Context, symbol string) (domain.ExternalPrice, bool, error)
	Put(ctx context.Context, price domain.ExternalPrice) error
}
