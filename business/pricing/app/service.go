package app

import (
	"context"
	"log/slog"

	"github.com/savexlabs/arb-engine/business/pricing/domain"
)

// PricingService serves quotes cache-first and falls back to the provider for
// misses. Symbols the provider cannot quote are simply absent from the
// result; downstream detection skips the affected pairs.
type PricingService struct {
	provider QuoteProvider
	cache    QuoteCache
	logger   *slog.Logger
}

// NewPricingService creates a PricingService. The cache may be nil to always
// hit the provider.
func NewPricingService(provider QuoteProvider, cache QuoteCache, logger *slog.Logger) *PricingService {
	return &PricingService{provider: provider, cache: cache, logger: logger}
}

// FetchPrices returns quotes for the given symbols, consulting the cache
// before the provider and writing fresh quotes back through it.
func (s *PricingService) FetchPrices(ctx context.Context, symbols []string) (domain.PriceSet, error) {
	set := make(domain.PriceSet, len(symbols))

	missing := symbols
	if s.cache != nil {
		missing = make([]string, 0, len(symbols))
		for _, symbol := range symbols {
			price, ok, err := s.cache.Get(ctx, symbol)
			if err != nil {
				s.logger.Warn("quote cache read failed",
					slog.String("symbol", symbol),
					slog.Any("error", err),
				)
				missing = append(missing, symbol)
				continue
			}
			if ok {
				set[symbol] = price
				continue
			}
			missing = append(missing, symbol)
		}
	}

	if len(missing) == 0 {
		return set, nil
	}

	fetched, err := s.provider.FetchQuotes(ctx, missing)
	if err != nil {
		return nil, err
	}

	for symbol, price := range fetched {
		set[symbol] = price
		if s.cache == nil {
			continue
		}
		if err := s.cache.Put(ctx, price); err != nil {
			s.logger.Warn("quote cache write failed",
				slog.String("symbol", symbol),
				slog.Any("error", err),
			)
		}
	}

	return set, nil
}
