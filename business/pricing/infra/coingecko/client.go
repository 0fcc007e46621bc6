// Package coingecko fetches USD reference quotes from the CoinGecko API.
package coingecko

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"

	"github.com/savexlabs/arb-engine/business/pricing/domain"
	"github.com/savexlabs/arb-engine/internal/apperror"
	"github.com/savexlabs/arb-engine/internal/httpclient"
	"github.com/savexlabs/arb-engine/internal/ratelimit"
)

const (
	sourceName = "coingecko"

	breakerTimeout     = 30 * time.Second
	breakerMinRequests = 5
	breakerFailureRate = 0.6
)

// Config holds the CoinGecko client settings.
type Config struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerMinute int
	CacheMaxAge       time.Duration
}

// Client fetches quotes by symbol. Symbols without a known CoinGecko ID are
// logged and omitted from results. A short-lived in-memory cache absorbs
// repeat lookups within one scan window.
type Client struct {
	http    *httpclient.Client
	breaker *gobreaker.CircuitBreaker[priceResponse]
	limiter *ratelimit.Limiter
	cache   *domain.PriceCache
	baseURL string
	ids     map[string]string
	logger  *slog.Logger
	now     func() time.Time
}

// NewClient creates a CoinGecko client. A nil now defaults to time.Now.
func NewClient(cfg Config, logger *slog.Logger, now func() time.Time) (*Client, error) {
	httpClient, err := httpclient.New(sourceName, cfg.Timeout)
	if err != nil {
		return nil, err
	}
	if now == nil {
		now = time.Now
	}
	if cfg.CacheMaxAge <= 0 {
		cfg.CacheMaxAge = 60 * time.Second
	}

	breaker := gobreaker.NewCircuitBreaker[priceResponse](gobreaker.Settings{
		Name:    sourceName,
		Timeout: breakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRate := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= breakerMinRequests && failureRate >= breakerFailureRate
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	})

	return &Client{
		http:    httpClient,
		breaker: breaker,
		limiter: ratelimit.New(cfg.RequestsPerMinute),
		cache:   domain.NewPriceCache(cfg.CacheMaxAge, now),
		baseURL: cfg.BaseURL,
		ids:     defaultSymbolIDs(),
		logger:  logger,
		now:     now,
	}, nil
}

// FetchQuotes resolves symbols to CoinGecko IDs and fetches their USD quotes
// in one batched call. Cached quotes are served without a network round trip.
func (c *Client) FetchQuotes(ctx context.Context, symbols []string) (domain.PriceSet, error) {
	set := make(domain.PriceSet, len(symbols))

	var ids []string
	idToSymbol := make(map[string]string)
	for _, symbol := range symbols {
		if price, ok := c.cache.Get(symbol); ok {
			set[symbol] = price
			continue
		}
		id, ok := c.ids[strings.ToUpper(symbol)]
		if !ok {
			c.logger.Debug("no quote mapping for symbol", slog.String("symbol", symbol))
			continue
		}
		ids = append(ids, id)
		idToSymbol[id] = strings.ToUpper(symbol)
	}

	if len(ids) == 0 {
		return set, nil
	}

	resp, err := c.fetchSimplePrice(ctx, ids)
	if err != nil {
		return nil, err
	}

	now := c.now()
	for id, entry := range resp {
		symbol, ok := idToSymbol[id]
		if !ok {
			continue
		}
		price := domain.ExternalPrice{
			Symbol:    symbol,
			USD:       entry.USD,
			Volume24h: entry.Volume24h,
			Change24h: entry.Change24h,
			AsOf:      now,
			Source:    sourceName,
		}
		set[symbol] = price
		c.cache.Put(price)
	}

	return set, nil
}

func (c *Client) fetchSimplePrice(ctx context.Context, ids []string) (priceResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("ids", strings.Join(ids, ","))
	query.Set("vs_currencies", "usd")
	query.Set("include_24hr_vol", "true")
	query.Set("include_24hr_change", "true")
	endpoint := c.baseURL + "/simple/price?" + query.Encode()

	resp, err := c.breaker.Execute(func() (priceResponse, error) {
		var resp priceResponse
		if err := c.http.GetJSON(ctx, endpoint, &resp); err != nil {
			return nil, err
		}
		return resp, nil
	})
	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return nil, apperror.External(apperror.CodeCircuitOpen, sourceName, err)
		}
		return nil, apperror.External(apperror.CodePriceFetchFailed, endpoint, err)
	}
	return resp, nil
}

type priceResponse map[string]priceEntry

type priceEntry struct {
	USD       decimal.Decimal `json:"usd"`
	Volume24h decimal.Decimal `json:"usd_24h_vol"`
	Change24h decimal.Decimal `json:"usd_24h_change"`
}

// defaultSymbolIDs maps the token symbols commonly seen in pools to their
// CoinGecko IDs.
func defaultSymbolIDs() map[string]string {
	return map[string]string{
		"XLM":   "stellar",
		"USDC":  "usd-coin",
		"USDT":  "tether",
		"EURC":  "euro-coin",
		"AQUA":  "aquarius",
		"YXLM":  "stellar",
		"BTC":   "bitcoin",
		"ETH":   "ethereum",
		"DAI":   "dai",
		"BUSD":  "binance-usd",
		"SHX":   "stronghold-token",
		"RMT":   "sureremit",
		"LSP":   "lumenswap",
		"MOBI":  "mobius",
		"VELO":  "velo",
		"SLT":   "smartlands",
		"ARST":  "argentine-stable-token",
		"BRLT":  "brazilian-real-token",
		"WXT":   "wirex",
		"DOGET": "dogecoin-token",
	}
}
