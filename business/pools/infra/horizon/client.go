// Package horizon fetches liquidity pool snapshots from a Horizon API server.
package horizon

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"

	"github.com/savexlabs/arb-engine/business/pools/domain"
	"github.com/savexlabs/arb-engine/internal/apperror"
	"github.com/savexlabs/arb-engine/internal/asset"
	"github.com/savexlabs/arb-engine/internal/httpclient"
	"github.com/savexlabs/arb-engine/internal/ratelimit"
)

const (
	pageLimit = 200

	breakerMaxRequests = 3
	breakerInterval    = time.Minute
	breakerTimeout     = 30 * time.Second
	breakerMinRequests = 5
	breakerFailureRate = 0.6
)

// Config holds the Horizon client settings.
type Config struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerMinute int
}

// Client fetches liquidity pools, rate limited and behind a circuit breaker.
type Client struct {
	http    *httpclient.Client
	breaker *gobreaker.CircuitBreaker[poolsPage]
	limiter *ratelimit.Limiter
	baseURL string
	logger  *slog.Logger
}

// NewClient creates a Horizon client.
func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	httpClient, err := httpclient.New("horizon", cfg.Timeout)
	if err != nil {
		return nil, err
	}

	breaker := gobreaker.NewCircuitBreaker[poolsPage](gobreaker.Settings{
		Name:        "horizon",
		MaxRequests: breakerMaxRequests,
		Interval:    breakerInterval,
		Timeout:     breakerTimeout,
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
		baseURL: cfg.BaseURL,
		logger:  logger,
	}, nil
}

// FetchPools pages through the liquidity pool listing until limit snapshots
// are collected or the listing ends. Records that fail to decode are skipped
// with a warning.
func (c *Client) FetchPools(ctx context.Context, limit int) ([]domain.Snapshot, error) {
	var (
		snapshots []domain.Snapshot
		cursor    string
	)

	for len(snapshots) < limit {
		page, err := c.fetchPage(ctx, cursor)
		if err != nil {
			return nil, err
		}
		if len(page.Embedded.Records) == 0 {
			break
		}

		for _, record := range page.Embedded.Records {
			snap, err := record.toSnapshot()
			if err != nil {
				c.logger.Warn("skipping undecodable pool record",
					slog.String("pool_id", record.ID),
					slog.Any("error", err),
				)
				continue
			}
			snapshots = append(snapshots, snap)
			if len(snapshots) == limit {
				break
			}
		}

		cursor = page.Embedded.Records[len(page.Embedded.Records)-1].PagingToken
	}

	return snapshots, nil
}

func (c *Client) fetchPage(ctx context.Context, cursor string) (poolsPage, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return poolsPage{}, err
	}

	query := url.Values{}
	query.Set("limit", fmt.Sprintf("%d", pageLimit))
	query.Set("order", "desc")
	if cursor != "" {
		query.Set("cursor", cursor)
	}
	endpoint := c.baseURL + "/liquidity_pools?" + query.Encode()

	page, err := c.breaker.Execute(func() (poolsPage, error) {
		var page poolsPage
		if err := c.http.GetJSON(ctx, endpoint, &page); err != nil {
			return poolsPage{}, err
		}
		return page, nil
	})
	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return poolsPage{}, apperror.External(apperror.CodeCircuitOpen, "horizon", err)
		}
		return poolsPage{}, apperror.External(apperror.CodePoolFetchFailed, endpoint, err)
	}
	return page, nil
}

// Wire types for the Horizon liquidity pool listing.

type poolsPage struct {
	Embedded struct {
		Records []poolRecord `json:"records"`
	} `json:"_embedded"`
}

type poolRecord struct {
	ID               string        `json:"id"`
	PagingToken      string        `json:"paging_token"`
	TotalShares      string        `json:"total_shares"`
	Reserves         []poolReserve `json:"reserves"`
	LastModifiedTime time.Time     `json:"last_modified_time"`
}

type poolReserve struct {
	Asset  string `json:"asset"`
	Amount string `json:"amount"`
}

func (r poolRecord) toSnapshot() (domain.Snapshot, error) {
	if len(r.Reserves) != 2 {
		return domain.Snapshot{}, apperror.New(apperror.CodePoolDecodeFailed,
			apperror.WithContext(fmt.Sprintf("pool %s has %d reserves, want 2", r.ID, len(r.Reserves))))
	}

	assetA, err := asset.Parse(r.Reserves[0].Asset)
	if err != nil {
		return domain.Snapshot{}, err
	}
	assetB, err := asset.Parse(r.Reserves[1].Asset)
	if err != nil {
		return domain.Snapshot{}, err
	}

	reserveA, err := decimal.NewFromString(r.Reserves[0].Amount)
	if err != nil {
		return domain.Snapshot{}, apperror.External(apperror.CodePoolDecodeFailed, r.ID, err)
	}
	reserveB, err := decimal.NewFromString(r.Reserves[1].Amount)
	if err != nil {
		return domain.Snapshot{}, apperror.External(apperror.CodePoolDecodeFailed, r.ID, err)
	}
	totalShares, err := decimal.NewFromString(r.TotalShares)
	if err != nil {
		return domain.Snapshot{}, apperror.External(apperror.CodePoolDecodeFailed, r.ID, err)
	}

	return domain.Snapshot{
		ID:           r.ID,
		AssetA:       assetA,
		AssetB:       assetB,
		ReserveA:     reserveA,
		ReserveB:     reserveB,
		TotalShares:  totalShares,
		LastModified: r.LastModifiedTime,
	}, nil
}
