// Package postgres persists detected opportunities in PostgreSQL.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/savexlabs/arb-engine/business/arbitrage/domain"
	"github.com/savexlabs/arb-engine/internal/apperror"
)

// Store writes opportunity reports using batched inserts.
type Store struct {
	pool *pgxpool.Pool
}

// New connects to the database and ensures the schema exists.
func New(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	store := &Store{pool: pool}
	if err := store.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return store, nil
}

// Close releases the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS opportunities (
	id               BIGSERIAL PRIMARY KEY,
	kind             TEXT        NOT NULL,
	route            TEXT        NOT NULL,
	profit_percent   NUMERIC     NOT NULL,
	estimated_profit NUMERIC     NOT NULL,
	mainnet_price    NUMERIC,
	external_price   NUMERIC,
	pool_or_path_id  TEXT        NOT NULL,
	confidence       TEXT        NOT NULL,
	computed_at      TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_opportunities_computed_at ON opportunities (computed_at);
CREATE INDEX IF NOT EXISTS idx_opportunities_confidence ON opportunities (confidence);`

	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// SaveReport inserts all opportunities from one report in a single batch.
func (s *Store) SaveReport(ctx context.Context, report *domain.Report) error {
	if len(report.Opportunities) == 0 {
		return nil
	}

	const insert = `
INSERT INTO opportunities
	(kind, route, profit_percent, estimated_profit, mainnet_price, external_price, pool_or_path_id, confidence, computed_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	batch := &pgx.Batch{}
	for _, opp := range report.Opportunities {
		batch.Queue(insert,
			string(opp.Kind),
			opp.PairName(),
			opp.ProfitPercent,
			opp.EstimatedProfit,
			opp.MainnetPrice,
			opp.ExternalPrice,
			opp.PoolOrPathID,
			string(opp.Confidence),
			opp.ComputedAt,
		)
	}

	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range report.Opportunities {
		if _, err := results.Exec(); err != nil {
			return apperror.External(apperror.CodeStoreWriteFailed, "postgres", err)
		}
	}
	return nil
}
