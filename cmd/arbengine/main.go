// Package main is the entry point for the pool-ranking arbitrage engine.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	arbitrageApp "github.com/savexlabs/arb-engine/business/arbitrage/app"
	arbitrageInfra "github.com/savexlabs/arb-engine/business/arbitrage/infra"
	"github.com/savexlabs/arb-engine/business/arbitrage/infra/postgres"
	"github.com/savexlabs/arb-engine/business/pools/infra/horizon"
	pricingApp "github.com/savexlabs/arb-engine/business/pricing/app"
	"github.com/savexlabs/arb-engine/business/pricing/infra/coingecko"
	"github.com/savexlabs/arb-engine/business/pricing/infra/rediscache"
	rankingApp "github.com/savexlabs/arb-engine/business/ranking/app"
	"github.com/savexlabs/arb-engine/internal/apm"
	"github.com/savexlabs/arb-engine/internal/asset"
	"github.com/savexlabs/arb-engine/internal/config"
	"github.com/savexlabs/arb-engine/internal/health"
	"github.com/savexlabs/arb-engine/internal/logger"
	"github.com/savexlabs/arb-engine/internal/metrics"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	configPath := flag.String("config", "", "Path to configuration file")
	once := flag.Bool("once", false, "Run a single scan and exit")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("arb-engine %s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Fprintf(os.Stderr, "received shutdown signal: %v\n", sig)
		cancel()
	}()

	if err := run(ctx, *configPath, *once); err != nil && err != context.Canceled {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string, once bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(logger.Options{
		Level:       cfg.App.LogLevel,
		Environment: cfg.App.Environment,
		File:        cfg.App.LogFile,
	})
	log.Info("starting arb-engine",
		"version", version,
		"environment", cfg.App.Environment,
	)

	traceProvider := apm.NewEmptyTraceProvider()
	var scanMetrics *metrics.ScanMetrics
	if cfg.Telemetry.Enabled {
		traceProvider, err = apm.NewTraceProvider(cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPEndpoint, log)
		if err != nil {
			return fmt.Errorf("failed to init tracing: %w", err)
		}

		if _, err := metrics.NewMeterProvider(cfg.Telemetry.ServiceName); err != nil {
			return fmt.Errorf("failed to init metrics: %w", err)
		}
		scanMetrics, err = metrics.NewScanMetrics()
		if err != nil {
			return fmt.Errorf("failed to create scan metrics: %w", err)
		}
		go metrics.ServePrometheusMetrics(cfg.Telemetry.PrometheusPort, log)
	}
	defer traceProvider.Stop()

	healthServer := health.NewServer(8081, version)
	if err := healthServer.Start(); err != nil {
		log.Warn("failed to start health server", "error", err)
	}
	defer healthServer.Stop(ctx)

	// Pool source
	poolSource, err := horizon.NewClient(horizon.Config{
		BaseURL:           cfg.Horizon.BaseURL,
		Timeout:           cfg.Horizon.Timeout,
		RequestsPerMinute: cfg.Horizon.RequestsPerMinute,
	}, log)
	if err != nil {
		return fmt.Errorf("failed to create horizon client: %w", err)
	}
	healthServer.RegisterCheck("horizon", func(ctx context.Context) (bool, string) {
		client := &http.Client{Timeout: 5 * time.Second}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, cfg.Horizon.BaseURL, nil)
		if err != nil {
			return false, err.Error()
		}
		resp, err := client.Do(req)
		if err != nil {
			return false, err.Error()
		}
		resp.Body.Close()
		if resp.StatusCode >= 500 {
			return false, resp.Status
		}
		return true, ""
	})

	// Price source, optionally backed by a shared Redis cache
	quoteProvider, err := coingecko.NewClient(coingecko.Config{
		BaseURL:           cfg.Coingecko.BaseURL,
		Timeout:           cfg.Coingecko.Timeout,
		RequestsPerMinute: cfg.Coingecko.RequestsPerMinute,
		CacheMaxAge:       cfg.Coingecko.CacheMaxAge,
	}, log, nil)
	if err != nil {
		return fmt.Errorf("failed to create coingecko client: %w", err)
	}

	var quoteCache pricingApp.QuoteCache
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr: cfg.Redis.Addr,
			DB:   cfg.Redis.DB,
		})
		defer redisClient.Close()
		healthServer.RegisterCheck("redis", func(ctx context.Context) (bool, string) {
			if err := redisClient.Ping(ctx).Err(); err != nil {
				return false, err.Error()
			}
			return true, ""
		})
		quoteCache = rediscache.New(redisClient, cfg.Redis.TTL)
	}
	priceSource := pricingApp.NewPricingService(quoteProvider, quoteCache, log)

	// Opportunity store: postgres when configured, JSONL file otherwise
	var store arbitrageApp.OpportunityStore
	switch {
	case cfg.Postgres.Enabled:
		pgStore, err := postgres.New(ctx, cfg.Postgres.DSN)
		if err != nil {
			return fmt.Errorf("failed to create postgres store: %w", err)
		}
		defer pgStore.Close()
		store = pgStore
	case cfg.Storage.Enabled:
		fileStore, err := arbitrageInfra.NewFileStore(cfg.Storage.Path)
		if err != nil {
			return fmt.Errorf("failed to create file store: %w", err)
		}
		store = fileStore
	}

	scorerConfig := rankingApp.ScorerConfig{
		MajorIssuers:        asset.DefaultMajorIssuers(),
		StablecoinKeywords:  asset.DefaultStablecoinKeywords(),
		PopularityThreshold: cfg.Selection.PopularityThreshold,
	}

	detector := arbitrageApp.NewDetector(
		poolSource,
		priceSource,
		rankingApp.NewSelector(scorerConfig, log, nil),
		arbitrageApp.NewEngine(log, nil),
		arbitrageInfra.NewConsoleReporter(),
		store,
		scanMetrics,
		arbitrageApp.DetectorConfig{
			BaseSymbol:      cfg.Arbitrage.BaseSymbol,
			ProfitThreshold: cfg.Arbitrage.MinProfitPercentDecimal(),
			FetchLimit:      cfg.Arbitrage.FetchLimit,
			ScanInterval:    cfg.Arbitrage.ScanInterval,
			Caps:            cfg.Selection.Caps(),
		},
		log,
	)

	if once {
		return detector.Scan(ctx)
	}
	return detector.Run(ctx)
}
