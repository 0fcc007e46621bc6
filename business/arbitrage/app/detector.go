package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	poolsDomain "github.com/savexlabs/arb-engine/business/pools/domain"
	rankingApp "github.com/savexlabs/arb-engine/business/ranking/app"
	rankingDomain "github.com/savexlabs/arb-engine/business/ranking/domain"
	"github.com/savexlabs/arb-engine/internal/apm"
	"github.com/savexlabs/arb-engine/internal/metrics"
)

// DetectorConfig holds configuration for one detection cycle.
type DetectorConfig struct {
	BaseSymbol      string
	ProfitThreshold decimal.Decimal
	FetchLimit      int
	ScanInterval    time.Duration
	Caps            rankingDomain.Caps
}

// Detector orchestrates the scan loop: fetch pools, build the coverage set,
// fetch quotes, detect, report, persist.
type Detector struct {
	pools    PoolSource
	prices   PriceSource
	selector *rankingApp.Selector
	engine   *Engine
	reporter Reporter
	store    OpportunityStore
	metrics  *metrics.ScanMetrics
	tracer   apm.Tracer
	config   DetectorConfig
	logger   *slog.Logger
}

// NewDetector creates a Detector. The store and metrics may be nil when
// persistence or telemetry is disabled.
func NewDetector(
	pools PoolSource,
	prices PriceSource,
	selector *rankingApp.Selector,
	engine *Engine,
	reporter Reporter,
	store OpportunityStore,
	scanMetrics *metrics.ScanMetrics,
	config DetectorConfig,
	logger *slog.Logger,
) *Detector {
	return &Detector{
		pools:    pools,
		prices:   prices,
		selector: selector,
		engine:   engine,
		reporter: reporter,
		store:    store,
		metrics:  scanMetrics,
		tracer:   apm.NewTracer("arbengine.detector"),
		config:   config,
		logger:   logger,
	}
}

// Run executes scans on the configured interval until the context is
// cancelled. A failed scan is logged and the loop continues.
func (d *Detector) Run(ctx context.Context) error {
	d.logger.Info("starting detector loop",
		slog.String("base", d.config.BaseSymbol),
		slog.Duration("interval", d.config.ScanInterval),
	)

	ticker := time.NewTicker(d.config.ScanInterval)
	defer ticker.Stop()

	for {
		if err := d.Scan(ctx); err != nil {
			d.logger.Error("scan failed", slog.Any("error", err))
		}
		select {
		case <-ctx.Done():
			d.logger.Info("detector stopping", slog.Any("reason", ctx.Err()))
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Scan runs one full detection cycle.
func (d *Detector) Scan(ctx context.Context) (err error) {
	ctx, span := d.tracer.StartSpanFromContext(ctx, "detector.scan")
	selectedCount := 0
	defer func() {
		if err != nil {
			span.NoticeError(err)
		}
		span.End()
		d.metrics.RecordScan(ctx, selectedCount, err == nil)
	}()

	snapshots, err := d.pools.FetchPools(ctx, d.config.FetchLimit)
	if err != nil {
		return err
	}

	tokenStats := poolsDomain.DeriveTokenStats(snapshots)
	selection, err := d.selector.SelectPools(ctx, snapshots, tokenStats, d.config.Caps)
	if err != nil {
		return err
	}

	selected := selectedSnapshots(snapshots, selection)
	selectedCount = len(selected)
	symbols := distinctSymbols(selected)

	prices, err := d.prices.FetchPrices(ctx, symbols)
	if err != nil {
		return err
	}

	report, err := d.engine.DetectOpportunities(selected, prices, d.config.BaseSymbol, d.config.ProfitThreshold)
	if err != nil {
		return err
	}

	for _, opp := range report.Opportunities {
		d.metrics.RecordOpportunity(ctx, string(opp.Kind), string(opp.Confidence))
	}

	d.reporter.Report(report, selection)

	if d.store != nil {
		if ss, ok := d.store.(SelectionStore); ok {
			if err := ss.SaveSelection(ctx, selection); err != nil {
				d.logger.Warn("failed to persist selection", slog.Any("error", err))
			}
		}
		if len(report.Opportunities) > 0 {
			if err := d.store.SaveReport(ctx, report); err != nil {
				d.logger.Warn("failed to persist report", slog.Any("error", err))
			}
		}
	}

	d.logger.Info("scan complete",
		slog.Int("pools", len(snapshots)),
		slog.Int("selected", len(selection.Selected)),
		slog.Int("opportunities", len(report.Opportunities)),
	)
	return nil
}

// selectedSnapshots maps the coverage set back to its snapshots, keeping
// selection order.
func selectedSnapshots(snapshots []poolsDomain.Snapshot, selection *rankingDomain.SelectionResult) []poolsDomain.Snapshot {
	byID := make(map[string]poolsDomain.Snapshot, len(snapshots))
	for _, snap := range snapshots {
		byID[snap.ID] = snap
	}

	out := make([]poolsDomain.Snapshot, 0, len(selection.Selected))
	for _, score := range selection.Selected {
		if snap, ok := byID[score.PoolID]; ok {
			out = append(out, snap)
		}
	}
	return out
}

// distinctSymbols collects the unique token codes across the given pools,
// preserving first-seen order.
func distinctSymbols(snapshots []poolsDomain.Snapshot) []string {
	seen := make(map[string]bool)
	var symbols []string
	for _, snap := range snapshots {
		for _, code := range []string{snap.AssetA.Code, snap.AssetB.Code} {
			if code != "" && !seen[code] {
				seen[code] = true
				symbols = append(symbols, code)
			}
		}
	}
	return symbols
}
