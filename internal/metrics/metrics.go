// Package metrics configures the OpenTelemetry meter provider and the
// engine's scan instruments.
package metrics

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.10.0"
)

// NewMeterProvider creates a meter provider backed by the Prometheus
// exporter and installs it globally.
func NewMeterProvider(serviceName string) (*sdkmetric.MeterProvider, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return nil, fmt.Errorf("create prometheus exporter: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
		sdkmetric.WithResource(
			resource.NewSchemaless(semconv.ServiceNameKey.String(serviceName)),
		),
	)
	otel.SetMeterProvider(provider)
	return provider, nil
}

// ServePrometheusMetrics exposes /metrics on the given port. Blocks until
// the listener fails.
func ServePrometheusMetrics(port int, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("serving metrics", slog.Int("port", port))
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("metrics server failed", slog.Any("error", err))
	}
}

// ScanMetrics holds the per-scan instruments. A nil *ScanMetrics is a no-op,
// so callers can run with metrics disabled.
type ScanMetrics struct {
	scans         metric.Int64Counter
	opportunities metric.Int64Counter
	poolsSelected metric.Int64Histogram
}

// NewScanMetrics creates the scan instruments on the global meter provider.
func NewScanMetrics() (*ScanMetrics, error) {
	meter := otel.GetMeterProvider().Meter("arbengine")

	scans, err := meter.Int64Counter(
		"arbengine_scans_total",
		metric.WithDescription("Total number of completed scans"),
	)
	if err != nil {
		return nil, err
	}
	opportunities, err := meter.Int64Counter(
		"arbengine_opportunities_total",
		metric.WithDescription("Total number of detected opportunities"),
	)
	if err != nil {
		return nil, err
	}
	poolsSelected, err := meter.Int64Histogram(
		"arbengine_pools_selected",
		metric.WithDescription("Pools in the coverage set per scan"),
	)
	if err != nil {
		return nil, err
	}

	return &ScanMetrics{
		scans:         scans,
		opportunities: opportunities,
		poolsSelected: poolsSelected,
	}, nil
}

// RecordScan records one completed scan.
func (m *ScanMetrics) RecordScan(ctx context.Context, selected int, success bool) {
	if m == nil {
		return
	}
	m.scans.Add(ctx, 1, metric.WithAttributes(attribute.Bool("success", success)))
	if success {
		m.poolsSelected.Record(ctx, int64(selected))
	}
}

// RecordOpportunity records one detected opportunity.
func (m *ScanMetrics) RecordOpportunity(ctx context.Context, kind, confidence string) {
	if m == nil {
		return
	}
	m.opportunities.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("confidence", confidence),
	))
}
