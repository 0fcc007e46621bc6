// Package httpclient provides an instrumented HTTP client shared by the
// outbound API adapters.
package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	defaultDialKeepAlive   = 10 * time.Second
	defaultRequestTimeout  = 10 * time.Second
	defaultMaxConnsPerHost = 5
	defaultIdleConnTimeout = 2 * time.Minute

	metricRequestCounter = "http_client_requests_total"
)

// Client is a provider-scoped HTTP client with tracing and a per-provider
// request counter.
type Client struct {
	http           *http.Client
	provider       string
	requestCounter metric.Int64Counter
}

// New creates a Client for one provider. The provider name labels traces and
// metrics. A zero timeout uses the default.
func New(provider string, timeout time.Duration) (*Client, error) {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	transport := &http.Transport{
		DialContext: (&net.Dialer{
			KeepAlive: defaultDialKeepAlive,
		}).DialContext,
		MaxConnsPerHost: defaultMaxConnsPerHost,
		IdleConnTimeout: defaultIdleConnTimeout,
	}

	meter := otel.GetMeterProvider().Meter(
		"httpclient",
		metric.WithInstrumentationAttributes(attribute.String("provider", provider)),
	)
	requestCounter, err := meter.Int64Counter(
		metricRequestCounter,
		metric.WithDescription("Total number of outbound HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	return &Client{
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(transport),
		},
		provider:       provider,
		requestCounter: requestCounter,
	}, nil
}

// GetJSON issues a GET and decodes the JSON response body into out. Non-2xx
// responses are returned as a StatusError.
func (c *Client) GetJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	c.count(ctx, resp, err)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Provider: c.provider, StatusCode: resp.StatusCode, URL: url}
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) count(ctx context.Context, resp *http.Response, err error) {
	status := "error"
	if err == nil && resp != nil {
		status = fmt.Sprintf("%d", resp.StatusCode)
	}
	c.requestCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("provider", c.provider),
		attribute.String("status", status),
	))
}

// StatusError reports a non-2xx response.
type StatusError struct {
	Provider   string
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d for %s", e.Provider, e.StatusCode, e.URL)
}
