// Package httpclient provides an instrumented HTTP client with OTEL tracing and metrics.
package httpclient

import (
	"context"
	"net"
	"net/http"
	"net/http/httptrace"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/httptrace/otelhttptrace"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	// Default connection pool settings
	defaultDialKeepAlive         = 10 * time.Second
	defaultRequestTimeout        = 10 * time.Second
	defaultMaxConnsPerHost       = 5
	defaultIdleConnTimeout       = 2 * time.Minute
	defaultExpectContinueTimeout = 100 * time.Millisecond

	// Metric names
	metricRequestCounter = "http_client_requests_total"
)

// Client is the interface for making HTTP requests.
type Client interface {
	// NewRequest creates a new request builder.
	NewRequest(opts ...RequestOption) Request
	// Do executes a request and returns the response.
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// InstrumentedClient wraps http.Client with OTEL instrumentation.
type InstrumentedClient struct {
	client         *http.Client
	requestCounter metric.Int64Counter
	providerName   string
	tracer         trace.Tracer
	baseURL        string
	defaultHeaders map[string]string
}

// NewInstrumentedClient creates a new instrumented HTTP client.
func NewInstrumentedClient(opts ...ClientOption) (Client, error) {
	options := newClientOptions(opts...)

	httpClient := options.client
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultRequestTimeout}
	}

	if options.roundTripper != nil {
		httpClient.Transport = options.roundTripper
	} else if httpClient.Transport == nil {
		httpClient.Transport = &http.Transport{
			DialContext: (&net.Dialer{
				KeepAlive: defaultDialKeepAlive,
			}).DialContext,
			MaxConnsPerHost:       defaultMaxConnsPerHost,
			IdleConnTimeout:       defaultIdleConnTimeout,
			ExpectContinueTimeout: defaultExpectContinueTimeout,
		}
	}

	if options.requestTimeout != nil {
		httpClient.Timeout = *options.requestTimeout
	}

	// Wrap transport with OTEL instrumentation
	httpClient.Transport = otelhttp.NewTransport(
		httpClient.Transport,
		otelhttp.WithClientTrace(func(ctx context.Context) *httptrace.ClientTrace {
			return otelhttptrace.NewClientTrace(ctx)
		}),
	)

	providerName := options.providerName
	if providerName == "" {
		providerName = "default"
	}

	meter := otel.GetMeterProvider().Meter(
		"instrumented_http_client",
		metric.WithInstrumentationAttributes(attribute.String("provider", providerName)),
	)

	requestCounter, err := meter.Int64Counter(
		metricRequestCounter,
		metric.WithDescription("Total number of HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	tracer := options.tracer
	if tracer == nil {
		tracer = otel.GetTracerProvider().Tracer("instrumented_http_client")
	}

	return &InstrumentedClient{
		client:         httpClient,
		requestCounter: requestCounter,
		providerName:   providerName,
		tracer:         tracer,
		baseURL:        options.baseURL,
		defaultHeaders: copyHeaders(options.headers),
	}, nil
}

// NewRequest creates a new request builder.
func (c *InstrumentedClient) NewRequest(opts ...RequestOption) Request {
	reqOpts := newRequestOptions(opts...)

	return &requestBuilder{
		client:         c.client,
		requestCounter: c.requestCounter,
		providerName:   c.providerName,
		tracer:         c.tracer,
		baseURL:        c.baseURL,
		headers:        copyHeaders(c.defaultHeaders),
		errorHandler:   reqOpts.responseErrorHandler,
		labels:         reqOpts.labels,
	}
}

// Do executes an http.Request directly.
func (c *InstrumentedClient) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	return c.client.Do(req.WithContext(ctx))
}

// copyHeaders creates a copy of a headers map.
func copyHeaders(src map[string]string) map[string]string {
	dst := make(map[string]string, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
