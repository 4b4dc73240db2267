package httpclient

import (
	"net/http"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// ClientOptions holds configuration for the instrumented HTTP client.
type ClientOptions struct {
	client         *http.Client
	providerName   string
	roundTripper   http.RoundTripper
	requestTimeout *time.Duration
	headers        map[string]string
	baseURL        string
	tracer         trace.Tracer
}

// ClientOption is a function that configures ClientOptions.
type ClientOption func(*ClientOptions)

func newClientOptions(opts ...ClientOption) *ClientOptions {
	options := &ClientOptions{}
	for _, o := range opts {
		o(options)
	}
	return options
}

// WithHTTPClient sets a pre-built http.Client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(o *ClientOptions) {
		o.client = c
	}
}

// WithProviderName sets the provider name for metrics and traces.
func WithProviderName(name string) ClientOption {
	return func(o *ClientOptions) {
		o.providerName = name
	}
}

// WithRoundTripper sets a custom HTTP transport.
func WithRoundTripper(rt http.RoundTripper) ClientOption {
	return func(o *ClientOptions) {
		o.roundTripper = rt
	}
}

// WithRequestTimeout sets the request timeout.
func WithRequestTimeout(timeout time.Duration) ClientOption {
	return func(o *ClientOptions) {
		o.requestTimeout = &timeout
	}
}

// WithHeaders sets default headers for all requests.
func WithHeaders(headers map[string]string) ClientOption {
	return func(o *ClientOptions) {
		o.headers = headers
	}
}

// WithBaseURL sets the base URL for all requests.
func WithBaseURL(url string) ClientOption {
	return func(o *ClientOptions) {
		o.baseURL = url
	}
}

// WithTracer sets a custom tracer.
func WithTracer(tracer trace.Tracer) ClientOption {
	return func(o *ClientOptions) {
		o.tracer = tracer
	}
}

// RequestOptions holds per-request configuration.
type RequestOptions struct {
	responseErrorHandler ResponseErrorHandler
	labels               []*Label
}

// RequestOption configures a single request.
type RequestOption func(*RequestOptions)

func newRequestOptions(opts ...RequestOption) *RequestOptions {
	options := &RequestOptions{}
	for _, o := range opts {
		o(options)
	}
	return options
}

// ResponseErrorHandler is a function that determines if a response is an error.
type ResponseErrorHandler func(statusCode int, body []byte) error

// WithResponseErrorHandler sets a custom error handler for responses.
func WithResponseErrorHandler(handler ResponseErrorHandler) RequestOption {
	return func(o *RequestOptions) {
		o.responseErrorHandler = handler
	}
}

// Label is a key-value pair for metrics/traces.
type Label struct {
	Key   string
	Value string
}

// NewLabel creates a new label.
func NewLabel(key, value string) *Label {
	return &Label{Key: key, Value: value}
}

// WithLabels sets labels for the request.
func WithLabels(labels ...*Label) RequestOption {
	return func(o *RequestOptions) {
		o.labels = labels
	}
}
