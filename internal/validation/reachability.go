package validation

import (
	"context"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DefaultProbeTimeout bounds one reachability check, including the GET retry.
const DefaultProbeTimeout = 5 * time.Second

// Checker decides whether a URL currently answers with a success status.
// Implementations never return errors; any failure means unreachable.
type Checker interface {
	IsReachable(ctx context.Context, rawURL string) bool
}

// CheckerFunc adapts a function to Checker.
type CheckerFunc func(ctx context.Context, rawURL string) bool

func (f CheckerFunc) IsReachable(ctx context.Context, rawURL string) bool { return f(ctx, rawURL) }

// AlwaysReachable accepts every URL. Used for offline sanitisation.
var AlwaysReachable Checker = CheckerFunc(func(context.Context, string) bool { return true })

// HTTPChecker probes URLs with HEAD, retrying once with GET when the server
// answers 405. Redirects are followed.
type HTTPChecker struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
	tracer    trace.Tracer
}

// HTTPCheckerOption configures an HTTPChecker.
type HTTPCheckerOption func(*HTTPChecker)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) HTTPCheckerOption {
	return func(h *HTTPChecker) {
		if c != nil {
			h.client = c
		}
	}
}

// WithProbeTimeout sets the total budget of one check.
func WithProbeTimeout(d time.Duration) HTTPCheckerOption {
	return func(h *HTTPChecker) {
		if d > 0 {
			h.timeout = d
		}
	}
}

// WithUserAgent sets the User-Agent header sent with probes.
func WithUserAgent(ua string) HTTPCheckerOption {
	return func(h *HTTPChecker) { h.userAgent = ua }
}

// NewHTTPChecker returns a checker with a 5 second budget.
func NewHTTPChecker(opts ...HTTPCheckerOption) *HTTPChecker {
	h := &HTTPChecker{
		client:  &http.Client{},
		timeout: DefaultProbeTimeout,
		tracer:  otel.Tracer("learnmap/validation"),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// IsReachable reports whether rawURL answers HEAD (or GET after a 405) with
// a 2xx status within the probe budget.
func (h *HTTPChecker) IsReachable(ctx context.Context, rawURL string) bool {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()
	ctx, span := h.tracer.Start(ctx, "validation.reachability_probe", trace.WithAttributes(attribute.String("url.full", rawURL)))
	defer span.End()

	start := time.Now()
	status, err := h.do(ctx, http.MethodHead, rawURL)
	if err == nil && status == http.StatusMethodNotAllowed {
		span.AddEvent("head_not_allowed")
		status, err = h.do(ctx, http.MethodGet, rawURL)
	}
	ok := err == nil && status >= 200 && status < 300
	recordProbe(ctx, ok, time.Since(start))

	if err != nil {
		span.SetStatus(codes.Error, err.Error())
	}
	span.SetAttributes(attribute.Int("http.response.status_code", status), attribute.Bool("reachable", ok))
	return ok
}

func (h *HTTPChecker) do(ctx context.Context, method, rawURL string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return 0, err
	}
	if h.userAgent != "" {
		req.Header.Set("User-Agent", h.userAgent)
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return 0, err
	}
	// a small drain lets the transport reuse the connection
	_, _ = io.CopyN(io.Discard, resp.Body, 4096)
	_ = resp.Body.Close()
	return resp.StatusCode, nil
}
