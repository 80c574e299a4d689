// Package httpclient wraps net/http for outbound deliveries. Each call passes
// through a circuit breaker and an optional rate limiter. It then gets the
// inbound request and correlation IDs as headers and a client span, and is
// retried with jittered backoff on transient failures.
//
//	client := httpclient.New(&cfg.Webhook.Client, "webhook", metrics, logger)
//	resp, err := client.Do(ctx, req)
package httpclient

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/jsamuelsen11/resource-reconciler/internal/platform/backoff"
	"github.com/jsamuelsen11/resource-reconciler/internal/platform/config"
	"github.com/jsamuelsen11/resource-reconciler/internal/platform/telemetry"
)

const (
	headerRequestID     = "X-Request-ID"
	headerCorrelationID = "X-Correlation-ID"
)

type metadataKey struct{}

// metadata carries inbound request identifiers to outbound calls.
type metadata struct {
	requestID     string
	correlationID string
}

func metadataFrom(ctx context.Context) metadata {
	md, _ := ctx.Value(metadataKey{}).(metadata)
	return md
}

// WithRequestID stores the inbound request ID for outbound propagation.
func WithRequestID(ctx context.Context, id string) context.Context {
	md := metadataFrom(ctx)
	md.requestID = id
	return context.WithValue(ctx, metadataKey{}, md)
}

// WithCorrelationID stores the correlation ID for outbound propagation.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	md := metadataFrom(ctx)
	md.correlationID = id
	return context.WithValue(ctx, metadataKey{}, md)
}

// Client is safe for concurrent use.
type Client struct {
	http    *http.Client
	peer    string
	breaker *gobreaker.CircuitBreaker[struct{}]
	limiter *rate.Limiter // nil disables limiting
	retry   retryPolicy
	metrics *telemetry.Metrics
	logger  *slog.Logger
}

type retryPolicy struct {
	attempts int
	backoff  backoff.Policy
}

// New builds a client for the downstream named peer. The name labels spans,
// metrics, breaker logs and readiness reports. metrics may be nil.
func New(cfg *config.ClientConfig, peer string, metrics *telemetry.Metrics, logger *slog.Logger) *Client {
	c := &Client{
		http: &http.Client{Timeout: cfg.Timeout},
		peer: peer,
		retry: retryPolicy{
			attempts: cfg.Retry.MaxAttempts,
			backoff: backoff.Policy{
				Initial:    cfg.Retry.InitialInterval,
				Max:        cfg.Retry.MaxInterval,
				Multiplier: cfg.Retry.Multiplier,
			},
		},
		metrics: metrics,
		logger:  logger,
	}

	c.breaker = gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        peer,
		MaxRequests: toUint32(cfg.CircuitBreaker.HalfOpenLimit),
		Timeout:     cfg.CircuitBreaker.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return int(counts.ConsecutiveFailures) >= cfg.CircuitBreaker.MaxFailures
		},
		OnStateChange: c.logStateChange,
	})

	if rps := cfg.RateLimit.RequestsPerSecond; rps > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(rps), max(cfg.RateLimit.BurstSize, 1))
	}
	return c
}

// Do sends req. A response with a non-retryable status is returned with a nil
// error. When every attempt ends in a retryable status, the last response is
// returned together with an error. Either way the caller closes the body. A
// rejected circuit, a limiter refusal or a transport failure yields a nil
// response.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	start := time.Now()

	var resp *http.Response
	_, err := c.breaker.Execute(func() (struct{}, error) {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return struct{}{}, fmt.Errorf("%s: rate limited: %w", c.peer, err)
			}
		}

		md := metadataFrom(ctx)
		if md.requestID != "" {
			req.Header.Set(headerRequestID, md.requestID)
		}
		if md.correlationID != "" {
			req.Header.Set(headerCorrelationID, md.correlationID)
		}

		spanCtx, span := c.startSpan(ctx, req)
		defer span.End()
		req = req.WithContext(spanCtx)

		err := c.doWithRetry(spanCtx, req, &resp)
		if resp != nil {
			span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		return struct{}{}, err
	})

	c.record(ctx, req.Method, time.Since(start), resp, err)
	return resp, err
}

// Name returns the peer name.
func (c *Client) Name() string {
	return c.peer
}

// HealthCheck reports the breaker state without calling the peer. A closed
// breaker is healthy. Half-open and open both fail the check.
func (c *Client) HealthCheck(_ context.Context) error {
	switch state := c.breaker.State(); state {
	case gobreaker.StateClosed:
		return nil
	case gobreaker.StateHalfOpen:
		return fmt.Errorf("%s: degraded (circuit breaker half-open)", c.peer)
	case gobreaker.StateOpen:
		return fmt.Errorf("%s: failing (circuit breaker open)", c.peer)
	default:
		return fmt.Errorf("%s: circuit breaker in unknown state %v", c.peer, state)
	}
}

func (c *Client) logStateChange(name string, from, to gobreaker.State) {
	c.logger.Warn("circuit breaker state change",
		slog.String("breaker", name),
		slog.String("from", from.String()),
		slog.String("to", to.String()),
	)
}

// startSpan opens a client span and writes W3C trace context into req.
func (c *Client) startSpan(ctx context.Context, req *http.Request) (context.Context, trace.Span) {
	ctx, span := otel.GetTracerProvider().Tracer("httpclient").Start(ctx,
		"HTTP "+req.Method+" "+c.peer,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", req.Method),
			attribute.String("http.url", req.URL.Redacted()),
			attribute.String("peer.service", c.peer),
		),
	)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))
	return ctx, span
}

// record runs outside the breaker so rejected calls are counted too.
func (c *Client) record(ctx context.Context, method string, elapsed time.Duration, resp *http.Response, err error) {
	if c.metrics == nil {
		return
	}

	status, result := 0, "error"
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		result = "circuit_open"
	case resp != nil:
		status = resp.StatusCode
		if status < http.StatusBadRequest {
			result = "success"
		}
	}

	attrs := metric.WithAttributes(
		telemetry.AttrHTTPMethod.String(method),
		telemetry.AttrHTTPStatus.Int(status),
		telemetry.AttrPeerService.String(c.peer),
		telemetry.AttrResult.String(result),
	)
	c.metrics.ClientRequestDuration.Record(ctx, elapsed.Seconds(), attrs)
	c.metrics.ClientRequestTotal.Add(ctx, 1, attrs)
}

// toUint32 clamps v into the uint32 range.
func toUint32(v int) uint32 {
	switch {
	case v <= 0:
		return 0
	case v > math.MaxUint32:
		return math.MaxUint32
	default:
		return uint32(v)
	}
}
