// Package webhook publishes appended events by POSTing each batch as JSON to
// a configured URL through the instrumented HTTP client.
package webhook

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/jsamuelsen11/resource-reconciler/internal/adapters/publish"
	"github.com/jsamuelsen11/resource-reconciler/internal/domain/event"
	"github.com/jsamuelsen11/resource-reconciler/internal/ports"
)

// Compile-time interface checks.
var (
	_ ports.EventListener = (*Publisher)(nil)
	_ ports.HealthChecker = (*Publisher)(nil)
)

// maxErrorBody bounds how much of a rejected response is kept for the error.
const maxErrorBody = 512

// Doer executes an outbound request. *httpclient.Client satisfies it.
type Doer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
	HealthCheck(ctx context.Context) error
}

// Publisher delivers each append as one request. The Idempotency-Key header
// is the stream and its last version, so receivers can drop redeliveries.
type Publisher struct {
	client Doer
	url    string
}

// New creates a publisher posting to url.
func New(client Doer, url string) *Publisher {
	return &Publisher{client: client, url: url}
}

// Name identifies the publisher in metrics and readiness reports.
func (p *Publisher) Name() string {
	return "webhook"
}

// Appended implements ports.EventListener.
func (p *Publisher) Appended(ctx context.Context, stream string, events []event.Event) error {
	if len(events) == 0 {
		return nil
	}

	body, err := publish.EncodeBatch(stream, events)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building webhook request: %w", err)
	}
	last := events[len(events)-1].Version
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", stream+"@"+strconv.Itoa(last))

	resp, err := p.client.Do(ctx, req)
	if resp != nil {
		defer func() { _ = resp.Body.Close() }()
	}
	if err != nil {
		return fmt.Errorf("posting %d events from %s: %w", len(events), stream, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("webhook rejected %d events from %s: HTTP %d: %s",
			len(events), stream, resp.StatusCode, bytes.TrimSpace(detail))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// HealthCheck reports the client's circuit breaker state.
func (p *Publisher) HealthCheck(ctx context.Context) error {
	return p.client.HealthCheck(ctx)
}
