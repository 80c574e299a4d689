package httpclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/jsamuelsen11/resource-reconciler/internal/platform/logging"
)

// doWithRetry sends req up to the configured number of attempts. The body is
// buffered once and replayed per attempt. The final response is written to
// resp; the caller closes it.
func (c *Client) doWithRetry(ctx context.Context, req *http.Request, resp **http.Response) error {
	if c.retry.attempts < 1 {
		return fmt.Errorf("httpclient: retry attempts must be >= 1, got %d", c.retry.attempts)
	}

	var body []byte
	if req.Body != nil && req.Body != http.NoBody {
		b, err := io.ReadAll(req.Body)
		_ = req.Body.Close()
		if err != nil {
			return fmt.Errorf("buffering %s request body: %w", c.peer, err)
		}
		body = b
	}

	var lastErr error
	for attempt := range c.retry.attempts {
		if attempt > 0 {
			c.logRetry(ctx, req, attempt, lastErr)
			if err := c.retry.backoff.Wait(ctx, attempt); err != nil {
				return err
			}
		}
		if body != nil {
			req.Body = io.NopCloser(bytes.NewReader(body))
			req.ContentLength = int64(len(body))
		}

		r, err := c.http.Do(req)
		if err != nil {
			if !isRetryable(err) {
				return err
			}
			lastErr = err
			continue
		}
		if !isRetryableStatus(r.StatusCode) {
			*resp = r
			return nil
		}

		lastErr = fmt.Errorf("%s answered HTTP %d", c.peer, r.StatusCode)
		if attempt == c.retry.attempts-1 {
			*resp = r
			return lastErr
		}
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, r.Body)
		_ = r.Body.Close()
	}
	return lastErr
}

func (c *Client) logRetry(ctx context.Context, req *http.Request, attempt int, lastErr error) {
	logging.FromContext(ctx).WarnContext(ctx, "retrying outbound request",
		logging.Operation("httpclient.Do"),
		slog.String("method", req.Method),
		slog.String("url", req.URL.Redacted()),
		slog.String("peer_service", c.peer),
		slog.Int("attempt", attempt+1),
		slog.Int("max_attempts", c.retry.attempts),
		logging.Err(lastErr),
	)
}

// isRetryable reports whether a transport error may succeed on another
// attempt. Cancellation and expired deadlines are final.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// isRetryableStatus reports whether the peer asked to be retried: 429 or any
// 5xx.
func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}
