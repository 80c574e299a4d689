package middleware

import (
	"context"
	"fmt"
	"maps"
	"net/http"
	"sync"
	"time"

	"github.com/jsamuelsen11/resource-reconciler/internal/adapters/http/dto"
)

// Timeout bounds each request by d. The handler sees the deadline on its
// context, so a command waiting on the engine gives up with it. If the handler
// has not answered by then, the client gets a 504 problem response and
// whatever the handler writes later is discarded. A handler panic is
// re-raised on the calling goroutine.
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()

			tw := &timeoutWriter{header: make(http.Header)}
			done := make(chan struct{})
			panicked := make(chan any, 1)
			go func() {
				defer func() {
					if v := recover(); v != nil {
						panicked <- v
						return
					}
					close(done)
				}()
				next.ServeHTTP(tw, r.WithContext(ctx))
			}()

			select {
			case v := <-panicked:
				// Re-raised here so Recovery, which runs on this goroutine, sees it.
				panic(v)
			case <-done:
				tw.commit(w)
			case <-ctx.Done():
				if !tw.expire() {
					tw.commit(w)
					return
				}
				dto.WriteErrorResponse(w, r,
					fmt.Errorf("request not answered within %s: %w", d, context.DeadlineExceeded))
			}
		})
	}
}

// timeoutWriter buffers a handler's response until it finishes or the
// deadline passes, whichever happens first.
type timeoutWriter struct {
	mu      sync.Mutex
	header  http.Header
	body    []byte
	status  int
	expired bool
}

func (tw *timeoutWriter) Header() http.Header {
	return tw.header
}

func (tw *timeoutWriter) WriteHeader(code int) {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if tw.status == 0 && !tw.expired {
		tw.status = code
	}
}

func (tw *timeoutWriter) Write(b []byte) (int, error) {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if tw.expired {
		return 0, http.ErrHandlerTimeout
	}
	if tw.status == 0 {
		tw.status = http.StatusOK
	}
	tw.body = append(tw.body, b...)
	return len(b), nil
}

// expire stops further writes. It reports false when the handler had already
// started a response, which is then flushed as is.
func (tw *timeoutWriter) expire() bool {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	tw.expired = true
	return tw.status == 0
}

// commit copies the buffered response to w.
func (tw *timeoutWriter) commit(w http.ResponseWriter) {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	maps.Copy(w.Header(), tw.header)
	if tw.status != 0 {
		w.WriteHeader(tw.status)
	}
	if len(tw.body) > 0 {
		_, _ = w.Write(tw.body)
	}
}
