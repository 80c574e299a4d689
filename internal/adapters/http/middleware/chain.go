package middleware

import (
	"net/http"
	"slices"
)

// Chain composes middlewares so the first one listed sees the request first:
//
//	Chain(Recovery(log), RequestID(), Logging(log))(router)
//
// wraps router as Recovery(RequestID(Logging(router))).
func Chain(middlewares ...func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(h http.Handler) http.Handler {
		for _, mw := range slices.Backward(middlewares) {
			h = mw(h)
		}
		return h
	}
}
