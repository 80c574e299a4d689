// Package middleware holds the inbound HTTP pipeline. cmd/server composes it
// with Chain in this order:
//
//	Recovery → RequestID → CorrelationID → OpenTelemetry → Logging → Timeout → router
//
// Request and correlation IDs are also handed to httpclient so webhook
// deliveries triggered by a request carry the same headers.
package middleware
