package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/jsamuelsen11/resource-reconciler/internal/adapters/http/middleware"
	"github.com/jsamuelsen11/resource-reconciler/internal/platform/telemetry"
)

// These tests replace the global tracer provider and do not run in parallel.

func recordSpans(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return exporter
}

// reconcilerRoutes mirrors the service's route table behind the middleware.
func reconcilerRoutes(metrics *telemetry.Metrics) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID(), middleware.OpenTelemetry(metrics))
	r.Put("/api/v1/declarations/{name}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})
	r.Put("/api/v1/releases/{project}/{name}/status", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	return r
}

func spanAttrs(s sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	attrs := make(map[attribute.Key]attribute.Value)
	for _, a := range s.Attributes() {
		attrs[a.Key] = a.Value
	}
	return attrs
}

func TestOpenTelemetry_Spans(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		path       string
		wantName   string
		wantStatus int64
		wantError  bool
	}{
		{
			name:       "declaration",
			method:     http.MethodPut,
			path:       "/api/v1/declarations/acme",
			wantName:   "HTTP PUT /api/v1/declarations/{name}",
			wantStatus: http.StatusAccepted,
		},
		{
			name:       "release status",
			method:     http.MethodPut,
			path:       "/api/v1/releases/acme-web/stable/status",
			wantName:   "HTTP PUT /api/v1/releases/{project}/{name}/status",
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "readiness failing",
			method:     http.MethodGet,
			path:       "/health/ready",
			wantName:   "HTTP GET /health/ready",
			wantStatus: http.StatusServiceUnavailable,
			wantError:  true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exporter := recordSpans(t)

			reconcilerRoutes(nil).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(tt.method, tt.path, http.NoBody))

			spans := exporter.GetSpans().Snapshots()
			if len(spans) != 1 {
				t.Fatalf("recorded %d spans, want 1", len(spans))
			}
			span := spans[0]
			if span.Name() != tt.wantName {
				t.Errorf("span name = %q, want %q", span.Name(), tt.wantName)
			}
			if strings.Contains(span.Name(), "acme") {
				t.Errorf("span name %q leaks a resource name", span.Name())
			}

			attrs := spanAttrs(span)
			if got := attrs[telemetry.AttrHTTPStatus].AsInt64(); got != tt.wantStatus {
				t.Errorf("%s = %d, want %d", telemetry.AttrHTTPStatus, got, tt.wantStatus)
			}
			if got := attrs[telemetry.AttrHTTPMethod].AsString(); got != tt.method {
				t.Errorf("%s = %q, want %q", telemetry.AttrHTTPMethod, got, tt.method)
			}
			if attrs["request_id"].AsString() == "" {
				t.Error("span has no request_id attribute")
			}
			if got := span.Status().Code == codes.Error; got != tt.wantError {
				t.Errorf("span error status = %v, want %v", got, tt.wantError)
			}
		})
	}
}

func TestOpenTelemetry_UnmatchedRoute(t *testing.T) {
	exporter := recordSpans(t)

	handler := middleware.OpenTelemetry(nil)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/declarations/acme", http.NoBody))

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("recorded %d spans, want 1", len(spans))
	}
	if want := "HTTP GET unmatched"; spans[0].Name != want {
		t.Errorf("span name = %q, want %q", spans[0].Name, want)
	}
}

func TestOpenTelemetry_ContinuesIncomingTrace(t *testing.T) {
	exporter := recordSpans(t)

	const traceID = "4bf92f3577b34da6a3ce929d0e0e4736"
	req := httptest.NewRequest(http.MethodPut, "/api/v1/declarations/acme", http.NoBody)
	req.Header.Set("traceparent", "00-"+traceID+"-00f067aa0ba902b7-01")

	reconcilerRoutes(nil).ServeHTTP(httptest.NewRecorder(), req)

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("recorded %d spans, want 1", len(spans))
	}
	if got := spans[0].SpanContext.TraceID().String(); got != traceID {
		t.Errorf("trace id = %s, want %s", got, traceID)
	}
	if !spans[0].Parent.IsRemote() {
		t.Error("span parent is not the remote caller")
	}
}

func TestOpenTelemetry_RecordsMetrics(t *testing.T) {
	recordSpans(t)

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	metrics, err := telemetry.NewMetrics(mp, "resource-reconciler")
	if err != nil {
		t.Fatalf("NewMetrics() error: %v", err)
	}

	routes := reconcilerRoutes(metrics)
	for _, path := range []string{"/api/v1/declarations/acme", "/api/v1/declarations/globex"} {
		routes.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPut, path, http.NoBody))
	}

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect() error: %v", err)
	}

	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "http.server.request.total" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				t.Fatalf("http.server.request.total has data %T, want a sum", m.Data)
			}
			if len(sum.DataPoints) != 1 {
				t.Fatalf("got %d series, want one for the route pattern", len(sum.DataPoints))
			}
			dp := sum.DataPoints[0]
			if route, _ := dp.Attributes.Value(telemetry.AttrHTTPRoute); route.AsString() != "/api/v1/declarations/{name}" {
				t.Errorf("route label = %q, want the route pattern", route.AsString())
			}
			total = dp.Value
		}
	}
	if total != 2 {
		t.Errorf("http.server.request.total = %d, want 2", total)
	}
}
