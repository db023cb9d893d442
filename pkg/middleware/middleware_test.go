package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/keystate-dev/keystate"
)

func TestPrometheusMiddlewarePassesThrough(t *testing.T) {
	reg := prometheus.NewRegistry()
	handler := Prometheus(WithRegistry(reg))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/instances", nil))

	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusTeapot)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	found := map[string]bool{}
	for _, mf := range families {
		found[mf.GetName()] = true
	}
	if !found["keystate_inspector_requests_total"] {
		t.Errorf("expected request counter, got %v", found)
	}
	if !found["keystate_inspector_request_duration_seconds"] {
		t.Errorf("expected duration histogram, got %v", found)
	}
}

func TestPrometheusMiddlewareOptions(t *testing.T) {
	reg := prometheus.NewRegistry()
	handler := Prometheus(
		WithRegistry(reg),
		WithNamespace("custom"),
		WithSubsystem("sub"),
		WithConstLabels(prometheus.Labels{"app": "demo"}),
		WithBuckets([]float64{0.1, 1}),
	)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	found := false
	for _, mf := range families {
		if mf.GetName() == "custom_sub_inspector_requests_total" {
			found = true
		}
	}
	if !found {
		t.Error("expected namespaced metric name")
	}
}

func TestExportStats(t *testing.T) {
	promReg := prometheus.NewRegistry()
	reg := keystate.NewRegistry()
	reg.Register(map[string]keystate.Entry{
		"demo": keystate.Values(map[string]any{"count": 0}),
	})
	ExportStats(reg.Stats(), WithRegistry(promReg))

	reg.Use("demo").Store(keystate.Values(map[string]any{"count": 1}))

	families, err := promReg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	values := map[string]float64{}
	for _, mf := range families {
		if len(mf.GetMetric()) == 1 {
			values[mf.GetName()] = mf.GetMetric()[0].GetGauge().GetValue()
		}
	}
	if values["keystate_instances"] != 1 {
		t.Errorf("instances = %v, want 1", values["keystate_instances"])
	}
	// Registration write plus the explicit store.
	if values["keystate_writes_applied_total"] != 2 {
		t.Errorf("writes = %v, want 2", values["keystate_writes_applied_total"])
	}
}

func TestOpenTelemetryMiddleware(t *testing.T) {
	called := false
	handler := OpenTelemetry(WithTracerName("test"))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusInternalServerError)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/instances", nil))

	if !called {
		t.Error("wrapped handler should run")
	}
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestOpenTelemetryFilter(t *testing.T) {
	handler := OpenTelemetry(
		WithRequestFilter(func(r *http.Request) bool { return false }),
	)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusNoContent {
		t.Errorf("filtered request should still be served, status = %d", rec.Code)
	}
}
