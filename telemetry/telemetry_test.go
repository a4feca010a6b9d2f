package telemetry

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"github.com/garmently/garmently/config"
)

func TestInit_None(t *testing.T) {
	shutdown, err := Init(context.Background(), config.TracingConfig{Exporter: "none"})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestInit_Stdout(t *testing.T) {
	var buf bytes.Buffer
	shutdown, err := initWithWriter(context.Background(), config.TracingConfig{
		Exporter:    "stdout",
		ServiceName: "test-service",
	}, &buf)
	require.NoError(t, err)

	_, span := otel.Tracer("test").Start(context.Background(), "test-span")
	span.End()

	require.NoError(t, shutdown(context.Background()))
	assert.Contains(t, buf.String(), "test-span")
	assert.Contains(t, buf.String(), "test-service")
}

func TestInit_OTLP(t *testing.T) {
	shutdown, err := Init(context.Background(), config.TracingConfig{Exporter: "otlp"})
	require.NoError(t, err)
	assert.NotNil(t, shutdown)
}

func TestInit_Unsupported(t *testing.T) {
	_, err := Init(context.Background(), config.TracingConfig{Exporter: "jaeger"})
	assert.Error(t, err)
}

func TestWrapHandler(t *testing.T) {
	wrapped := WrapHandler("test-handler", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte("part1"))
		w.Write([]byte("part2"))
	}))

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("test-handler", http.MethodPost, "201"))

	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/create", nil))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "text/plain", rec.Header().Get("Content-Type"))
	assert.Equal(t, "part1part2", rec.Body.String())
	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("test-handler", http.MethodPost, "201"))
	assert.Equal(t, before+1, after)
}

func TestWrapHandler_ChiRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler { return WrapHandler("fallback", next) })
	r.Get("/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("/items/{id}", http.MethodGet, "202"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items/42", nil))

	assert.Equal(t, http.StatusAccepted, rec.Code)
	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("/items/{id}", http.MethodGet, "202"))
	assert.Equal(t, before+1, after)
}

func TestMetricsHandler(t *testing.T) {
	WrapHandler("metrics-seed", http.NotFoundHandler()).
		ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	rec := httptest.NewRecorder()
	MetricsHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "garmently_http_requests_total")
}
