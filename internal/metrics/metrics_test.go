package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalvas/routedoc/mux"
)

func TestObserveGeneration(t *testing.T) {
	reg := NewRegistry()

	reg.ObserveGeneration(10*time.Millisecond, nil)
	reg.ObserveGeneration(20*time.Millisecond, nil)
	reg.ObserveGeneration(time.Millisecond, errors.New("boom"))

	assert.Equal(t, float64(2), testutil.ToFloat64(reg.Metrics.GenerationsTotal.WithLabelValues("success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(reg.Metrics.GenerationsTotal.WithLabelValues("error")))
	assert.Equal(t, 1, testutil.CollectAndCount(reg.Metrics.GenerationDuration))
}

func TestMiddleware(t *testing.T) {
	reg := NewRegistry()

	r := mux.NewRouter()
	r.Get("/users/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.Get("/ok", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	r.Use(reg.Middleware())

	for _, path := range []string{"/users/1", "/users/2", "/ok", "/missing"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, float64(2), testutil.ToFloat64(reg.Metrics.RequestsTotal.WithLabelValues("GET", "/users/{id}", "204")))
	assert.Equal(t, float64(1), testutil.ToFloat64(reg.Metrics.RequestsTotal.WithLabelValues("GET", "/ok", "200")))
	// middleware only wraps matched routes
	assert.Equal(t, 2, testutil.CollectAndCount(reg.Metrics.RequestsTotal))

	t.Run("outside the router", func(t *testing.T) {
		h := reg.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}))
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/x", nil))

		assert.Equal(t, float64(1), testutil.ToFloat64(reg.Metrics.RequestsTotal.WithLabelValues("POST", unmatchedRoute, "418")))
	})
}

func TestHandler(t *testing.T) {
	reg := NewRegistry()
	reg.ObserveGeneration(time.Millisecond, nil)

	w := httptest.NewRecorder()
	reg.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, strings.Contains(body, `routedoc_document_generations_total{status="success"} 1`))
	assert.Contains(t, body, "go_goroutines")
}

func TestPrometheusRegistry(t *testing.T) {
	reg := NewRegistry()

	families, err := reg.PrometheusRegistry().Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}
