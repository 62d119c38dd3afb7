package mux

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVars(t *testing.T) {
	t.Run("returns nil without route context", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		assert.Nil(t, Vars(req))
	})

	t.Run("returns vars from context", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = setRouteContext(req, nil, map[string]string{"id": "1"})
		assert.Equal(t, map[string]string{"id": "1"}, Vars(req))
	})
}

func TestVarGet(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	_, ok := VarGet(req, "id")
	assert.False(t, ok)

	req = SetURLVars(req, map[string]string{"id": "42"})
	val, ok := VarGet(req, "id")
	assert.True(t, ok)
	assert.Equal(t, "42", val)

	_, ok = VarGet(req, "missing")
	assert.False(t, ok)
}

func TestCurrentRoute(t *testing.T) {
	t.Run("returns nil without route context", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		assert.Nil(t, CurrentRoute(req))
	})

	t.Run("returns matched route inside handler", func(t *testing.T) {
		r := NewRouter()
		var seen *Route
		route := r.Get("/test", func(_ http.ResponseWriter, req *http.Request) {
			seen = CurrentRoute(req)
		})

		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/test", nil))
		assert.Same(t, route, seen)
	})
}

func TestSetURLVars(t *testing.T) {
	t.Run("keeps the current route", func(t *testing.T) {
		route := &Route{method: http.MethodGet}
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = setRouteContext(req, route, nil)

		req = SetURLVars(req, map[string]string{"a": "b"})
		assert.Same(t, route, CurrentRoute(req))
		assert.Equal(t, "b", Vars(req)["a"])
	})
}
