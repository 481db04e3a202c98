package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"alphachest/internal/transport/http/middleware"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
})

func TestAPIKeyAuth(t *testing.T) {
	h := middleware.APIKeyAuth([]string{"secret"})(okHandler)

	tests := []struct {
		name   string
		path   string
		header map[string]string
		want   int
	}{
		{"missing key", "/api/v1/chests", nil, http.StatusUnauthorized},
		{"wrong key", "/api/v1/chests", map[string]string{"X-API-Key": "nope"}, http.StatusUnauthorized},
		{"header key", "/api/v1/chests", map[string]string{"X-API-Key": "secret"}, http.StatusNoContent},
		{"bearer key", "/api/v1/chests", map[string]string{"Authorization": "Bearer secret"}, http.StatusNoContent},
		{"health skips auth", "/api/v1/health", nil, http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestAPIKeyAuth_NoKeysConfigured(t *testing.T) {
	rec := httptest.NewRecorder()
	middleware.APIKeyAuth(nil)(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/chests", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRequestID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	var seen string
	h := middleware.RequestID(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = chimw.GetReqID(r.Context())
		middleware.Logger(r.Context(), nil).Info("handled")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "abc", seen)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "abc", entries[1].ContextMap()["request_id"])
}

func TestLogger_FallsBackOutsideRequest(t *testing.T) {
	fallback := zap.NewExample()
	assert.Same(t, fallback, middleware.Logger(context.Background(), fallback))
	assert.NotNil(t, middleware.Logger(context.Background(), nil))
}

func TestLogging_TagsRequestID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)
	h := middleware.RequestID(logger)(middleware.Logging(zap.NewNop())(okHandler))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/chests", nil)
	req.Header.Set("X-Request-ID", "req-1")
	h.ServeHTTP(httptest.NewRecorder(), req)

	entries := logs.FilterMessage("Request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "req-1", fields["request_id"])
	assert.EqualValues(t, http.StatusNoContent, fields["status"])
}

func TestRecovery(t *testing.T) {
	h := middleware.Recovery(zap.NewNop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "INTERNAL_ERROR")
}
