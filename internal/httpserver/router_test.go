package httpserver

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	orderrepo "stickershop/internal/repository/order"
)

type stubProber struct {
	probe orderrepo.Probe
}

func (s *stubProber) Probe(context.Context) orderrepo.Probe {
	return s.probe
}

func TestHealthz(t *testing.T) {
	rec := serve(newTestRouter(t, Deps{}), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"status": "ok"}, decode(t, rec))
}

func TestReadyz_NeverBlocksOnRepository(t *testing.T) {
	cases := []struct {
		name  string
		repo  Prober
		state string
	}{
		{"no repository", nil, "disabled"},
		{"disabled", orderrepo.NewDisabled(), "disabled"},
		{"unreachable", &stubProber{orderrepo.Probe{Configured: true, Err: errors.New("dial tcp")}}, "unreachable"},
		{"not migrated", &stubProber{orderrepo.Probe{Configured: true, Connected: true, Err: orderrepo.ErrTableMissing}}, "not migrated"},
		{"ok", &stubProber{orderrepo.Probe{Configured: true, Connected: true, TableExists: true}}, "ok"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(newTestRouter(t, Deps{Repository: tc.repo}), httptest.NewRequest(http.MethodGet, "/readyz", nil))
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, map[string]any{"status": "ready", "repository": tc.state}, decode(t, rec))
		})
	}
}

func TestRequestID(t *testing.T) {
	router := newTestRouter(t, Deps{})

	rec := serve(router, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Len(t, rec.Header().Get(requestIDHeader), 36)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec = serve(router, req)
	assert.Equal(t, "abc-123", rec.Header().Get(requestIDHeader))
}

func TestCORS(t *testing.T) {
	router := newTestRouter(t, Deps{CORSOrigins: []string{"https://shop.example.com"}})

	req := httptest.NewRequest(http.MethodOptions, "/api/order", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := serve(router, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://shop.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = serve(router, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCORSConfig_Wildcard(t *testing.T) {
	assert.True(t, corsConfig(nil).AllowAllOrigins)
	assert.True(t, corsConfig([]string{"*"}).AllowAllOrigins)
	cfg := corsConfig([]string{"https://a.example", "https://b.example"})
	assert.False(t, cfg.AllowAllOrigins)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowOrigins)
}

func TestDBCheck(t *testing.T) {
	checked := time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)
	cases := []struct {
		name string
		repo Prober
		want map[string]any
	}{
		{
			name: "not configured",
			repo: orderrepo.NewDisabled(),
			want: map[string]any{
				"connected": false,
				"error":     "Database not configured",
				"message":   "Missing ORDERS_DB_DSN in environment variables",
			},
		},
		{
			name: "unreachable",
			repo: &stubProber{orderrepo.Probe{Configured: true, Err: errors.New("dial tcp: connection refused")}},
			want: map[string]any{
				"connected":    false,
				"error":        "Connection test failed",
				"errorDetails": "dial tcp: connection refused",
			},
		},
		{
			name: "table missing",
			repo: &stubProber{orderrepo.Probe{Configured: true, Connected: true, Err: orderrepo.ErrTableMissing}},
			want: map[string]any{
				"connected":    true,
				"tableExists":  false,
				"error":        "Orders table does not exist",
				"message":      "Run `migrate up` against the orders database",
				"errorDetails": "orders table does not exist",
			},
		},
		{
			name: "query error",
			repo: &stubProber{orderrepo.Probe{
				Configured:  true,
				Connected:   true,
				TableExists: true,
				Err:         &pgconn.PgError{Severity: "ERROR", Code: "42501", Message: "permission denied for table orders"},
			}},
			want: map[string]any{
				"connected":    true,
				"tableExists":  true,
				"error":        "Database query error",
				"errorDetails": "ERROR: permission denied for table orders (SQLSTATE 42501)",
				"errorCode":    "42501",
			},
		},
		{
			name: "ok",
			repo: &stubProber{orderrepo.Probe{Configured: true, Connected: true, TableExists: true, OrderCount: 7, CheckedAt: checked}},
			want: map[string]any{
				"connected":   true,
				"tableExists": true,
				"message":     "Successfully connected to the orders database",
				"orderCount":  7.0,
				"timestamp":   "2026-03-01T10:30:00Z",
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(newTestRouter(t, Deps{Repository: tc.repo}), httptest.NewRequest(http.MethodGet, "/api/test-db", nil))
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tc.want, decode(t, rec))
		})
	}
}

func TestDBCheck_NoRepository(t *testing.T) {
	rec := serve(newTestRouter(t, Deps{}), httptest.NewRequest(http.MethodGet, "/api/test-db", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Database not configured", decode(t, rec)["error"])
}

func TestRecoveryReturnsGenericError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := buildRouter(zap.NewNop(), Deps{})
	router.GET("/boom", func(*gin.Context) { panic("boom") })

	rec := serve(router, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, map[string]any{"error": msgInternal}, decode(t, rec))
}
