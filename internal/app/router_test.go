package app

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-pos/internal/cart"
	"github.com/noah-isme/backend-pos/internal/catalog"
	"github.com/noah-isme/backend-pos/internal/checkout"
	"github.com/noah-isme/backend-pos/internal/common"
	"github.com/noah-isme/backend-pos/internal/health"
	"github.com/noah-isme/backend-pos/internal/obs"
	"github.com/noah-isme/backend-pos/internal/ratelimit"
)

type stubChecker struct{ dbErr error }

func (s stubChecker) PingDB(context.Context, time.Duration) error    { return s.dbErr }
func (s stubChecker) PingRedis(context.Context, time.Duration) error { return nil }

func testHandlers(checker health.Checker) Handlers {
	return Handlers{
		Catalog:  catalog.NewHandler(catalog.HandlerConfig{}),
		Cart:     &cart.Handler{},
		Checkout: &checkout.Handler{},
		Health:   health.Handler{Checker: checker},
	}
}

func TestRouterServesTaxWithoutBackends(t *testing.T) {
	router := NewRouter(RouterConfig{Logger: zerolog.Nop()}, testHandlers(stubChecker{}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/pricing/tax", strings.NewReader(`{"subtotal":"100"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Contains(t, rec.Body.String(), `"tax":"18"`)
}

func TestRouterUnconfiguredServiceReturnsInternal(t *testing.T) {
	router := NewRouter(RouterConfig{Logger: zerolog.Nop()}, testHandlers(stubChecker{}))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/carts/abc", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/unknown", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouterHealthEndpoints(t *testing.T) {
	health.SetReady(true)
	router := NewRouter(RouterConfig{Logger: zerolog.Nop()}, testHandlers(stubChecker{dbErr: errors.New("down")}))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.Contains(t, rec.Body.String(), "down")
}

func TestRouterAppliesRateLimitPerTerminal(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	lim, err := ratelimit.NewLimiter(rdb, "1-M")
	require.NoError(t, err)

	router := NewRouter(RouterConfig{
		Logger:      zerolog.Nop(),
		RateLimit:   ratelimit.Handler{Limiter: lim},
		Idempotency: common.Idem{R: rdb},
	}, testHandlers(stubChecker{}))

	call := func(terminal string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/pricing/tax", strings.NewReader(`{"subtotal":"10"}`))
		req.Header.Set(common.TerminalHeader, terminal)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	require.Equal(t, http.StatusOK, call("till-1").Code)
	require.Equal(t, http.StatusTooManyRequests, call("till-1").Code)
	require.Equal(t, http.StatusOK, call("till-2").Code)
}

func TestRouterExposesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := obs.NewHTTPMetrics("pos_test", nil, reg)
	router := NewRouter(RouterConfig{Logger: zerolog.Nop(), Metrics: metrics, Gatherer: reg}, testHandlers(stubChecker{}))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "pos_test_")
}

func TestProtectPprofRequiresCredentials(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })
	h := protectPprof(inner, "ops", "secret")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/pprof/", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/debug/pprof/", nil)
	req.SetBasicAuth("ops", "secret")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	protectPprof(inner, "", "").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRouterRejectsOversizedPayload(t *testing.T) {
	router := NewRouter(RouterConfig{Logger: zerolog.Nop(), MaxBodyBytes: 8}, testHandlers(stubChecker{}))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/pricing/tax", strings.NewReader(`{"subtotal":"100"}`)))
	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}
