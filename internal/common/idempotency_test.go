package common_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-pos/internal/common"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestIdemRejectsReplay(t *testing.T) {
	_, client := newRedis(t)
	calls := 0
	h := common.Idem{R: client, TTL: time.Minute}.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusCreated)
	}))

	send := func(terminal string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/carts/abc/checkout", nil)
		req.Header.Set("Idempotency-Key", "k-1")
		req.Header.Set(common.TerminalHeader, terminal)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	require.Equal(t, http.StatusCreated, send("till-1"))
	require.Equal(t, http.StatusConflict, send("till-1"))
	require.Equal(t, http.StatusCreated, send("till-2"))
	require.Equal(t, 2, calls)
}

func TestIdemReleasesKeyOnServerError(t *testing.T) {
	_, client := newRedis(t)
	status := http.StatusInternalServerError
	h := common.Idem{R: client, TTL: time.Minute}.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/carts", nil)
	req.Header.Set("Idempotency-Key", "retry-me")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	status = http.StatusCreated
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestIdemWithoutHeaderPassesThrough(t *testing.T) {
	_, client := newRedis(t)
	calls := 0
	h := common.Idem{R: client}.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	for i := 0; i < 2; i++ {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/v1/carts", nil))
	}
	require.Equal(t, 2, calls)
}

func TestIdemScopesKeysByRoute(t *testing.T) {
	mr, client := newRedis(t)
	h := common.Idem{R: client, TTL: time.Minute}.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	for _, path := range []string{"/api/v1/carts/a/lines", "/api/v1/carts/b/lines"} {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		req.Header.Set("Idempotency-Key", "same-key")
		req.Header.Set(common.TerminalHeader, "till-1")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	keys := mr.Keys()
	require.Len(t, keys, 2)
	for _, k := range keys {
		require.True(t, strings.HasPrefix(k, "pos:idem:"), k)
		require.Len(t, k, len("pos:idem:")+64)
	}
}
