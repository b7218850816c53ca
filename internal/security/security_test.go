package security_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-pos/internal/security"
)

func echo() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := io.ReadAll(r.Body)
		if err != nil {
			w.WriteHeader(http.StatusRequestEntityTooLarge)
			return
		}
		_, _ = w.Write(data)
	})
}

func TestBodyLimitPassesSmallPayload(t *testing.T) {
	h := security.BodyLimit{Max: 16}.Middleware(echo())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"qty":2}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, `{"qty":2}`, rec.Body.String())
}

func TestBodyLimitRejectsDeclaredLength(t *testing.T) {
	h := security.BodyLimit{Max: 4}.Middleware(echo())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("too long")))
	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	require.Contains(t, rec.Body.String(), "PAYLOAD_TOO_LARGE")
}

func TestBodyLimitCapsUnknownLength(t *testing.T) {
	h := security.BodyLimit{Max: 4}.Middleware(echo())
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("too long"))
	req.ContentLength = -1
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestHeadersMiddleware(t *testing.T) {
	rec := httptest.NewRecorder()
	security.Headers{}.Middleware(echo()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	rec = httptest.NewRecorder()
	security.Headers{Disable: true}.Middleware(echo()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Empty(t, rec.Header().Get("Cache-Control"))
}
