// Package security holds request hardening middleware for the POS API.
package security

import (
	"net/http"

	"github.com/noah-isme/backend-pos/internal/common"
)

// DefaultMaxBody caps JSON payloads; a full cart line update fits well below it.
const DefaultMaxBody int64 = 64 << 10

// BodyLimit rejects payloads larger than Max with 413.
type BodyLimit struct {
	Max int64
}

// Middleware short-circuits on a declared Content-Length above the limit and
// caps the body reader for chunked uploads.
func (b BodyLimit) Middleware(next http.Handler) http.Handler {
	max := b.Max
	if max <= 0 {
		max = DefaultMaxBody
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body == nil || r.Body == http.NoBody {
			next.ServeHTTP(w, r)
			return
		}
		if r.ContentLength > max {
			common.JSONError(w, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "request body too large", map[string]any{"limit": max})
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, max)
		next.ServeHTTP(w, r)
	})
}
