package app

import (
	"crypto/subtle"
	"net/http"
	"net/http/pprof"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-pos/internal/common"
	"github.com/noah-isme/backend-pos/internal/obs"
	"github.com/noah-isme/backend-pos/internal/ratelimit"
	"github.com/noah-isme/backend-pos/internal/security"
)

// RouterConfig carries the cross-cutting pieces mounted around the handlers.
type RouterConfig struct {
	Logger         zerolog.Logger
	Metrics        *obs.HTTPMetrics
	Gatherer       prometheus.Gatherer
	Tracing        bool
	Pprof          bool
	PprofUser      string
	PprofPass      string
	AllowedOrigins []string
	MaxBodyBytes   int64
	Idempotency    common.Idem
	RateLimit      ratelimit.Handler
}

// NewRouter mounts the POS API under /api/v1 next to the operational endpoints.
func NewRouter(rc RouterConfig, h Handlers) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if rc.Tracing {
		r.Use(obs.TracingMiddleware)
	}
	r.Use(obs.HTTPObs{Metrics: rc.Metrics}.Middleware)
	r.Use(obs.RequestLogger{Logger: rc.Logger}.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins(rc.AllowedOrigins),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Idempotency-Key", common.TerminalHeader},
		ExposedHeaders:   []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	if rc.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(rc.Gatherer, promhttp.HandlerOpts{}))
	}
	if rc.Pprof {
		r.Mount("/debug/pprof", protectPprof(newPprofMux(), rc.PprofUser, rc.PprofPass))
	}

	r.Get("/health/live", h.Health.Live)
	r.Get("/health/ready", h.Health.Ready)

	r.Route("/api/v1", func(v chi.Router) {
		v.Use(security.Headers{}.Middleware)
		v.Use(security.BodyLimit{Max: rc.MaxBodyBytes}.Middleware)
		v.Use(rc.RateLimit.Middleware)

		v.Post("/pricing/tax", h.Catalog.Tax)

		v.Route("/products", func(p chi.Router) {
			p.Get("/", h.Catalog.Products)
			p.Get("/{id}", h.Catalog.Product)
			p.Get("/{id}/price", h.Catalog.Price)
			p.Get("/{id}/margin", h.Catalog.Margin)
			p.Group(func(g chi.Router) {
				g.Use(rc.Idempotency.Middleware)
				g.Post("/", h.Catalog.Create)
				g.Put("/{id}", h.Catalog.Update)
			})
		})

		v.Route("/carts", func(c chi.Router) {
			c.Get("/{id}", h.Cart.Get)
			c.Delete("/{id}", h.Cart.Delete)
			c.Delete("/{id}/lines/{productId}", h.Cart.RemoveLine)
			c.Group(func(g chi.Router) {
				g.Use(rc.Idempotency.Middleware)
				g.Post("/", h.Cart.Create)
				g.Post("/{id}/lines", h.Cart.AddLine)
				g.Patch("/{id}/lines/{productId}", h.Cart.UpdateLine)
				g.Post("/{id}/checkout", h.Checkout.Checkout)
			})
		})

		v.Get("/sales/{id}", h.Checkout.Sale)
	})

	return r
}

func allowedOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

func newPprofMux() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", pprof.Index)
	mux.HandleFunc("/cmdline", pprof.Cmdline)
	mux.HandleFunc("/profile", pprof.Profile)
	mux.HandleFunc("/symbol", pprof.Symbol)
	mux.HandleFunc("/trace", pprof.Trace)
	for _, name := range []string{"allocs", "block", "goroutine", "heap", "mutex", "threadcreate"} {
		mux.Handle("/"+name, pprof.Handler(name))
	}
	return http.StripPrefix("/debug/pprof", mux)
}

// protectPprof guards the profiler with basic auth when a user is configured.
func protectPprof(handler http.Handler, user, pass string) http.Handler {
	user = strings.TrimSpace(user)
	pass = strings.TrimSpace(pass)
	if user == "" {
		return handler
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, p, ok := r.BasicAuth()
		if !ok || subtle.ConstantTimeCompare([]byte(u), []byte(user)) != 1 || subtle.ConstantTimeCompare([]byte(p), []byte(pass)) != 1 {
			w.Header().Set("WWW-Authenticate", `Basic realm="pprof"`)
			common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "profiler requires credentials", nil)
			return
		}
		handler.ServeHTTP(w, r)
	})
}
