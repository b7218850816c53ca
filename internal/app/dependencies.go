// Package app assembles the API's infrastructure and HTTP surface.
package app

import (
	"context"
	"fmt"
	"time"

	validator "github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/extra/redisotel/v9"
	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	limiter "github.com/ulule/limiter/v3"

	"github.com/noah-isme/backend-pos/internal/cart"
	"github.com/noah-isme/backend-pos/internal/catalog"
	"github.com/noah-isme/backend-pos/internal/checkout"
	"github.com/noah-isme/backend-pos/internal/common"
	"github.com/noah-isme/backend-pos/internal/config"
	"github.com/noah-isme/backend-pos/internal/db"
	dbgen "github.com/noah-isme/backend-pos/internal/db/gen"
	"github.com/noah-isme/backend-pos/internal/health"
	"github.com/noah-isme/backend-pos/internal/lock"
	"github.com/noah-isme/backend-pos/internal/obs"
	"github.com/noah-isme/backend-pos/internal/ratelimit"
)

const serviceName = "pos-api"

// Dependencies enumerates the shared infrastructure handed to every module.
type Dependencies struct {
	DB        *pgxpool.Pool
	Redis     *redis.Client
	Queries   *dbgen.Queries
	Validator *validator.Validate
	Limiter   *limiter.Limiter
}

// Connect opens PostgreSQL and Redis, applies migrations when enabled and
// builds the rate limiter. The returned func releases every connection.
func Connect(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*Dependencies, func(), error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if cfg.DBAutoMigrate {
		if err := db.Migrate(cfg.DatabaseURL); err != nil {
			return nil, nil, err
		}
		logger.Info().Msg("database migrations applied")
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("parse database config: %w", err)
	}
	poolConfig.ConnConfig.Tracer = obs.PGXTracer{}
	if poolConfig.ConnConfig.RuntimeParams == nil {
		poolConfig.ConnConfig.RuntimeParams = map[string]string{}
	}
	poolConfig.ConnConfig.RuntimeParams["application_name"] = serviceName

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("ping database: %w", err)
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(redisOpts)
	if cfg.Obs.EnableTracing {
		if err := redisotel.InstrumentTracing(rdb); err != nil {
			logger.Error().Err(err).Msg("instrument redis tracing")
		}
	}
	if cfg.Obs.EnablePrometheus {
		if err := redisotel.InstrumentMetrics(rdb); err != nil {
			logger.Error().Err(err).Msg("instrument redis metrics")
		}
	}
	closeAll := func() {
		if err := rdb.Close(); err != nil {
			logger.Error().Err(err).Msg("close redis")
		}
		pool.Close()
	}
	if err := rdb.Ping(ctx).Err(); err != nil {
		closeAll()
		return nil, nil, fmt.Errorf("ping redis: %w", err)
	}

	lim, err := ratelimit.NewLimiter(rdb, cfg.RateLimit)
	if err != nil {
		closeAll()
		return nil, nil, err
	}

	return &Dependencies{
		DB:        pool,
		Redis:     rdb,
		Queries:   dbgen.New(pool),
		Validator: common.NewValidator(),
		Limiter:   lim,
	}, closeAll, nil
}

// Handlers groups the HTTP handlers mounted by NewRouter.
type Handlers struct {
	Catalog  *catalog.Handler
	Cart     *cart.Handler
	Checkout *checkout.Handler
	Health   health.Handler
}

// NewHandlers wires the domain services on top of deps.
func NewHandlers(cfg *config.Config, deps *Dependencies, logger zerolog.Logger) (Handlers, error) {
	catalogSvc, err := catalog.NewService(catalog.ServiceConfig{
		Queries:      deps.Queries,
		Cache:        catalog.NewCache(deps.Redis, cfg.CatalogCacheTTL),
		Currency:     cfg.CurrencyCode,
		DefaultLimit: cfg.CatalogDefaultLimit,
		MaxLimit:     cfg.CatalogMaxLimit,
		Logger:       logger.With().Str("component", "catalog").Logger(),
	})
	if err != nil {
		return Handlers{}, fmt.Errorf("initialise catalog service: %w", err)
	}

	cartSvc := &cart.Service{
		Store:    cart.Store{R: deps.Redis, TTL: cfg.CartTTL},
		Products: catalogSvc,
		Locker:   lock.Locker{R: deps.Redis, Prefix: "pos:lock:", MaxWait: cfg.CartLockTTL},
		LockTTL:  cfg.CartLockTTL,
		Currency: cfg.CurrencyCode,
		Log:      logger.With().Str("component", "cart").Logger(),
	}
	checkoutSvc := &checkout.Service{
		Carts:    cartSvc,
		Store:    checkout.PGStore{Pool: deps.DB, Q: deps.Queries},
		Currency: cfg.CurrencyCode,
		Log:      logger.With().Str("component", "checkout").Logger(),
	}

	return Handlers{
		Catalog:  catalog.NewHandler(catalog.HandlerConfig{Service: catalogSvc, Validator: deps.Validator}),
		Cart:     &cart.Handler{Svc: cartSvc, Validator: deps.Validator},
		Checkout: &checkout.Handler{Svc: checkoutSvc, Validator: deps.Validator},
		Health: health.Handler{
			Checker:      health.Deps{DB: deps.DB, Redis: deps.Redis},
			DBTimeout:    500 * time.Millisecond,
			RedisTimeout: 300 * time.Millisecond,
		},
	}, nil
}
