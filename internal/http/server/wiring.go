// Package server arma las dependencias del servicio a partir de la config y
// levanta el http.Server con graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	rdb "github.com/redis/go-redis/v9"

	"github.com/dropDatabas3/castingagency/internal/cache"
	"github.com/dropDatabas3/castingagency/internal/config"
	"github.com/dropDatabas3/castingagency/internal/http/handlers"
	"github.com/dropDatabas3/castingagency/internal/http/helpers"
	"github.com/dropDatabas3/castingagency/internal/http/router"
	jwtx "github.com/dropDatabas3/castingagency/internal/jwt"
	"github.com/dropDatabas3/castingagency/internal/metrics"
	"github.com/dropDatabas3/castingagency/internal/observability/logger"
	"github.com/dropDatabas3/castingagency/internal/rate"
	"github.com/dropDatabas3/castingagency/internal/store"
	"github.com/dropDatabas3/castingagency/internal/store/pg"
)

// App es el servicio armado: el handler raíz más lo que hay que cerrar al salir.
type App struct {
	Handler http.Handler
	Store   *store.Opened
	Cache   cache.Client

	cleanups []func() error
}

// Close libera recursos en orden inverso al de creación.
func (a *App) Close() error {
	var errs []error
	for i := len(a.cleanups) - 1; i >= 0; i-- {
		if err := a.cleanups[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Options permite inyectar piezas en tests.
type Options struct {
	Version string
	// Registry para /metrics; nil usa el registry default de prometheus.
	Registry *prometheus.Registry
	// Keys reemplaza al fetcher HTTP del JWKS.
	Keys jwtx.KeySource
}

// Build arma store, cache, verifier, limiter, metrics y router.
func Build(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	log := logger.Named("server")
	app := &App{}
	fail := func(err error) (*App, error) {
		_ = app.Close()
		return nil, err
	}

	// 1. Store
	st, err := store.Open(ctx, store.Config{
		Driver:  cfg.Storage.Driver,
		DSN:     cfg.Storage.DSN,
		Migrate: cfg.Storage.Migrate,
		Postgres: pg.Config{
			MaxOpenConns:    cfg.Storage.Postgres.MaxOpenConns,
			MaxIdleConns:    cfg.Storage.Postgres.MaxIdleConns,
			ConnMaxLifetime: config.Duration(cfg.Storage.Postgres.ConnMaxLifetime),
		},
	})
	if err != nil {
		return fail(fmt.Errorf("store: %w", err))
	}
	app.Store = st
	app.cleanups = append(app.cleanups, func() error { st.Close(); return nil })

	// 2. Cache (JWKS) y limiter comparten el cliente redis
	var redisClient *rdb.Client
	switch strings.ToLower(cfg.Cache.Kind) {
	case "redis":
		redisClient = rdb.NewClient(&rdb.Options{
			Addr:     cfg.Cache.Redis.Addr,
			DB:       cfg.Cache.Redis.DB,
			Password: cfg.Cache.Redis.Password,
		})
		app.Cache = cache.NewRedis(redisClient, cfg.Cache.Redis.Prefix)
	default:
		app.Cache = cache.NewMemory(cfg.Cache.Redis.Prefix)
	}
	app.cleanups = append(app.cleanups, app.Cache.Close)

	// 3. Verifier
	keys := opts.Keys
	if keys == nil {
		fetcher := jwtx.NewFetcher(cfg.JWKSEndpoint(), config.Duration(cfg.Auth.JWKSTimeout))
		keys = jwtx.NewCachedSource(fetcher, app.Cache, config.Duration(cfg.Auth.JWKSCacheTTL))
	}
	verifier := jwtx.NewVerifier(keys, jwtx.Config{
		Audience: cfg.Auth.Audience,
		Issuer:   cfg.IssuerURL(),
		Leeway:   config.Duration(cfg.Auth.Leeway),
	})

	// 4. Rate limit
	var limiter rate.Limiter
	if cfg.Rate.Enabled {
		window := config.Duration(cfg.Rate.Window)
		if redisClient != nil {
			limiter = rate.NewRedisLimiter(redisClient, cfg.Cache.Redis.Prefix, cfg.Rate.MaxRequests, window)
		} else {
			limiter = rate.NewMemoryLimiter(cfg.Rate.MaxRequests, window)
		}
	}

	// 5. Metrics
	var extra []prometheus.Collector
	if st.PG != nil {
		extra = append(extra, metrics.NewPoolCollector(st.PG.PoolStats))
	}
	metricsHandler, err := metrics.Register(opts.Registry, extra...)
	if err != nil {
		return fail(fmt.Errorf("metrics: %w", err))
	}

	proxies, err := helpers.ParseTrustedProxies(cfg.Server.TrustedProxies)
	if err != nil {
		return fail(fmt.Errorf("server: %w", err))
	}

	deps := map[string]handlers.Pinger{"store": st}
	if redisClient != nil {
		deps["cache"] = app.Cache
	}

	app.Handler = router.New(router.Deps{
		Store:          st,
		Verifier:       verifier,
		Metrics:        metricsHandler,
		Health:         handlers.NewHealthHandler(opts.Version, deps),
		CORSOrigins:    cfg.Server.CORSAllowedOrigins,
		Limiter:        limiter,
		TrustedProxies: proxies,
	})

	log.Info("service wired",
		logger.String("storage", cfg.Storage.Driver),
		logger.String("cache", cfg.Cache.Kind),
		logger.String("issuer", cfg.IssuerURL()),
		logger.Any("rate_limit", cfg.Rate.Enabled),
	)
	return app, nil
}

// Run sirve h en addr hasta que ctx se cancela; después drena los requests en vuelo.
func Run(ctx context.Context, cfg *config.Config, h http.Handler) error {
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           h,
		ReadTimeout:       config.Duration(cfg.Server.ReadTimeout),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      config.Duration(cfg.Server.WriteTimeout),
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Named("server").Info("listening", logger.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	logger.Named("server").Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}
