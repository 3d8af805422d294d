package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/pkordes/trip-planner/internal/config"
	"github.com/pkordes/trip-planner/internal/handler"
	"github.com/pkordes/trip-planner/internal/maps"
	"github.com/pkordes/trip-planner/internal/middleware"
	"github.com/pkordes/trip-planner/internal/repo"
	"github.com/pkordes/trip-planner/internal/service"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// --- Logger -----------------------------------------------------------
	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	// --- Database ---------------------------------------------------------
	// pgxpool manages a pool of Postgres connections.
	// New() does not open connections immediately; the first query does.
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("create database pool: %w", err)
	}
	defer pool.Close()

	// Verify the DB is reachable before accepting traffic.
	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	logger.Info("database connection established")

	// --- Redis (optional) -------------------------------------------------
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		rdb, err = connectRedis(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer rdb.Close()
		logger.Info("redis connection established")
	}

	// --- Providers --------------------------------------------------------
	mapsClient, err := maps.NewClient(cfg.MapsBaseURL, cfg.MapsAPIKey, nil)
	if err != nil {
		return err
	}
	var router service.Router = mapsClient
	if rdb != nil && cfg.RouteCacheTTL > 0 {
		router = maps.NewCachedRouter(mapsClient, maps.NewRedisCache(rdb), cfg.RouteCacheTTL, logger)
	}
	var geocoder service.Geocoder
	if cfg.MapsAPIKey != "" {
		geocoder = mapsClient
	} else {
		logger.Warn("MAPS_API_KEY not set: geocoding disabled, route requests will fail")
	}

	// --- Services ---------------------------------------------------------
	store := repo.NewStore(pool)
	trips := service.NewTripService(store, geocoder, logger)
	srv := handler.NewServer(handler.Services{
		Trips:       trips,
		Points:      service.NewPointService(store, geocoder, logger),
		Itineraries: service.NewItineraryService(store),
		Routes:      service.NewRouteService(store, router, logger),
		Shares:      service.NewShareService(store, trips),
		Categories:  service.NewCategoryService(store),
		Export:      service.NewExportService(trips),
		DB:          pool,
	}, logger)

	var shareLimit func(http.Handler) http.Handler
	if rdb != nil && cfg.ShareRateLimit > 0 {
		shareLimit = middleware.RateLimit{
			Scope:   "share",
			Limit:   cfg.ShareRateLimit,
			Window:  time.Minute,
			Counter: middleware.NewRedisCounter(rdb),
			Logger:  logger,
		}.Handler
	}

	// --- HTTP Server ------------------------------------------------------
	// Explicit timeouts prevent slowloris and resource exhaustion attacks.
	// WriteTimeout leaves headroom over the per-request timeout.
	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      newRouter(cfg, srv, shareLimit, logger),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

// newLogger builds the JSON slog logger. Unknown levels fall back to info.
func newLogger(level string) *slog.Logger {
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(level)); err != nil {
		logLevel = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
}

// connectRedis parses url, opens a client and pings it.
func connectRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return rdb, nil
}

// newRouter applies the middleware chain in order: RequestID → RealIP (only
// with TrustProxy) → CORS → Auth → Logger → Recoverer → Timeout → body limit.
// Without TrustProxy the client address is the TCP peer, so forwarding
// headers cannot spread one client over many rate limit keys.
// The authenticator runs before the logger so the caller is recorded.
func newRouter(cfg config.Config, srv *handler.Server, shareLimit func(http.Handler) http.Handler, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	if cfg.TrustProxy {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewAuthenticator([]byte(cfg.AuthSecret)))
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))
	r.Mount("/", srv.Routes(shareLimit))
	return r
}
