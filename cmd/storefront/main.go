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

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/fjod/krmotors/internal/backend"
	"github.com/fjod/krmotors/internal/cartstore"
	"github.com/fjod/krmotors/internal/catalog"
	"github.com/fjod/krmotors/internal/config"
	h "github.com/fjod/krmotors/internal/http"
	"github.com/fjod/krmotors/internal/logger"
)

const (
	breakerOpenTimeout = 30 * time.Second
	cartSweepInterval  = time.Hour
)

func main() {
	if err := run(); err != nil {
		slog.Error("storefront failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(os.Stdout, logger.FormatJSON, cfg.LogLevel)
	slog.SetDefault(log)

	ctx := context.Background()
	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	if expirer, ok := store.(cartstore.Expirer); ok {
		go cartstore.NewSweeper(expirer, cfg.CartTTL, cartSweepInterval, log).Run(sweepCtx)
	}

	client, err := backend.NewClient(cfg.BackendURL,
		backend.WithTimeout(cfg.BackendTimeout),
		backend.WithBreaker(cfg.BreakerMaxFailures, breakerOpenTimeout),
		backend.WithLogger(log),
	)
	if err != nil {
		return fmt.Errorf("failed to create backend client: %w", err)
	}

	router := h.NewRouter(h.RouterConfig{
		Catalog:        catalog.NewService(client, log),
		Carts:          cartstore.NewCarts(store, log),
		Backend:        client,
		Log:            log,
		RequestTimeout: cfg.RequestTimeout,
		MaxBodySize:    cfg.MaxRequestBodySize,
		CookieSecure:   cfg.CookieSecure,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(router, "storefront"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("storefront starting", "port", cfg.HTTPPort, "backend", cfg.BackendURL, "cart_backend", cfg.CartBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-quit:
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	log.Info("server exited")
	return nil
}

// openStore connects the configured cart backend.
func openStore(ctx context.Context, cfg *config.Config, log *slog.Logger) (cartstore.Store, func(), error) {
	switch cfg.CartBackend {
	case config.CartBackendSQLite:
		s, err := cartstore.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		log.Info("cart store ready", "backend", "sqlite", "path", cfg.SQLitePath)
		return s, func() { s.Close() }, nil

	case config.CartBackendRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPass,
			DB:       0,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			rdb.Close()
			return nil, nil, fmt.Errorf("redis connection failed: %w", err)
		}
		log.Info("cart store ready", "backend", "redis", "addr", cfg.RedisAddr)
		return cartstore.NewRedisStore(rdb, cfg.CartTTL), func() { rdb.Close() }, nil

	case config.CartBackendMongo:
		db, err := cartstore.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
		if err != nil {
			return nil, nil, err
		}
		s := cartstore.NewMongoStore(db)
		if err := s.CreateIndexes(ctx, cfg.CartTTL); err != nil {
			db.Client().Disconnect(ctx)
			return nil, nil, err
		}
		log.Info("cart store ready", "backend", "mongo", "db", cfg.MongoDBName)
		return s, func() { db.Client().Disconnect(context.Background()) }, nil

	default:
		log.Warn("cart store is in memory; carts are lost on restart")
		return cartstore.NewMemoryStore(), func() {}, nil
	}
}
