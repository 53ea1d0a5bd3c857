package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/dirsearch/internal/config"
	"github.com/kailas-cloud/dirsearch/internal/db"
	"github.com/kailas-cloud/dirsearch/internal/db/memory"
	"github.com/kailas-cloud/dirsearch/internal/db/postgres"
	dbRedis "github.com/kailas-cloud/dirsearch/internal/db/redis"
	"github.com/kailas-cloud/dirsearch/internal/domain/search/request"
	logpkg "github.com/kailas-cloud/dirsearch/internal/logger"
	"github.com/kailas-cloud/dirsearch/internal/metrics"
	employeerepo "github.com/kailas-cloud/dirsearch/internal/repository/employee"
	"github.com/kailas-cloud/dirsearch/internal/repository/eventsink"
	"github.com/kailas-cloud/dirsearch/internal/repository/resultcache"
	chiTransport "github.com/kailas-cloud/dirsearch/internal/transport/chi"
	analyticsuc "github.com/kailas-cloud/dirsearch/internal/usecase/analytics"
	autocompleteuc "github.com/kailas-cloud/dirsearch/internal/usecase/autocomplete"
	healthuc "github.com/kailas-cloud/dirsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/dirsearch/internal/usecase/search"
	"github.com/kailas-cloud/dirsearch/internal/version"
)

// resultCache is what both the search and autocomplete services need from the cache.
type resultCache interface {
	searchuc.ResultCache
	autocompleteuc.ValueCache
}

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting dirsearch API server",
		zap.String("version", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("cache_driver", cfg.Cache.Driver),
		zap.String("analytics_sink", cfg.Analytics.Sink),
	)

	// Register metrics explicitly (no init())
	metrics.RegisterSearchMetrics()

	ctx := context.Background()

	// Employee directory: the system of record, required at startup.
	sqlDB, err := postgres.Open(ctx, cfg.Employees.DSN, cfg.Employees.MaxOpenConns)
	if err != nil {
		logger.Fatal("Employee database not ready", zap.Error(err))
	}
	defer func() { _ = sqlDB.Close() }()
	logger.Info("Connected to employee database")
	employees := employeerepo.New(sqlDB)

	// Cache: optional. An unreachable backend degrades to uncached operation.
	kv := openCache(ctx, &cfg.Cache, logger)
	if kv != nil {
		defer kv.Close()
	}
	var cache resultCache = resultcache.Nop{}
	if kv != nil {
		cache = resultcache.New(kv, time.Duration(cfg.Cache.TTLSec)*time.Second, metrics.CacheTotal, logger)
	}

	// Analytics: fire-and-forget through a bounded queue.
	dispatcher := buildDispatcher(&cfg.Analytics, kv, logger)
	// Pass nil interface (not typed nil pointer!) when analytics is disabled.
	var events searchuc.EventRecorder
	if dispatcher != nil {
		events = dispatcher
	}

	timeout := time.Duration(cfg.Search.TimeoutMs) * time.Millisecond
	searchSvc := searchuc.New(employees, cache, events, searchuc.Config{
		Timeout: timeout,
		Defaults: request.Options{
			FuzzyThreshold: cfg.Search.DefaultFuzzyThreshold,
			Weights:        request.DefaultWeights(),
		},
		SuggestionThreshold: cfg.Search.SuggestionThreshold,
		MaxSuggestions:      cfg.Search.MaxSuggestions,
	}, logger)
	autocompleteSvc := autocompleteuc.New(employees, cache, timeout, logger)

	var cachePinger healthuc.Pinger
	if kv != nil {
		cachePinger = kv
	}
	healthSvc := healthuc.New(employees, cachePinger)

	server := chiTransport.NewServer(searchSvc, autocompleteSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(chiTransport.JSONRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(chiTransport.WideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(apiKeys(cfg.Auth.Keys)))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}
	if dispatcher != nil {
		if err := dispatcher.Close(shutdownCtx); err != nil {
			logger.Warn("Analytics queue not fully drained", zap.Error(err))
		}
	}

	logger.Info("Server stopped gracefully")
}

// openCache connects the configured cache backend. It returns nil when caching is
// disabled or the backend is unreachable.
func openCache(ctx context.Context, c *config.CacheConfig, logger *zap.Logger) db.Store {
	switch c.Driver {
	case "memory":
		logger.Info("Using in-process cache", zap.Int("size", c.MemorySize))
		return memory.NewStore(c.MemorySize)
	case "none":
		logger.Info("Result cache disabled")
		return nil
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:          c.Addrs,
		Username:       c.Username,
		Password:       c.Password,
		DB:             c.DB,
		ConnectTimeout: time.Duration(c.ConnectTimeoutSec) * time.Second,
	})
	if err != nil {
		logger.Warn("Cache unavailable, running uncached", zap.Strings("addrs", c.Addrs), zap.Error(err))
		return nil
	}
	if err := store.WaitForReady(ctx, time.Duration(c.ReadinessTimeout)*time.Second); err != nil {
		logger.Warn("Cache not ready, running uncached", zap.Strings("addrs", c.Addrs), zap.Error(err))
		store.Close()
		return nil
	}
	logger.Info("Connected to cache", zap.Strings("addrs", c.Addrs))
	return store
}

// buildDispatcher selects the analytics sink. A redis sink without a redis cache
// falls back to the log sink.
func buildDispatcher(c *config.AnalyticsConfig, kv db.Store, logger *zap.Logger) *analyticsuc.Dispatcher {
	var sink analyticsuc.Sink
	switch c.Sink {
	case "none":
		return nil
	case "redis":
		if rs, ok := kv.(*dbRedis.Store); ok {
			sink = eventsink.NewStoreSink(rs, c.ListMax)
			break
		}
		logger.Warn("Analytics redis sink unavailable, logging events instead")
		sink = eventsink.NewLogSink(logger)
	default:
		sink = eventsink.NewLogSink(logger)
	}
	return analyticsuc.NewDispatcher(sink, analyticsuc.Config{
		QueueSize: c.QueueSize,
		Workers:   c.Workers,
		Timeout:   time.Duration(c.TimeoutMs) * time.Millisecond,
	}, logger)
}

func apiKeys(keys []config.APIKeyConfig) []chiTransport.APIKey {
	out := make([]chiTransport.APIKey, 0, len(keys))
	for _, k := range keys {
		out = append(out, chiTransport.APIKey{
			Key:      k.Key,
			TenantID: k.TenantID,
			UserID:   k.UserID,
			Admin:    k.Admin,
		})
	}
	return out
}
