package dirsearch

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/dirsearch/internal/db"
	"github.com/kailas-cloud/dirsearch/internal/db/memory"
	"github.com/kailas-cloud/dirsearch/internal/db/postgres"
	dbRedis "github.com/kailas-cloud/dirsearch/internal/db/redis"
	"github.com/kailas-cloud/dirsearch/internal/domain/search/request"
	employeerepo "github.com/kailas-cloud/dirsearch/internal/repository/employee"
	"github.com/kailas-cloud/dirsearch/internal/repository/resultcache"
	analyticsuc "github.com/kailas-cloud/dirsearch/internal/usecase/analytics"
	autocompleteuc "github.com/kailas-cloud/dirsearch/internal/usecase/autocomplete"
	searchuc "github.com/kailas-cloud/dirsearch/internal/usecase/search"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultMemoryCacheSize  = 10000
	defaultCacheTTL         = 300 * time.Second
	closeTimeout            = 5 * time.Second
)

// directory is what the services need from the employee source.
type directory interface {
	searchuc.EmployeeStore
	autocompleteuc.EmployeeStore
}

// resultCache is what both services need from the cache.
type resultCache interface {
	searchuc.ResultCache
	autocompleteuc.ValueCache
}

// Client is the dirsearch SDK entry point. It is safe for concurrent use.
type Client struct {
	sqlDB      *sql.DB
	store      db.Store
	dispatcher *analyticsuc.Dispatcher

	searchSvc       *searchuc.Service
	autocompleteSvc *autocompleteuc.Service
	obs             *observer
}

// New creates a Client. Exactly one of WithPostgres or WithEmployeeSource is required.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.dsn == "" && cfg.source == nil {
		return nil, errors.New("dirsearch: employee source required (use WithPostgres or WithEmployeeSource)")
	}
	if cfg.dsn != "" && cfg.source != nil {
		return nil, errors.New("dirsearch: WithPostgres and WithEmployeeSource are mutually exclusive")
	}

	ctx := context.Background()
	c := &Client{}

	var dir directory
	if cfg.dsn != "" {
		sqlDB, err := postgres.Open(ctx, cfg.dsn, cfg.maxOpenConns)
		if err != nil {
			return nil, fmt.Errorf("dirsearch: employee database not ready: %w", err)
		}
		c.sqlDB = sqlDB
		dir = employeerepo.New(sqlDB)
	} else {
		dir = sourceAdapter{src: cfg.source}
	}

	store, err := createStore(ctx, cfg)
	if err != nil && cfg.logger != nil {
		cfg.logger.Warn("cache unavailable, running uncached", "error", err)
	}
	c.store = store

	if err := wireClient(c, dir, cfg); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

// createStore returns nil without an error when caching is disabled.
func createStore(ctx context.Context, cfg *clientConfig) (db.Store, error) {
	switch cfg.cacheDriver {
	case "memory":
		size := cfg.memorySize
		if size <= 0 {
			size = defaultMemoryCacheSize
		}
		return memory.NewStore(size), nil
	case "redis":
		store, err := dbRedis.NewStore(dbRedis.Config{Addrs: cfg.addrs, Password: cfg.password})
		if err != nil {
			return nil, err
		}
		if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			store.Close()
			return nil, err
		}
		return store, nil
	default:
		return nil, nil
	}
}

func wireClient(c *Client, dir directory, cfg *clientConfig) error {
	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return err
	}
	c.obs = obs

	log := zap.NewNop()

	var cache resultCache = resultcache.Nop{}
	if c.store != nil {
		ttl := cfg.cacheTTL
		if ttl <= 0 {
			ttl = defaultCacheTTL
		}
		cache = resultcache.New(c.store, ttl, nil, log)
	}

	// Pass nil interface (not typed nil pointer!) when no sink is configured.
	var events searchuc.EventRecorder
	if cfg.eventSink != nil {
		c.dispatcher = analyticsuc.NewDispatcher(sinkAdapter{sink: cfg.eventSink}, analyticsuc.Config{}, log)
		events = c.dispatcher
	}

	scfg := searchuc.DefaultConfig()
	if cfg.timeout > 0 {
		scfg.Timeout = cfg.timeout
	}
	if cfg.fuzzyThreshold > 0 {
		scfg.Defaults = request.Options{
			FuzzyThreshold: cfg.fuzzyThreshold,
			Weights:        request.DefaultWeights(),
		}
	}

	c.searchSvc = searchuc.New(dir, cache, events, scfg, log)
	c.autocompleteSvc = autocompleteuc.New(dir, cache, scfg.Timeout, log)
	return nil
}

// Close drains pending search events and releases connections.
func (c *Client) Close() {
	if c.dispatcher != nil {
		ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
		_ = c.dispatcher.Close(ctx)
		cancel()
	}
	if c.store != nil {
		c.store.Close()
	}
	if c.sqlDB != nil {
		_ = c.sqlDB.Close()
	}
}

// Ping checks the employee database and, when configured, the cache.
func (c *Client) Ping(ctx context.Context) error {
	if c.sqlDB != nil {
		if err := c.sqlDB.PingContext(ctx); err != nil {
			return fmt.Errorf("dirsearch: employee database: %w", err)
		}
	}
	if c.store != nil {
		if err := c.store.Ping(ctx); err != nil {
			return fmt.Errorf("dirsearch: cache: %w", err)
		}
	}
	return nil
}
