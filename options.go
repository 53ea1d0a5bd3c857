package dirsearch

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	dsn          string
	maxOpenConns int
	source       EmployeeSource

	cacheDriver string // "redis", "memory" or "" (none)
	addrs       []string
	password    string
	memorySize  int
	cacheTTL    time.Duration

	timeout        time.Duration
	fuzzyThreshold float64

	eventSink EventSink

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithPostgres reads employees from the directory database at dsn.
func WithPostgres(dsn string, maxOpenConns int) Option {
	return optionFunc(func(c *clientConfig) {
		c.dsn = dsn
		c.maxOpenConns = maxOpenConns
	})
}

// WithEmployeeSource reads employees from a caller-supplied source instead of Postgres.
func WithEmployeeSource(src EmployeeSource) Option {
	return optionFunc(func(c *clientConfig) {
		c.source = src
	})
}

// WithRedis caches results in Redis. An unreachable server disables caching
// instead of failing New.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheDriver = "redis"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithMemoryCache caches up to size results in process.
func WithMemoryCache(size int) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheDriver = "memory"
		c.memorySize = size
	})
}

// WithCacheTTL overrides the 300s result lifetime.
func WithCacheTTL(ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheTTL = ttl
	})
}

// WithTimeout sets the per-search compute budget. Default: 500ms.
func WithTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.timeout = d
	})
}

// WithDefaultFuzzyThreshold sets the threshold used when a search doesn't pass one.
// Default: 0.3.
func WithDefaultFuzzyThreshold(v float64) Option {
	return optionFunc(func(c *clientConfig) {
		c.fuzzyThreshold = v
	})
}

// WithEventSink receives one SearchEvent per served search, off the request path.
func WithEventSink(s EventSink) Option {
	return optionFunc(func(c *clientConfig) {
		c.eventSink = s
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
