package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/dirsearch/internal/domain"
)

// Config holds the dirsearch API configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Cache     CacheConfig     `yaml:"cache"`
	Employees EmployeesConfig `yaml:"employees"`
	Auth      AuthConfig      `yaml:"auth"`
	Search    SearchConfig    `yaml:"search"`
	Analytics AnalyticsConfig `yaml:"analytics"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	Keys []APIKeyConfig `yaml:"keys"`
}

// APIKeyConfig maps one bearer key to the principal it authenticates.
type APIKeyConfig struct {
	Key      string `yaml:"key"`
	TenantID string `yaml:"tenant_id"`
	UserID   string `yaml:"user_id"`
	Admin    bool   `yaml:"admin"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// CacheConfig holds result cache settings.
type CacheConfig struct {
	Driver            string   `yaml:"driver"` // redis, memory, none (default: redis)
	Addrs             []string `yaml:"addrs"`
	Username          string   `yaml:"username"`
	Password          string   `yaml:"password"`
	DB                int      `yaml:"db"`
	ConnectTimeoutSec int      `yaml:"connect_timeout_sec"`
	ReadinessTimeout  int      `yaml:"readiness_timeout_sec"`
	TTLSec            int      `yaml:"ttl_sec"`
	MemorySize        int      `yaml:"memory_size"` // entries, memory driver only
}

// EmployeesConfig holds the employee directory database settings.
type EmployeesConfig struct {
	DSN          string `yaml:"dsn"`
	MaxOpenConns int    `yaml:"max_open_conns"`
}

// SearchConfig holds matching and latency settings.
type SearchConfig struct {
	TimeoutMs             int     `yaml:"timeout_ms"`
	DefaultFuzzyThreshold float64 `yaml:"default_fuzzy_threshold"`
	SuggestionThreshold   float64 `yaml:"suggestion_threshold"`
	MaxSuggestions        int     `yaml:"max_suggestions"`
}

// AnalyticsConfig holds search event delivery settings.
type AnalyticsConfig struct {
	Sink      string `yaml:"sink"` // redis, log, none (default: log)
	QueueSize int    `yaml:"queue_size"`
	Workers   int    `yaml:"workers"`
	TimeoutMs int    `yaml:"timeout_ms"`
	ListMax   int    `yaml:"list_max"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Cache.Driver == "" {
		c.Cache.Driver = "redis"
	}
	if c.Cache.ConnectTimeoutSec <= 0 {
		c.Cache.ConnectTimeoutSec = 5
	}
	if c.Cache.ReadinessTimeout <= 0 {
		c.Cache.ReadinessTimeout = 5
	}
	if c.Cache.TTLSec <= 0 {
		c.Cache.TTLSec = 300
	}
	if c.Cache.MemorySize <= 0 {
		c.Cache.MemorySize = 10000
	}
	if c.Employees.MaxOpenConns <= 0 {
		c.Employees.MaxOpenConns = 20
	}
	if c.Search.TimeoutMs <= 0 {
		c.Search.TimeoutMs = 500
	}
	if c.Search.DefaultFuzzyThreshold <= 0 {
		c.Search.DefaultFuzzyThreshold = 0.3
	}
	if c.Search.SuggestionThreshold <= 0 {
		c.Search.SuggestionThreshold = 0.5
	}
	if c.Search.MaxSuggestions <= 0 {
		c.Search.MaxSuggestions = 5
	}
	if c.Analytics.Sink == "" {
		c.Analytics.Sink = "log"
	}
	if c.Analytics.QueueSize <= 0 {
		c.Analytics.QueueSize = 1024
	}
	if c.Analytics.Workers <= 0 {
		c.Analytics.Workers = 2
	}
	if c.Analytics.TimeoutMs <= 0 {
		c.Analytics.TimeoutMs = 2000
	}
	if c.Analytics.ListMax <= 0 {
		c.Analytics.ListMax = 10000
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Cache.Driver {
	case "redis":
		if len(c.Cache.Addrs) == 0 {
			return fmt.Errorf("cache.addrs is required for the redis driver")
		}
	case "memory", "none":
	default:
		return fmt.Errorf("cache.driver must be \"redis\", \"memory\" or \"none\", got %q", c.Cache.Driver)
	}
	if c.Employees.DSN == "" {
		return fmt.Errorf("employees.dsn is required")
	}
	if c.Search.DefaultFuzzyThreshold > 1 || c.Search.SuggestionThreshold > 1 {
		return fmt.Errorf("search thresholds must be within [0,1]")
	}
	switch c.Analytics.Sink {
	case "log", "none":
	case "redis":
		if c.Cache.Driver != "redis" {
			return fmt.Errorf("analytics.sink \"redis\" requires cache.driver \"redis\"")
		}
	default:
		return fmt.Errorf("analytics.sink must be \"redis\", \"log\" or \"none\", got %q", c.Analytics.Sink)
	}
	seen := make(map[string]struct{}, len(c.Auth.Keys))
	for i, k := range c.Auth.Keys {
		if k.Key == "" {
			return fmt.Errorf("auth.keys[%d].key is required", i)
		}
		if _, dup := seen[k.Key]; dup {
			return fmt.Errorf("auth.keys[%d].key is duplicated", i)
		}
		seen[k.Key] = struct{}{}
		if err := domain.ValidateTenantID(k.TenantID); err != nil {
			return fmt.Errorf("auth.keys[%d]: %w", i, err)
		}
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
