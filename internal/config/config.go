package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type CartBackend string

const (
	CartBackendMemory CartBackend = "memory"
	CartBackendSQLite CartBackend = "sqlite"
	CartBackendRedis  CartBackend = "redis"
	CartBackendMongo  CartBackend = "mongo"
)

type Config struct {
	HTTPPort           string        `yaml:"http_port"`
	BackendURL         string        `yaml:"backend_url"`
	BackendTimeout     time.Duration `yaml:"backend_timeout"`
	RequestTimeout     time.Duration `yaml:"request_timeout"`
	ShutdownTimeout    time.Duration `yaml:"shutdown_timeout"`
	MaxRequestBodySize int64         `yaml:"max_request_body_size"`
	BreakerMaxFailures uint32        `yaml:"breaker_max_failures"`
	LogLevel           string        `yaml:"log_level"`

	CartBackend  CartBackend   `yaml:"cart_backend"`
	SQLitePath   string        `yaml:"sqlite_path"`
	RedisAddr    string        `yaml:"redis_addr"`
	RedisPass    string        `yaml:"redis_password"`
	MongoURI     string        `yaml:"mongo_uri"`
	MongoDBName  string        `yaml:"mongo_db_name"`
	CartTTL      time.Duration `yaml:"cart_ttl"`
	CookieSecure bool          `yaml:"cookie_secure"`
}

// Load reads the configuration from the environment. When
// STOREFRONT_CONFIG names a YAML file, values present in the file
// override the environment.
func Load() (*Config, error) {
	cfg := &Config{
		HTTPPort:           getEnv("HTTP_PORT", "8080"),
		BackendURL:         getEnv("BACKEND_URL", "http://localhost:5000"),
		BackendTimeout:     getDuration("BACKEND_TIMEOUT", 15*time.Second),
		RequestTimeout:     getDuration("REQUEST_TIMEOUT", 30*time.Second),
		ShutdownTimeout:    getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		MaxRequestBodySize: 1 << 20, // 1MB
		BreakerMaxFailures: uint32(max(getInt("BREAKER_MAX_FAILURES", 5), 0)),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CartBackend:        CartBackend(getEnv("CART_BACKEND", string(CartBackendMemory))),
		SQLitePath:         getEnv("SQLITE_PATH", "./storefront.db"),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:          getEnv("REDIS_PASSWORD", ""),
		MongoURI:           getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:        getEnv("MONGO_DB_NAME", "storefront"),
		CartTTL:            getDuration("CART_TTL", 30*24*time.Hour),
		CookieSecure:       getEnv("COOKIE_SECURE", "false") == "true",
	}

	if path := os.Getenv("STOREFRONT_CONFIG"); path != "" {
		if err := cfg.overlay(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) overlay(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) Validate() error {
	switch c.CartBackend {
	case CartBackendMemory, CartBackendSQLite, CartBackendRedis, CartBackendMongo:
	default:
		return fmt.Errorf("unknown cart backend %q", c.CartBackend)
	}
	if c.BackendURL == "" {
		return fmt.Errorf("backend url is required")
	}
	if c.BackendTimeout <= 0 || c.RequestTimeout <= 0 || c.ShutdownTimeout <= 0 {
		return fmt.Errorf("timeouts must be positive")
	}
	if c.CartTTL <= 0 {
		return fmt.Errorf("cart ttl must be positive")
	}
	if c.BreakerMaxFailures == 0 {
		return fmt.Errorf("breaker max failures must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return d
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return defaultValue
}
