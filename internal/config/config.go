package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Session tokens
	AuthSecret string        // HMAC secret for bearer token verification
	AuthLeeway time.Duration // clock skew tolerance when validating exp/iat

	// Catalog API
	CatalogURL     string        // base URL of the media catalog API
	CatalogToken   string        // bearer token for catalog requests
	CatalogTimeout time.Duration // per-request timeout

	// Bookmark coordination
	HydrateConcurrency int           // max concurrent catalog lookups per load
	RefreshInterval    time.Duration // periodic metadata refresh of live sessions
	SessionIdleTTL     time.Duration // evict coordinators idle longer than this

	// Redis
	RedisAddr           string        // ex: "localhost:6379"
	RedisUser           string        // optional
	RedisPassword       string        // optional
	RedisDB             int           // Redis DB number
	RedisDT             time.Duration // dial timeout
	RedisRT             time.Duration // read timeout
	RedisWT             time.Duration // write timeout
	RedisPoolSize       int           // connection pool size
	RedisConnectTimeout time.Duration // total time to retry connecting
	RedisRetryInterval  time.Duration // initial wait between retries (grows exponentially)
	RedisMaxWait        time.Duration // max wait between retries
	RedisPingTimeout    time.Duration // timeout for each ping attempt
	RedisWarnThreshold  int           // warn after this many attempts
}

// fileConfig is the optional YAML overlay (SHELF_CONFIG_FILE). Environment
// variables always win over file values.
type fileConfig struct {
	ListenPort    string `yaml:"listenPort"`
	LogLevel      string `yaml:"logLevel"`
	AuthSecret    string `yaml:"authSecret"`
	CatalogURL    string `yaml:"catalogURL"`
	CatalogToken  string `yaml:"catalogToken"`
	RedisAddr     string `yaml:"redisAddr"`
	RedisUser     string `yaml:"redisUser"`
	RedisPassword string `yaml:"redisPassword"`
	RedisDB       *int   `yaml:"redisDB"`
}

func Load() *Config {
	overlay := loadOverlay(os.Getenv("SHELF_CONFIG_FILE"))

	cfg := &Config{
		// Server settings
		ListenPort:      getenv("SHELF_LISTEN_PORT", overlay.ListenPort, ":8080"),
		ShutdownTimeout: mustDuration("SHELF_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("SHELF_LOG_LEVEL", overlay.LogLevel, "info"),
		PrettyLog: mustBool("SHELF_PRETTY_LOG", false),

		// Session tokens
		AuthSecret: requireEnv("SHELF_AUTH_SECRET", overlay.AuthSecret),
		AuthLeeway: mustDuration("SHELF_AUTH_LEEWAY", 30*time.Second),

		// Catalog API
		CatalogURL:     requireEnv("SHELF_CATALOG_URL", overlay.CatalogURL),
		CatalogToken:   requireEnv("SHELF_CATALOG_TOKEN", overlay.CatalogToken),
		CatalogTimeout: mustDuration("SHELF_CATALOG_TIMEOUT", 10*time.Second),

		// Bookmark coordination
		HydrateConcurrency: getenvInt("SHELF_HYDRATE_CONCURRENCY", 4),
		RefreshInterval:    mustDuration("SHELF_REFRESH_INTERVAL", 1*time.Hour),
		SessionIdleTTL:     mustDuration("SHELF_SESSION_IDLE_TTL", 30*time.Minute),

		// Redis settings
		RedisAddr:           requireEnv("SHELF_REDIS_ADDR", overlay.RedisAddr),
		RedisUser:           getenv("SHELF_REDIS_USERNAME", overlay.RedisUser, "default"),
		RedisPassword:       getenv("SHELF_REDIS_PASSWORD", overlay.RedisPassword, ""),
		RedisDB:             getenvInt("SHELF_REDIS_DB", intOr(overlay.RedisDB, 0)),
		RedisDT:             mustDuration("SHELF_REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:             mustDuration("SHELF_REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:             mustDuration("SHELF_REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisPoolSize:       getenvInt("SHELF_REDIS_POOL_SIZE", 10),
		RedisConnectTimeout: mustDuration("SHELF_REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:  mustDuration("SHELF_REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisMaxWait:        mustDuration("SHELF_REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:    mustDuration("SHELF_REDIS_PING_TIMEOUT", 5*time.Second),
		RedisWarnThreshold:  getenvInt("SHELF_REDIS_WARN_THRESHOLD", 3),
	}

	if cfg.HydrateConcurrency < 1 {
		cfg.HydrateConcurrency = 1
	}

	return cfg
}

// loadOverlay reads the optional YAML config file. A missing path is fine;
// a broken file is a fatal misconfiguration.
func loadOverlay(path string) fileConfig {
	var fc fileConfig
	if path == "" {
		return fc
	}
	data, err := os.ReadFile(path)
	if err != nil {
		panic(fmt.Sprintf("FATAL: cannot read config file %s: %v", path, err))
	}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		panic(fmt.Sprintf("FATAL: cannot parse config file %s: %v", path, err))
	}
	return fc
}

// helpers

// getenv resolves env > file overlay > default.
func getenv(key, fileVal, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	if fileVal != "" {
		return fileVal
	}
	return def
}

// requireEnv resolves env > file overlay, panicking when neither is set.
func requireEnv(key, fileVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	if fileVal != "" {
		return fileVal
	}
	panic(fmt.Sprintf("FATAL: required setting %s is not set (env or config file)", key))
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func intOr(p *int, def int) int {
	if p != nil {
		return *p
	}
	return def
}
