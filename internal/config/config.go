package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	defaultDBPath    = "./data/pintorpro.db"
	defaultPort      = "8080"
	defaultRedisAddr = "localhost:6379"
	defaultLogLevel  = "info"
	defaultEnv       = "production"
)

// Backends the state snapshot can be stored in.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	Env          string
	Port         string
	StateBackend string
	DBPath       string
	RedisAddr    string
	RedisPass    string
	RedisDB      int
	LogLevel     string
	LogFormat    string
	NodeID       int64
	DocNote      string
	NumberFormat string
}

// IsDev reports whether the app runs in development mode.
func (c Config) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}

// Load reads environment variables and returns a populated Config. Files are
// dotenv files loaded first; a missing file is ignored and variables already
// present in the environment win.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	cfg := Config{
		Env:          getenv("APP_ENV", defaultEnv),
		Port:         getenv("PORT", defaultPort),
		StateBackend: strings.ToLower(getenv("STATE_BACKEND", BackendSQLite)),
		DBPath:       getenv("DB_PATH", defaultDBPath),
		RedisAddr:    getenv("REDIS_ADDR", defaultRedisAddr),
		RedisPass:    os.Getenv("REDIS_PASSWORD"),
		LogLevel:     getenv("LOG_LEVEL", defaultLogLevel),
		LogFormat:    os.Getenv("LOG_FORMAT"),
		DocNote:      os.Getenv("DOC_NOTE"),
		NumberFormat: os.Getenv("DOC_NUMBER_FORMAT"),
	}

	var err error
	if cfg.RedisDB, err = getint("REDIS_DB", 0); err != nil {
		return Config{}, err
	}
	node, err := getint("NODE_ID", 1)
	if err != nil {
		return Config{}, err
	}
	cfg.NodeID = int64(node)

	switch cfg.StateBackend {
	case BackendSQLite, BackendRedis:
	default:
		return Config{}, fmt.Errorf("STATE_BACKEND must be %q or %q, got %q", BackendSQLite, BackendRedis, cfg.StateBackend)
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "json"
		if cfg.IsDev() {
			cfg.LogFormat = "console"
		}
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getint(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}
