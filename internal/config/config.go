package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Config holds algo configuration loaded from environment variables.
type Config struct {
	Profile      string
	ProfileFile  string
	Seed         int64
	MatchID      string
	EngineURL    string
	EngineSecret string
	RedisURL     string
	DatabaseURL  string
	JournalDir   string
}

// Load reads configuration from environment variables with defaults. Every
// persistence setting is optional and empty by default.
func Load() (*Config, error) {
	cfg := &Config{
		Profile:      envOrDefault("ALGO_PROFILE", "turtle"),
		ProfileFile:  os.Getenv("ALGO_PROFILE_FILE"),
		MatchID:      envOrDefault("MATCH_ID", uuid.NewString()),
		EngineURL:    os.Getenv("ENGINE_URL"),
		EngineSecret: os.Getenv("ENGINE_SECRET"),
		RedisURL:     os.Getenv("REDIS_URL"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		JournalDir:   os.Getenv("JOURNAL_DIR"),
	}
	if s := os.Getenv("ALGO_SEED"); s != "" {
		seed, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse ALGO_SEED: %w", err)
		}
		cfg.Seed = seed
	}
	if cfg.EngineURL != "" && !strings.HasPrefix(cfg.EngineURL, "ws://") && !strings.HasPrefix(cfg.EngineURL, "wss://") {
		return nil, fmt.Errorf("ENGINE_URL %q: expected ws:// or wss://", cfg.EngineURL)
	}
	return cfg, nil
}

// Database drivers a DATABASE_URL can select.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Database splits DATABASE_URL into a driver name and the DSN that driver
// expects. Both are empty when no database is configured.
func (c *Config) Database() (driver, dsn string, err error) {
	u := c.DatabaseURL
	switch {
	case u == "":
		return "", "", nil
	case strings.HasPrefix(u, "postgres://"), strings.HasPrefix(u, "postgresql://"):
		return DriverPostgres, u, nil
	case strings.HasPrefix(u, "sqlite://"):
		return DriverSQLite, strings.TrimPrefix(u, "sqlite://"), nil
	case strings.HasPrefix(u, "file:"):
		return DriverSQLite, u, nil
	}
	return "", "", fmt.Errorf("DATABASE_URL: unsupported scheme in %q", u)
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
