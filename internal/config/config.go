// Package config loads the relay configuration from the environment,
// optionally seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Addr           string        `env:"ADDR"            envDefault:":8080"`
	LogLevel       string        `env:"LOG_LEVEL"       envDefault:"info"`
	LogDevelopment bool          `env:"LOG_DEVELOPMENT"`
	DatabaseURL    string        `env:"DATABASE_URL"`
	RedisURL       string        `env:"REDIS_URL"`
	SnapshotTTL    time.Duration `env:"SNAPSHOT_TTL"    envDefault:"24h"`
	MDNSEnabled    bool          `env:"MDNS_ENABLED"`
	MDNSInstance   string        `env:"MDNS_INSTANCE"   envDefault:"sketch-relay"`
	AllowedOrigins []string      `env:"ALLOWED_ORIGINS" envSeparator:","`
}

// Load reads the given .env files (default ".env") into the process
// environment, then parses Config. Missing files are ignored and variables
// already set in the environment win.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if _, err := c.Port(); err != nil {
		return err
	}
	if c.SnapshotTTL <= 0 {
		return fmt.Errorf("SNAPSHOT_TTL must be positive, got %s", c.SnapshotTTL)
	}
	return nil
}

// Port extracts the numeric listen port from Addr.
func (c Config) Port() (int, error) {
	_, p, err := net.SplitHostPort(c.Addr)
	if err != nil {
		return 0, fmt.Errorf("invalid ADDR %q: %w", c.Addr, err)
	}
	port, err := strconv.Atoi(p)
	if err != nil || port < 0 || port > 65535 {
		return 0, fmt.Errorf("invalid ADDR port %q", p)
	}
	return port, nil
}
