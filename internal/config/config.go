// Package config reads FarmChainX settings from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	EnvAPIURL      = "FARMCHAIN_API_URL"
	EnvTimeout     = "FARMCHAIN_TIMEOUT"
	EnvRate        = "FARMCHAIN_RATE"
	EnvBurst       = "FARMCHAIN_BURST"
	EnvSessionFile = "FARMCHAIN_SESSION_FILE"
	EnvPGDSN       = "FARMCHAIN_PG_DSN"
	EnvDevAddr     = "FARMCHAIN_DEV_ADDR"
	EnvAuthSecret  = "FARMCHAIN_AUTH_SECRET"

	DefaultAPIURL  = "http://localhost:8080/api"
	DefaultDevAddr = ":8080"
)

type Config struct {
	APIURL      string
	Timeout     time.Duration
	Rate        float64
	Burst       int
	SessionFile string
	PGDSN       string
	DevAddr     string
	AuthSecret  string
}

// Load reads every variable, applying defaults for unset ones.
// Malformed numbers and durations are errors rather than silently ignored.
func Load() (Config, error) {
	cfg := Config{
		APIURL:     env(EnvAPIURL, DefaultAPIURL),
		PGDSN:      env(EnvPGDSN, ""),
		DevAddr:    env(EnvDevAddr, DefaultDevAddr),
		AuthSecret: env(EnvAuthSecret, ""),
	}

	if raw := env(EnvTimeout, ""); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d < 0 {
			return Config{}, fmt.Errorf("%s: invalid duration %q", EnvTimeout, raw)
		}
		cfg.Timeout = d
	}
	if raw := env(EnvRate, ""); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			return Config{}, fmt.Errorf("%s: invalid rate %q", EnvRate, raw)
		}
		cfg.Rate = v
	}
	if raw := env(EnvBurst, ""); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return Config{}, fmt.Errorf("%s: invalid burst %q", EnvBurst, raw)
		}
		cfg.Burst = v
	}

	cfg.SessionFile = env(EnvSessionFile, "")
	if cfg.SessionFile == "" {
		path, err := DefaultSessionFile()
		if err != nil {
			return Config{}, err
		}
		cfg.SessionFile = path
	}
	return cfg, nil
}

// DefaultSessionFile is ~/.farmchain/session.json.
func DefaultSessionFile() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".farmchain", "session.json"), nil
}

func env(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
