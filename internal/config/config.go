package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Defaults applied when the corresponding environment variable is unset.
const (
	DefaultAddr       = ":8080"
	DefaultAccessTTL  = time.Hour
	DefaultRefreshTTL = 7 * 24 * time.Hour
	DefaultBcryptCost = 10
	DefaultRateBurst  = 20
	DefaultRatePerSec = 10
)

// Config carries every externally supplied setting. It is loaded once at
// startup and handed to constructors; components never read the
// environment themselves.
type Config struct {
	Addr  string
	PGDSN string

	AuthSecret string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	BcryptCost int

	// SuperAdminID identifies the seeded account that can be neither
	// re-roled nor deleted.
	SuperAdminID string

	Environment string

	RateBurst  int
	RatePerSec int
}

// Production reports whether verbose server-fault logging must be
// suppressed.
func (c Config) Production() bool {
	return strings.EqualFold(c.Environment, "production")
}

// Load reads the CRISISGRID_* environment. The signing secret is the only
// mandatory setting; everything else has a serviceable default.
func Load() (Config, error) {
	cfg := Config{
		Addr:         envStr("CRISISGRID_ADDR", DefaultAddr),
		PGDSN:        os.Getenv("CRISISGRID_PG_DSN"),
		AuthSecret:   strings.TrimSpace(os.Getenv("CRISISGRID_AUTH_SECRET")),
		SuperAdminID: strings.TrimSpace(os.Getenv("CRISISGRID_SUPER_ADMIN_ID")),
		Environment:  envStr("CRISISGRID_ENV", "development"),
	}
	if cfg.AuthSecret == "" {
		return Config{}, errors.New("config: CRISISGRID_AUTH_SECRET is required")
	}

	var err error
	if cfg.AccessTTL, err = envDur("CRISISGRID_ACCESS_TTL", DefaultAccessTTL); err != nil {
		return Config{}, err
	}
	if cfg.RefreshTTL, err = envDur("CRISISGRID_REFRESH_TTL", DefaultRefreshTTL); err != nil {
		return Config{}, err
	}
	if cfg.BcryptCost, err = envInt("CRISISGRID_BCRYPT_COST", DefaultBcryptCost); err != nil {
		return Config{}, err
	}
	if cfg.RateBurst, err = envInt("CRISISGRID_RATE_BURST", DefaultRateBurst); err != nil {
		return Config{}, err
	}
	if cfg.RatePerSec, err = envInt("CRISISGRID_RATE_PER_SEC", DefaultRatePerSec); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func envStr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envDur(key string, def time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("config: %s must be a positive duration, got %q", key, raw)
	}
	return d, nil
}

func envInt(key string, def int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("config: %s must be a positive integer, got %q", key, raw)
	}
	return v, nil
}
