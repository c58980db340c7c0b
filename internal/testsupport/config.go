// Package testsupport holds shared helpers for package tests.
package testsupport

import (
	"path/filepath"
	"testing"

	"cardhound/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Ebay.ClientID = "test-client"
	cfg.Ebay.ClientSecret = "test-secret"
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.APIBind = "127.0.0.1:0"

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithCacheTTL overrides the search cache lifetime, in minutes.
func WithCacheTTL(minutes int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Ebay.CacheTTL = minutes
	}
}

// WithDailyQuota overrides the daily API call allowance.
func WithDailyQuota(quota int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Ebay.DailyQuota = quota
	}
}
