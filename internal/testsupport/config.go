package testsupport

import (
	"path/filepath"
	"testing"

	"einsync/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DownloadDir = filepath.Join(base, "downloads")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.CookiesFile = ""
	cfg.Radarr.URL = "http://127.0.0.1:7878"
	cfg.Radarr.APIKey = "test"
	cfg.Catalog.RequestGap = 0

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithLanguages overrides the language partitions on the test config.
func WithLanguages(languages ...string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Sync.Languages = languages
	}
}

// WithMinScore overrides the acceptance threshold on the test config.
func WithMinScore(score float64) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Sync.MinScore = score
	}
}
