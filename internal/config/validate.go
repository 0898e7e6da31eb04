package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateCatalog(); err != nil {
		return err
	}
	if err := c.validateRadarr(); err != nil {
		return err
	}
	if err := c.validateSync(); err != nil {
		return err
	}
	if err := c.validateDownload(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.DownloadDir) == "" {
		return errors.New("paths.download_dir must be set")
	}
	return nil
}

func (c *Config) validateCatalog() error {
	parsed, err := url.Parse(c.Catalog.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("catalog.base_url %q is not a valid URL", c.Catalog.BaseURL)
	}
	if err := ensurePositiveMap(map[string]int{
		"catalog.request_timeout": c.Catalog.RequestTimeout,
		"catalog.max_redirects":   c.Catalog.MaxRedirects,
	}); err != nil {
		return err
	}
	if c.Catalog.RequestGap < 0 {
		return errors.New("catalog.request_gap must not be negative")
	}
	return nil
}

func (c *Config) validateRadarr() error {
	if strings.TrimSpace(c.Radarr.URL) == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/einsync/config.toml"
		}
		return fmt.Errorf("radarr.url is required. Edit %s (create with 'einsync config init')", defaultPath)
	}
	if strings.TrimSpace(c.Radarr.APIKey) == "" {
		return errors.New("radarr.api_key is required. Set RADARR_API_KEY env var or add it to the config file")
	}
	if c.Radarr.RequestTimeout <= 0 {
		return errors.New("radarr.request_timeout must be positive")
	}
	return nil
}

func (c *Config) validateSync() error {
	if len(c.Sync.Languages) == 0 {
		return errors.New("sync.languages must list at least one language")
	}
	for _, lang := range c.Sync.Languages {
		if !KnownPartition(lang) {
			return fmt.Errorf("sync.languages contains unknown language %q (known: %s)", lang, strings.Join(Partitions, ", "))
		}
	}
	if c.Sync.MinScore < 0 || c.Sync.MinScore > 1 {
		return errors.New("sync.min_score must be between 0 and 1")
	}
	if c.Sync.MaxDownloads < 0 {
		return errors.New("sync.max_downloads must not be negative")
	}
	return nil
}

func (c *Config) validateDownload() error {
	if c.Download.Retries < 0 {
		return errors.New("download.retries must not be negative")
	}
	if c.Download.RetryDelay < 0 {
		return errors.New("download.retry_delay must not be negative")
	}
	return nil
}

func (c *Config) validateNotifications() error {
	if c.Notifications.RequestTimeout <= 0 {
		return errors.New("notifications.request_timeout must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format %q must be console or json", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q must be debug, info, warn, or error", c.Logging.Level)
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for name, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}
	return nil
}
