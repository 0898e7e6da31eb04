package main

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"

	"einsync/internal/catalog"
	"einsync/internal/config"
	"einsync/internal/cookies"
	"einsync/internal/logging"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) configPath() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(c.configPath())
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

// newCatalogClient builds a catalog client from config, loading the cookie
// jar when one is configured. A missing cookie file is not an error: the
// client still works for free titles.
func (c *commandContext) newCatalogClient() (*catalog.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}

	jar, err := c.loadCookieJar(cfg, logger)
	if err != nil {
		return nil, err
	}

	opts := []catalog.Option{
		catalog.WithLogger(logger),
		catalog.WithMaxRedirects(cfg.Catalog.MaxRedirects),
		catalog.WithRequestGap(time.Duration(cfg.Catalog.RequestGap) * time.Second),
		catalog.WithHTTPClient(&http.Client{
			Timeout: time.Duration(cfg.Catalog.RequestTimeout) * time.Second,
			Jar:     jar,
		}),
	}
	if cfg.Catalog.UserAgent != "" {
		opts = append(opts, catalog.WithUserAgent(cfg.Catalog.UserAgent))
	}
	return catalog.New(cfg.Catalog.BaseURL, jar, opts...)
}

func (c *commandContext) loadCookieJar(cfg *config.Config, logger *slog.Logger) (http.CookieJar, error) {
	path := strings.TrimSpace(cfg.Paths.CookiesFile)
	if path == "" {
		return cookies.NewJar()
	}
	jar, err := cookies.Load(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warn("cookie file not found; premium titles will be unavailable",
				logging.String(logging.FieldPath, path),
			)
			return cookies.NewJar()
		}
		return nil, fmt.Errorf("load cookies: %w", err)
	}
	return jar, nil
}

func isInteractive(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
