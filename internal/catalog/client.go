package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// defaultUserAgent mirrors a desktop browser; the provider serves a
	// different page skeleton to unknown agents.
	defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	defaultTimeout      = 30 * time.Second
	defaultMaxRedirects = 5
	defaultRequestGap   = time.Second
)

// Client provides access to the catalog over one logical session.
type Client struct {
	baseURL      string
	userAgent    string
	maxRedirects int
	httpClient   *http.Client
	limiter      *rate.Limiter
	logger       *slog.Logger

	// mu serializes outbound requests; the cookie jar is affine to one
	// logical session and must not be mutated by two in-flight requests.
	mu sync.Mutex
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client. The provided client's
// cookie jar takes precedence over the one passed to New.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithLogger attaches a logger for request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithUserAgent overrides the browser user agent sent with every request.
func WithUserAgent(agent string) Option {
	return func(c *Client) {
		if strings.TrimSpace(agent) != "" {
			c.userAgent = agent
		}
	}
}

// WithMaxRedirects bounds the premium redirect chain during resolution.
func WithMaxRedirects(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxRedirects = n
		}
	}
}

// WithRequestGap sets the minimum spacing between outbound catalog requests.
// A zero or negative gap disables pacing.
func WithRequestGap(gap time.Duration) Option {
	return func(c *Client) {
		if gap > 0 {
			c.limiter = rate.NewLimiter(rate.Every(gap), 1)
		} else {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
		}
	}
}

// New creates a catalog client rooted at baseURL. The jar carries the
// pre-supplied session cookies; pass nil for an anonymous session.
func New(baseURL string, jar http.CookieJar, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("catalog base url required")
	}
	client := &Client{
		baseURL:      baseURL,
		userAgent:    defaultUserAgent,
		maxRedirects: defaultMaxRedirects,
		httpClient:   &http.Client{Timeout: defaultTimeout, Jar: jar},
		limiter:      rate.NewLimiter(rate.Every(defaultRequestGap), 1),
		logger:       slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// BaseURL returns the catalog origin the client is rooted at.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// get fetches target and returns the body. Non-2xx statuses are returned as
// ErrTransport.
func (c *Client) get(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	return c.do(req)
}

// postForm submits an urlencoded form to target and returns the body.
func (c *Client) postForm(ctx context.Context, target string, form url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	req.Header.Set("User-Agent", c.userAgent)

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	c.logger.Debug("catalog request",
		slog.String("method", req.Method),
		slog.String("url", req.URL.String()),
		slog.Int("status", resp.StatusCode),
		slog.Duration("latency", latency))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s returned %d (latency=%v)", ErrTransport, req.URL.Path, resp.StatusCode, latency)
	}
	return body, nil
}
