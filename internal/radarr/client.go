package radarr

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Movie is the subset of a Radarr movie record the sync loop consumes.
type Movie struct {
	ID               int64    `json:"id"`
	Title            string   `json:"title"`
	Year             int      `json:"year"`
	HasFile          bool     `json:"hasFile"`
	ImdbID           string   `json:"imdbId"`
	TmdbID           int64    `json:"tmdbId"`
	Path             string   `json:"path"`
	OriginalLanguage Language `json:"originalLanguage"`
}

// Language is Radarr's nested language descriptor.
type Language struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// OriginalLanguageName returns the movie's original language lowercased, or
// empty when Radarr has none recorded.
func (m Movie) OriginalLanguageName() string {
	return strings.ToLower(strings.TrimSpace(m.OriginalLanguage.Name))
}

// command is the body of a Radarr command request.
type command struct {
	Name     string  `json:"name"`
	MovieIDs []int64 `json:"movieIds,omitempty"`
}

// Client provides access to the Radarr v3 API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout overrides the default request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// New creates a Radarr client.
func New(baseURL, apiKey string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("radarr url required")
	}
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("radarr api key required")
	}
	client := &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Movies fetches the full movie list.
func (c *Client) Movies(ctx context.Context) ([]Movie, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v3/movie", nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("radarr movie list returned %d (latency=%v)", resp.StatusCode, latency)
	}

	var movies []Movie
	if err := json.NewDecoder(resp.Body).Decode(&movies); err != nil {
		return nil, fmt.Errorf("decode movie list: %w", err)
	}
	return movies, nil
}

// Missing returns the movies without a local file, preserving list order.
func (c *Client) Missing(ctx context.Context) ([]Movie, error) {
	movies, err := c.Movies(ctx)
	if err != nil {
		return nil, err
	}
	missing := make([]Movie, 0, len(movies))
	for _, m := range movies {
		if !m.HasFile {
			missing = append(missing, m)
		}
	}
	return missing, nil
}

// RescanMovie asks Radarr to rescan a single movie's folder.
func (c *Client) RescanMovie(ctx context.Context, movieID int64) error {
	return c.postCommand(ctx, command{Name: "RescanMovie", MovieIDs: []int64{movieID}})
}

// RescanLibrary asks Radarr to rescan the whole library.
func (c *Client) RescanLibrary(ctx context.Context) error {
	return c.postCommand(ctx, command{Name: "RescanMovie"})
}

func (c *Client) postCommand(ctx context.Context, cmd command) error {
	payload, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("encode command: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v3/command", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute command %s: %w", cmd.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("radarr command %s returned %d", cmd.Name, resp.StatusCode)
	}
	return nil
}
