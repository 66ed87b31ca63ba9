// internal/clients/tavily/client.go
package tavily

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Searcher is the surface the web-search stage depends on.
type Searcher interface {
	Search(ctx context.Context, query string) ([]Result, error)
}

type Config struct {
	APIKey      string
	BaseURL     string
	SearchDepth string
	MaxResults  int
	Timeout     time.Duration
}

type Client struct {
	config Config
	client *http.Client
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.tavily.com"
	}
	if cfg.SearchDepth == "" {
		cfg.SearchDepth = "advanced"
	}
	if cfg.MaxResults == 0 {
		cfg.MaxResults = 5
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{
		config: cfg,
		client: &http.Client{Timeout: timeout},
	}
}

// Configured reports whether an API key is present. Without one the
// caller skips search entirely.
func (c *Client) Configured() bool {
	return c.config.APIKey != ""
}

// Search issues one POST /search call and returns results in provider
// order.
func (c *Client) Search(ctx context.Context, query string) ([]Result, error) {
	payload := searchRequest{
		APIKey:      c.config.APIKey,
		Query:       query,
		SearchDepth: c.config.SearchDepth,
		MaxResults:  c.config.MaxResults,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search API returned %d", resp.StatusCode)
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	return parsed.Results, nil
}
