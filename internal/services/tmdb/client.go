package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"github.com/streamflix/streamflix/internal/config"
)

// Client handles communication with the TMDB API
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	cache      *gocache.Cache
	logger     *logrus.Logger
}

// NewClient creates a new TMDB API client
func NewClient(cfg *config.Config, logger *logrus.Logger) *Client {
	return &Client{
		apiKey:     cfg.TMDBAPIKey,
		baseURL:    strings.TrimSuffix(cfg.TMDBBaseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		cache:      gocache.New(cfg.CacheTTL, 2*cfg.CacheTTL),
		logger:     logger,
	}
}

// get performs a GET request against the TMDB API, appending the api key
// credential and caching decoded responses by path+query. The cache key
// never contains the credential.
func (c *Client) get(ctx context.Context, path string, query url.Values, result interface{}) error {
	if query == nil {
		query = url.Values{}
	}

	cacheKey := path
	if enc := query.Encode(); enc != "" {
		cacheKey += "?" + enc
	}
	if cached, ok := c.cache.Get(cacheKey); ok {
		return json.Unmarshal(cached.([]byte), result)
	}

	query.Set("api_key", c.apiKey)
	fullURL := c.baseURL + path + "?" + query.Encode()

	c.logger.WithField("path", path).Debug("Making TMDB API request")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	c.cache.SetDefault(cacheKey, body)
	return nil
}

// CacheItemCount returns the number of cached API responses
func (c *Client) CacheItemCount() int {
	return c.cache.ItemCount()
}
