package remote

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/bevzzz/cody/internal/logging"
	"github.com/bevzzz/cody/internal/storage"
)

// Cache TTL defaults. Content is cached longest; search results go stale
// faster as the index advances.
const (
	CacheTTLFileSearch   = 15 * time.Minute
	CacheTTLSymbolSearch = 15 * time.Minute
	CacheTTLContent      = time.Hour
)

// CachedClient wraps a Client with a persistent result cache.
type CachedClient struct {
	client *Client
	cache  *storage.RemoteCache
	logger *logging.Logger
}

// NewCachedClient creates a caching wrapper around a remote client.
func NewCachedClient(client *Client, cache *storage.RemoteCache, logger *logging.Logger) *CachedClient {
	return &CachedClient{client: client, cache: cache, logger: logger}
}

// Client returns the underlying remote client.
func (c *CachedClient) Client() *Client {
	return c.client
}

// cacheKey hashes request components into a fixed-size key.
func cacheKey(parts ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(parts, ":")))
	return hex.EncodeToString(hash[:16])
}

// getFromCache retrieves and unmarshals a cached value. An unmarshal error
// is a miss, not a failure.
func (c *CachedClient) getFromCache(key string, target interface{}) bool {
	data, found, err := c.cache.Get(c.client.Server().Name, key)
	if err != nil || !found {
		return false
	}
	return json.Unmarshal(data, target) == nil
}

// setInCache marshals and stores a value. Failures are logged, never
// surfaced; a broken cache degrades to fetch-always.
func (c *CachedClient) setInCache(key string, value interface{}, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err == nil {
		err = c.cache.Set(c.client.Server().Name, key, data, ttl)
	}
	if err != nil && c.logger != nil {
		c.logger.Warn("Failed to cache remote result", map[string]interface{}{
			"server": c.client.Server().Name,
			"error":  err.Error(),
		})
	}
}

// SearchFiles runs the backend file search with caching.
func (c *CachedClient) SearchFiles(ctx context.Context, repos []string, query string, limit int) ([]FileHit, error) {
	key := cacheKey("search", "files", strings.Join(repos, ","), query, fmt.Sprintf("%d", limit))

	var cached []FileHit
	if c.getFromCache(key, &cached) {
		return cached, nil
	}

	hits, err := c.client.SearchFiles(ctx, repos, query, limit)
	if err != nil {
		return nil, err
	}
	c.setInCache(key, hits, CacheTTLFileSearch)
	return hits, nil
}

// SearchSymbols runs the backend symbol search with caching.
func (c *CachedClient) SearchSymbols(ctx context.Context, repos []string, query string, limit int) ([]SymbolHit, error) {
	key := cacheKey("search", "symbols", strings.Join(repos, ","), query, fmt.Sprintf("%d", limit))

	var cached []SymbolHit
	if c.getFromCache(key, &cached) {
		return cached, nil
	}

	hits, err := c.client.SearchSymbols(ctx, repos, query, limit)
	if err != nil {
		return nil, err
	}
	c.setInCache(key, hits, CacheTTLSymbolSearch)
	return hits, nil
}

// GetFileContent fetches file content with caching.
func (c *CachedClient) GetFileContent(ctx context.Context, repoName, path string) (string, error) {
	key := cacheKey("content", repoName, path)

	var cached string
	if c.getFromCache(key, &cached) {
		return cached, nil
	}

	content, err := c.client.GetFileContent(ctx, repoName, path)
	if err != nil {
		return "", err
	}
	c.setInCache(key, content, CacheTTLContent)
	return content, nil
}

// InvalidateAll drops every cached entry for this server.
func (c *CachedClient) InvalidateAll() error {
	return c.cache.Clear(c.client.Server().Name)
}
