// Package remote talks to the remote context backend: a paged, authenticated
// HTTP API that runs its own ranking over indexed repositories. The adapter
// in this package maps backend hits into context items; the client handles
// transport, retries and authentication.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bevzzz/cody/internal/logging"
)

const (
	// DefaultMaxRetries bounds retry attempts for a single logical request.
	DefaultMaxRetries = 3
	// DefaultRetryBaseDelay is the first backoff step.
	DefaultRetryBaseDelay = 200 * time.Millisecond
	// DefaultMaxBodySize caps how much of a response is read.
	DefaultMaxBodySize = 16 << 20
)

// Client is the HTTP client for a remote context backend.
type Client struct {
	server *Server
	client *http.Client
	logger *logging.Logger
}

// NewClient creates a client for one declared server.
func NewClient(server *Server, logger *logging.Logger) *Client {
	return &Client{
		server: server,
		client: &http.Client{Timeout: server.GetTimeout()},
		logger: logger,
	}
}

// Server returns the server declaration this client talks to.
func (c *Client) Server() *Server {
	return c.server
}

// retryConfig configures retry behavior.
type retryConfig struct {
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
}

func defaultRetryConfig() retryConfig {
	return retryConfig{
		maxRetries: DefaultMaxRetries,
		baseDelay:  DefaultRetryBaseDelay,
		maxDelay:   5 * time.Second,
	}
}

// doRequest performs an HTTP request with exponential backoff. Client errors
// (4xx) are returned immediately; only network failures and 5xx are retried.
// The body is a byte slice, not a reader, so every attempt sends the full
// payload.
func (c *Client) doRequest(ctx context.Context, method, path string, body []byte, query url.Values) (*http.Response, error) {
	cfg := defaultRetryConfig()

	u, err := url.Parse(c.server.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid server URL: %w", err)
	}
	u.Path = path
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var lastErr error
	for attempt := 0; attempt <= cfg.maxRetries; attempt++ {
		if attempt > 0 {
			delay := cfg.baseDelay * time.Duration(1<<uint(attempt-1))
			if delay > cfg.maxDelay {
				delay = cfg.maxDelay
			}

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}

			if c.logger != nil {
				c.logger.Debug("Retrying request", map[string]interface{}{
					"server":  c.server.Name,
					"attempt": attempt + 1,
					"url":     u.String(),
				})
			}
		}

		var payload io.Reader
		if body != nil {
			payload = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, u.String(), payload)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "cody-context-client/1.0")
		if token := c.server.GetToken(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("request failed: %w", err)
			continue
		}

		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return resp, nil
		}
		if resp.StatusCode >= 500 {
			_ = resp.Body.Close()
			lastErr = fmt.Errorf("server error: %d", resp.StatusCode)
			continue
		}

		return resp, nil
	}

	return nil, fmt.Errorf("request failed after %d retries: %w", cfg.maxRetries, lastErr)
}

// get performs a GET request and returns the response body.
func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, path, nil, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	limitedReader := io.LimitReader(resp.Body, DefaultMaxBodySize)
	data, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, c.parseErrorResponse(resp.StatusCode, data)
	}

	return data, nil
}

// parseErrorResponse extracts error information from a response.
func (c *Client) parseErrorResponse(statusCode int, body []byte) error {
	var resp struct {
		Error *errorInfo `json:"error,omitempty"`
	}
	if err := json.Unmarshal(body, &resp); err != nil || resp.Error == nil {
		return &APIError{
			StatusCode: statusCode,
			Code:       "unknown_error",
			Message:    strings.TrimSpace(string(body)),
		}
	}
	return &APIError{
		StatusCode: statusCode,
		Code:       resp.Error.Code,
		Message:    resp.Error.Message,
	}
}

// APIError represents an error from the remote backend.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("remote error %d (%s): %s", e.StatusCode, e.Code, e.Message)
}

// IsNotFound returns true for a 404 response.
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsUnauthorized returns true for a 401 response.
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// IsRateLimited returns true for a 429 response.
func (e *APIError) IsRateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

// parseResponse parses a data/meta/error envelope and extracts the data.
func parseResponse[T any](body []byte) (*T, *responseMeta, error) {
	var resp struct {
		Data  T             `json:"data"`
		Meta  *responseMeta `json:"meta,omitempty"`
		Error *errorInfo    `json:"error,omitempty"`
	}

	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Error != nil {
		return nil, nil, &APIError{Code: resp.Error.Code, Message: resp.Error.Message}
	}

	return &resp.Data, resp.Meta, nil
}

// Ping checks that the server is reachable and the token is accepted.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.get(ctx, "/context/repos", nil)
	if err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}
	return nil
}

// SearchFiles runs the backend's file search over the named repositories.
// The backend ranks; the result order is preserved as-is.
func (c *Client) SearchFiles(ctx context.Context, repos []string, query string, limit int) ([]FileHit, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("repos", strings.Join(repos, ","))
	if limit > 0 {
		params.Set("limit", fmt.Sprintf("%d", limit))
	}

	body, err := c.get(ctx, "/context/search/files", params)
	if err != nil {
		return nil, err
	}

	data, _, err := parseResponse[searchFilesResponse](body)
	if err != nil {
		return nil, err
	}

	return data.Files, nil
}

// SearchSymbols runs the backend's symbol search over the named repositories.
func (c *Client) SearchSymbols(ctx context.Context, repos []string, query string, limit int) ([]SymbolHit, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("repos", strings.Join(repos, ","))
	if limit > 0 {
		params.Set("limit", fmt.Sprintf("%d", limit))
	}

	body, err := c.get(ctx, "/context/search/symbols", params)
	if err != nil {
		return nil, err
	}

	data, _, err := parseResponse[searchSymbolsResponse](body)
	if err != nil {
		return nil, err
	}

	return data.Symbols, nil
}

// GetFileContent fetches the full content of one file in a repository.
func (c *Client) GetFileContent(ctx context.Context, repoName, path string) (string, error) {
	params := url.Values{}
	params.Set("path", path)

	reqPath := fmt.Sprintf("/context/repos/%s/content", url.PathEscape(repoName))
	body, err := c.get(ctx, reqPath, params)
	if err != nil {
		return "", err
	}

	data, _, err := parseResponse[fileContentResponse](body)
	if err != nil {
		return "", err
	}

	return data.Content, nil
}

// ListRepos pages through the repositories the server indexes.
func (c *Client) ListRepos(ctx context.Context, limit int, cursor string) ([]string, string, error) {
	params := url.Values{}
	if limit > 0 {
		params.Set("limit", fmt.Sprintf("%d", limit))
	}
	if cursor != "" {
		params.Set("cursor", cursor)
	}

	body, err := c.get(ctx, "/context/repos", params)
	if err != nil {
		return nil, "", err
	}

	data, meta, err := parseResponse[struct {
		Repos []string `json:"repos"`
	}](body)
	if err != nil {
		return nil, "", err
	}

	var next string
	if meta != nil {
		next = meta.Cursor
	}
	return data.Repos, next, nil
}
