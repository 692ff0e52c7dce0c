// Package plane provides a client for the Plane project-management REST API.
package plane

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ekaya-inc/plane-mcp/pkg/apperrors"
	"github.com/ekaya-inc/plane-mcp/pkg/config"
	"github.com/ekaya-inc/plane-mcp/pkg/logging"
	"github.com/ekaya-inc/plane-mcp/pkg/retry"
)

// DefaultTimeout is the maximum time to wait for a Plane response when the
// configuration does not set one.
const DefaultTimeout = 30 * time.Second

// Client provides access to one Plane workspace.
type Client struct {
	httpClient *http.Client
	baseURL    string
	workspace  string
	apiKey     string
	pageSize   int
	maxPages   int
	retry      *retry.Config
	logger     *zap.Logger
}

// NewClient creates a Plane client from validated configuration.
func NewClient(cfg *config.PlaneConfig, logger *zap.Logger) *Client {
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 100
	}
	maxPages := cfg.MaxPages
	if maxPages <= 0 {
		maxPages = 1
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:   cfg.BaseURL,
		workspace: cfg.WorkspaceSlug,
		apiKey:    cfg.APIKey,
		pageSize:  pageSize,
		maxPages:  maxPages,
		retry:     retry.WithMaxRetries(cfg.MaxRetries),
		logger:    logger.Named("plane"),
	}
}

// Workspace returns the workspace slug this client is bound to.
func (c *Client) Workspace() string {
	return c.workspace
}

// response is a fully read HTTP response.
type response struct {
	StatusCode int
	Body       []byte
}

// projectsURL builds {base}/workspaces/{slug}/projects/{segments...}/ with query.
func (c *Client) projectsURL(query url.Values, segments ...string) (string, error) {
	all := append([]string{"workspaces", c.workspace, "projects"}, segments...)
	endpoint, err := buildURL(c.baseURL, all...)
	if err != nil {
		return "", err
	}
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	return endpoint, nil
}

// get performs a GET, retrying transient failures when retries are enabled.
// A final retryable status is handed back as a response so the caller's
// status handling still applies.
func (c *Client) get(ctx context.Context, endpoint string) (*response, error) {
	resp, err := retry.DoWithResult(ctx, c.retry, func() (*response, error) {
		resp, err := c.do(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return resp, &StatusError{Method: http.MethodGet, URL: endpoint, StatusCode: resp.StatusCode}
		}
		return resp, nil
	})
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) && resp != nil {
			return resp, nil
		}
		return nil, err
	}
	return resp, nil
}

// do executes one request and reads the whole body. Status codes are left to the caller.
func (c *Client) do(ctx context.Context, method, endpoint string, body any) (*response, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("X-API-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Plane request failed",
			zap.String("method", method),
			zap.String("url", logging.SanitizeURL(endpoint)),
			zap.String("error", logging.RedactSecret(logging.SanitizeError(err), c.apiKey)))
		return nil, &TransportError{Method: method, URL: endpoint, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Method: method, URL: endpoint, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	c.logger.Debug("Plane request",
		zap.String("method", method),
		zap.String("url", logging.SanitizeURL(endpoint)),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))

	return &response{StatusCode: resp.StatusCode, Body: respBody}, nil
}

// expect returns a *StatusError unless resp carries one of the accepted codes.
func (c *Client) expect(method, endpoint string, resp *response, accepted ...int) error {
	if slices.Contains(accepted, resp.StatusCode) {
		return nil
	}

	body := logging.TruncateString(logging.RedactSecret(string(resp.Body), c.apiKey), logging.MaxValueLogLength)
	c.logger.Warn("Plane returned unexpected status",
		zap.String("method", method),
		zap.String("url", logging.SanitizeURL(endpoint)),
		zap.Int("status", resp.StatusCode),
		zap.String("body", body))

	return &StatusError{Method: method, URL: endpoint, StatusCode: resp.StatusCode, Body: body}
}

// decode unmarshals a JSON body into out.
func decode(body []byte, out any) error {
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// buildURL constructs a URL by parsing the base and joining path segments.
// Plane routes end with a slash. Segments must not contain path separators.
func buildURL(baseURL string, pathSegments ...string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}

	for _, segment := range pathSegments {
		if segment == "" || segment == "." || segment == ".." || strings.ContainsAny(segment, "/\\?#") {
			return "", apperrors.Invalid("Invalid identifier %q", segment)
		}
	}

	segments := append([]string{u.Path}, pathSegments...)
	u.Path = path.Join(segments...) + "/"

	return u.String(), nil
}
