package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// DefaultConfigPath is read when present; environment variables override it.
const DefaultConfigPath = "config.yaml"

// Transport values for MCPConfig.Transport.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Config holds all configuration for plane-mcp.
// Configuration can come from a YAML file or environment variables.
// Environment variables always override YAML values.
// Secrets (the Plane API key) must only come from environment variables.
type Config struct {
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	Version  string `yaml:"-"` // Set at load time, not from config

	Plane PlaneConfig `yaml:"plane"`
	MCP   MCPConfig   `yaml:"mcp"`
}

// PlaneConfig holds the connection settings for the Plane REST API.
type PlaneConfig struct {
	// APIKey is sent as X-API-Key. There is deliberately no default.
	APIKey string `yaml:"-" env:"PLANE_API_KEY"` // Secret - not in YAML

	// BaseURL is the API root including the version, e.g. https://api.plane.so/api/v1.
	BaseURL string `yaml:"base_url" env:"PLANE_BASE_URL" env-default:"https://api.plane.so/api/v1"`

	WorkspaceSlug string `yaml:"workspace_slug" env:"PLANE_WORKSPACE_SLUG"`

	HTTPTimeout time.Duration `yaml:"http_timeout" env:"PLANE_HTTP_TIMEOUT" env-default:"30s"`

	// PageSize and MaxPages bound cursor pagination on list endpoints.
	PageSize int `yaml:"page_size" env:"PLANE_PAGE_SIZE" env-default:"100"`
	MaxPages int `yaml:"max_pages" env:"PLANE_MAX_PAGES" env-default:"50"`

	// MaxRetries applies to GET requests only. Zero disables retries.
	MaxRetries int `yaml:"max_retries" env:"PLANE_MAX_RETRIES" env-default:"0"`
}

// MCPConfig controls how the MCP server is exposed.
type MCPConfig struct {
	Transport string `yaml:"transport" env:"MCP_TRANSPORT" env-default:"stdio"`
	BindAddr  string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port      string `yaml:"port" env:"PORT" env-default:"3443"`

	// LogRequests enables JSON-RPC request logging on the HTTP transport.
	LogRequests bool `yaml:"log_requests" env:"MCP_LOG_REQUESTS" env-default:"true"`
}

// Addr returns the listen address for the HTTP transport.
func (c *MCPConfig) Addr() string {
	return c.BindAddr + ":" + c.Port
}

// Load reads configuration from path (if the file exists) with environment
// variable overrides. An empty path means DefaultConfigPath.
func Load(version, path string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if path == "" {
		path = DefaultConfigPath
	}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	} else if errors.Is(err, os.ErrNotExist) {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	} else {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	cfg.Plane.normalize()
	cfg.Plane.BaseURL = resolveURLForDocker(cfg.Plane.BaseURL, IsRunningInDocker())
	cfg.MCP.Transport = strings.ToLower(strings.TrimSpace(cfg.MCP.Transport))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// normalize trims user input that commonly carries stray whitespace or slashes.
func (c *PlaneConfig) normalize() {
	c.APIKey = strings.TrimSpace(c.APIKey)
	c.WorkspaceSlug = strings.Trim(strings.TrimSpace(c.WorkspaceSlug), "/")
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
}

// Validate checks the configuration. There is no insecure fallback: a missing
// API key or workspace is an error.
func (c *Config) Validate() error {
	if err := c.Plane.Validate(); err != nil {
		return fmt.Errorf("invalid plane configuration: %w", err)
	}

	switch c.MCP.Transport {
	case TransportStdio, TransportHTTP:
	default:
		return fmt.Errorf("invalid mcp transport %q: must be %q or %q", c.MCP.Transport, TransportStdio, TransportHTTP)
	}

	return nil
}

// Validate checks the Plane connection settings.
func (c *PlaneConfig) Validate() error {
	if c.APIKey == "" {
		return errors.New("PLANE_API_KEY is required")
	}
	if c.WorkspaceSlug == "" {
		return errors.New("PLANE_WORKSPACE_SLUG is required")
	}
	if strings.Contains(c.WorkspaceSlug, "/") {
		return fmt.Errorf("workspace slug %q must not contain '/'", c.WorkspaceSlug)
	}

	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid PLANE_BASE_URL: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("PLANE_BASE_URL must be an absolute http(s) URL, got %q", c.BaseURL)
	}

	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("PLANE_HTTP_TIMEOUT must be positive, got %s", c.HTTPTimeout)
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("PLANE_PAGE_SIZE must be positive, got %d", c.PageSize)
	}
	if c.MaxPages <= 0 {
		return fmt.Errorf("PLANE_MAX_PAGES must be positive, got %d", c.MaxPages)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("PLANE_MAX_RETRIES must not be negative, got %d", c.MaxRetries)
	}

	return nil
}
