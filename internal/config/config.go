// internal/config/config.go
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/karstlab/cavemap/internal/api"
)

// DefaultConfigDir is the directory under the user's home holding the
// config file, e.g. ~/.cavemap/config.yaml.
const DefaultConfigDir = ".cavemap"

// Config holds global configuration settings for talking to the survey backend.
type Config struct {
	// ServerURL is the backend base URL.
	ServerURL string `yaml:"server_url"`
	// CSRFCookie is the cookie the backend issues its anti-forgery token in.
	CSRFCookie string `yaml:"csrf_cookie"`
	// CSRFToken optionally seeds the token for sessions established elsewhere.
	CSRFToken string `yaml:"csrf_token"`
	// DefaultProject is the project scope used when none is passed on a command.
	DefaultProject string `yaml:"default_project"`
	// DefaultNetwork is the network scope used when none is passed on a command.
	DefaultNetwork string `yaml:"default_network"`
	// Timeout bounds each API request.
	Timeout time.Duration `yaml:"timeout"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		ServerURL:  "http://localhost:8000",
		CSRFCookie: api.DefaultCSRFCookie,
		Timeout:    30 * time.Second,
	}
}

// LoadConfig loads configuration in ascending precedence: defaults, the
// config.yaml file, a .env file in the working directory, then process
// environment variables.
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	if path := configFilePath(); path != "" {
		if data, err := os.ReadFile(path); err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse %s: %w", path, err)
			}
		}
	}

	// A missing .env is fine; Overload is not used so the process
	// environment still wins.
	_ = godotenv.Load()

	if v := os.Getenv("CAVEMAP_SERVER_URL"); v != "" {
		cfg.ServerURL = v
	}
	if v := os.Getenv("CAVEMAP_CSRF_COOKIE"); v != "" {
		cfg.CSRFCookie = v
	}
	if v := os.Getenv("CAVEMAP_CSRF_TOKEN"); v != "" {
		cfg.CSRFToken = v
	}
	if v := os.Getenv("CAVEMAP_PROJECT"); v != "" {
		cfg.DefaultProject = v
	}
	if v := os.Getenv("CAVEMAP_NETWORK"); v != "" {
		cfg.DefaultNetwork = v
	}
	if v := os.Getenv("CAVEMAP_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid CAVEMAP_TIMEOUT %q: %w", v, err)
		}
		cfg.Timeout = d
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.ServerURL == "" {
		return fmt.Errorf("server URL cannot be empty")
	}
	u, err := url.Parse(c.ServerURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("server URL %q is not a valid absolute URL", c.ServerURL)
	}
	if c.CSRFCookie == "" {
		return fmt.Errorf("CSRF cookie name cannot be empty")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}

// Save writes the configuration to the config.yaml file.
func (c *Config) Save() error {
	path := configFilePath()
	if path == "" {
		return fmt.Errorf("cannot resolve config file path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// configFilePath resolves the config file location; CAVEMAP_HOME overrides
// the default directory under the user's home.
func configFilePath() string {
	if envDir := os.Getenv("CAVEMAP_HOME"); envDir != "" {
		return filepath.Join(envDir, "config.yaml")
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(DefaultConfigDir, "config.yaml")
	}
	return filepath.Join(homeDir, DefaultConfigDir, "config.yaml")
}
