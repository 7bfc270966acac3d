// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	pkgerrors "github.com/tombee/stagehand/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the complete stagehand configuration.
type Config struct {
	API           APIConfig           `yaml:"api"`
	Auth          AuthConfig          `yaml:"auth,omitempty"`
	Defaults      DefaultsConfig      `yaml:"defaults,omitempty"`
	Log           LogConfig           `yaml:"log"`
	Observability ObservabilityConfig `yaml:"observability,omitempty"`
}

// APIConfig configures how requests reach the GitHub API.
type APIConfig struct {
	// BaseURL is the API root. Point it at a GitHub Enterprise host to use
	// one, e.g. https://github.example.com/api/v3.
	// Environment: STAGEHAND_SERVER_URL
	BaseURL string `yaml:"base_url,omitempty"`

	// APIVersion is sent as X-GitHub-Api-Version on every request.
	// Environment: STAGEHAND_API_VERSION
	APIVersion string `yaml:"api_version,omitempty"`

	// TimeoutSeconds bounds a single HTTP request.
	TimeoutSeconds int `yaml:"timeout_seconds,omitempty"`
}

// AuthConfig configures how the bearer token is obtained.
type AuthConfig struct {
	// TokenSecret names the secret that holds a personal access token.
	// The secrets chain (env, keychain, encrypted file) resolves it.
	TokenSecret string `yaml:"token_secret,omitempty"`

	// App configures GitHub App authentication. When set, an installation
	// token is minted from the app key instead of reading TokenSecret.
	App AppConfig `yaml:"app,omitempty"`
}

// AppConfig identifies a GitHub App installation.
type AppConfig struct {
	// AppID is the numeric application id from the app settings page.
	AppID int64 `yaml:"app_id,omitempty"`

	// InstallationID selects which installation to mint tokens for.
	InstallationID int64 `yaml:"installation_id,omitempty"`

	// PrivateKeyPath points at the app's RSA private key in PEM form.
	PrivateKeyPath string `yaml:"private_key_path,omitempty"`
}

// Enabled reports whether app authentication is configured at all.
func (a AppConfig) Enabled() bool {
	return a.AppID != 0 || a.InstallationID != 0 || a.PrivateKeyPath != ""
}

// DefaultsConfig supplies owner/repo values for actions when flags omit them.
type DefaultsConfig struct {
	Owner string `yaml:"owner,omitempty"`
	Repo  string `yaml:"repo,omitempty"`
}

// LogConfig configures logging output.
type LogConfig struct {
	// Level is the minimum level: trace, debug, info, warn, error.
	// Environment: STAGEHAND_LOG_LEVEL
	Level string `yaml:"level,omitempty"`

	// Format is the handler format: text or json.
	// Environment: STAGEHAND_LOG_FORMAT
	Format string `yaml:"format,omitempty"`

	// AddSource includes file:line in log records.
	// Environment: STAGEHAND_LOG_SOURCE
	AddSource bool `yaml:"add_source"`
}

// ObservabilityConfig configures tracing and metrics export.
type ObservabilityConfig struct {
	// Traces activates span export for pipeline runs.
	Traces bool `yaml:"traces"`

	// Exporter selects the span destination: console, otlp, or otlp-http.
	Exporter string `yaml:"exporter,omitempty"`

	// OTLPEndpoint is the collector address for the otlp exporters.
	// Environment: STAGEHAND_OTLP_ENDPOINT
	OTLPEndpoint string `yaml:"otlp_endpoint,omitempty"`

	// Insecure disables TLS towards the OTLP collector.
	Insecure bool `yaml:"insecure"`

	// MetricsAddr, when set, serves Prometheus metrics during pipeline
	// runs, e.g. ":9090".
	MetricsAddr string `yaml:"metrics_addr,omitempty"`
}

// Default returns the configuration used when no file or overrides exist.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:        "https://api.github.com",
			APIVersion:     "2022-11-28",
			TimeoutSeconds: 30,
		},
		Auth: AuthConfig{
			TokenSecret: "github_token",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Observability: ObservabilityConfig{
			Exporter: "console",
		},
	}
}

// Load builds the effective configuration: defaults, then the config file,
// then environment overrides, then validation. An empty path loads the
// default config file location and tolerates its absence; an explicit path
// must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		defaultPath, err := Path()
		if err != nil {
			return nil, &pkgerrors.ConfigError{Key: "config_file", Reason: "cannot determine config path", Cause: err}
		}
		path = defaultPath
	}

	if err := cfg.loadFromFile(path); err != nil {
		if explicit || !os.IsNotExist(err) {
			return nil, &pkgerrors.ConfigError{
				Key:    "config_file",
				Reason: fmt.Sprintf("failed to load %s", path),
				Cause:  err,
			}
		}
	}

	cfg.applyDefaults()
	cfg.loadFromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Timeout returns the request timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

// Save writes the configuration to path atomically with owner-only
// permissions, creating parent directories as needed.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write to a sibling temp file so the rename stays on one filesystem.
	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temporary file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	return nil
}

func (c *Config) loadFromFile(path string) error {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	return nil
}

// applyDefaults fills zero values so a minimal config file works without
// spelling out every field.
func (c *Config) applyDefaults() {
	defaults := Default()

	if c.API.BaseURL == "" {
		c.API.BaseURL = defaults.API.BaseURL
	}
	if c.API.APIVersion == "" {
		c.API.APIVersion = defaults.API.APIVersion
	}
	if c.API.TimeoutSeconds == 0 {
		c.API.TimeoutSeconds = defaults.API.TimeoutSeconds
	}
	if c.Auth.TokenSecret == "" {
		c.Auth.TokenSecret = defaults.Auth.TokenSecret
	}
	if c.Log.Level == "" {
		c.Log.Level = defaults.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = defaults.Log.Format
	}
	if c.Observability.Exporter == "" {
		c.Observability.Exporter = defaults.Observability.Exporter
	}
}

func (c *Config) loadFromEnv() {
	if val := os.Getenv("STAGEHAND_SERVER_URL"); val != "" {
		c.API.BaseURL = val
	}
	if val := os.Getenv("STAGEHAND_API_VERSION"); val != "" {
		c.API.APIVersion = val
	}
	if val := os.Getenv("STAGEHAND_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil && d > 0 {
			c.API.TimeoutSeconds = int(d / time.Second)
		}
	}
	if val := os.Getenv("STAGEHAND_LOG_LEVEL"); val != "" {
		c.Log.Level = strings.ToLower(val)
	}
	if val := os.Getenv("STAGEHAND_LOG_FORMAT"); val != "" {
		c.Log.Format = strings.ToLower(val)
	}
	if val := os.Getenv("STAGEHAND_LOG_SOURCE"); val != "" {
		c.Log.AddSource = val == "1" || strings.EqualFold(val, "true")
	}
	if val := os.Getenv("STAGEHAND_OWNER"); val != "" {
		c.Defaults.Owner = val
	}
	if val := os.Getenv("STAGEHAND_REPO"); val != "" {
		c.Defaults.Repo = val
	}
	if val := os.Getenv("STAGEHAND_OTLP_ENDPOINT"); val != "" {
		c.Observability.OTLPEndpoint = val
	}
}

// Validate checks enums and required relationships. It returns a
// *pkgerrors.ConfigError naming the offending key.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return &pkgerrors.ConfigError{
			Key:    "api.base_url",
			Reason: fmt.Sprintf("must be an http(s) URL, got %q", c.API.BaseURL),
		}
	}

	if c.API.TimeoutSeconds <= 0 {
		return &pkgerrors.ConfigError{
			Key:    "api.timeout_seconds",
			Reason: "must be positive",
		}
	}

	switch c.Log.Level {
	case "trace", "debug", "info", "warn", "error":
	default:
		return &pkgerrors.ConfigError{
			Key:    "log.level",
			Reason: fmt.Sprintf("must be one of trace, debug, info, warn, error; got %q", c.Log.Level),
		}
	}

	switch c.Log.Format {
	case "text", "json":
	default:
		return &pkgerrors.ConfigError{
			Key:    "log.format",
			Reason: fmt.Sprintf("must be text or json, got %q", c.Log.Format),
		}
	}

	switch c.Observability.Exporter {
	case "", "console", "otlp", "otlp-http":
	default:
		return &pkgerrors.ConfigError{
			Key:    "observability.exporter",
			Reason: fmt.Sprintf("must be console, otlp, or otlp-http; got %q", c.Observability.Exporter),
		}
	}

	if c.Observability.Traces && c.Observability.Exporter != "console" && c.Observability.OTLPEndpoint == "" {
		return &pkgerrors.ConfigError{
			Key:    "observability.otlp_endpoint",
			Reason: fmt.Sprintf("required when exporter is %q", c.Observability.Exporter),
		}
	}

	if app := c.Auth.App; app.Enabled() {
		if app.AppID == 0 {
			return &pkgerrors.ConfigError{Key: "auth.app.app_id", Reason: "required for app authentication"}
		}
		if app.InstallationID == 0 {
			return &pkgerrors.ConfigError{Key: "auth.app.installation_id", Reason: "required for app authentication"}
		}
		if app.PrivateKeyPath == "" {
			return &pkgerrors.ConfigError{Key: "auth.app.private_key_path", Reason: "required for app authentication"}
		}
	}

	return nil
}
