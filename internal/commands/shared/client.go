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

package shared

import (
	"context"
	"fmt"
	"time"

	"github.com/tombee/stagehand/internal/action"
	"github.com/tombee/stagehand/internal/config"
	"github.com/tombee/stagehand/internal/github"
	"github.com/tombee/stagehand/internal/githubauth"
	"github.com/tombee/stagehand/internal/secrets"
	"github.com/tombee/stagehand/internal/transport"
)

// LoadConfig loads configuration honoring the global --config flag.
func LoadConfig() (*config.Config, error) {
	return config.Load(GetConfigPath())
}

// BuildOptions tweak how the action registry is assembled.
type BuildOptions struct {
	// Token overrides every other credential source when set.
	Token string

	// ServerURL overrides the configured API base URL when set.
	ServerURL string

	// SchemaOnly builds a registry for introspection. No credential is
	// resolved and no request can succeed.
	SchemaOnly bool
}

// BuildRegistry assembles the GitHub action registry: resolve a token,
// construct the API client, and register every action against it.
func BuildRegistry(ctx context.Context, cfg *config.Config, opts BuildOptions) (*action.Registry, error) {
	token := opts.Token
	if token == "" && opts.SchemaOnly {
		// Listing schemas needs the catalog, not a credential.
		token = "schema-only"
	}

	if token == "" {
		resolver, err := secrets.NewDefaultResolver()
		if err != nil {
			return nil, fmt.Errorf("initializing secret backends: %w", err)
		}
		token, err = githubauth.Resolve(ctx, cfg, resolver, "")
		if err != nil {
			return nil, err
		}
	}

	baseURL := cfg.API.BaseURL
	if opts.ServerURL != "" {
		baseURL = opts.ServerURL
	}

	tr, err := transport.NewHTTPTransport(&transport.HTTPTransportConfig{
		Timeout: time.Duration(cfg.API.TimeoutSeconds) * time.Second,
	})
	if err != nil {
		return nil, err
	}

	client, err := github.NewClient(&github.ClientConfig{
		BaseURL:    baseURL,
		Token:      token,
		APIVersion: cfg.API.APIVersion,
		Transport:  tr,
	})
	if err != nil {
		return nil, err
	}

	catalog, err := github.NewActions(client)
	if err != nil {
		return nil, err
	}

	registry := action.NewRegistry()
	catalog.Register(registry)

	return registry, nil
}

// ApplyRepoDefaults fills owner/repo from config defaults when the
// action declares them and the inputs leave them empty.
func ApplyRepoDefaults(a *action.Action, inputs map[string]interface{}, cfg *config.Config) {
	if cfg.Defaults.Owner != "" {
		if _, declared := a.Param("owner"); declared {
			if v, ok := inputs["owner"]; !ok || v == "" {
				inputs["owner"] = cfg.Defaults.Owner
			}
		}
	}
	if cfg.Defaults.Repo != "" {
		if _, declared := a.Param("repo"); declared {
			if v, ok := inputs["repo"]; !ok || v == "" {
				inputs["repo"] = cfg.Defaults.Repo
			}
		}
	}
}
