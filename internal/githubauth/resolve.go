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

// Package githubauth obtains the bearer token the API client sends.
// Three sources exist: an explicit token (flag), a GitHub App installation
// token minted from the app's private key, and a named secret resolved
// through the secrets chain (which covers GITHUB_TOKEN and friends via the
// env backend).
package githubauth

import (
	"context"
	"errors"
	"fmt"

	"github.com/tombee/stagehand/internal/config"
	"github.com/tombee/stagehand/internal/secrets"
)

// Resolve picks the token for a run. Precedence: the explicit token wins,
// then app authentication when configured, then the config-named secret
// from the resolver chain.
func Resolve(ctx context.Context, cfg *config.Config, resolver *secrets.Resolver, explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}

	if cfg.Auth.App.Enabled() {
		source, err := NewAppTokenSource(cfg.Auth.App.AppID, cfg.Auth.App.InstallationID, cfg.Auth.App.PrivateKeyPath, cfg.API.BaseURL)
		if err != nil {
			return "", fmt.Errorf("app auth: %w", err)
		}
		return source.Token(ctx)
	}

	token, err := resolver.Get(ctx, cfg.Auth.TokenSecret)
	if err != nil {
		if errors.Is(err, secrets.ErrSecretNotFound) {
			return "", fmt.Errorf("no GitHub token found: set GITHUB_TOKEN, run 'stagehand auth set-token', or configure app auth: %w", err)
		}
		return "", err
	}

	return token, nil
}
