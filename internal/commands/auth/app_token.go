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

package auth

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tombee/stagehand/internal/commands/shared"
	"github.com/tombee/stagehand/internal/githubauth"
)

func newAppTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "app-token",
		Short: "Mint a GitHub App installation token",
		Long: `Mint a short-lived installation token from the configured GitHub App.

The raw token is written to stdout so it can be piped to other tools.
Installation tokens expire after one hour.

Requires auth.app.app_id, auth.app.installation_id, and
auth.app.private_key_path in the config file.

Examples:
  stagehand auth app-token
  GITHUB_TOKEN=$(stagehand auth app-token) some-other-tool`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := shared.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			app := cfg.Auth.App
			if !app.Enabled() {
				return shared.NewAuthError(
					"app authentication is not configured: set auth.app.app_id, auth.app.installation_id, and auth.app.private_key_path", nil)
			}

			source, err := githubauth.NewAppTokenSource(app.AppID, app.InstallationID, app.PrivateKeyPath, cfg.API.BaseURL)
			if err != nil {
				return shared.NewAuthError("app auth", err)
			}
			token, err := source.Token(cmd.Context())
			if err != nil {
				return shared.NewAuthError("minting installation token", err)
			}

			if shared.GetJSON() {
				return shared.EmitJSON(map[string]string{"token": token})
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	return cmd
}
