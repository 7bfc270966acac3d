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
	"github.com/tombee/stagehand/internal/secrets"
)

func newLoginCmd() *cobra.Command {
	var (
		clientID string
		scopes   []string
		backend  string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in with the OAuth device flow",
		Long: `Log in to GitHub with the OAuth device authorization flow.

Prints a one-time code and a verification URL, then waits for you to
approve the login in a browser. The resulting token is stored in the
secret store, ready for every other command.

Requires the client ID of an OAuth app with device flow enabled.

Examples:
  stagehand auth login --client-id Iv1.abc123
  stagehand auth login --client-id Iv1.abc123 --scopes repo,read:org`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := shared.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			out := cmd.OutOrStdout()
			token, err := githubauth.DeviceFlow(cmd.Context(), githubauth.DeviceFlowConfig{
				ClientID: clientID,
				Scopes:   scopes,
			}, func(verificationURI, userCode string) {
				fmt.Fprintln(out)
				fmt.Fprintf(out, "First, copy your one-time code: %s\n", shared.Bold.Render(userCode))
				fmt.Fprintf(out, "Then open %s and enter it.\n", verificationURI)
				fmt.Fprintln(out)
				fmt.Fprintln(out, "Waiting for approval...")
			})
			if err != nil {
				return shared.NewAuthError("device flow login failed", err)
			}

			resolver, err := secrets.NewDefaultResolver()
			if err != nil {
				return shared.NewAuthError("opening secret store", err)
			}
			if err := resolver.Set(cmd.Context(), cfg.Auth.TokenSecret, token, backend); err != nil {
				return shared.NewAuthError(fmt.Sprintf("storing token as %q", cfg.Auth.TokenSecret), err)
			}

			stored := storedBackend(resolver, backend)
			if shared.GetJSON() {
				return shared.EmitJSON(map[string]string{
					"key":     cfg.Auth.TokenSecret,
					"backend": stored,
				})
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, shared.RenderOK(fmt.Sprintf("logged in, token stored as %q in %s backend", cfg.Auth.TokenSecret, stored)))
			return nil
		},
	}

	cmd.Flags().StringVar(&clientID, "client-id", "", "OAuth app client ID (required)")
	cmd.Flags().StringSliceVar(&scopes, "scopes", []string{"repo"}, "OAuth scopes to request")
	cmd.Flags().StringVar(&backend, "backend", "", "Secret backend to write to (keychain, file)")
	_ = cmd.MarkFlagRequired("client-id")

	return cmd
}
