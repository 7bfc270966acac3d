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
	"io"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tombee/stagehand/internal/commands/shared"
	"github.com/tombee/stagehand/internal/secrets"
)

func newSetTokenCmd() *cobra.Command {
	var backend string

	cmd := &cobra.Command{
		Use:   "set-token",
		Short: "Store a GitHub personal access token",
		Long: `Store a GitHub personal access token in the secret store.

The token value is never taken as a command-line argument, so it cannot
leak into shell history. It is read from stdin when piped, or prompted
for with hidden input on a terminal.

Examples:
  # Prompt with hidden input
  stagehand auth set-token

  # Pipe from another tool
  gh auth token | stagehand auth set-token

  # Force the encrypted file backend
  stagehand auth set-token --backend file`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := shared.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			token, err := readTokenValue()
			if err != nil {
				return shared.NewAuthError("reading token", err)
			}
			if token == "" {
				return shared.NewAuthError("token is empty", nil)
			}

			out := cmd.OutOrStdout()
			if !looksLikeGitHubToken(token) {
				fmt.Fprintln(out, shared.RenderWarn("token does not look like a GitHub token, storing it anyway"))
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
			fmt.Fprintln(out, shared.RenderOK(fmt.Sprintf("token stored as %q in %s backend", cfg.Auth.TokenSecret, stored)))
			return nil
		},
	}

	cmd.Flags().StringVar(&backend, "backend", "", "Secret backend to write to (keychain, file)")

	return cmd
}

// readTokenValue reads the token from stdin when piped, or prompts with
// hidden input on a terminal.
func readTokenValue() (string, error) {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to stat stdin: %w", err)
	}

	if (stat.Mode() & os.ModeCharDevice) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read from stdin: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	}

	fmt.Print("Enter token (hidden): ")
	data, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// storedBackend names the backend a write landed in. When no backend was
// requested the resolver picks the highest-priority writable one, so
// mirror that choice for the confirmation message.
func storedBackend(resolver *secrets.Resolver, requested string) string {
	if requested != "" {
		return requested
	}
	for _, b := range resolver.Backends() {
		if ro, ok := b.(secrets.ReadOnlyBackend); ok && ro.ReadOnly() {
			continue
		}
		return b.Name()
	}
	return "unknown"
}
