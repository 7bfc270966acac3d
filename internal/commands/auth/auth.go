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

// Package auth implements the credential management commands.
package auth

import (
	"strings"

	"github.com/spf13/cobra"
)

// NewCommand creates the auth command group
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage GitHub credentials",
		Long: `Manage the credentials stagehand uses against the GitHub API.

Tokens are stored through a tiered backend system with automatic
fallback:
  1. Environment variables (highest priority, read-only)
  2. System keychain (macOS Keychain, Linux Secret Service, Windows Credential Manager)
  3. Encrypted file (fallback for headless servers)

Commands:
  set-token  Store a personal access token
  login      Log in with the OAuth device flow
  status     Show which credential is in use and whether it works
  app-token  Mint a GitHub App installation token

Examples:
  stagehand auth set-token
  stagehand auth login --client-id Iv1.abc123
  stagehand auth status`,
		Annotations: map[string]string{
			"group": "config",
		},
	}

	cmd.AddCommand(newSetTokenCmd())
	cmd.AddCommand(newLoginCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newAppTokenCmd())

	return cmd
}

// looksLikeGitHubToken reports whether value matches a known GitHub token
// shape. Unknown shapes are stored anyway, since Enterprise deployments
// mint their own formats, but a warning helps catch paste accidents.
func looksLikeGitHubToken(value string) bool {
	prefixes := []string{"ghp_", "github_pat_", "gho_", "ghu_", "ghs_", "ghr_"}
	for _, p := range prefixes {
		if strings.HasPrefix(value, p) {
			return true
		}
	}

	// Classic tokens are 40 hex characters.
	if len(value) == 40 {
		for _, r := range value {
			if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
				return false
			}
		}
		return true
	}

	return false
}
