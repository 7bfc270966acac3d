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

// Package setup implements the interactive configuration wizard.
package setup

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tombee/stagehand/internal/commands/shared"
	"github.com/tombee/stagehand/internal/config"
	"github.com/tombee/stagehand/internal/secrets"
)

// NewCommand creates the setup command
func NewCommand() *cobra.Command {
	var accessible bool

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Interactive wizard to configure stagehand",
		Long: `Launch the interactive setup wizard to configure:
  - A GitHub personal access token and where to store it
  - Default owner and repository for commands that omit them
  - The API base URL (for GitHub Enterprise)

Use --accessible for simple text prompts if the TUI doesn't work in your
terminal. You can also set STAGEHAND_ACCESSIBLE=1 to enable accessible
mode.

In scripts, skip the wizard: pipe a token to 'stagehand auth set-token'
and edit the config file directly.`,
		Annotations: map[string]string{
			"group": "config",
		},
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSetup(cmd, accessible)
		},
	}

	cmd.Flags().BoolVar(&accessible, "accessible", false, "Use accessible mode (simple text prompts instead of TUI)")

	return cmd
}

// runSetup executes the setup wizard
func runSetup(cmd *cobra.Command, accessible bool) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return shared.NewMissingInputNonInteractiveError(
			"setup needs a terminal: pipe a token to 'stagehand auth set-token' and edit the config file directly", nil)
	}

	cfg, err := shared.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	resolver, err := secrets.NewDefaultResolver()
	if err != nil {
		return shared.NewAuthError("opening secret store", err)
	}
	backends := writableBackendNames(resolver)

	values := setupValues{
		Owner:   cfg.Defaults.Owner,
		Repo:    cfg.Defaults.Repo,
		BaseURL: cfg.API.BaseURL,
	}
	if len(backends) > 0 {
		values.Backend = backends[0]
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, shared.Header.Render("stagehand setup"))
	fmt.Fprintln(out, "Configure credentials and defaults. Press Esc to cancel.")
	fmt.Fprintln(out)

	form := buildForm(&values, backends).WithAccessible(shouldUseAccessibleMode(accessible))
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Fprintln(out, "Setup cancelled, nothing written.")
			return nil
		}
		return fmt.Errorf("setup failed: %w", err)
	}

	if !values.Confirmed {
		fmt.Fprintln(out, "Setup cancelled, nothing written.")
		return nil
	}

	applySetup(cfg, values)

	savePath := shared.GetConfigPath()
	if savePath == "" {
		savePath, err = config.Path()
		if err != nil {
			return fmt.Errorf("locating config path: %w", err)
		}
	}
	if err := cfg.Save(savePath); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	fmt.Fprintln(out, shared.RenderOK("config written to "+savePath))

	if token := strings.TrimSpace(values.Token); token != "" {
		if err := resolver.Set(cmd.Context(), cfg.Auth.TokenSecret, token, values.Backend); err != nil {
			return shared.NewAuthError(fmt.Sprintf("storing token as %q", cfg.Auth.TokenSecret), err)
		}
		fmt.Fprintln(out, shared.RenderOK(fmt.Sprintf("token stored as %q in %s backend", cfg.Auth.TokenSecret, values.Backend)))
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Run 'stagehand auth status' to verify the credential.")
	return nil
}

// shouldUseAccessibleMode determines if accessible mode should be used.
// Returns true if:
// - --accessible flag is set
// - STAGEHAND_ACCESSIBLE=1 environment variable is set
func shouldUseAccessibleMode(flagValue bool) bool {
	if flagValue {
		return true
	}
	return os.Getenv("STAGEHAND_ACCESSIBLE") == "1"
}
