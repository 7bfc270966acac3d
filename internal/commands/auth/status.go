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
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/tombee/stagehand/internal/commands/shared"
	"github.com/tombee/stagehand/internal/config"
	"github.com/tombee/stagehand/internal/log"
	"github.com/tombee/stagehand/internal/secrets"
)

// statusReport is the machine-readable form of auth status.
type statusReport struct {
	ConfigPath  string `json:"config_path"`
	BaseURL     string `json:"base_url"`
	Mode        string `json:"mode"`
	TokenSecret string `json:"token_secret,omitempty"`
	Source      string `json:"source,omitempty"`
	Token       string `json:"token,omitempty"`
	AppID       int64  `json:"app_id,omitempty"`
	Verified    bool   `json:"verified"`
	Login       string `json:"login,omitempty"`
	Error       string `json:"error,omitempty"`
}

func newStatusCmd() *cobra.Command {
	var noVerify bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the credential in use and whether GitHub accepts it",
		Long: `Show which credential stagehand would use and verify it against the API.

The verification calls GET /user with the resolved credential. Skip it
with --no-verify when working offline.

Examples:
  stagehand auth status
  stagehand auth status --no-verify
  stagehand auth status --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd.Context(), cmd.OutOrStdout(), noVerify)
		},
	}

	cmd.Flags().BoolVar(&noVerify, "no-verify", false, "Skip the API call that verifies the credential")

	return cmd
}

func runStatus(ctx context.Context, out io.Writer, noVerify bool) error {
	cfg, err := shared.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	configPath := shared.GetConfigPath()
	if configPath == "" {
		if p, err := config.Path(); err == nil {
			configPath = p
		}
	}

	report := statusReport{
		ConfigPath: configPath,
		BaseURL:    cfg.API.BaseURL,
		Verified:   false,
	}

	if cfg.Auth.App.Enabled() {
		report.Mode = "app"
		report.AppID = cfg.Auth.App.AppID
	} else {
		report.Mode = "token"
		report.TokenSecret = cfg.Auth.TokenSecret

		resolver, err := secrets.NewDefaultResolver()
		if err != nil {
			return shared.NewAuthError("opening secret store", err)
		}
		// Walk the chain in resolution order so the reported source is
		// the backend Resolve would actually use.
		for _, b := range resolver.Backends() {
			value, err := b.Get(ctx, cfg.Auth.TokenSecret)
			if err == nil {
				report.Source = b.Name()
				report.Token = log.SanitizeToken(value)
				break
			}
		}

		if report.Source == "" {
			report.Error = "no token found"
			if shared.GetJSON() {
				if err := shared.EmitJSON(report); err != nil {
					return err
				}
			} else {
				fmt.Fprintln(out, shared.RenderError("not authenticated"))
				fmt.Fprintln(out, "Run 'stagehand auth set-token', 'stagehand auth login', or set GITHUB_TOKEN.")
			}
			return &shared.ExitError{Code: shared.ExitAuthError, Message: ""}
		}
	}

	if !noVerify {
		report.Verified, report.Login, report.Error = verifyCredential(ctx, cfg)
	}

	if shared.GetJSON() {
		if err := shared.EmitJSON(report); err != nil {
			return err
		}
	} else {
		renderStatusReport(out, report, noVerify)
	}

	if !noVerify && !report.Verified {
		return &shared.ExitError{Code: shared.ExitAuthError, Message: ""}
	}
	return nil
}

// verifyCredential resolves the credential the way a run would and asks
// GitHub who it belongs to.
func verifyCredential(ctx context.Context, cfg *config.Config) (bool, string, string) {
	registry, err := shared.BuildRegistry(ctx, cfg, shared.BuildOptions{})
	if err != nil {
		return false, "", err.Error()
	}

	result, err := registry.Execute(ctx, "api.request", map[string]interface{}{
		"path": "/user",
	})
	if err != nil {
		return false, "", err.Error()
	}
	if result.StatusCode != 200 {
		return false, "", fmt.Sprintf("GitHub rejected the credential (HTTP %d)", result.StatusCode)
	}

	login := ""
	if m, ok := result.Response.(map[string]interface{}); ok {
		login, _ = m["login"].(string)
	}
	return true, login, ""
}

func renderStatusReport(out io.Writer, report statusReport, noVerify bool) {
	fmt.Fprintln(out, shared.Muted.Render("Config:"), report.ConfigPath)
	fmt.Fprintln(out, shared.Muted.Render("API:"), report.BaseURL)

	switch report.Mode {
	case "app":
		fmt.Fprintln(out, shared.Muted.Render("Auth:"), fmt.Sprintf("GitHub App %d", report.AppID))
	default:
		fmt.Fprintln(out, shared.Muted.Render("Auth:"), fmt.Sprintf("token from %s (secret %q)", report.Source, report.TokenSecret))
		fmt.Fprintln(out, shared.Muted.Render("Token:"), report.Token)
	}

	if noVerify {
		return
	}

	fmt.Fprintln(out)
	if report.Verified {
		who := "authenticated"
		if report.Login != "" {
			who = "authenticated as " + report.Login
		}
		fmt.Fprintln(out, shared.RenderOK(who))
	} else {
		fmt.Fprintln(out, shared.RenderError("credential check failed: "+report.Error))
	}
}
