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

// Package mcpserver implements the mcp-server command.
package mcpserver

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tombee/stagehand/internal/commands/shared"
	"github.com/tombee/stagehand/internal/mcp"
)

// NewCommand creates the mcp-server command
func NewCommand() *cobra.Command {
	var (
		logLevel  string
		policy    []string
		serverURL string
		token     string
	)

	cmd := &cobra.Command{
		Use:   "mcp-server",
		Short: "Start the stagehand MCP server",
		Long: `Start the stagehand MCP (Model Context Protocol) server.

The server exposes every GitHub action in the catalog as an MCP tool,
so AI coding assistants can file issues, inspect pull requests, and
manage labels through their tool interface. Tool names replace the dot
in the action reference with an underscore: issues.create becomes
issues_create.

The server speaks stdio, which is how MCP clients launch tool servers.

Client configuration example:
  {
    "mcpServers": {
      "github": {
        "command": "stagehand",
        "args": ["mcp-server", "--policy", "issues.*,pulls.list"]
      }
    }
  }

Destructive actions (deletes, merges) are rate-limited more tightly
than reads. Use --policy to restrict which actions become tools at all;
an empty policy exposes everything.`,
		Annotations: map[string]string{
			"group": "mcp",
		},
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMCPServer(logLevel, policy, serverURL, token)
		},
	}

	cmd.Flags().StringVar(&logLevel, "log-level", "info", "Logging verbosity (debug, info, warn, error)")
	cmd.Flags().StringSliceVar(&policy, "policy", nil, "Action patterns to expose (e.g. issues.*,pulls.list); empty exposes all")
	cmd.Flags().StringVar(&serverURL, "server-url", "", "GitHub API base URL (for GitHub Enterprise)")
	cmd.Flags().StringVar(&token, "token", "", "GitHub token (overrides stored credentials)")

	return cmd
}

func runMCPServer(logLevel string, policy []string, serverURL, token string) error {
	cfg, err := shared.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	registry, err := shared.BuildRegistry(ctx, cfg, shared.BuildOptions{
		Token:     token,
		ServerURL: serverURL,
	})
	if err != nil {
		return shared.NewAuthError("building API client", err)
	}

	versionStr, _, _ := shared.GetVersion()
	srv, err := mcp.NewServer(mcp.ServerConfig{
		Name:     "stagehand",
		Version:  versionStr,
		LogLevel: logLevel,
		Registry: registry,
		Policy:   policy,
	})
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nReceived shutdown signal, shutting down gracefully...")
		cancel()
	}()

	// Blocks until the client disconnects or a signal cancels the context.
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("MCP server error: %w", err)
	}

	return nil
}
