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

// Package mcp exposes the action registry as MCP tools over stdio.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/tombee/stagehand/internal/action"
	"github.com/tombee/stagehand/internal/policy"
)

// Server wraps the MCP server and serves registry actions as tools.
type Server struct {
	mcpServer   *server.MCPServer
	registry    *action.Registry
	allowed     *policy.Policy
	rateLimiter *RateLimiter
	logger      *slog.Logger
	name        string
	version     string

	// tools maps registered tool names back to action references
	tools map[string]string
}

// ServerConfig configures the MCP server.
type ServerConfig struct {
	// Name is the server name (default: "stagehand")
	Name string

	// Version is the stagehand version
	Version string

	// LogLevel controls logging verbosity (debug, info, warn, error)
	LogLevel string

	// Registry supplies the actions to expose as tools
	Registry *action.Registry

	// Policy restricts which actions become tools. Empty means all.
	Policy []string
}

// createLogger creates a logger with the specified log level.
// Writes to stderr to avoid interfering with MCP stdio protocol.
func createLogger(levelStr string) (*slog.Logger, error) {
	var level slog.Level

	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info", "":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return nil, fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", levelStr)
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})

	return slog.New(handler), nil
}

// NewServer creates a new MCP server instance with one tool per allowed
// registry action.
func NewServer(config ServerConfig) (*Server, error) {
	if config.Name == "" {
		config.Name = "stagehand"
	}
	if config.Version == "" {
		config.Version = "dev"
	}
	if config.Registry == nil {
		return nil, fmt.Errorf("mcp server needs an action registry")
	}

	logger, err := createLogger(config.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	allowed := policy.Parse(config.Policy)
	if err := allowed.Validate(); err != nil {
		return nil, fmt.Errorf("invalid policy: %w", err)
	}

	s := &Server{
		mcpServer:   server.NewMCPServer(config.Name, config.Version),
		registry:    config.Registry,
		allowed:     allowed,
		rateLimiter: NewRateLimiter(30, 120),
		logger:      logger,
		name:        config.Name,
		version:     config.Version,
		tools:       make(map[string]string),
	}

	s.registerActionTools()

	return s, nil
}

// Run serves the MCP protocol over stdio. It blocks until ctx is
// cancelled or stdin closes, and returns nil on either.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("starting MCP server",
		slog.String("version", s.version),
		slog.Int("tools", len(s.tools)))

	stdio := server.NewStdioServer(s.mcpServer)
	if err := stdio.Listen(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("MCP server error: %w", err)
	}

	return nil
}
