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

package mcp

import (
	"context"
	"log/slog"
	"testing"

	"github.com/tombee/stagehand/internal/action"
)

// testRegistry returns a registry with a read action, a write action and a
// destructive action.
func testRegistry(t *testing.T) *action.Registry {
	t.Helper()

	registry := action.NewRegistry()
	registry.MustRegister(
		&action.Action{
			Name:        "get",
			Category:    "issues",
			Description: "Get a single issue",
			Params: []action.Param{
				{Name: "owner", Type: action.TypeString, Description: "Repository owner", Required: true},
				{Name: "repo", Type: action.TypeString, Description: "Repository name", Required: true},
				{Name: "number", Type: action.TypeInt, Description: "Issue number", Required: true},
			},
			Run: func(ctx context.Context, inputs map[string]interface{}) (*action.Result, error) {
				return &action.Result{
					Action:     "issues.get",
					StatusCode: 200,
					Response:   map[string]interface{}{"number": inputs["number"], "title": "Broken build"},
					Metadata:   map[string]interface{}{action.MetadataRequestID: "ABCD:1234"},
				}, nil
			},
		},
		&action.Action{
			Name:        "create",
			Category:    "issues",
			Description: "Create an issue",
			Params: []action.Param{
				{Name: "owner", Type: action.TypeString, Description: "Repository owner", Required: true},
				{Name: "repo", Type: action.TypeString, Description: "Repository name", Required: true},
				{Name: "title", Type: action.TypeString, Description: "Issue title", Required: true},
			},
			Run: func(ctx context.Context, inputs map[string]interface{}) (*action.Result, error) {
				return &action.Result{Action: "issues.create", StatusCode: 201}, nil
			},
		},
		&action.Action{
			Name:        "delete",
			Category:    "labels",
			Description: "Delete a label",
			Destructive: true,
			Params: []action.Param{
				{Name: "owner", Type: action.TypeString, Description: "Repository owner", Required: true},
				{Name: "repo", Type: action.TypeString, Description: "Repository name", Required: true},
				{Name: "name", Type: action.TypeString, Description: "Label name", Required: true},
			},
			Run: func(ctx context.Context, inputs map[string]interface{}) (*action.Result, error) {
				return &action.Result{Action: "labels.delete", StatusCode: 204}, nil
			},
		},
	)
	return registry
}

func TestCreateLogger_ValidLevels(t *testing.T) {
	tests := []struct {
		name     string
		level    string
		expected slog.Level
	}{
		{"debug level", "debug", slog.LevelDebug},
		{"info level", "info", slog.LevelInfo},
		{"warn level", "warn", slog.LevelWarn},
		{"error level", "error", slog.LevelError},
		{"empty defaults to info", "", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := createLogger(tt.level)
			if err != nil {
				t.Fatalf("createLogger(%q) returned error: %v", tt.level, err)
			}
			if logger == nil {
				t.Fatal("createLogger returned nil logger")
			}
			if !logger.Enabled(context.Background(), tt.expected) {
				t.Errorf("logger not enabled for level %v", tt.expected)
			}
		})
	}
}

func TestCreateLogger_InvalidLevel(t *testing.T) {
	tests := []struct {
		name  string
		level string
	}{
		{"invalid string", "trace-me"},
		{"uppercase", "INFO"},
		{"numeric", "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := createLogger(tt.level)
			if err == nil {
				t.Errorf("createLogger(%q) should return error, got nil", tt.level)
			}
			if logger != nil {
				t.Errorf("createLogger(%q) should return nil logger on error", tt.level)
			}
		})
	}
}

func TestNewServer_Defaults(t *testing.T) {
	s, err := NewServer(ServerConfig{Registry: testRegistry(t)})
	if err != nil {
		t.Fatalf("NewServer() failed: %v", err)
	}

	if s.name != "stagehand" {
		t.Errorf("server.name = %q, want %q", s.name, "stagehand")
	}
	if s.version != "dev" {
		t.Errorf("server.version = %q, want %q", s.version, "dev")
	}
	if s.logger == nil {
		t.Error("server.logger is nil")
	}
}

func TestNewServer_RequiresRegistry(t *testing.T) {
	if _, err := NewServer(ServerConfig{}); err == nil {
		t.Error("NewServer() without a registry should return error")
	}
}

func TestNewServer_InvalidLogLevel(t *testing.T) {
	_, err := NewServer(ServerConfig{
		Registry: testRegistry(t),
		LogLevel: "loud",
	})
	if err == nil {
		t.Error("NewServer() with invalid log level should return error")
	}
}

func TestNewServer_RegistersAllActions(t *testing.T) {
	registry := testRegistry(t)
	s, err := NewServer(ServerConfig{Registry: registry})
	if err != nil {
		t.Fatalf("NewServer() failed: %v", err)
	}

	if len(s.tools) != registry.Len() {
		t.Errorf("registered %d tools, want %d", len(s.tools), registry.Len())
	}
	if ref := s.tools["issues_get"]; ref != "issues.get" {
		t.Errorf("tools[%q] = %q, want %q", "issues_get", ref, "issues.get")
	}
}

func TestNewServer_PolicyFilters(t *testing.T) {
	s, err := NewServer(ServerConfig{
		Registry: testRegistry(t),
		Policy:   []string{"issues.*"},
	})
	if err != nil {
		t.Fatalf("NewServer() failed: %v", err)
	}

	if len(s.tools) != 2 {
		t.Errorf("registered %d tools, want 2", len(s.tools))
	}
	if _, ok := s.tools["labels_delete"]; ok {
		t.Error("labels.delete should be filtered out by policy")
	}
}

func TestNewServer_InvalidPolicy(t *testing.T) {
	_, err := NewServer(ServerConfig{
		Registry: testRegistry(t),
		Policy:   []string{"issues.[bad"},
	})
	if err == nil {
		t.Error("NewServer() with invalid policy pattern should return error")
	}
}
