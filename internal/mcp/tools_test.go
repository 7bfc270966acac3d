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
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/tombee/stagehand/internal/action"
)

func TestToolName(t *testing.T) {
	tests := []struct {
		ref  string
		want string
	}{
		{"issues.get", "issues_get"},
		{"api.request", "api_request"},
		{"pulls.is_merged", "pulls_is_merged"},
	}

	for _, tt := range tests {
		if got := toolName(tt.ref); got != tt.want {
			t.Errorf("toolName(%q) = %q, want %q", tt.ref, got, tt.want)
		}
	}
}

func TestToolFromAction_Schema(t *testing.T) {
	a := &action.Action{
		Name:        "list",
		Category:    "issues",
		Description: "List issues",
		Params: []action.Param{
			{Name: "owner", Type: action.TypeString, Description: "Repository owner", Required: true},
			{Name: "number", Type: action.TypeInt, Description: "Issue number", Required: true},
			{Name: "locked", Type: action.TypeBool, Description: "Lock state"},
			{Name: "labels", Type: action.TypeArray, Description: "Label names"},
			{Name: "state", Type: action.TypeString, Description: "Issue state", Default: "open"},
		},
	}

	tool := toolFromAction("issues_list", a)

	if tool.Name != "issues_list" {
		t.Errorf("tool.Name = %q, want %q", tool.Name, "issues_list")
	}
	if tool.InputSchema.Type != "object" {
		t.Errorf("schema type = %q, want %q", tool.InputSchema.Type, "object")
	}
	if len(tool.InputSchema.Properties) != 5 {
		t.Errorf("schema has %d properties, want 5", len(tool.InputSchema.Properties))
	}

	number, ok := tool.InputSchema.Properties["number"].(map[string]interface{})
	if !ok {
		t.Fatal("number property missing")
	}
	if number["type"] != "integer" {
		t.Errorf("number type = %v, want integer", number["type"])
	}

	locked, _ := tool.InputSchema.Properties["locked"].(map[string]interface{})
	if locked["type"] != "boolean" {
		t.Errorf("locked type = %v, want boolean", locked["type"])
	}

	state, _ := tool.InputSchema.Properties["state"].(map[string]interface{})
	if state["default"] != "open" {
		t.Errorf("state default = %v, want open", state["default"])
	}

	if len(tool.InputSchema.Required) != 2 {
		t.Errorf("required = %v, want [owner number]", tool.InputSchema.Required)
	}
}

func TestToolFromAction_DestructiveNote(t *testing.T) {
	a := &action.Action{
		Name:        "delete",
		Category:    "labels",
		Description: "Delete a label.",
		Destructive: true,
	}

	tool := toolFromAction("labels_delete", a)

	if !strings.Contains(tool.Description, "destructive") {
		t.Errorf("description %q should mention the action is destructive", tool.Description)
	}
}

func TestActionHandler_Success(t *testing.T) {
	s, err := NewServer(ServerConfig{Registry: testRegistry(t), LogLevel: "error"})
	if err != nil {
		t.Fatalf("NewServer() failed: %v", err)
	}

	handler := s.actionHandler("issues.get", false)
	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name: "issues_get",
			Arguments: map[string]interface{}{
				"owner":  "octocat",
				"repo":   "hello-world",
				"number": 42,
			},
		},
	}

	res, err := handler(context.Background(), req)
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if res.IsError {
		t.Fatalf("handler returned error result: %+v", res.Content)
	}

	text := resultText(t, res)
	for _, want := range []string{`"action": "issues.get"`, `"status": 200`, `"request_id": "ABCD:1234"`, `"title": "Broken build"`} {
		if !strings.Contains(text, want) {
			t.Errorf("result %s missing %s", text, want)
		}
	}
}

func TestActionHandler_ValidationError(t *testing.T) {
	s, err := NewServer(ServerConfig{Registry: testRegistry(t), LogLevel: "error"})
	if err != nil {
		t.Fatalf("NewServer() failed: %v", err)
	}

	handler := s.actionHandler("issues.get", false)
	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      "issues_get",
			Arguments: map[string]interface{}{"owner": "octocat"},
		},
	}

	res, err := handler(context.Background(), req)
	if err != nil {
		t.Fatalf("handler returned protocol error: %v", err)
	}
	if !res.IsError {
		t.Fatal("handler should return an error result for missing required params")
	}
	if text := resultText(t, res); !strings.Contains(text, "Action failed") {
		t.Errorf("error text = %q, want it to contain %q", text, "Action failed")
	}
}

func TestActionHandler_DestructiveRateLimit(t *testing.T) {
	s, err := NewServer(ServerConfig{Registry: testRegistry(t), LogLevel: "error"})
	if err != nil {
		t.Fatalf("NewServer() failed: %v", err)
	}
	s.rateLimiter = NewRateLimiter(0, 100)

	handler := s.actionHandler("labels.delete", true)
	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name: "labels_delete",
			Arguments: map[string]interface{}{
				"owner": "octocat",
				"repo":  "hello-world",
				"name":  "wontfix",
			},
		},
	}

	res, err := handler(context.Background(), req)
	if err != nil {
		t.Fatalf("handler returned protocol error: %v", err)
	}
	if !res.IsError {
		t.Fatal("destructive call should be rate limited")
	}
	if text := resultText(t, res); !strings.Contains(text, "Rate limit") {
		t.Errorf("error text = %q, want a rate limit message", text)
	}
}

func TestRateLimiter_Buckets(t *testing.T) {
	rl := NewRateLimiter(2, 5)

	for i := 0; i < 2; i++ {
		if !rl.AllowWrite() {
			t.Fatalf("write %d should be allowed", i+1)
		}
	}
	if rl.AllowWrite() {
		t.Error("third write should be rejected")
	}

	for i := 0; i < 5; i++ {
		if !rl.AllowCall() {
			t.Fatalf("call %d should be allowed", i+1)
		}
	}
	if rl.AllowCall() {
		t.Error("sixth call should be rejected")
	}
}

// resultText extracts the text content from a tool result.
func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()

	if len(res.Content) == 0 {
		t.Fatal("result has no content")
	}
	text, ok := mcp.AsTextContent(res.Content[0])
	if !ok {
		t.Fatalf("content is %T, want text", res.Content[0])
	}
	return text.Text
}
