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
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/tombee/stagehand/internal/action"
)

// toolName flattens an action reference into an MCP tool name.
// Tool names are limited to [a-zA-Z0-9_-], so the dot becomes an underscore.
func toolName(ref string) string {
	return strings.ReplaceAll(ref, ".", "_")
}

// registerActionTools registers one MCP tool per policy-allowed action.
func (s *Server) registerActionTools() {
	for _, a := range s.registry.List() {
		ref := a.Ref()
		if !s.allowed.Allows(ref) {
			continue
		}

		name := toolName(ref)
		s.mcpServer.AddTool(toolFromAction(name, a), s.actionHandler(ref, a.Destructive))
		s.tools[name] = ref
	}

	s.logger.Debug("registered action tools", slog.Int("count", len(s.tools)))
}

// toolFromAction builds the MCP tool definition from an action's declared
// parameters.
func toolFromAction(name string, a *action.Action) mcp.Tool {
	properties := make(map[string]interface{}, len(a.Params))
	var required []string

	for _, p := range a.Params {
		prop := map[string]interface{}{
			"type":        jsonSchemaType(p.Type),
			"description": p.Description,
		}
		if p.Default != nil {
			prop["default"] = p.Default
		}
		properties[p.Name] = prop

		if p.Required {
			required = append(required, p.Name)
		}
	}

	description := a.Description
	if a.Destructive {
		description += " This action is destructive."
	}

	return mcp.Tool{
		Name:        name,
		Description: description,
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: properties,
			Required:   required,
		},
	}
}

// jsonSchemaType maps a parameter type to its JSON Schema name.
func jsonSchemaType(t action.ParamType) string {
	switch t {
	case action.TypeInt:
		return "integer"
	case action.TypeBool:
		return "boolean"
	default:
		// string, array and object already match JSON Schema names
		return string(t)
	}
}

// toolResult is the JSON payload returned for a successful action call.
type toolResult struct {
	Action    string      `json:"action"`
	Status    int         `json:"status"`
	Response  interface{} `json:"response"`
	RequestID string      `json:"request_id,omitempty"`
}

// actionHandler creates an MCP tool handler that routes to the registry.
func (s *Server) actionHandler(ref string, destructive bool) func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if !s.rateLimiter.AllowCall() {
			return errorResponse("Rate limit exceeded. Please try again later."), nil
		}
		if destructive && !s.rateLimiter.AllowWrite() {
			return errorResponse("Rate limit exceeded for destructive actions. Please try again later."), nil
		}

		args := request.GetArguments()
		if args == nil {
			args = map[string]interface{}{}
		}

		s.logger.Debug("executing action",
			"action", ref,
			"args", args,
		)

		result, err := s.registry.Execute(ctx, ref, args)
		if err != nil {
			s.logger.Error("action failed",
				"action", ref,
				"error", err,
			)
			return errorResponse(fmt.Sprintf("Action failed: %v", err)), nil
		}

		payload := toolResult{
			Action:   ref,
			Status:   result.StatusCode,
			Response: result.Response,
		}
		if id, ok := result.Metadata[action.MetadataRequestID].(string); ok {
			payload.RequestID = id
		}

		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return errorResponse(fmt.Sprintf("Failed to encode result: %v", err)), nil
		}

		return textResponse(string(data)), nil
	}
}

// errorResponse creates an error tool result.
func errorResponse(message string) *mcp.CallToolResult {
	return mcp.NewToolResultError(message)
}

// textResponse creates a success tool result with text content.
func textResponse(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}
