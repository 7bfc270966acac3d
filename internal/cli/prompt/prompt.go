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

// Package prompt provides interactive collection of action parameters.
// It supports type-aware prompting and a non-interactive mode for CI/CD
// environments, where missing parameters become a structured error
// instead of a hung terminal.
package prompt

import (
	"context"
	"fmt"
	"strings"

	"github.com/tombee/stagehand/internal/action"
)

// Prompter defines the interface for interactive input collection.
// Implementations include SurveyPrompter (production) and MockPrompter
// (testing).
type Prompter interface {
	// PromptString collects a string input from the user
	PromptString(ctx context.Context, name, desc string, def string) (string, error)

	// PromptInt collects an integer input from the user
	PromptInt(ctx context.Context, name, desc string) (int, error)

	// PromptBool collects a boolean input from the user
	PromptBool(ctx context.Context, name, desc string, def bool) (bool, error)

	// PromptArray collects a list input from the user (comma-separated)
	PromptArray(ctx context.Context, name, desc string) ([]interface{}, error)

	// Confirm asks a yes/no question
	Confirm(ctx context.Context, message string) (bool, error)

	// IsInteractive returns true if prompts can be displayed
	IsInteractive() bool
}

// MissingParamsError reports required parameters that could not be
// collected because prompting is unavailable.
type MissingParamsError struct {
	Action string
	Params []action.Param
}

func (e *MissingParamsError) Error() string {
	names := make([]string, len(e.Params))
	for i, p := range e.Params {
		names[i] = p.Name
	}
	return fmt.Sprintf("missing required parameters for %s: %s", e.Action, strings.Join(names, ", "))
}

// IsUserVisible implements pkg/errors.UserVisibleError.
func (e *MissingParamsError) IsUserVisible() bool {
	return true
}

// UserMessage implements pkg/errors.UserVisibleError.
func (e *MissingParamsError) UserMessage() string {
	return e.Error()
}

// Suggestion implements pkg/errors.UserVisibleError.
func (e *MissingParamsError) Suggestion() string {
	if len(e.Params) == 0 {
		return ""
	}
	return fmt.Sprintf("pass missing parameters with --param, e.g. --param %s=<value>", e.Params[0].Name)
}

// CollectParams fills in missing required parameters for an action by
// prompting. Parameters already present in inputs are left untouched.
// In non-interactive mode the missing set comes back as a
// *MissingParamsError.
func CollectParams(ctx context.Context, p Prompter, a *action.Action, inputs map[string]interface{}) error {
	var missing []action.Param
	for _, param := range a.Params {
		if !param.Required {
			continue
		}
		if v, ok := inputs[param.Name]; ok && v != nil && v != "" {
			continue
		}
		if param.Default != nil {
			continue
		}
		missing = append(missing, param)
	}

	if len(missing) == 0 {
		return nil
	}

	if !p.IsInteractive() {
		return &MissingParamsError{Action: a.Ref(), Params: missing}
	}

	for _, param := range missing {
		value, err := promptOne(ctx, p, param)
		if err != nil {
			return fmt.Errorf("collecting %s: %w", param.Name, err)
		}
		inputs[param.Name] = value
	}

	return nil
}

func promptOne(ctx context.Context, p Prompter, param action.Param) (interface{}, error) {
	switch param.Type {
	case action.TypeInt:
		return p.PromptInt(ctx, param.Name, param.Description)
	case action.TypeBool:
		return p.PromptBool(ctx, param.Name, param.Description, false)
	case action.TypeArray:
		return p.PromptArray(ctx, param.Name, param.Description)
	default:
		// objects are rare as required params; accept them as raw text
		return p.PromptString(ctx, param.Name, param.Description, "")
	}
}
