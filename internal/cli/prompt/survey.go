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

package prompt

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/AlecAivazis/survey/v2"
)

// SurveyPrompter implements Prompter using the survey library.
type SurveyPrompter struct {
	interactive bool
}

// NewSurveyPrompter creates a new survey-based prompter.
func NewSurveyPrompter(interactive bool) *SurveyPrompter {
	return &SurveyPrompter{
		interactive: interactive,
	}
}

// PromptString collects a string input using survey.Input.
func (sp *SurveyPrompter) PromptString(ctx context.Context, name, desc string, def string) (string, error) {
	if !sp.interactive {
		return "", fmt.Errorf("cannot prompt in non-interactive mode")
	}

	var result string
	input := &survey.Input{
		Message: fmt.Sprintf("%s: %s", name, desc),
		Default: def,
	}

	err := survey.AskOne(input, &result, survey.WithValidator(survey.Required))
	return result, err
}

// PromptInt collects an integer input using survey.Input with validation.
func (sp *SurveyPrompter) PromptInt(ctx context.Context, name, desc string) (int, error) {
	if !sp.interactive {
		return 0, fmt.Errorf("cannot prompt in non-interactive mode")
	}

	var raw string
	input := &survey.Input{
		Message: fmt.Sprintf("%s: %s", name, desc),
	}

	err := survey.AskOne(input, &raw, survey.WithValidator(func(ans interface{}) error {
		str, ok := ans.(string)
		if !ok {
			return nil
		}
		if _, err := strconv.Atoi(strings.TrimSpace(str)); err != nil {
			return fmt.Errorf("enter a whole number")
		}
		return nil
	}))
	if err != nil {
		return 0, err
	}

	return strconv.Atoi(strings.TrimSpace(raw))
}

// PromptBool collects a boolean input using survey.Confirm.
func (sp *SurveyPrompter) PromptBool(ctx context.Context, name, desc string, def bool) (bool, error) {
	if !sp.interactive {
		return false, fmt.Errorf("cannot prompt in non-interactive mode")
	}

	var result bool
	confirm := &survey.Confirm{
		Message: fmt.Sprintf("%s: %s", name, desc),
		Default: def,
	}

	err := survey.AskOne(confirm, &result)
	return result, err
}

// PromptArray collects a list input as comma-separated values.
func (sp *SurveyPrompter) PromptArray(ctx context.Context, name, desc string) ([]interface{}, error) {
	if !sp.interactive {
		return nil, fmt.Errorf("cannot prompt in non-interactive mode")
	}

	var raw string
	input := &survey.Input{
		Message: fmt.Sprintf("%s (comma-separated): %s", name, desc),
	}

	if err := survey.AskOne(input, &raw, survey.WithValidator(survey.Required)); err != nil {
		return nil, err
	}

	parts := strings.Split(raw, ",")
	values := make([]interface{}, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values, nil
}

// Confirm asks a yes/no question, defaulting to no.
func (sp *SurveyPrompter) Confirm(ctx context.Context, message string) (bool, error) {
	if !sp.interactive {
		return false, fmt.Errorf("cannot prompt in non-interactive mode")
	}

	var result bool
	confirm := &survey.Confirm{
		Message: message,
		Default: false,
	}

	err := survey.AskOne(confirm, &result)
	return result, err
}

// IsInteractive returns whether prompts can be displayed.
func (sp *SurveyPrompter) IsInteractive() bool {
	return sp.interactive
}
