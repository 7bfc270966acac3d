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
)

// MockPrompter implements Prompter with scripted responses for testing.
type MockPrompter struct {
	responses    []interface{}
	currentIndex int
	interactive  bool
	callLog      []string
}

// NewMockPrompter creates a new mock prompter with pre-scripted responses.
func NewMockPrompter(interactive bool, responses ...interface{}) *MockPrompter {
	return &MockPrompter{
		responses:   responses,
		interactive: interactive,
	}
}

func (mp *MockPrompter) next(call string) (interface{}, bool) {
	mp.callLog = append(mp.callLog, call)
	if mp.currentIndex >= len(mp.responses) {
		return nil, false
	}
	resp := mp.responses[mp.currentIndex]
	mp.currentIndex++
	return resp, true
}

// PromptString returns the next string response.
func (mp *MockPrompter) PromptString(ctx context.Context, name, desc string, def string) (string, error) {
	resp, ok := mp.next(fmt.Sprintf("PromptString(%s)", name))
	if !ok {
		return def, nil
	}
	if str, ok := resp.(string); ok {
		return str, nil
	}
	return "", fmt.Errorf("mock response is not a string")
}

// PromptInt returns the next integer response.
func (mp *MockPrompter) PromptInt(ctx context.Context, name, desc string) (int, error) {
	resp, ok := mp.next(fmt.Sprintf("PromptInt(%s)", name))
	if !ok {
		return 0, nil
	}
	if n, ok := resp.(int); ok {
		return n, nil
	}
	return 0, fmt.Errorf("mock response is not an int")
}

// PromptBool returns the next boolean response.
func (mp *MockPrompter) PromptBool(ctx context.Context, name, desc string, def bool) (bool, error) {
	resp, ok := mp.next(fmt.Sprintf("PromptBool(%s)", name))
	if !ok {
		return def, nil
	}
	if b, ok := resp.(bool); ok {
		return b, nil
	}
	return false, fmt.Errorf("mock response is not a bool")
}

// PromptArray returns the next array response.
func (mp *MockPrompter) PromptArray(ctx context.Context, name, desc string) ([]interface{}, error) {
	resp, ok := mp.next(fmt.Sprintf("PromptArray(%s)", name))
	if !ok {
		return nil, nil
	}
	if arr, ok := resp.([]interface{}); ok {
		return arr, nil
	}
	return nil, fmt.Errorf("mock response is not an array")
}

// Confirm returns the next boolean response.
func (mp *MockPrompter) Confirm(ctx context.Context, message string) (bool, error) {
	resp, ok := mp.next("Confirm")
	if !ok {
		return false, nil
	}
	if b, ok := resp.(bool); ok {
		return b, nil
	}
	return false, fmt.Errorf("mock response is not a bool")
}

// IsInteractive returns the configured interactivity.
func (mp *MockPrompter) IsInteractive() bool {
	return mp.interactive
}

// CallLog returns the sequence of prompt calls made.
func (mp *MockPrompter) CallLog() []string {
	return mp.callLog
}
