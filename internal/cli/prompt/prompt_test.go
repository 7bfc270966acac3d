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
	"errors"
	"strings"
	"testing"

	"github.com/tombee/stagehand/internal/action"
)

func testAction() *action.Action {
	return &action.Action{
		Name:     "create",
		Category: "issues",
		Params: []action.Param{
			{Name: "owner", Type: action.TypeString, Description: "Repository owner", Required: true},
			{Name: "repo", Type: action.TypeString, Description: "Repository name", Required: true},
			{Name: "number", Type: action.TypeInt, Description: "Issue number", Required: true},
			{Name: "state", Type: action.TypeString, Description: "Issue state", Required: true, Default: "open"},
			{Name: "labels", Type: action.TypeArray, Description: "Label names"},
		},
	}
}

func TestCollectParams_AllPresent(t *testing.T) {
	mp := NewMockPrompter(true)
	inputs := map[string]interface{}{
		"owner":  "octocat",
		"repo":   "hello-world",
		"number": 42,
	}

	if err := CollectParams(context.Background(), mp, testAction(), inputs); err != nil {
		t.Fatalf("CollectParams() returned error: %v", err)
	}
	if len(mp.CallLog()) != 0 {
		t.Errorf("no prompts expected, got %v", mp.CallLog())
	}
}

func TestCollectParams_PromptsForMissing(t *testing.T) {
	mp := NewMockPrompter(true, "octocat", 42)
	inputs := map[string]interface{}{
		"repo": "hello-world",
	}

	if err := CollectParams(context.Background(), mp, testAction(), inputs); err != nil {
		t.Fatalf("CollectParams() returned error: %v", err)
	}

	if inputs["owner"] != "octocat" {
		t.Errorf("owner = %v, want octocat", inputs["owner"])
	}
	if inputs["number"] != 42 {
		t.Errorf("number = %v, want 42", inputs["number"])
	}

	log := mp.CallLog()
	if len(log) != 2 {
		t.Fatalf("expected 2 prompts, got %v", log)
	}
	if log[0] != "PromptString(owner)" || log[1] != "PromptInt(number)" {
		t.Errorf("unexpected prompt order: %v", log)
	}
}

func TestCollectParams_DefaultsNotPrompted(t *testing.T) {
	// state is required but has a default, so it is never prompted
	mp := NewMockPrompter(true, "octocat", "hello-world", 7)
	inputs := map[string]interface{}{}

	if err := CollectParams(context.Background(), mp, testAction(), inputs); err != nil {
		t.Fatalf("CollectParams() returned error: %v", err)
	}

	for _, call := range mp.CallLog() {
		if strings.Contains(call, "state") {
			t.Errorf("state should not be prompted, calls: %v", mp.CallLog())
		}
	}
}

func TestCollectParams_NonInteractive(t *testing.T) {
	mp := NewMockPrompter(false)
	inputs := map[string]interface{}{"owner": "octocat"}

	err := CollectParams(context.Background(), mp, testAction(), inputs)
	if err == nil {
		t.Fatal("expected error in non-interactive mode")
	}

	var missing *MissingParamsError
	if !errors.As(err, &missing) {
		t.Fatalf("error is %T, want *MissingParamsError", err)
	}
	if len(missing.Params) != 2 {
		t.Errorf("missing %d params, want 2 (repo, number)", len(missing.Params))
	}
	if !strings.Contains(missing.Error(), "repo") || !strings.Contains(missing.Error(), "number") {
		t.Errorf("error %q should name repo and number", missing.Error())
	}
	if !strings.Contains(missing.Suggestion(), "--param repo=<value>") {
		t.Errorf("Suggestion() should show a --param hint, got %q", missing.Suggestion())
	}
}
