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

package actions

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/tombee/stagehand/internal/action"
)

func TestRenderShow_Table(t *testing.T) {
	a := &action.Action{
		Name:        "list",
		Category:    "issues",
		Description: "List repository issues",
		Params: []action.Param{
			{Name: "owner", Type: action.TypeString, Required: true, Description: "Repository owner"},
			{Name: "repo", Type: action.TypeString, Required: true, Description: "Repository name"},
			{Name: "state", Type: action.TypeString, Default: "open", Description: "Issue state filter"},
			{Name: "page", Type: action.TypeInt, Description: "Page number"},
		},
	}

	var buf bytes.Buffer
	if err := renderShow(&buf, a, false); err != nil {
		t.Fatalf("renderShow failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"issues.list",
		"List repository issues",
		"PARAMETER", "TYPE", "REQUIRED", "DEFAULT",
		"owner", "state", "open",
		"stagehand run issues.list",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	if strings.Contains(out, "Destructive") {
		t.Error("non-destructive action should not show a destructive line")
	}
}

func TestRenderShow_Destructive(t *testing.T) {
	a := &action.Action{
		Name:        "delete",
		Category:    "milestones",
		Description: "Delete a milestone",
		Destructive: true,
		Params: []action.Param{
			{Name: "owner", Type: action.TypeString, Required: true, Description: "Repository owner"},
		},
	}

	var buf bytes.Buffer
	if err := renderShow(&buf, a, false); err != nil {
		t.Fatalf("renderShow failed: %v", err)
	}

	if !strings.Contains(buf.String(), "requires confirmation") {
		t.Errorf("destructive action should warn about confirmation:\n%s", buf.String())
	}
}

func TestRenderShow_NoParams(t *testing.T) {
	a := &action.Action{
		Name:        "whoami",
		Category:    "meta",
		Description: "Show the authenticated user",
	}

	var buf bytes.Buffer
	if err := renderShow(&buf, a, false); err != nil {
		t.Fatalf("renderShow failed: %v", err)
	}

	if !strings.Contains(buf.String(), "takes no parameters") {
		t.Errorf("expected the no-parameter notice:\n%s", buf.String())
	}
}

func TestRenderShow_JSON(t *testing.T) {
	a := &action.Action{
		Name:        "merge",
		Category:    "pulls",
		Description: "Merge a pull request",
		Params: []action.Param{
			{Name: "owner", Type: action.TypeString, Required: true, Description: "Repository owner"},
			{Name: "repo", Type: action.TypeString, Required: true, Description: "Repository name"},
			{Name: "number", Type: action.TypeInt, Required: true, Description: "Pull request number"},
			{Name: "merge_method", Type: action.TypeString, Default: "merge", Description: "Merge strategy"},
		},
	}

	var buf bytes.Buffer
	if err := renderShow(&buf, a, true); err != nil {
		t.Fatalf("renderShow failed: %v", err)
	}

	var detail actionDetail
	if err := json.Unmarshal(buf.Bytes(), &detail); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}

	if detail.Ref != "pulls.merge" {
		t.Errorf("ref = %q, want pulls.merge", detail.Ref)
	}
	if len(detail.Params) != 4 {
		t.Fatalf("expected 4 params, got %d", len(detail.Params))
	}
	if detail.Params[3].Default != "merge" {
		t.Errorf("merge_method default = %v, want merge", detail.Params[3].Default)
	}
	if detail.Params[0].Type != "string" || detail.Params[2].Type != "int" {
		t.Errorf("param types not preserved: %+v", detail.Params)
	}
}
