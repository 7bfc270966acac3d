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

package pipeline

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/tombee/stagehand/internal/cli/prompt"
	"github.com/tombee/stagehand/internal/commands/shared"
	"github.com/tombee/stagehand/internal/pipeline"
)

func testDefinition() *pipeline.Definition {
	return &pipeline.Definition{
		Name: "triage",
		Inputs: []pipeline.InputDefinition{
			{Name: "owner", Type: "string", Required: true},
			{Name: "count", Type: "int", Required: true},
			{Name: "state", Type: "string", Required: true, Default: "open"},
			{Name: "dry", Type: "bool"},
		},
		Steps: []pipeline.StepDefinition{
			{ID: "fetch", Action: "issues.list"},
		},
	}
}

func TestCollectInputs_AllPresent(t *testing.T) {
	mp := prompt.NewMockPrompter(true)
	provided := map[string]interface{}{"owner": "octocat", "count": 5}

	if err := collectInputs(context.Background(), mp, testDefinition(), provided); err != nil {
		t.Fatalf("collectInputs failed: %v", err)
	}
	if len(mp.CallLog()) != 0 {
		t.Errorf("no prompts expected, got %v", mp.CallLog())
	}
}

func TestCollectInputs_PromptsForMissing(t *testing.T) {
	mp := prompt.NewMockPrompter(true, "octocat", 5)
	provided := map[string]interface{}{}

	if err := collectInputs(context.Background(), mp, testDefinition(), provided); err != nil {
		t.Fatalf("collectInputs failed: %v", err)
	}

	if provided["owner"] != "octocat" {
		t.Errorf("owner = %v, want octocat", provided["owner"])
	}
	if provided["count"] != 5 {
		t.Errorf("count = %v, want 5", provided["count"])
	}

	// state has a default and dry is optional, so neither prompts
	if _, ok := provided["state"]; ok {
		t.Error("state should be left for the runner's default handling")
	}
	calls := mp.CallLog()
	if len(calls) != 2 || calls[0] != "PromptString(owner)" || calls[1] != "PromptInt(count)" {
		t.Errorf("unexpected prompt sequence %v", calls)
	}
}

func TestCollectInputs_NonInteractive(t *testing.T) {
	mp := prompt.NewMockPrompter(false)
	provided := map[string]interface{}{"owner": "octocat"}

	err := collectInputs(context.Background(), mp, testDefinition(), provided)
	if err == nil {
		t.Fatal("expected an error for missing inputs without a terminal")
	}

	var exitErr *shared.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("error type = %T, want *shared.ExitError", err)
	}
	if exitErr.Code != shared.ExitMissingInputNonInteractive {
		t.Errorf("exit code = %d, want %d", exitErr.Code, shared.ExitMissingInputNonInteractive)
	}
	if !strings.Contains(err.Error(), "count") {
		t.Errorf("error should name the missing input: %v", err)
	}
}

func TestBuildRunReport(t *testing.T) {
	run := &pipeline.RunResult{
		RunID:    "run-1",
		Pipeline: "triage",
		Status:   pipeline.StatusFailure,
		Duration: 1500 * time.Millisecond,
		Steps: []pipeline.StepResult{
			{StepID: "fetch", Action: "issues.list", Status: pipeline.StatusSuccess, StatusCode: 200, Duration: time.Second},
			{StepID: "label", Action: "labels.add", Status: pipeline.StatusFailure, StatusCode: 404, Error: "Not Found"},
		},
		Outputs: map[string]interface{}{"total": 12},
	}

	report := buildRunReport(run, errors.New("step label: boom"))

	if report.RunID != "run-1" || report.Status != "failure" {
		t.Errorf("unexpected report %+v", report)
	}
	if report.DurationMS != 1500 {
		t.Errorf("duration_ms = %d, want 1500", report.DurationMS)
	}
	if len(report.Steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(report.Steps))
	}
	if report.Steps[1].Error != "Not Found" || report.Steps[1].StatusCode != 404 {
		t.Errorf("failed step not reported: %+v", report.Steps[1])
	}
	if report.Error != "step label: boom" {
		t.Errorf("error = %q", report.Error)
	}
	if report.Outputs["total"] != 12 {
		t.Errorf("outputs not carried: %v", report.Outputs)
	}
}

func TestPrintRunSummary(t *testing.T) {
	run := &pipeline.RunResult{
		RunID:    "run-1",
		Pipeline: "triage",
		Status:   pipeline.StatusSuccess,
		Duration: 2 * time.Second,
		Steps: []pipeline.StepResult{
			{StepID: "fetch", Action: "issues.list", Status: pipeline.StatusSuccess, StatusCode: 200, Duration: 300 * time.Millisecond},
			{StepID: "skip", Action: "labels.add", Status: pipeline.StatusSkipped},
		},
		Outputs: map[string]interface{}{"url": "https://example.com"},
	}

	var buf bytes.Buffer
	printRunSummary(&buf, run)

	out := buf.String()
	for _, want := range []string{
		"triage completed in 2s",
		"STEP", "ACTION", "STATUS",
		"fetch", "issues.list", "200",
		"skipped",
		"Outputs",
		"https://example.com",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestPrintRunSummary_Failure(t *testing.T) {
	run := &pipeline.RunResult{
		Pipeline: "triage",
		Status:   pipeline.StatusFailure,
		Duration: time.Second,
		Steps: []pipeline.StepResult{
			{StepID: "label", Action: "labels.add", Status: pipeline.StatusFailure, StatusCode: 404, Error: "Not Found"},
		},
	}

	var buf bytes.Buffer
	printRunSummary(&buf, run)

	out := buf.String()
	if !strings.Contains(out, "failed after 1s") {
		t.Errorf("failure header missing:\n%s", out)
	}
	if !strings.Contains(out, "label: Not Found") {
		t.Errorf("step error line missing:\n%s", out)
	}
}
