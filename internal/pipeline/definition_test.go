package pipeline

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name: "valid pipeline",
			yaml: `
name: triage
description: Label new issues
inputs:
  - name: owner
    type: string
    required: true
  - name: repo
    type: string
    required: true
  - name: label
    type: string
    default: needs-triage
steps:
  - id: fetch
    action: issues.list
    with:
      owner: ${{ inputs.owner }}
      repo: ${{ inputs.repo }}
      state: open
  - id: label
    action: labels.add
    if: steps.fetch.status == "success"
    with:
      owner: ${{ inputs.owner }}
      repo: ${{ inputs.repo }}
      labels: [ "${{ inputs.label }}" ]
outputs:
  issues: ${{ steps.fetch.output }}
`,
		},
		{
			name: "missing name",
			yaml: `
steps:
  - id: step1
    action: issues.list
`,
			wantErr: "name",
		},
		{
			name: "no steps",
			yaml: `
name: empty
`,
			wantErr: "no steps",
		},
		{
			name: "missing step id",
			yaml: `
name: p
steps:
  - action: issues.list
`,
			wantErr: "step id is required",
		},
		{
			name: "invalid step id",
			yaml: `
name: p
steps:
  - id: "1bad"
    action: issues.list
`,
			wantErr: "invalid step id",
		},
		{
			name: "duplicate step id",
			yaml: `
name: p
steps:
  - id: one
    action: issues.list
  - id: one
    action: issues.get
`,
			wantErr: "duplicate step id",
		},
		{
			name: "missing action",
			yaml: `
name: p
steps:
  - id: one
`,
			wantErr: "action is required",
		},
		{
			name: "action without category",
			yaml: `
name: p
steps:
  - id: one
    action: list
`,
			wantErr: "invalid action reference",
		},
		{
			name: "duplicate input",
			yaml: `
name: p
inputs:
  - name: owner
  - name: owner
steps:
  - id: one
    action: issues.list
`,
			wantErr: "duplicate input",
		},
		{
			name: "unknown input type",
			yaml: `
name: p
inputs:
  - name: owner
    type: decimal
steps:
  - id: one
    action: issues.list
`,
			wantErr: "unknown input type",
		},
		{
			name: "bad policy pattern",
			yaml: `
name: p
policy:
  - "issues.[invalid"
steps:
  - id: one
    action: issues.list
`,
			wantErr: "policy",
		},
		{
			name: "condition does not compile",
			yaml: `
name: p
steps:
  - id: one
    action: issues.list
    if: "inputs.count >"
`,
			wantErr: "condition does not compile",
		},
		{
			name: "filter does not compile",
			yaml: `
name: p
steps:
  - id: one
    action: issues.list
    filter: ".["
`,
			wantErr: "filter",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def, err := Parse([]byte(tt.yaml))
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Parse() error = %v, want nil", err)
				}
				if def.Name == "" {
					t.Error("expected parsed definition to have a name")
				}
				return
			}
			if err == nil {
				t.Fatalf("Parse() succeeded, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Parse() error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestParse_StepFields(t *testing.T) {
	def, err := Parse([]byte(`
name: p
steps:
  - id: check
    action: pulls.is_merged
    with:
      owner: octocat
      repo: hello
      number: 7
    filter: .merged
    continue_on_error: true
`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	step := def.Steps[0]
	if !step.ContinueOnError {
		t.Error("expected continue_on_error to be true")
	}
	if step.Filter != ".merged" {
		t.Errorf("expected filter %q, got %q", ".merged", step.Filter)
	}
	if step.With["number"] != 7 {
		t.Errorf("expected with.number 7, got %v", step.With["number"])
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pipeline.yaml")
	content := `
name: from-file
steps:
  - id: one
    action: repos.get
    with:
      owner: octocat
      repo: hello
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	def, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if def.Name != "from-file" {
		t.Errorf("expected name %q, got %q", "from-file", def.Name)
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
