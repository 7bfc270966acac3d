package action

import (
	"errors"
	"testing"

	pkgerrors "github.com/tombee/stagehand/pkg/errors"
)

type issueParams struct {
	Owner    string   `json:"owner"`
	Repo     string   `json:"repo"`
	Number   int      `json:"issue_number"`
	Labels   []string `json:"labels"`
	Locked   bool     `json:"locked"`
	PerPage  int      `json:"per_page"`
}

func TestDecode(t *testing.T) {
	inputs := map[string]interface{}{
		"owner":        "octocat",
		"repo":         "Hello-World",
		"issue_number": 42,
		"labels":       []interface{}{"bug", "urgent"},
		"locked":       true,
	}

	var params issueParams
	if err := Decode(inputs, &params); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if params.Owner != "octocat" || params.Repo != "Hello-World" {
		t.Errorf("decoded owner/repo = %q/%q", params.Owner, params.Repo)
	}
	if params.Number != 42 {
		t.Errorf("decoded issue_number = %d, want 42", params.Number)
	}
	if len(params.Labels) != 2 || params.Labels[0] != "bug" {
		t.Errorf("decoded labels = %v", params.Labels)
	}
	if !params.Locked {
		t.Error("decoded locked = false, want true")
	}
}

func TestDecode_WeakTyping(t *testing.T) {
	// Flag values and interpolated pipeline values arrive as strings.
	inputs := map[string]interface{}{
		"issue_number": "123",
		"locked":       "true",
		"per_page":     "50",
	}

	var params issueParams
	if err := Decode(inputs, &params); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if params.Number != 123 {
		t.Errorf("decoded issue_number = %d, want weak conversion to 123", params.Number)
	}
	if !params.Locked {
		t.Error("decoded locked = false, want weak conversion to true")
	}
	if params.PerPage != 50 {
		t.Errorf("decoded per_page = %d, want 50", params.PerPage)
	}
}

func TestDecode_TypeMismatch(t *testing.T) {
	inputs := map[string]interface{}{
		"issue_number": "not-a-number",
	}

	var params issueParams
	err := Decode(inputs, &params)
	if err == nil {
		t.Fatal("Decode() error = nil, want validation error")
	}
	var verr *pkgerrors.ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("Decode() error type = %T, want *ValidationError", err)
	}
}

func TestApplyDefaults(t *testing.T) {
	params := []Param{
		{Name: "state", Type: TypeString, Default: "open"},
		{Name: "per_page", Type: TypeInt, Default: 30},
		{Name: "owner", Type: TypeString, Required: true},
	}

	inputs := map[string]interface{}{
		"owner": "octocat",
		"state": "closed",
	}

	merged := ApplyDefaults(params, inputs)

	if merged["state"] != "closed" {
		t.Errorf("state = %v, want caller value kept", merged["state"])
	}
	if merged["per_page"] != 30 {
		t.Errorf("per_page = %v, want default applied", merged["per_page"])
	}
	if merged["owner"] != "octocat" {
		t.Errorf("owner = %v", merged["owner"])
	}

	// The original map must not change.
	if _, ok := inputs["per_page"]; ok {
		t.Error("ApplyDefaults mutated the input map")
	}
}

func TestValidateRequired(t *testing.T) {
	params := []Param{
		{Name: "owner", Type: TypeString, Required: true, Description: "repository owner"},
		{Name: "state", Type: TypeString},
	}

	tests := []struct {
		name    string
		inputs  map[string]interface{}
		wantErr bool
	}{
		{
			name:    "all present",
			inputs:  map[string]interface{}{"owner": "octocat"},
			wantErr: false,
		},
		{
			name:    "missing required",
			inputs:  map[string]interface{}{"state": "open"},
			wantErr: true,
		},
		{
			name:    "nil required",
			inputs:  map[string]interface{}{"owner": nil},
			wantErr: true,
		},
		{
			name:    "empty string required",
			inputs:  map[string]interface{}{"owner": ""},
			wantErr: true,
		},
		{
			name:    "optional missing",
			inputs:  map[string]interface{}{"owner": "octocat"},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRequired(params, tt.inputs)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRequired() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
