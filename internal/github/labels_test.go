package github

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/tombee/stagehand/internal/action"
	pkgerrors "github.com/tombee/stagehand/pkg/errors"
)

func TestActions_CreateLabel(t *testing.T) {
	reg := newTestActions(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/octocat/hello-world/labels" {
			t.Errorf("path = %s, want /repos/octocat/hello-world/labels", r.URL.Path)
		}

		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decoding request body: %v", err)
		}
		if body["name"] != "triage" || body["color"] != "d73a4a" {
			t.Errorf("body = %v, want name=triage color=d73a4a", body)
		}

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]interface{}{"name": "triage", "color": "d73a4a"})
	})

	_, err := reg.Execute(context.Background(), "labels.create", map[string]interface{}{
		"owner": "octocat",
		"repo":  "hello-world",
		"name":  "triage",
		"color": "d73a4a",
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
}

func TestActions_CreateLabel_ValidationFailed(t *testing.T) {
	reg := newTestActions(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"message": "Validation Failed",
			"errors": []map[string]interface{}{
				{"resource": "Label", "code": "invalid", "field": "color"},
			},
		})
	})

	_, err := reg.Execute(context.Background(), "labels.create", map[string]interface{}{
		"owner": "octocat",
		"repo":  "hello-world",
		"name":  "triage",
		"color": "not-a-color",
	})
	if err == nil {
		t.Fatal("Execute() expected error for 422, got nil")
	}

	var aerr *action.Error
	if !errors.As(err, &aerr) {
		t.Fatalf("Execute() error = %T, want *action.Error", err)
	}
	if aerr.Type != action.ErrorTypeValidation {
		t.Errorf("Type = %q, want %q", aerr.Type, action.ErrorTypeValidation)
	}
	if aerr.Message != "Validation Failed" {
		t.Errorf("Message = %q, want GitHub's message field", aerr.Message)
	}
}

func TestActions_GetLabel_EscapesName(t *testing.T) {
	reg := newTestActions(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.EscapedPath(); got != "/repos/octocat/hello-world/labels/help%20wanted" {
			t.Errorf("escaped path = %s, want /repos/octocat/hello-world/labels/help%%20wanted", got)
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{"name": "help wanted"})
	})

	result, err := reg.Execute(context.Background(), "labels.get", map[string]interface{}{
		"owner": "octocat",
		"repo":  "hello-world",
		"name":  "help wanted",
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	resp, ok := result.Response.(map[string]interface{})
	if !ok {
		t.Fatalf("Response is not a map")
	}
	if resp["name"] != "help wanted" {
		t.Errorf("name = %v, want 'help wanted'", resp["name"])
	}
}

func TestActions_UpdateLabel(t *testing.T) {
	reg := newTestActions(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Errorf("method = %s, want PATCH", r.Method)
		}

		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decoding request body: %v", err)
		}
		if body["new_name"] != "needs-triage" {
			t.Errorf("new_name = %v, want needs-triage", body["new_name"])
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{"name": "needs-triage"})
	})

	_, err := reg.Execute(context.Background(), "labels.update", map[string]interface{}{
		"owner":    "octocat",
		"repo":     "hello-world",
		"name":     "triage",
		"new_name": "needs-triage",
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
}

func TestActions_AddLabels_RequiresLabels(t *testing.T) {
	called := false
	reg := newTestActions(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	_, err := reg.Execute(context.Background(), "labels.add_to_issue", map[string]interface{}{
		"owner":        "octocat",
		"repo":         "hello-world",
		"issue_number": 5,
		"labels":       []string{},
	})
	if err == nil {
		t.Fatal("Execute() expected error for empty labels, got nil")
	}

	var verr *pkgerrors.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Execute() error = %T, want *pkgerrors.ValidationError", err)
	}
	if called {
		t.Error("request was sent despite a validation failure")
	}
}

func TestActions_AddLabelsToIssue(t *testing.T) {
	reg := newTestActions(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/octocat/hello-world/issues/5/labels" {
			t.Errorf("path = %s, want /repos/octocat/hello-world/issues/5/labels", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}

		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decoding request body: %v", err)
		}
		labels, _ := body["labels"].([]interface{})
		if len(labels) != 2 {
			t.Errorf("labels = %v, want two entries", body["labels"])
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode([]map[string]interface{}{{"name": "bug"}, {"name": "urgent"}})
	})

	_, err := reg.Execute(context.Background(), "labels.add_to_issue", map[string]interface{}{
		"owner":        "octocat",
		"repo":         "hello-world",
		"issue_number": 5,
		"labels":       []string{"bug", "urgent"},
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
}

func TestActions_SetLabels_EmptyClears(t *testing.T) {
	reg := newTestActions(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("method = %s, want PUT", r.Method)
		}

		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decoding request body: %v", err)
		}
		labels, ok := body["labels"].([]interface{})
		if !ok {
			t.Fatalf("labels key missing or not an array: %v", body)
		}
		if len(labels) != 0 {
			t.Errorf("labels = %v, want empty array", labels)
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode([]interface{}{})
	})

	_, err := reg.Execute(context.Background(), "labels.set_on_issue", map[string]interface{}{
		"owner":        "octocat",
		"repo":         "hello-world",
		"issue_number": 5,
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
}

func TestActions_RemoveLabelFromIssue(t *testing.T) {
	reg := newTestActions(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.EscapedPath(); got != "/repos/octocat/hello-world/issues/5/labels/help%20wanted" {
			t.Errorf("escaped path = %s, want the label name escaped", got)
		}
		if r.Method != http.MethodDelete {
			t.Errorf("method = %s, want DELETE", r.Method)
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode([]map[string]interface{}{{"name": "bug"}})
	})

	result, err := reg.Execute(context.Background(), "labels.remove_from_issue", map[string]interface{}{
		"owner":        "octocat",
		"repo":         "hello-world",
		"issue_number": 5,
		"name":         "help wanted",
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	remaining, ok := result.Response.([]interface{})
	if !ok {
		t.Fatalf("Response is not a slice")
	}
	if len(remaining) != 1 {
		t.Errorf("got %d remaining labels, want 1", len(remaining))
	}
}

func TestActions_ClearLabelsFromIssue(t *testing.T) {
	reg := newTestActions(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/octocat/hello-world/issues/5/labels" {
			t.Errorf("path = %s, want /repos/octocat/hello-world/issues/5/labels", r.URL.Path)
		}
		if r.Method != http.MethodDelete {
			t.Errorf("method = %s, want DELETE", r.Method)
		}
		w.WriteHeader(http.StatusNoContent)
	})

	result, err := reg.Execute(context.Background(), "labels.clear_from_issue", map[string]interface{}{
		"owner":        "octocat",
		"repo":         "hello-world",
		"issue_number": 5,
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if result.StatusCode != http.StatusNoContent {
		t.Errorf("StatusCode = %d, want 204", result.StatusCode)
	}
}
