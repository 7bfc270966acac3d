package pipeline

import (
	"reflect"
	"strings"
	"testing"
)

func testContext() *Context {
	rc := NewContext(map[string]interface{}{
		"owner":  "octocat",
		"repo":   "hello-world",
		"number": 42,
		"labels": []interface{}{"bug", "urgent"},
	})
	rc.Env["CI"] = "true"
	rc.SetStepResult("fetch", StatusSuccess, map[string]interface{}{
		"title":  "Broken build",
		"number": float64(7),
		"user":   map[string]interface{}{"login": "hubot"},
	})
	rc.SetStepResult("skipcheck", StatusSkipped, nil)
	return rc
}

func TestResolveValue_PureReferences(t *testing.T) {
	rc := testContext()

	tests := []struct {
		name string
		in   string
		want interface{}
	}{
		{"input string", "${{ inputs.owner }}", "octocat"},
		{"input int keeps type", "${{ inputs.number }}", 42},
		{"input array keeps type", "${{ inputs.labels }}", []interface{}{"bug", "urgent"}},
		{"step output field", "${{ steps.fetch.output.title }}", "Broken build"},
		{"nested step output", "${{ steps.fetch.output.user.login }}", "hubot"},
		{"step status", "${{ steps.fetch.status }}", "success"},
		{"skipped step status", "${{ steps.skipcheck.status }}", "skipped"},
		{"env var", "${{ env.CI }}", "true"},
		{"whole step output", "${{ steps.fetch.output }}", map[string]interface{}{
			"title":  "Broken build",
			"number": float64(7),
			"user":   map[string]interface{}{"login": "hubot"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveValue(tt.in, rc)
			if err != nil {
				t.Fatalf("ResolveValue(%q) error = %v", tt.in, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ResolveValue(%q) = %#v, want %#v", tt.in, got, tt.want)
			}
		})
	}
}

func TestResolveValue_EmbeddedReferences(t *testing.T) {
	rc := testContext()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"prefix text", "repo: ${{ inputs.repo }}", "repo: hello-world"},
		{"two references", "${{ inputs.owner }}/${{ inputs.repo }}", "octocat/hello-world"},
		{"int stringified", "issue #${{ inputs.number }}", "issue #42"},
		{"float stringified without exponent", "found ${{ steps.fetch.output.number }}", "found 7"},
		{"array stringified as json", "labels=${{ inputs.labels }}", `labels=["bug","urgent"]`},
		{"no references", "plain text", "plain text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveValue(tt.in, rc)
			if err != nil {
				t.Fatalf("ResolveValue(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ResolveValue(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestResolveValue_Undefined(t *testing.T) {
	rc := testContext()

	for _, in := range []string{
		"${{ inputs.missing }}",
		"${{ steps.nope.output }}",
		"${{ steps.fetch.output.missing }}",
		"${{ env.UNSET_VARIABLE_12345 }}",
		"text with ${{ inputs.missing }} inside",
	} {
		if _, err := ResolveValue(in, rc); err == nil {
			t.Errorf("ResolveValue(%q) succeeded, want undefined reference error", in)
		} else if !strings.Contains(err.Error(), "undefined reference") {
			t.Errorf("ResolveValue(%q) error = %v, want undefined reference", in, err)
		}
	}
}

func TestResolveValue_Recursion(t *testing.T) {
	rc := testContext()

	in := map[string]interface{}{
		"owner": "${{ inputs.owner }}",
		"meta": map[string]interface{}{
			"title": "${{ steps.fetch.output.title }}",
		},
		"labels": []interface{}{"${{ inputs.labels }}", "extra"},
		"count":  3,
	}

	got, err := ResolveValue(in, rc)
	if err != nil {
		t.Fatalf("ResolveValue() error = %v", err)
	}

	want := map[string]interface{}{
		"owner": "octocat",
		"meta": map[string]interface{}{
			"title": "Broken build",
		},
		"labels": []interface{}{[]interface{}{"bug", "urgent"}, "extra"},
		"count":  3,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ResolveValue() = %#v, want %#v", got, want)
	}
}

func TestResolveValue_RecursionErrorsNamePath(t *testing.T) {
	rc := testContext()

	_, err := ResolveValue(map[string]interface{}{
		"body": "${{ inputs.missing }}",
	}, rc)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), `"body"`) {
		t.Errorf("error %v should name the failing field", err)
	}
}

func TestContext_ToMap(t *testing.T) {
	rc := testContext()
	m := rc.ToMap()

	inputs, ok := m["inputs"].(map[string]interface{})
	if !ok || inputs["owner"] != "octocat" {
		t.Errorf("expected inputs.owner in map, got %#v", m["inputs"])
	}

	steps, ok := m["steps"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected steps map, got %#v", m["steps"])
	}
	fetch, ok := steps["fetch"].(map[string]interface{})
	if !ok || fetch["status"] != "success" {
		t.Errorf("expected steps.fetch.status success, got %#v", steps["fetch"])
	}
}
