package examples

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tombee/stagehand/internal/pipeline"
)

func TestList(t *testing.T) {
	examples, err := List()
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}

	if len(examples) == 0 {
		t.Fatal("List() returned no examples")
	}

	found := false
	for _, ex := range examples {
		if ex.Name == "triage" {
			found = true
			if ex.Description == "" {
				t.Error("triage example has no description")
			}
			break
		}
	}

	if !found {
		t.Error("triage example not found in list")
	}
}

func TestGet(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"triage", false},
		{"release-notes", false},
		{"auto-merge", false},
		{"nonexistent", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content, err := Get(tt.name)
			if tt.wantErr {
				if err == nil {
					t.Error("Get() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Get() unexpected error: %v", err)
			}
			if len(content) == 0 {
				t.Error("Get() returned empty content")
			}
		})
	}
}

// Every embedded example must pass the pipeline loader's validation,
// including condition and filter compilation.
func TestExamplesAreValidPipelines(t *testing.T) {
	examples, err := List()
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}

	for _, ex := range examples {
		t.Run(ex.Name, func(t *testing.T) {
			content, err := Get(ex.Name)
			if err != nil {
				t.Fatalf("Get() failed: %v", err)
			}

			def, err := pipeline.Parse(content)
			if err != nil {
				t.Fatalf("example does not parse as a pipeline: %v", err)
			}
			if def.Name != ex.Name {
				t.Errorf("pipeline name %q does not match file name %q", def.Name, ex.Name)
			}
			if def.Description == "" {
				t.Error("example has no description")
			}
		})
	}
}

func TestExists(t *testing.T) {
	tests := []struct {
		name   string
		expect bool
	}{
		{"triage", true},
		{"nonexistent", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Exists(tt.name); got != tt.expect {
				t.Errorf("Exists(%q) = %v, want %v", tt.name, got, tt.expect)
			}
		})
	}
}

func TestCopyTo(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name     string
		destPath string
		wantErr  bool
	}{
		{
			name:     "triage",
			destPath: filepath.Join(tmpDir, "test.yaml"),
			wantErr:  false,
		},
		{
			name:     "nonexistent",
			destPath: filepath.Join(tmpDir, "nonexistent.yaml"),
			wantErr:  true,
		},
		{
			name:     "triage",
			destPath: filepath.Join(tmpDir, "subdir", "nested.yaml"),
			wantErr:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name+"_to_"+filepath.Base(tt.destPath), func(t *testing.T) {
			err := CopyTo(tt.name, tt.destPath)
			if tt.wantErr {
				if err == nil {
					t.Error("CopyTo() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("CopyTo() unexpected error: %v", err)
			}

			content, err := os.ReadFile(tt.destPath)
			if err != nil {
				t.Fatalf("failed to read copied file: %v", err)
			}

			original, err := Get(tt.name)
			if err != nil {
				t.Fatalf("failed to get original content: %v", err)
			}

			if string(content) != string(original) {
				t.Error("copied content does not match original")
			}
		})
	}
}
