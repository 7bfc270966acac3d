// Package examples embeds example pipelines in the binary so they are
// available offline.
package examples

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

//go:embed *.yaml
var embeddedFS embed.FS

// Example is metadata about one embedded example pipeline.
type Example struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	FilePath    string `json:"file"`
}

// List returns all embedded examples.
func List() ([]Example, error) {
	entries, err := embeddedFS.ReadDir(".")
	if err != nil {
		return nil, fmt.Errorf("reading embedded examples: %w", err)
	}

	var examples []Example
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		name := strings.TrimSuffix(entry.Name(), ".yaml")
		examples = append(examples, Example{
			Name:        name,
			Description: describe(name),
			FilePath:    entry.Name(),
		})
	}

	return examples, nil
}

// Get returns the YAML content of the named example.
func Get(name string) ([]byte, error) {
	content, err := embeddedFS.ReadFile(name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("example %q not found: %w", name, err)
	}
	return content, nil
}

// Exists reports whether an example with the given name is embedded.
func Exists(name string) bool {
	_, err := embeddedFS.ReadFile(name + ".yaml")
	return err == nil
}

// CopyTo writes an example to destPath, creating parent directories as
// needed.
func CopyTo(name string, destPath string) error {
	content, err := Get(name)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return fmt.Errorf("creating destination directory: %w", err)
	}

	if err := os.WriteFile(destPath, content, 0644); err != nil {
		return fmt.Errorf("writing example file: %w", err)
	}

	return nil
}

func describe(name string) string {
	descriptions := map[string]string{
		"triage":        "Label a new issue and acknowledge it with a comment",
		"release-notes": "Draft release notes from merged pull requests",
		"auto-merge":    "Squash-merge a pull request when it has no conflicts",
	}

	if desc, ok := descriptions[name]; ok {
		return desc
	}
	return "Example pipeline"
}
