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
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tombee/stagehand/internal/commands/shared"
	"github.com/tombee/stagehand/internal/examples"
)

func newExamplesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "examples",
		Short: "Browse and copy example pipelines",
		Long: `Browse, view, and copy the example pipelines embedded in the binary.

Examples work offline and demonstrate common patterns: chaining steps,
jq filters, and conditional execution. Copy one out to use it as a
starting point for your own pipeline.`,
	}

	cmd.AddCommand(newExamplesListCmd())
	cmd.AddCommand(newExamplesShowCmd())
	cmd.AddCommand(newExamplesCopyCmd())

	// Bare "pipeline examples" lists.
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runExamplesList(cmd.OutOrStdout())
	}

	return cmd
}

func newExamplesListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the embedded example pipelines",
		Example: `  # Example 1: List all examples
  stagehand pipeline examples list

  # Example 2: Extract example names for scripting
  stagehand pipeline examples list --json | jq -r '.examples[].name'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExamplesList(cmd.OutOrStdout())
		},
	}

	return cmd
}

func runExamplesList(out io.Writer) error {
	list, err := examples.List()
	if err != nil {
		return fmt.Errorf("listing examples: %w", err)
	}

	if shared.GetJSON() {
		result := map[string][]examples.Example{"examples": list}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDESCRIPTION")
	for _, ex := range list {
		fmt.Fprintf(w, "%s\t%s\n", ex.Name, ex.Description)
	}
	w.Flush()

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Use 'stagehand pipeline examples show <name>' to view one.")
	fmt.Fprintln(out, "Use 'stagehand pipeline examples copy <name>' to start from one.")

	return nil
}

func newExamplesShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Print an example pipeline's YAML",
		Example: `  # Example 1: View an example
  stagehand pipeline examples show triage

  # Example 2: Pipe an example into a file
  stagehand pipeline examples show release-notes > release-notes.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := examples.Get(args[0])
			if err != nil {
				return fmt.Errorf("%w. Run 'stagehand pipeline examples list' to see available examples", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), string(content))
			return nil
		},
	}

	return cmd
}

func newExamplesCopyCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "copy <name> [dest]",
		Short: "Copy an example pipeline to the filesystem",
		Long: `Copy an embedded example pipeline to the local filesystem.

Without a destination the example is written to the current directory
as <name>.yaml. A directory destination keeps that file name inside
the directory. Existing files are not overwritten unless --force is
given.`,
		Example: `  # Example 1: Copy to the current directory
  stagehand pipeline examples copy triage

  # Example 2: Copy into a pipelines directory
  stagehand pipeline examples copy auto-merge ./pipelines/

  # Example 3: Copy and run
  stagehand pipeline examples copy triage && \
    stagehand pipeline run triage.yaml --input owner=octocat \
      --input repo=hello-world --input issue_number=42`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			if !examples.Exists(name) {
				return fmt.Errorf("example %q not found. Run 'stagehand pipeline examples list' to see available examples", name)
			}

			destPath := name + ".yaml"
			if len(args) > 1 {
				destPath = args[1]
			}
			if stat, err := os.Stat(destPath); err == nil && stat.IsDir() {
				destPath = filepath.Join(destPath, name+".yaml")
			}

			if _, err := os.Stat(destPath); err == nil && !force {
				return fmt.Errorf("file %s already exists, use --force to overwrite", destPath)
			}

			if err := examples.CopyTo(name, destPath); err != nil {
				return err
			}

			if !shared.GetQuiet() {
				fmt.Fprintln(cmd.OutOrStdout(), shared.RenderOK(fmt.Sprintf("copied example %q to %s", name, destPath)))
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	return cmd
}
