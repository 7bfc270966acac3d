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
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tombee/stagehand/internal/commands/shared"
	"github.com/tombee/stagehand/internal/pipeline"
	pkgerrors "github.com/tombee/stagehand/pkg/errors"
)

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <pipeline.yaml>",
		Short: "Validate a pipeline without running it",
		Long: `Check a pipeline file for problems before running it.

Validation covers YAML syntax, step structure, duplicate IDs, action
reference form, policy patterns, and that every condition and filter
expression compiles. Nothing is executed and no network calls are
made.`,
		Example: `  # Example 1: Validate a pipeline
  stagehand pipeline validate release.yaml

  # Example 2: Validate in CI, relying on the exit code
  stagehand pipeline validate release.yaml --quiet

  # Example 3: Get machine-readable results
  stagehand pipeline validate release.yaml --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0])
		},
	}

	return cmd
}

// validateReport is the JSON result of a validation.
type validateReport struct {
	Valid    bool     `json:"valid"`
	Pipeline string   `json:"pipeline,omitempty"`
	Steps    int      `json:"steps,omitempty"`
	Inputs   []string `json:"inputs,omitempty"`
	Error    string   `json:"error,omitempty"`
	Field    string   `json:"field,omitempty"`
}

func runValidate(out, errOut io.Writer, path string) error {
	def, err := pipeline.Load(path)
	if err != nil {
		if shared.GetJSON() {
			report := validateReport{Valid: false, Error: err.Error()}
			var validationErr *pkgerrors.ValidationError
			if errors.As(err, &validationErr) {
				report.Field = validationErr.Field
			}
			if emitErr := shared.EmitJSON(report); emitErr != nil {
				return emitErr
			}
			return shared.NewInvalidPipelineError("", nil)
		}

		fmt.Fprintf(errOut, "%s: error: %v\n", path, err)
		var validationErr *pkgerrors.ValidationError
		if errors.As(err, &validationErr) && validationErr.Suggestion != "" {
			fmt.Fprintf(errOut, "  Suggestion: %s\n", validationErr.Suggestion)
		}
		return shared.NewInvalidPipelineError("validation failed", nil)
	}

	inputs := make([]string, 0, len(def.Inputs))
	for _, input := range def.Inputs {
		inputs = append(inputs, input.Name)
	}

	if shared.GetJSON() {
		return shared.EmitJSON(validateReport{
			Valid:    true,
			Pipeline: def.Name,
			Steps:    len(def.Steps),
			Inputs:   inputs,
		})
	}

	if shared.GetQuiet() {
		return nil
	}

	fmt.Fprintln(out, shared.RenderOK(fmt.Sprintf("%s is valid", path)))
	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s %s\n", shared.Muted.Render("Pipeline:"), def.Name)
	fmt.Fprintf(out, "%s %d\n", shared.Muted.Render("Steps:"), len(def.Steps))
	if len(inputs) > 0 {
		fmt.Fprintf(out, "%s %s\n", shared.Muted.Render("Inputs:"), strings.Join(inputs, ", "))
	}
	if len(def.Policy) > 0 {
		fmt.Fprintf(out, "%s %s\n", shared.Muted.Render("Policy:"), strings.Join(def.Policy, ", "))
	}

	return nil
}
