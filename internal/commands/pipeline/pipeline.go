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

// Package pipeline implements the pipeline run, validate, history,
// examples, and schema commands.
package pipeline

import (
	"github.com/spf13/cobra"
)

// NewCommand creates the pipeline command group
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pipeline",
		Short: "Run and inspect YAML pipelines",
		Long: `Run multi-step pipelines defined in YAML.

A pipeline chains actions: each step runs one catalog action, can be
guarded by a condition, and can feed earlier step outputs into later
steps with ${{ steps.<id>.output }} references. Runs are recorded to
a local history database.

Examples:
  # Validate a pipeline without running it
  stagehand pipeline validate release.yaml

  # Run a pipeline with inputs
  stagehand pipeline run release.yaml --input version=1.2.0

  # See recent runs
  stagehand pipeline history

  # Start from an embedded example
  stagehand pipeline examples copy triage`,
		Annotations: map[string]string{
			"group": "execution",
		},
	}

	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newValidateCmd())
	cmd.AddCommand(newHistoryCmd())
	cmd.AddCommand(newExamplesCmd())
	cmd.AddCommand(newSchemaCmd())

	return cmd
}
