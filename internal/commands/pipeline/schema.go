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

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tombee/stagehand/schemas"
)

func newSchemaCmd() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the pipeline JSON Schema",
		Long: `Print the JSON Schema for pipeline definitions.

Point your editor's YAML language server at the schema to get
autocompletion and inline validation while writing pipelines.`,
		Example: `  # Example 1: Print the schema
  stagehand pipeline schema

  # Example 2: Save it for editor integration
  stagehand pipeline schema > pipeline.schema.json

  # Example 3: Inspect the step shape
  stagehand pipeline schema | jq '.definitions.step'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			schemaBytes := schemas.GetPipelineSchema()

			var schemaObj interface{}
			if err := json.Unmarshal(schemaBytes, &schemaObj); err != nil {
				return fmt.Errorf("parsing embedded schema: %w", err)
			}

			var output []byte
			var err error
			switch outputFormat {
			case "json":
				output, err = json.MarshalIndent(schemaObj, "", "  ")
			case "yaml":
				output, err = yaml.Marshal(schemaObj)
			default:
				return fmt.Errorf("invalid output format %q, use json or yaml", outputFormat)
			}
			if err != nil {
				return fmt.Errorf("formatting schema: %w", err)
			}

			cmd.Println(string(output))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "output", "o", "json", "Output format: json or yaml")

	return cmd
}
