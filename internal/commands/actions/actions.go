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

// Package actions implements the catalog browsing commands.
package actions

import (
	"github.com/spf13/cobra"
)

// NewCommand creates the actions command group
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "actions",
		Short: "Browse the GitHub action catalog",
		Long: `Browse the catalog of GitHub actions Stagehand can run.

Actions are referenced as category.name (e.g. issues.create) and
declare the parameters they accept. Listing and inspecting actions
works offline, no token required.

Examples:
  # List every action
  stagehand actions list

  # List only the pull request actions
  stagehand actions list --category pulls

  # Show the parameters an action takes
  stagehand actions show issues.create`,
		Annotations: map[string]string{
			"group": "catalog",
		},
	}

	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newShowCmd())

	// Default to list if no subcommand specified
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return newListCmd().RunE(cmd, args)
	}

	return cmd
}
