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

package actions

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/tombee/stagehand/internal/action"
	"github.com/tombee/stagehand/internal/commands/shared"
)

// actionRow represents one catalog entry for display purposes
type actionRow struct {
	Ref         string `json:"ref"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Destructive bool   `json:"destructive,omitempty"`
}

func newListCmd() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List available actions",
		Long: `List all actions in the catalog, optionally filtered by category.

Without --category, shows every action across all categories.
Destructive actions (deletes, irreversible changes) are marked; they
require --confirm when run non-interactively.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			cfg, err := shared.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			registry, err := shared.BuildRegistry(cmd.Context(), cfg, shared.BuildOptions{SchemaOnly: true})
			if err != nil {
				return fmt.Errorf("failed to build action catalog: %w", err)
			}

			return renderList(out, registry, category, shared.GetJSON())
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Show only actions in this category (e.g. issues, pulls)")

	return cmd
}

// renderList writes the catalog to out as a table or JSON.
func renderList(out io.Writer, registry *action.Registry, category string, useJSON bool) error {
	var list []*action.Action
	if category != "" {
		list = registry.ByCategory(category)
	} else {
		list = registry.List()
	}

	rows := make([]actionRow, 0, len(list))
	for _, a := range list {
		rows = append(rows, actionRow{
			Ref:         a.Ref(),
			Category:    a.Category,
			Description: a.Description,
			Destructive: a.Destructive,
		})
	}

	if len(rows) == 0 {
		if useJSON {
			fmt.Fprintln(out, `{"actions":[]}`)
			return nil
		}
		if category != "" {
			fmt.Fprintf(out, "No actions in category %q.\n", category)
			fmt.Fprintf(out, "\nCategories: %s\n", strings.Join(registry.Categories(), ", "))
		} else {
			fmt.Fprintln(out, "No actions registered.")
		}
		return nil
	}

	if useJSON {
		result := map[string][]actionRow{"actions": rows}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ACTION\tDESTRUCTIVE\tDESCRIPTION")
	for _, r := range rows {
		destructive := "-"
		if r.Destructive {
			destructive = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", r.Ref, destructive, r.Description)
	}
	w.Flush()

	fmt.Fprintf(out, "\n%d actions. Run 'stagehand actions show <action>' for parameters.\n", len(rows))

	return nil
}
