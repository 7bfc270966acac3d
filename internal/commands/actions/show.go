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
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/tombee/stagehand/internal/action"
	"github.com/tombee/stagehand/internal/commands/shared"
)

// actionDetail represents the full schema of one action for JSON output
type actionDetail struct {
	Ref         string        `json:"ref"`
	Category    string        `json:"category"`
	Description string        `json:"description"`
	Destructive bool          `json:"destructive"`
	Params      []paramDetail `json:"params"`
}

type paramDetail struct {
	Name        string      `json:"name"`
	Type        string      `json:"type"`
	Required    bool        `json:"required"`
	Default     interface{} `json:"default,omitempty"`
	Description string      `json:"description"`
}

func newShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <action>",
		Short: "Show an action's parameters",
		Long: `Display an action's full schema: its parameters, their types,
which are required, and any defaults.

Examples:
  # Show the schema for creating an issue
  stagehand actions show issues.create

  # Get the schema as JSON
  stagehand actions show pulls.merge --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			ref := args[0]

			cfg, err := shared.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			registry, err := shared.BuildRegistry(cmd.Context(), cfg, shared.BuildOptions{SchemaOnly: true})
			if err != nil {
				return fmt.Errorf("failed to build action catalog: %w", err)
			}

			a, err := registry.Get(ref)
			if err != nil {
				return fmt.Errorf("action not found: %s. Run 'stagehand actions list' to see the catalog", ref)
			}

			return renderShow(out, a, shared.GetJSON())
		},
	}

	return cmd
}

// renderShow writes one action's schema to out.
func renderShow(out io.Writer, a *action.Action, useJSON bool) error {
	detail := actionDetail{
		Ref:         a.Ref(),
		Category:    a.Category,
		Description: a.Description,
		Destructive: a.Destructive,
		Params:      make([]paramDetail, 0, len(a.Params)),
	}
	for _, p := range a.Params {
		detail.Params = append(detail.Params, paramDetail{
			Name:        p.Name,
			Type:        string(p.Type),
			Required:    p.Required,
			Default:     p.Default,
			Description: p.Description,
		})
	}

	if useJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(detail)
	}

	fmt.Fprintln(out, shared.Header.Render("Action: "+detail.Ref))
	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s %s\n", shared.Muted.Render("Category:"), detail.Category)
	fmt.Fprintf(out, "%s %s\n", shared.Muted.Render("Description:"), detail.Description)
	if detail.Destructive {
		fmt.Fprintf(out, "%s %s\n", shared.Muted.Render("Destructive:"), shared.StatusWarn.Render("yes, requires confirmation"))
	}
	fmt.Fprintln(out)

	if len(detail.Params) == 0 {
		fmt.Fprintln(out, "This action takes no parameters.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PARAMETER\tTYPE\tREQUIRED\tDEFAULT\tDESCRIPTION")
	for _, p := range detail.Params {
		required := "-"
		if p.Required {
			required = "yes"
		}
		def := "-"
		if p.Default != nil {
			def = fmt.Sprintf("%v", p.Default)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", p.Name, p.Type, required, def, p.Description)
	}
	w.Flush()

	fmt.Fprintf(out, "\nRun it: stagehand run %s --param <key>=<value>\n", detail.Ref)

	return nil
}
