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
	"errors"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/tombee/stagehand/internal/commands/shared"
	"github.com/tombee/stagehand/internal/config"
	"github.com/tombee/stagehand/internal/pipeline"
)

func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "Show past pipeline runs",
		Long: `List recent pipeline runs, or show one run's steps in detail.

Without an argument, lists the most recent runs newest first. With a
run ID, shows that run's step outcomes. Run IDs are printed by
'pipeline run' and by the list view.`,
		Example: `  # Example 1: List recent runs
  stagehand pipeline history

  # Example 2: Show one run in detail
  stagehand pipeline history 6f1c9a52-6df0-4e37-8a3c-2d0d4a9b3f1e

  # Example 3: Find failed runs with jq
  stagehand pipeline history --json | jq '.runs[] | select(.status=="failure")'`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			historyPath, err := config.HistoryPath()
			if err != nil {
				return fmt.Errorf("locating history database: %w", err)
			}

			history, err := pipeline.OpenHistory(historyPath)
			if err != nil {
				return fmt.Errorf("opening history database: %w", err)
			}
			defer history.Close()

			out := cmd.OutOrStdout()
			ctx := cmd.Context()

			if len(args) == 1 {
				summary, steps, err := history.GetRun(ctx, args[0])
				if err != nil {
					if errors.Is(err, pipeline.ErrRunNotFound) {
						return fmt.Errorf("run %s not found. Run 'stagehand pipeline history' to list recent runs", args[0])
					}
					return err
				}
				return renderRunDetail(out, summary, steps, shared.GetJSON())
			}

			runs, err := history.ListRuns(ctx, limit)
			if err != nil {
				return err
			}
			return renderRunList(out, runs, shared.GetJSON())
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to list")

	return cmd
}

// historyRow is one run in JSON list output.
type historyRow struct {
	RunID     string `json:"run_id"`
	Pipeline  string `json:"pipeline"`
	Status    string `json:"status"`
	StartedAt string `json:"started_at"`
	Duration  string `json:"duration"`
	Steps     int    `json:"steps"`
}

// renderRunList writes recent runs as a table or JSON.
func renderRunList(out io.Writer, runs []pipeline.RunSummary, useJSON bool) error {
	rows := make([]historyRow, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, historyRow{
			RunID:     r.RunID,
			Pipeline:  r.Pipeline,
			Status:    string(r.Status),
			StartedAt: r.StartedAt.UTC().Format(time.RFC3339),
			Duration:  r.Duration.Round(time.Millisecond).String(),
			Steps:     r.StepCount,
		})
	}

	if useJSON {
		result := map[string][]historyRow{"runs": rows}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	if len(rows) == 0 {
		fmt.Fprintln(out, "No runs recorded.")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Run 'stagehand pipeline run <file>' to execute a pipeline.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RUN ID\tPIPELINE\tSTATUS\tSTEPS\tSTARTED\tDURATION")
	for _, r := range runs {
		started := "-"
		if !r.StartedAt.IsZero() {
			started = r.StartedAt.Local().Format("2006-01-02 15:04:05")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
			shortID(r.RunID), truncate(r.Pipeline, 24), r.Status, r.StepCount,
			started, r.Duration.Round(time.Millisecond))
	}
	w.Flush()

	return nil
}

// runDetail is one run with steps in JSON output.
type runDetail struct {
	historyRow
	StepResults []stepDetail `json:"step_results"`
}

type stepDetail struct {
	Position   int    `json:"position"`
	StepID     string `json:"step_id"`
	Action     string `json:"action"`
	Status     string `json:"status"`
	StatusCode int    `json:"status_code,omitempty"`
	Error      string `json:"error,omitempty"`
	Duration   string `json:"duration"`
}

// renderRunDetail writes one run's summary and step table.
func renderRunDetail(out io.Writer, summary *pipeline.RunSummary, steps []pipeline.StepRecord, useJSON bool) error {
	if useJSON {
		detail := runDetail{
			historyRow: historyRow{
				RunID:     summary.RunID,
				Pipeline:  summary.Pipeline,
				Status:    string(summary.Status),
				StartedAt: summary.StartedAt.UTC().Format(time.RFC3339),
				Duration:  summary.Duration.Round(time.Millisecond).String(),
				Steps:     summary.StepCount,
			},
			StepResults: make([]stepDetail, 0, len(steps)),
		}
		for _, s := range steps {
			detail.StepResults = append(detail.StepResults, stepDetail{
				Position:   s.Position,
				StepID:     s.StepID,
				Action:     s.Action,
				Status:     string(s.Status),
				StatusCode: s.StatusCode,
				Error:      s.Error,
				Duration:   s.Duration.Round(time.Millisecond).String(),
			})
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(detail)
	}

	fmt.Fprintln(out, shared.Header.Render("Run: "+summary.RunID))
	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s %s\n", shared.Muted.Render("Pipeline:"), summary.Pipeline)
	fmt.Fprintf(out, "%s %s\n", shared.Muted.Render("Status:"), renderStatus(summary.Status))
	if !summary.StartedAt.IsZero() {
		fmt.Fprintf(out, "%s %s\n", shared.Muted.Render("Started:"), summary.StartedAt.Local().Format("2006-01-02 15:04:05"))
	}
	if !summary.CompletedAt.IsZero() {
		fmt.Fprintf(out, "%s %s\n", shared.Muted.Render("Completed:"), summary.CompletedAt.Local().Format("2006-01-02 15:04:05"))
	}
	fmt.Fprintf(out, "%s %s\n", shared.Muted.Render("Duration:"), summary.Duration.Round(time.Millisecond))

	if len(steps) == 0 {
		return nil
	}

	fmt.Fprintln(out)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tSTEP\tACTION\tSTATUS\tHTTP\tDURATION")
	for _, s := range steps {
		httpStatus := "-"
		if s.StatusCode != 0 {
			httpStatus = strconv.Itoa(s.StatusCode)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			s.Position+1, s.StepID, s.Action, s.Status, httpStatus, s.Duration.Round(time.Millisecond))
	}
	w.Flush()

	for _, s := range steps {
		if s.Error != "" {
			fmt.Fprintf(out, "\n%s %s: %s\n", shared.StatusError.Render(shared.SymbolError), s.StepID, s.Error)
		}
	}

	return nil
}

func renderStatus(status pipeline.Status) string {
	switch status {
	case pipeline.StatusSuccess:
		return shared.StatusOK.Render(string(status))
	case pipeline.StatusFailure:
		return shared.StatusError.Render(string(status))
	case pipeline.StatusRunning:
		return shared.StatusWarn.Render(string(status))
	default:
		return string(status)
	}
}

// shortID returns the first segment of a UUID, enough to disambiguate
// recent runs and short enough for a table column.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
