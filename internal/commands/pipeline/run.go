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
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/tombee/stagehand/internal/cli/prompt"
	"github.com/tombee/stagehand/internal/commands/shared"
	"github.com/tombee/stagehand/internal/config"
	"github.com/tombee/stagehand/internal/log"
	"github.com/tombee/stagehand/internal/metrics"
	"github.com/tombee/stagehand/internal/pipeline"
	"github.com/tombee/stagehand/internal/tracing"
	pkgerrors "github.com/tombee/stagehand/pkg/errors"
)

type runOptions struct {
	inputs        []string
	serverURL     string
	token         string
	metricsAddr   string
	noHistory     bool
	noInteractive bool
}

func newRunCmd() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run <pipeline.yaml>",
		Short: "Execute a pipeline",
		Long: `Execute a pipeline file step by step.

Inputs are passed with --input key=value. Values that parse as JSON
keep their type (numbers, booleans, arrays); anything else stays a
string. Missing required inputs are prompted for interactively; in
scripts and CI, missing inputs fail the run instead.

Each run is recorded to the history database. Failed steps halt the
run unless the step sets continue_on_error.`,
		Example: `  # Example 1: Run with inputs
  stagehand pipeline run release.yaml --input version=1.2.0

  # Example 2: Run and capture the outputs as JSON
  stagehand pipeline run triage.yaml --json | jq .outputs

  # Example 3: Serve Prometheus metrics during a long run
  stagehand pipeline run backfill.yaml --metrics-addr :9090

  # Example 4: Run against GitHub Enterprise
  stagehand pipeline run sync.yaml --server-url https://github.example.com/api/v3`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// JSON output implies no prompting
			if shared.GetJSON() {
				opts.noInteractive = true
			}
			return runPipeline(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.inputs, "input", "i", nil, "Pipeline input as key=value (repeatable)")
	cmd.Flags().StringVar(&opts.serverURL, "server-url", "", "GitHub API base URL (e.g. GitHub Enterprise)")
	cmd.Flags().StringVar(&opts.token, "token", "", "GitHub token (overrides stored credentials)")
	cmd.Flags().StringVar(&opts.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address during the run")
	cmd.Flags().BoolVar(&opts.noHistory, "no-history", false, "Do not record this run to history")
	cmd.Flags().BoolVar(&opts.noInteractive, "no-interactive", false, "Never prompt for missing inputs")

	return cmd
}

func runPipeline(ctx context.Context, path string, opts runOptions) error {
	cfg, err := shared.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := shared.NewLogger(cfg)

	def, err := pipeline.Load(path)
	if err != nil {
		return shared.NewInvalidPipelineError("pipeline is invalid", err)
	}

	provided, err := shared.ParseKeyValues(opts.inputs)
	if err != nil {
		return shared.NewMissingInputError("parsing inputs", err)
	}

	interactive := !opts.noInteractive && !shared.IsNonInteractive()
	prompter := prompt.NewSurveyPrompter(interactive)
	if err := collectInputs(ctx, prompter, def, provided); err != nil {
		return err
	}

	if cfg.Observability.Traces {
		versionStr, _, _ := shared.GetVersion()
		provider, err := tracing.Setup(ctx, tracing.Config{
			ServiceName:    "stagehand",
			ServiceVersion: versionStr,
			Exporter:       cfg.Observability.Exporter,
			Endpoint:       cfg.Observability.OTLPEndpoint,
			Insecure:       cfg.Observability.Insecure,
		})
		if err != nil {
			logger.Warn("tracing setup failed", log.Error(err))
		} else {
			defer func() {
				flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := provider.Shutdown(flushCtx); err != nil {
					logger.Warn("tracing shutdown failed", log.Error(err))
				}
			}()
		}
	}

	metricsAddr := opts.metricsAddr
	if metricsAddr == "" {
		metricsAddr = cfg.Observability.MetricsAddr
	}
	if metricsAddr != "" {
		metricsSrv := metrics.NewServer(metricsAddr, logger)
		if err := metricsSrv.Start(); err != nil {
			logger.Warn("metrics server failed to start", log.Error(err))
		} else {
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				metricsSrv.Shutdown(shutdownCtx)
			}()
		}
	}

	registry, err := shared.BuildRegistry(ctx, cfg, shared.BuildOptions{
		Token:     opts.token,
		ServerURL: opts.serverURL,
	})
	if err != nil {
		return shared.NewAuthError("building API client", err)
	}

	runner := pipeline.NewRunner(registry).WithLogger(logger)

	if !opts.noHistory {
		historyPath, err := config.HistoryPath()
		if err != nil {
			logger.Warn("history disabled", log.Error(err))
		} else if history, err := pipeline.OpenHistory(historyPath); err != nil {
			// A broken state directory should not block the run itself.
			logger.Warn("history disabled", log.Error(err))
		} else {
			defer history.Close()
			runner = runner.WithHistory(history)
		}
	}

	result, runErr := runner.Run(ctx, def, provided)

	if shared.GetJSON() {
		if err := shared.EmitJSON(buildRunReport(result, runErr)); err != nil {
			return err
		}
	} else if !shared.GetQuiet() {
		printRunSummary(os.Stdout, result)
	}

	if runErr != nil {
		var validationErr *pkgerrors.ValidationError
		if errors.As(runErr, &validationErr) {
			return shared.NewMissingInputError("pipeline inputs invalid", runErr)
		}
		return shared.NewActionError(fmt.Sprintf("pipeline %s failed", def.Name), runErr)
	}

	return nil
}

// collectInputs fills provided with values for declared inputs that have no
// value and no default, prompting when interactive.
func collectInputs(ctx context.Context, p prompt.Prompter, def *pipeline.Definition, provided map[string]interface{}) error {
	var missing []string
	for _, input := range def.Inputs {
		if !input.Required || input.Default != nil {
			continue
		}
		if v, ok := provided[input.Name]; ok && v != nil && v != "" {
			continue
		}
		missing = append(missing, input.Name)
	}

	if len(missing) == 0 {
		return nil
	}

	if !p.IsInteractive() {
		return shared.NewMissingInputNonInteractiveError(
			fmt.Sprintf("missing required inputs: %s (pass --input %s=<value>)",
				strings.Join(missing, ", "), missing[0]), nil)
	}

	for _, name := range missing {
		input, _ := findInput(def, name)
		value, err := promptInput(ctx, p, input)
		if err != nil {
			return fmt.Errorf("collecting %s: %w", name, err)
		}
		provided[name] = value
	}

	return nil
}

func findInput(def *pipeline.Definition, name string) (pipeline.InputDefinition, bool) {
	for _, input := range def.Inputs {
		if input.Name == name {
			return input, true
		}
	}
	return pipeline.InputDefinition{}, false
}

func promptInput(ctx context.Context, p prompt.Prompter, input pipeline.InputDefinition) (interface{}, error) {
	switch input.Type {
	case "int":
		return p.PromptInt(ctx, input.Name, input.Description)
	case "bool":
		return p.PromptBool(ctx, input.Name, input.Description, false)
	case "array":
		return p.PromptArray(ctx, input.Name, input.Description)
	case "number", "object":
		raw, err := p.PromptString(ctx, input.Name, input.Description, "")
		if err != nil {
			return nil, err
		}
		return shared.CoerceValue(raw), nil
	default:
		return p.PromptString(ctx, input.Name, input.Description, "")
	}
}

// stepReport is one step of a run in JSON output.
type stepReport struct {
	StepID     string `json:"step_id"`
	Action     string `json:"action"`
	Status     string `json:"status"`
	StatusCode int    `json:"status_code,omitempty"`
	Error      string `json:"error,omitempty"`
	DurationMS int64  `json:"duration_ms"`
}

// runReport is the JSON envelope for a pipeline run.
type runReport struct {
	RunID      string                 `json:"run_id"`
	Pipeline   string                 `json:"pipeline"`
	Status     string                 `json:"status"`
	Error      string                 `json:"error,omitempty"`
	DurationMS int64                  `json:"duration_ms"`
	Steps      []stepReport           `json:"steps"`
	Outputs    map[string]interface{} `json:"outputs,omitempty"`
}

func buildRunReport(run *pipeline.RunResult, runErr error) runReport {
	report := runReport{
		Steps: []stepReport{},
	}
	if runErr != nil {
		report.Error = runErr.Error()
	}
	if run == nil {
		return report
	}

	report.RunID = run.RunID
	report.Pipeline = run.Pipeline
	report.Status = string(run.Status)
	report.DurationMS = run.Duration.Milliseconds()
	report.Outputs = run.Outputs

	for _, s := range run.Steps {
		report.Steps = append(report.Steps, stepReport{
			StepID:     s.StepID,
			Action:     s.Action,
			Status:     string(s.Status),
			StatusCode: s.StatusCode,
			Error:      s.Error,
			DurationMS: s.Duration.Milliseconds(),
		})
	}

	return report
}

// printRunSummary writes the human-readable run outcome.
func printRunSummary(out io.Writer, run *pipeline.RunResult) {
	if run == nil {
		return
	}

	duration := run.Duration.Round(time.Millisecond)
	if run.Status == pipeline.StatusSuccess {
		fmt.Fprintln(out, shared.RenderOK(fmt.Sprintf("pipeline %s completed in %s", run.Pipeline, duration)))
	} else {
		fmt.Fprintln(out, shared.RenderError(fmt.Sprintf("pipeline %s failed after %s", run.Pipeline, duration)))
	}

	if len(run.Steps) > 0 {
		fmt.Fprintln(out)
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "STEP\tACTION\tSTATUS\tHTTP\tDURATION")
		for _, s := range run.Steps {
			httpStatus := "-"
			if s.StatusCode != 0 {
				httpStatus = strconv.Itoa(s.StatusCode)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				s.StepID, s.Action, s.Status, httpStatus, s.Duration.Round(time.Millisecond))
		}
		w.Flush()

		for _, s := range run.Steps {
			if s.Error != "" {
				fmt.Fprintf(out, "\n%s %s: %s\n", shared.StatusError.Render(shared.SymbolError), s.StepID, s.Error)
			}
		}
	}

	if len(run.Outputs) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, shared.Header.Render("Outputs"))
		if data, err := json.MarshalIndent(run.Outputs, "", "  "); err == nil {
			fmt.Fprintln(out, string(data))
		}
	}
}
