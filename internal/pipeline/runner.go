package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tombee/stagehand/internal/action"
	"github.com/tombee/stagehand/internal/jq"
	"github.com/tombee/stagehand/internal/log"
	"github.com/tombee/stagehand/internal/policy"
	"github.com/tombee/stagehand/pkg/errors"
)

// Status is the state of a run or step.
type Status string

const (
	// StatusRunning marks a run that has not reached a terminal state
	StatusRunning Status = "running"

	// StatusSuccess marks a completed run or step
	StatusSuccess Status = "success"

	// StatusFailure marks a failed run or step
	StatusFailure Status = "failure"

	// StatusSkipped marks a step whose condition evaluated to false
	StatusSkipped Status = "skipped"
)

// StepResult is the outcome of one executed step.
type StepResult struct {
	StepID     string
	Action     string
	Status     Status
	StatusCode int
	Output     interface{}
	Error      string
	StartedAt  time.Time
	Duration   time.Duration
}

// RunResult is the outcome of a pipeline run.
type RunResult struct {
	RunID       string
	Pipeline    string
	Status      Status
	StartedAt   time.Time
	CompletedAt time.Time
	Duration    time.Duration
	Steps       []StepResult
	Outputs     map[string]interface{}
}

// Runner executes pipeline definitions against an action registry.
type Runner struct {
	registry *action.Registry
	eval     *Evaluator
	filters  *jq.Executor
	history  *History
	logger   *slog.Logger
	tracer   trace.Tracer
}

// NewRunner creates a runner. History recording and logging are attached
// with the With methods.
func NewRunner(registry *action.Registry) *Runner {
	return &Runner{
		registry: registry,
		eval:     NewEvaluator(),
		filters:  jq.NewExecutor(0, 0),
		logger:   slog.Default(),
		tracer:   otel.Tracer("github.com/tombee/stagehand/internal/pipeline"),
	}
}

// WithLogger sets the logger for run and step events.
func (r *Runner) WithLogger(logger *slog.Logger) *Runner {
	r.logger = logger
	return r
}

// WithHistory records runs to the given history store.
func (r *Runner) WithHistory(history *History) *Runner {
	r.history = history
	return r
}

// Run executes the pipeline sequentially. The returned RunResult is
// always populated, including on error, so callers can report partial
// progress. The error is the halting step's error when one halted the
// run.
func (r *Runner) Run(ctx context.Context, def *Definition, inputs map[string]interface{}) (*RunResult, error) {
	run := &RunResult{
		RunID:     uuid.NewString(),
		Pipeline:  def.Name,
		Status:    StatusRunning,
		StartedAt: time.Now(),
	}

	logger := log.WithRunContext(r.logger, run.RunID, def.Name)

	resolved, err := resolveRunInputs(def, inputs)
	if err != nil {
		return r.finish(ctx, run, err)
	}

	// Every referenced action must clear the policy before anything runs.
	pol := policy.Parse(def.Policy)
	for _, step := range def.Steps {
		if err := pol.Check(step.Action); err != nil {
			return r.finish(ctx, run, fmt.Errorf("step %s: %w", step.ID, err))
		}
	}

	ctx, span := r.tracer.Start(ctx, "pipeline.run", trace.WithAttributes(
		attribute.String("pipeline.name", def.Name),
		attribute.String("pipeline.run_id", run.RunID),
	))
	defer span.End()

	if r.history != nil {
		if err := r.history.RecordStart(ctx, run); err != nil {
			logger.Warn("recording run start failed", log.Error(err))
		}
	}

	logger.Info("pipeline started", slog.Int("steps", len(def.Steps)))

	rc := NewContext(resolved)
	rc.Env = environMap(os.Environ())

	for i := range def.Steps {
		step := &def.Steps[i]

		result, stepErr := r.runStep(ctx, step, rc, logger.With(slog.String(log.StepIDKey, step.ID)))
		run.Steps = append(run.Steps, result)
		rc.SetStepResult(step.ID, result.Status, result.Output)
		recordStep(step.Action, result.Status, result.Duration)

		if r.history != nil {
			if err := r.history.RecordStep(ctx, run.RunID, i, result); err != nil {
				logger.Warn("recording step failed", log.Error(err))
			}
		}

		if stepErr != nil {
			if step.ContinueOnError {
				logger.Warn("step failed, continuing",
					slog.String(log.StepIDKey, step.ID),
					log.Error(stepErr))
				continue
			}
			span.SetStatus(codes.Error, stepErr.Error())
			return r.finish(ctx, run, fmt.Errorf("step %s: %w", step.ID, stepErr))
		}
	}

	if len(def.Outputs) > 0 {
		outputs, err := ResolveInputs(def.Outputs, rc)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			return r.finish(ctx, run, fmt.Errorf("resolving outputs: %w", err))
		}
		run.Outputs = outputs
	}

	return r.finish(ctx, run, nil)
}

// runStep executes one step: condition, interpolation, action call, and
// optional jq filter. The returned error is nil for skipped steps.
func (r *Runner) runStep(ctx context.Context, step *StepDefinition, rc *Context, logger *slog.Logger) (StepResult, error) {
	result := StepResult{
		StepID:    step.ID,
		Action:    step.Action,
		Status:    StatusRunning,
		StartedAt: time.Now(),
	}

	ctx, span := r.tracer.Start(ctx, "pipeline.step", trace.WithAttributes(
		attribute.String("step.id", step.ID),
		attribute.String("step.action", step.Action),
	))
	defer span.End()

	fail := func(err error) (StepResult, error) {
		result.Status = StatusFailure
		result.Error = err.Error()
		result.Duration = time.Since(result.StartedAt)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return result, err
	}

	if step.If != "" {
		shouldRun, err := r.eval.Evaluate(step.If, rc.ToMap())
		if err != nil {
			return fail(fmt.Errorf("evaluating condition: %w", err))
		}
		if !shouldRun {
			logger.Debug("step skipped", slog.String("condition", step.If))
			result.Status = StatusSkipped
			result.Duration = time.Since(result.StartedAt)
			span.SetAttributes(attribute.Bool("step.skipped", true))
			return result, nil
		}
	}

	params, err := ResolveInputs(step.With, rc)
	if err != nil {
		return fail(err)
	}

	logger.Debug("step running", slog.String(log.ActionKey, step.Action))

	actionResult, err := r.registry.Execute(ctx, step.Action, params)
	if err != nil {
		// An application error means GitHub answered; log it with the
		// status so it reads differently from a network failure.
		var actionErr *action.Error
		if errors.As(err, &actionErr) {
			logger.Error("action failed",
				slog.Int(log.StatusKey, actionErr.StatusCode),
				slog.String("type", string(actionErr.Type)),
				slog.String("request_id", actionErr.RequestID))
			result.StatusCode = actionErr.StatusCode
		} else {
			logger.Error("action did not complete", log.Error(err))
		}
		return fail(err)
	}

	result.StatusCode = actionResult.StatusCode
	output := actionResult.Response

	if step.Filter != "" {
		output, err = r.filters.Execute(ctx, step.Filter, output)
		if err != nil {
			return fail(fmt.Errorf("applying filter: %w", err))
		}
	}

	result.Status = StatusSuccess
	result.Output = output
	result.Duration = time.Since(result.StartedAt)
	logger.Info("step completed",
		slog.Int(log.StatusKey, result.StatusCode),
		slog.Duration("duration", result.Duration))
	return result, nil
}

// finish stamps the terminal state, records it, and returns the run.
func (r *Runner) finish(ctx context.Context, run *RunResult, err error) (*RunResult, error) {
	run.CompletedAt = time.Now()
	run.Duration = run.CompletedAt.Sub(run.StartedAt)
	if err != nil {
		run.Status = StatusFailure
	} else {
		run.Status = StatusSuccess
	}

	recordRun(run.Pipeline, run.Status)

	if r.history != nil {
		if herr := r.history.RecordFinish(ctx, run); herr != nil {
			r.logger.Warn("recording run finish failed", log.Error(herr))
		}
	}

	logger := log.WithRunContext(r.logger, run.RunID, run.Pipeline)
	if err != nil {
		logger.Error("pipeline failed",
			slog.Duration("duration", run.Duration),
			log.Error(err))
	} else {
		logger.Info("pipeline completed",
			slog.Duration("duration", run.Duration),
			slog.Int("steps", len(run.Steps)))
	}

	return run, err
}

// resolveRunInputs applies declared defaults and checks required and
// undeclared inputs.
func resolveRunInputs(def *Definition, provided map[string]interface{}) (map[string]interface{}, error) {
	declared := make(map[string]bool, len(def.Inputs))
	resolved := make(map[string]interface{}, len(def.Inputs))

	for _, input := range def.Inputs {
		declared[input.Name] = true
		if value, ok := provided[input.Name]; ok {
			resolved[input.Name] = value
			continue
		}
		if input.Default != nil {
			resolved[input.Name] = input.Default
			continue
		}
		if input.Required {
			return nil, &errors.ValidationError{
				Field:      "inputs." + input.Name,
				Message:    "required input missing",
				Suggestion: fmt.Sprintf("pass --input %s=<value>", input.Name),
			}
		}
	}

	for name := range provided {
		if !declared[name] {
			return nil, &errors.ValidationError{
				Field:      "inputs." + name,
				Message:    "input is not declared by the pipeline",
				Suggestion: "declare it under inputs or remove it",
			}
		}
	}

	return resolved, nil
}

func environMap(environ []string) map[string]string {
	env := make(map[string]string, len(environ))
	for _, kv := range environ {
		if key, value, ok := strings.Cut(kv, "="); ok {
			env[key] = value
		}
	}
	return env
}
