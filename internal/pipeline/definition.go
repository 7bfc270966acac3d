// Package pipeline runs YAML-defined sequences of GitHub actions.
//
// A pipeline declares typed inputs, an ordered list of steps, and named
// outputs. Steps reference registry actions by "category.name", feed them
// parameters through ${{ }} interpolation, and may be guarded by an expr
// condition or post-processed by a jq filter. Execution is sequential: a
// failing step halts the run unless it opted into continue_on_error.
package pipeline

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tombee/stagehand/internal/jq"
	"github.com/tombee/stagehand/internal/policy"
	"github.com/tombee/stagehand/pkg/errors"
)

// Definition is a pipeline loaded from YAML.
type Definition struct {
	// Name is the pipeline identifier
	Name string `yaml:"name" json:"name"`

	// Description provides human-readable context
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// Inputs declares the expected input parameters
	Inputs []InputDefinition `yaml:"inputs,omitempty" json:"inputs,omitempty"`

	// Policy restricts which actions the steps may reference. Patterns
	// follow the action policy syntax; a "!" prefix blocks.
	Policy []string `yaml:"policy,omitempty" json:"policy,omitempty"`

	// Steps are executed in order
	Steps []StepDefinition `yaml:"steps" json:"steps"`

	// Outputs maps result names to values, usually ${{ }} references to
	// step outputs
	Outputs map[string]interface{} `yaml:"outputs,omitempty" json:"outputs,omitempty"`
}

// InputDefinition describes one pipeline input parameter.
type InputDefinition struct {
	// Name is the input identifier
	Name string `yaml:"name" json:"name"`

	// Type is the expected shape (string, int, number, bool, array, object)
	Type string `yaml:"type,omitempty" json:"type,omitempty"`

	// Required marks inputs that must be provided when no default exists
	Required bool `yaml:"required,omitempty" json:"required,omitempty"`

	// Default is used when the caller omits the input
	Default interface{} `yaml:"default,omitempty" json:"default,omitempty"`

	// Description explains what the input is for
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// StepDefinition is one step of a pipeline.
type StepDefinition struct {
	// ID is the unique step identifier within the pipeline
	ID string `yaml:"id" json:"id"`

	// Action is the "category.name" registry reference to run
	Action string `yaml:"action" json:"action"`

	// With maps action parameters to values, interpolated before the call
	With map[string]interface{} `yaml:"with,omitempty" json:"with,omitempty"`

	// If guards the step with an expr condition; false skips it
	If string `yaml:"if,omitempty" json:"if,omitempty"`

	// Filter is a jq expression applied to the action's response
	Filter string `yaml:"filter,omitempty" json:"filter,omitempty"`

	// ContinueOnError lets the run proceed past a failure of this step
	ContinueOnError bool `yaml:"continue_on_error,omitempty" json:"continue_on_error,omitempty"`
}

var stepIDPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_-]*$`)

var inputTypes = map[string]bool{
	"":       true,
	"string": true,
	"int":    true,
	"number": true,
	"bool":   true,
	"array":  true,
	"object": true,
}

// Load reads and validates a pipeline definition from a YAML file.
func Load(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading pipeline file: %w", err)
	}
	def, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("pipeline %s: %w", path, err)
	}
	return def, nil
}

// Parse unmarshals and validates a pipeline definition.
func Parse(data []byte) (*Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parsing pipeline YAML: %w", err)
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

// Validate checks the definition for structural problems: missing names,
// duplicate step IDs, malformed action references, bad policy patterns,
// and conditions or filters that do not compile. Everything reported here
// fails before any network call would be made.
func (d *Definition) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return &errors.ValidationError{
			Field:   "name",
			Message: "pipeline name is required",
		}
	}

	if len(d.Steps) == 0 {
		return &errors.ValidationError{
			Field:      "steps",
			Message:    "pipeline has no steps",
			Suggestion: "add at least one step with an id and an action",
		}
	}

	seenInputs := make(map[string]bool)
	for i, input := range d.Inputs {
		if input.Name == "" {
			return &errors.ValidationError{
				Field:   fmt.Sprintf("inputs[%d].name", i),
				Message: "input name is required",
			}
		}
		if seenInputs[input.Name] {
			return &errors.ValidationError{
				Field:   fmt.Sprintf("inputs[%d].name", i),
				Message: fmt.Sprintf("duplicate input %q", input.Name),
			}
		}
		seenInputs[input.Name] = true
		if !inputTypes[input.Type] {
			return &errors.ValidationError{
				Field:      fmt.Sprintf("inputs[%d].type", i),
				Message:    fmt.Sprintf("unknown input type %q", input.Type),
				Suggestion: "use string, int, number, bool, array, or object",
			}
		}
	}

	if err := policy.Parse(d.Policy).Validate(); err != nil {
		return &errors.ValidationError{
			Field:   "policy",
			Message: err.Error(),
		}
	}

	eval := NewEvaluator()
	filters := jq.NewExecutor(0, 0)
	seenSteps := make(map[string]bool)
	for i, step := range d.Steps {
		field := fmt.Sprintf("steps[%d]", i)
		if step.ID == "" {
			return &errors.ValidationError{
				Field:   field + ".id",
				Message: "step id is required",
			}
		}
		if !stepIDPattern.MatchString(step.ID) {
			return &errors.ValidationError{
				Field:      field + ".id",
				Message:    fmt.Sprintf("invalid step id %q", step.ID),
				Suggestion: "use letters, digits, underscores, and hyphens, starting with a letter or underscore",
			}
		}
		if seenSteps[step.ID] {
			return &errors.ValidationError{
				Field:   field + ".id",
				Message: fmt.Sprintf("duplicate step id %q", step.ID),
			}
		}
		seenSteps[step.ID] = true

		if step.Action == "" {
			return &errors.ValidationError{
				Field:   field + ".action",
				Message: "step action is required",
			}
		}
		if !strings.Contains(step.Action, ".") {
			return &errors.ValidationError{
				Field:      field + ".action",
				Message:    fmt.Sprintf("invalid action reference %q", step.Action),
				Suggestion: "use the category.name form, e.g. issues.create",
			}
		}

		if step.If != "" {
			if err := eval.Validate(step.If); err != nil {
				return &errors.ValidationError{
					Field:   field + ".if",
					Message: err.Error(),
				}
			}
		}
		if step.Filter != "" {
			if err := filters.Validate(step.Filter); err != nil {
				return &errors.ValidationError{
					Field:   field + ".filter",
					Message: err.Error(),
				}
			}
		}
	}

	return nil
}
