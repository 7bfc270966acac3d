package pipeline

import (
	"fmt"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/tombee/stagehand/pkg/errors"
)

// Evaluator evaluates step conditions against the run context. Compiled
// programs are cached, so a condition inside a pipeline that runs many
// times compiles once.
type Evaluator struct {
	mu    sync.RWMutex
	cache map[string]*vm.Program
}

// NewEvaluator creates an evaluator with an empty program cache.
func NewEvaluator() *Evaluator {
	return &Evaluator{
		cache: make(map[string]*vm.Program),
	}
}

// Evaluate runs a condition against the context map. An empty condition
// is true. A missing key resolves to nil, so `inputs.missing == nil`
// holds; reaching through a step that has not run needs optional
// chaining, e.g. `steps.fetch?.status == "success"`.
func (e *Evaluator) Evaluate(condition string, env map[string]interface{}) (bool, error) {
	if condition == "" {
		return true, nil
	}

	program, err := e.compile(condition)
	if err != nil {
		return false, &errors.ValidationError{
			Field:      "if",
			Message:    fmt.Sprintf("condition does not compile: %s", err),
			Suggestion: "check the expression syntax; conditions must evaluate to a boolean",
		}
	}

	result, err := expr.Run(program, env)
	if err != nil {
		return false, &errors.ValidationError{
			Field:   "if",
			Message: fmt.Sprintf("condition evaluation failed: %s", err),
		}
	}

	value, ok := result.(bool)
	if !ok {
		return false, &errors.ValidationError{
			Field:      "if",
			Message:    fmt.Sprintf("condition returned %T, want bool", result),
			Suggestion: "use comparison or boolean operators",
		}
	}

	return value, nil
}

// Validate compiles a condition without running it.
func (e *Evaluator) Validate(condition string) error {
	if condition == "" {
		return nil
	}
	_, err := e.compile(condition)
	if err != nil {
		return fmt.Errorf("condition does not compile: %w", err)
	}
	return nil
}

func (e *Evaluator) compile(condition string) (*vm.Program, error) {
	e.mu.RLock()
	program, ok := e.cache[condition]
	e.mu.RUnlock()
	if ok {
		return program, nil
	}

	program, err := expr.Compile(condition,
		expr.AllowUndefinedVariables(),
		expr.AsBool(),
	)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.cache[condition] = program
	e.mu.Unlock()

	return program, nil
}
