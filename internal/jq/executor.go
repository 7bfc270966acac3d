// Package jq evaluates jq filter expressions against action results.
package jq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/itchyny/gojq"

	pkgerrors "github.com/tombee/stagehand/pkg/errors"
)

const (
	// DefaultTimeout bounds how long a single filter may run (1 second).
	DefaultTimeout = 1 * time.Second

	// DefaultMaxInputSize caps the JSON size a filter accepts (10MB).
	DefaultMaxInputSize = 10 * 1024 * 1024
)

// Executor evaluates jq filters with a timeout and an input size limit.
type Executor struct {
	timeout      time.Duration
	maxInputSize int64
}

// NewExecutor returns an executor with the given limits. Zero values fall
// back to the package defaults.
func NewExecutor(timeout time.Duration, maxInputSize int64) *Executor {
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	if maxInputSize == 0 {
		maxInputSize = DefaultMaxInputSize
	}

	return &Executor{
		timeout:      timeout,
		maxInputSize: maxInputSize,
	}
}

// Execute runs filter against data and returns the filtered value. An empty
// filter returns data unchanged. A filter producing exactly one value returns
// that value; multiple values collect into an array; none returns nil.
func (e *Executor) Execute(ctx context.Context, filter string, data interface{}) (interface{}, error) {
	if filter == "" {
		return data, nil
	}

	if err := e.checkInputSize(data); err != nil {
		return nil, err
	}

	query, err := gojq.Parse(filter)
	if err != nil {
		return nil, fmt.Errorf("parse filter: %w", err)
	}

	code, err := gojq.Compile(query)
	if err != nil {
		return nil, fmt.Errorf("compile filter: %w", err)
	}

	execCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	var results []interface{}
	iter := code.RunWithContext(execCtx, data)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, isErr := v.(error); isErr {
			if execCtx.Err() != nil {
				return nil, &pkgerrors.TimeoutError{
					Operation: "jq filter",
					Duration:  e.timeout,
					Cause:     execCtx.Err(),
				}
			}
			return nil, fmt.Errorf("filter: %w", err)
		}
		results = append(results, v)
	}

	switch len(results) {
	case 0:
		return nil, nil
	case 1:
		return results[0], nil
	default:
		return results, nil
	}
}

// Validate compiles filter without running it, so a bad filter can be
// rejected before the action it would post-process makes a network call.
func (e *Executor) Validate(filter string) error {
	if filter == "" {
		return nil
	}

	query, err := gojq.Parse(filter)
	if err != nil {
		return fmt.Errorf("invalid jq filter: %w", err)
	}

	if _, err := gojq.Compile(query); err != nil {
		return fmt.Errorf("jq compilation failed: %w", err)
	}

	return nil
}

func (e *Executor) checkInputSize(data interface{}) error {
	// Marshaling doubles as a check that the value is JSON-shaped at all.
	encoded, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal filter input: %w", err)
	}

	if int64(len(encoded)) > e.maxInputSize {
		return fmt.Errorf("filter input (%d bytes) exceeds maximum (%d bytes)",
			len(encoded), e.maxInputSize)
	}

	return nil
}
