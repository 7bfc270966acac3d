package pipeline

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Context holds the data ${{ }} references resolve against: pipeline
// inputs, completed step results, and a snapshot of the environment.
type Context struct {
	Inputs map[string]interface{}
	Steps  map[string]map[string]interface{}
	Env    map[string]string
}

// NewContext creates a context with the given inputs and empty step and
// environment maps.
func NewContext(inputs map[string]interface{}) *Context {
	if inputs == nil {
		inputs = make(map[string]interface{})
	}
	return &Context{
		Inputs: inputs,
		Steps:  make(map[string]map[string]interface{}),
		Env:    make(map[string]string),
	}
}

// SetStepResult records a completed step so later steps can reference
// ${{ steps.<id>.output... }} and ${{ steps.<id>.status }}.
func (c *Context) SetStepResult(stepID string, status Status, output interface{}) {
	c.Steps[stepID] = map[string]interface{}{
		"output": output,
		"status": string(status),
	}
}

// ToMap flattens the context for condition evaluation.
func (c *Context) ToMap() map[string]interface{} {
	steps := make(map[string]interface{}, len(c.Steps))
	for id, result := range c.Steps {
		steps[id] = result
	}
	return map[string]interface{}{
		"inputs": c.Inputs,
		"steps":  steps,
		"env":    c.Env,
	}
}

var refPattern = regexp.MustCompile(`\$\{\{\s*([^{}]+?)\s*\}\}`)

// ResolveValue recursively resolves ${{ }} references in a value. A
// string that is exactly one reference keeps the referenced value's type;
// references embedded in longer strings are stringified in place. An
// undefined reference is an error.
func ResolveValue(value interface{}, rc *Context) (interface{}, error) {
	switch v := value.(type) {
	case string:
		return resolveString(v, rc)
	case map[string]interface{}:
		resolved := make(map[string]interface{}, len(v))
		for key, val := range v {
			rv, err := ResolveValue(val, rc)
			if err != nil {
				return nil, fmt.Errorf("in field %q: %w", key, err)
			}
			resolved[key] = rv
		}
		return resolved, nil
	case []interface{}:
		resolved := make([]interface{}, len(v))
		for i, val := range v {
			rv, err := ResolveValue(val, rc)
			if err != nil {
				return nil, fmt.Errorf("at index %d: %w", i, err)
			}
			resolved[i] = rv
		}
		return resolved, nil
	default:
		return value, nil
	}
}

// ResolveInputs resolves every value in an action parameter map.
func ResolveInputs(inputs map[string]interface{}, rc *Context) (map[string]interface{}, error) {
	resolved := make(map[string]interface{}, len(inputs))
	for key, value := range inputs {
		rv, err := ResolveValue(value, rc)
		if err != nil {
			return nil, fmt.Errorf("resolving %q: %w", key, err)
		}
		resolved[key] = rv
	}
	return resolved, nil
}

func resolveString(s string, rc *Context) (interface{}, error) {
	matches := refPattern.FindAllStringSubmatchIndex(s, -1)
	if len(matches) == 0 {
		return s, nil
	}

	// A lone reference preserves the referenced value's type, so
	// ${{ steps.list.output }} can pass an array to the next step.
	trimmed := strings.TrimSpace(s)
	if loc := refPattern.FindStringSubmatchIndex(trimmed); loc != nil && loc[0] == 0 && loc[1] == len(trimmed) {
		return lookupPath(trimmed[loc[2]:loc[3]], rc)
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		b.WriteString(s[last:m[0]])
		value, err := lookupPath(s[m[2]:m[3]], rc)
		if err != nil {
			return nil, err
		}
		b.WriteString(stringify(value))
		last = m[1]
	}
	b.WriteString(s[last:])
	return b.String(), nil
}

// lookupPath walks a dot-separated reference like "steps.fetch.output.title"
// through the context.
func lookupPath(path string, rc *Context) (interface{}, error) {
	parts := strings.Split(path, ".")
	var current interface{} = rc.ToMap()

	for _, part := range parts {
		switch node := current.(type) {
		case map[string]interface{}:
			value, ok := node[part]
			if !ok {
				return nil, fmt.Errorf("undefined reference ${{ %s }}", path)
			}
			current = value
		case map[string]string:
			value, ok := node[part]
			if !ok {
				return nil, fmt.Errorf("undefined reference ${{ %s }}", path)
			}
			current = value
		default:
			return nil, fmt.Errorf("undefined reference ${{ %s }}", path)
		}
	}

	return current, nil
}

// stringify renders a value for embedding inside a larger string.
func stringify(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(encoded)
	}
}
