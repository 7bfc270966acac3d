// Package action defines the framework the GitHub actions plug into.
//
// An Action pairs a declared parameter schema with a run function. The
// registry groups actions by category, resolves "category.name" references,
// and exposes the schema metadata that drives CLI help and MCP tool
// generation. Inputs decode into per-action typed structs before a request
// is ever built, so bad input fails without a network call.
//
// Error handling is split three ways: invalid input yields a validation
// error, a GitHub response outside the action's success policy yields an
// *Error classified from the status code, and a network failure passes
// through as a transport error. Callers decide which of these halt a
// pipeline.
package action

import (
	"context"
)

// ParamType describes the expected shape of a parameter value.
type ParamType string

const (
	// TypeString is a text value
	TypeString ParamType = "string"

	// TypeInt is an integer value
	TypeInt ParamType = "int"

	// TypeBool is a boolean value
	TypeBool ParamType = "bool"

	// TypeArray is a list value
	TypeArray ParamType = "array"

	// TypeObject is a nested map value
	TypeObject ParamType = "object"
)

// Param declares one parameter an action accepts.
type Param struct {
	// Name is the parameter key in the input map
	Name string

	// Type is the expected value shape
	Type ParamType

	// Description is a one-line summary for help output
	Description string

	// Required marks parameters that must be present and non-empty
	Required bool

	// Default is applied when the input omits the parameter
	Default interface{}
}

// Action describes one invokable GitHub operation.
type Action struct {
	// Name is the operation name within its category (e.g. "create")
	Name string

	// Category groups related actions (e.g. "issues")
	Category string

	// Description is a one-line summary for help and tool listings
	Description string

	// Params declares the accepted parameters
	Params []Param

	// Destructive marks actions that delete or irreversibly change state
	Destructive bool

	// Run executes the action. Inputs arrive with declared defaults
	// applied and required parameters checked.
	Run func(ctx context.Context, inputs map[string]interface{}) (*Result, error)
}

// Ref returns the canonical "category.name" reference.
func (a *Action) Ref() string {
	return a.Category + "." + a.Name
}

// Param returns the declared parameter with the given name, if any.
func (a *Action) Param(name string) (Param, bool) {
	for _, p := range a.Params {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}
