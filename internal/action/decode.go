package action

import (
	"github.com/mitchellh/mapstructure"

	pkgerrors "github.com/tombee/stagehand/pkg/errors"
)

// Decode maps loosely typed inputs onto a typed parameter struct.
// Field names follow json tags. Weak typing is enabled so values arriving
// as strings from flags or pipeline interpolation decode into numeric and
// boolean fields cleanly.
func Decode(inputs map[string]interface{}, target interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           target,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return pkgerrors.Wrap(err, "building parameter decoder")
	}

	if err := decoder.Decode(inputs); err != nil {
		return &pkgerrors.ValidationError{
			Field:   "params",
			Message: err.Error(),
		}
	}
	return nil
}

// ApplyDefaults returns a copy of inputs with declared defaults filled in
// for missing keys. The original map is not mutated.
func ApplyDefaults(params []Param, inputs map[string]interface{}) map[string]interface{} {
	merged := make(map[string]interface{}, len(inputs)+len(params))
	for k, v := range inputs {
		merged[k] = v
	}
	for _, p := range params {
		if p.Default == nil {
			continue
		}
		if _, ok := merged[p.Name]; !ok {
			merged[p.Name] = p.Default
		}
	}
	return merged
}

// ValidateRequired checks that every required parameter is present and
// non-empty.
func ValidateRequired(params []Param, inputs map[string]interface{}) error {
	for _, p := range params {
		if !p.Required {
			continue
		}

		value, ok := inputs[p.Name]
		if !ok || value == nil {
			return &pkgerrors.ValidationError{
				Field:      p.Name,
				Message:    "required parameter is missing",
				Suggestion: p.Description,
			}
		}
		if s, isString := value.(string); isString && s == "" {
			return &pkgerrors.ValidationError{
				Field:      p.Name,
				Message:    "required parameter is empty",
				Suggestion: p.Description,
			}
		}
	}
	return nil
}
