package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluator_Evaluate(t *testing.T) {
	eval := NewEvaluator()

	rc := NewContext(map[string]interface{}{
		"dry_run": false,
		"count":   3,
		"label":   "bug",
	})
	rc.SetStepResult("fetch", StatusSuccess, map[string]interface{}{
		"state": "open",
	})
	env := rc.ToMap()

	tests := []struct {
		name      string
		condition string
		want      bool
	}{
		{"empty condition is true", "", true},
		{"input comparison", `inputs.count > 2`, true},
		{"input comparison false", `inputs.count > 5`, false},
		{"boolean input", `!inputs.dry_run`, true},
		{"string equality", `inputs.label == "bug"`, true},
		{"step status", `steps.fetch.status == "success"`, true},
		{"step output field", `steps.fetch.output.state == "open"`, true},
		{"missing key is nil", `inputs.missing == nil`, true},
		{"optional chain through missing step", `steps.ghost?.status == "success"`, false},
		{"combined", `inputs.count > 2 && steps.fetch.status == "success"`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := eval.Evaluate(tt.condition, env)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluator_Evaluate_CompileError(t *testing.T) {
	eval := NewEvaluator()

	_, err := eval.Evaluate(`inputs.count >`, map[string]interface{}{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not compile")
}

func TestEvaluator_Validate(t *testing.T) {
	eval := NewEvaluator()

	assert.NoError(t, eval.Validate(""))
	assert.NoError(t, eval.Validate(`inputs.count > 2`))
	assert.Error(t, eval.Validate(`inputs.count >`))
}

func TestEvaluator_CacheReuse(t *testing.T) {
	eval := NewEvaluator()
	env := map[string]interface{}{"inputs": map[string]interface{}{"n": 1}}

	// Same condition twice exercises the cached program path.
	for i := 0; i < 2; i++ {
		got, err := eval.Evaluate(`inputs.n == 1`, env)
		require.NoError(t, err)
		assert.True(t, got)
	}
	assert.Len(t, eval.cache, 1)
}
