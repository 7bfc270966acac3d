package schemas

import (
	"encoding/json"
	"testing"
)

func TestGetPipelineSchema(t *testing.T) {
	schema := GetPipelineSchema()

	if len(schema) == 0 {
		t.Fatal("embedded schema is empty")
	}

	var schemaMap map[string]interface{}
	if err := json.Unmarshal(schema, &schemaMap); err != nil {
		t.Fatalf("embedded schema is not valid JSON: %v", err)
	}

	if _, ok := schemaMap["$schema"]; !ok {
		t.Error("schema missing $schema field")
	}

	if _, ok := schemaMap["$id"]; !ok {
		t.Error("schema missing $id field")
	}

	if title, ok := schemaMap["title"].(string); !ok || title == "" {
		t.Error("schema missing or empty title field")
	}

	props, ok := schemaMap["properties"].(map[string]interface{})
	if !ok {
		t.Fatal("schema has no properties")
	}
	for _, name := range []string{"name", "inputs", "steps", "outputs"} {
		if _, ok := props[name]; !ok {
			t.Errorf("schema missing %q property", name)
		}
	}
}
