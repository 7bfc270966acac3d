// Package schemas provides access to embedded JSON schemas.
package schemas

import (
	_ "embed"
)

// The pipeline JSON Schema describes the YAML pipeline format. It is
// embedded so editors and validation tools can use it offline.
//
//go:embed pipeline.schema.json
var pipelineSchema []byte

// GetPipelineSchema returns the embedded pipeline JSON Schema as raw bytes.
func GetPipelineSchema() []byte {
	return pipelineSchema
}
