// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package shared

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseKeyValues parses repeated key=value flags into an input map.
// Values that parse as JSON keep their JSON type, so number=42 is an
// integer and labels='["bug","urgent"]' is a list. Everything else is a
// string; quote a value ('"42"') to force one.
func ParseKeyValues(pairs []string) (map[string]interface{}, error) {
	values := make(map[string]interface{}, len(pairs))

	for _, pair := range pairs {
		key, raw, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid parameter %q: expected key=value", pair)
		}
		values[key] = CoerceValue(raw)
	}

	return values, nil
}

// CoerceValue interprets a flag value as JSON when possible.
func CoerceValue(raw string) interface{} {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return raw
	}

	var value interface{}
	if err := json.Unmarshal([]byte(trimmed), &value); err == nil {
		return value
	}

	return raw
}
