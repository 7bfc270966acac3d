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
	"reflect"
	"testing"
)

func TestParseKeyValues(t *testing.T) {
	tests := []struct {
		name    string
		pairs   []string
		want    map[string]interface{}
		wantErr bool
	}{
		{
			name:  "plain strings",
			pairs: []string{"owner=octocat", "repo=hello-world"},
			want:  map[string]interface{}{"owner": "octocat", "repo": "hello-world"},
		},
		{
			name:  "numbers and booleans keep their type",
			pairs: []string{"number=42", "locked=true"},
			want:  map[string]interface{}{"number": float64(42), "locked": true},
		},
		{
			name:  "JSON array value",
			pairs: []string{`labels=["bug","urgent"]`},
			want:  map[string]interface{}{"labels": []interface{}{"bug", "urgent"}},
		},
		{
			name:  "quoted value stays a string",
			pairs: []string{`title="42"`},
			want:  map[string]interface{}{"title": "42"},
		},
		{
			name:  "value with equals sign",
			pairs: []string{"query=is:open label=bug"},
			want:  map[string]interface{}{"query": "is:open label=bug"},
		},
		{
			name:  "empty value",
			pairs: []string{"body="},
			want:  map[string]interface{}{"body": ""},
		},
		{
			name:    "missing equals",
			pairs:   []string{"invalid"},
			wantErr: true,
		},
		{
			name:    "empty key",
			pairs:   []string{"=value"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseKeyValues(tt.pairs)

			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseKeyValues(%v) = %#v, want %#v", tt.pairs, got, tt.want)
			}
		})
	}
}

func TestCoerceValue_MalformedJSONStaysString(t *testing.T) {
	// A half-open bracket is not JSON, so the raw text survives
	if got := CoerceValue("[not json"); got != "[not json" {
		t.Errorf("CoerceValue() = %#v, want the raw string", got)
	}
}
