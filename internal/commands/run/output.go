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

package run

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tombee/stagehand/internal/action"
	"github.com/tombee/stagehand/internal/commands/shared"
	"github.com/tombee/stagehand/internal/jq"
)

// resultOutput is the JSON envelope printed with --json.
type resultOutput struct {
	Action     string      `json:"action"`
	Status     int         `json:"status"`
	Response   interface{} `json:"response"`
	RequestID  string      `json:"request_id,omitempty"`
	DurationMS int64       `json:"duration_ms"`
}

// printResult renders an action result, applying the jq filter first
// when one was given.
func printResult(result *action.Result, filter string) error {
	response, err := applyFilter(result.Response, filter)
	if err != nil {
		return shared.NewActionError("applying filter", err)
	}

	if shared.GetJSON() {
		out := resultOutput{
			Action:     result.Action,
			Status:     result.StatusCode,
			Response:   response,
			DurationMS: result.Duration.Milliseconds(),
		}
		if id, ok := result.Metadata[action.MetadataRequestID].(string); ok {
			out.RequestID = id
		}
		return shared.EmitJSON(out)
	}

	if !shared.GetQuiet() {
		fmt.Println(shared.RenderOK(fmt.Sprintf("%s (%d)", result.Action, result.StatusCode)))
	}

	return printResponse(response)
}

// applyFilter runs a jq program over the response when filter is set.
func applyFilter(response interface{}, filter string) (interface{}, error) {
	if filter == "" {
		return response, nil
	}
	executor := jq.NewExecutor(0, 0)
	return executor.Execute(context.Background(), filter, response)
}

// printResponse pretty-prints the (possibly filtered) response body.
// Bare strings print without quoting so --filter .title composes with
// shell pipelines.
func printResponse(response interface{}) error {
	switch v := response.(type) {
	case nil:
		return nil
	case string:
		fmt.Println(v)
		return nil
	default:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding response: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}
}
