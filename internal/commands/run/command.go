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
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tombee/stagehand/internal/action"
	"github.com/tombee/stagehand/internal/cli/prompt"
	"github.com/tombee/stagehand/internal/commands/shared"
)

// NewCommand creates the run command
func NewCommand() *cobra.Command {
	var (
		params        []string
		filter        string
		serverURL     string
		token         string
		confirm       bool
		noInteractive bool
	)

	cmd := &cobra.Command{
		Use:   "run <action>",
		Short: "Execute a single GitHub action",
		Annotations: map[string]string{
			"group": "execution",
		},
		Long: `Run executes one action from the catalog against the GitHub API.

Actions are referenced as category.name, e.g. issues.create. Parameters
are passed as repeated --param key=value flags; values that parse as
JSON keep their type, so --param number=42 sends an integer and
--param labels='["bug"]' sends a list.

On an interactive terminal, missing required parameters are prompted
for. Destructive actions (deletes, merges) ask for confirmation unless
--confirm is set; in scripts they refuse to run without it.

Credential resolution order: --token, GITHUB_TOKEN, OS keychain,
encrypted secrets file, GitHub App configuration.`,
		Example: `  # Example 1: Create an issue
  stagehand run issues.create --param owner=octocat --param repo=hello-world --param title="Broken build"

  # Example 2: Fetch a pull request and extract one field
  stagehand run pulls.get -p owner=octocat -p repo=hello-world -p pull_number=7 --filter .title

  # Example 3: Delete a label without prompting
  stagehand run labels.delete -p owner=octocat -p repo=hello-world -p name=wontfix --confirm

  # Example 4: Arbitrary API call
  stagehand run api.request -p path=/repos/octocat/hello-world/topics`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// --json implies --no-interactive
			if shared.GetJSON() {
				noInteractive = true
			}
			return runAction(cmd.Context(), args[0], runOptions{
				params:        params,
				filter:        filter,
				serverURL:     serverURL,
				token:         token,
				confirm:       confirm,
				noInteractive: noInteractive,
			})
		},
	}

	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "Action parameter in key=value format")
	cmd.Flags().StringVar(&filter, "filter", "", "jq filter applied to the response")
	cmd.Flags().StringVar(&serverURL, "server-url", "", "GitHub API base URL (for GitHub Enterprise)")
	cmd.Flags().StringVar(&token, "token", "", "GitHub token (overrides configured credentials)")
	cmd.Flags().BoolVar(&confirm, "confirm", false, "Skip the confirmation prompt for destructive actions")
	cmd.Flags().BoolVar(&noInteractive, "no-interactive", false, "Disable interactive prompts for missing parameters")

	return cmd
}

// runOptions carries the run command flags.
type runOptions struct {
	params        []string
	filter        string
	serverURL     string
	token         string
	confirm       bool
	noInteractive bool
}

func runAction(ctx context.Context, ref string, opts runOptions) error {
	cfg, err := shared.LoadConfig()
	if err != nil {
		return err
	}

	logger := shared.NewLogger(cfg)

	registry, err := shared.BuildRegistry(ctx, cfg, shared.BuildOptions{
		Token:     opts.token,
		ServerURL: opts.serverURL,
	})
	if err != nil {
		return shared.NewAuthError("building API client", err)
	}

	a, err := registry.Get(ref)
	if err != nil {
		return err
	}

	inputs, err := shared.ParseKeyValues(opts.params)
	if err != nil {
		return err
	}
	shared.ApplyRepoDefaults(a, inputs, cfg)

	interactive := !opts.noInteractive && !shared.IsNonInteractive()
	prompter := prompt.NewSurveyPrompter(interactive)

	if err := prompt.CollectParams(ctx, prompter, a, inputs); err != nil {
		var missing *prompt.MissingParamsError
		if errors.As(err, &missing) {
			return shared.NewMissingInputNonInteractiveError("cannot prompt for parameters", missing)
		}
		return err
	}

	if a.Destructive && !opts.confirm {
		if err := confirmDestructive(ctx, prompter, a, inputs); err != nil {
			return err
		}
	}

	logger.Debug("executing action", "action", ref, "params", len(inputs))

	result, err := registry.Execute(ctx, ref, inputs)
	if err != nil {
		var actionErr *action.Error
		if errors.As(err, &actionErr) {
			return shared.NewActionError(fmt.Sprintf("%s returned HTTP %d", ref, actionErr.StatusCode), err)
		}
		return shared.NewActionError(fmt.Sprintf("%s did not complete", ref), err)
	}

	return printResult(result, opts.filter)
}

// confirmDestructive asks before running a destructive action. In
// non-interactive contexts the action is refused instead.
func confirmDestructive(ctx context.Context, prompter prompt.Prompter, a *action.Action, inputs map[string]interface{}) error {
	if !prompter.IsInteractive() {
		return shared.NewActionError(
			fmt.Sprintf("%s is destructive and needs --confirm when prompts are unavailable", a.Ref()), nil)
	}

	ok, err := prompter.Confirm(ctx, fmt.Sprintf("%s cannot be undone. Continue?", a.Ref()))
	if err != nil {
		return err
	}
	if !ok {
		return shared.NewActionError("aborted", nil)
	}
	return nil
}
