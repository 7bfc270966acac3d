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

package setup

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/tombee/stagehand/internal/config"
	"github.com/tombee/stagehand/internal/secrets"
)

// setupValues collects what the wizard asks for.
type setupValues struct {
	Token     string
	Backend   string
	Owner     string
	Repo      string
	BaseURL   string
	Confirmed bool
}

// buildForm assembles the wizard form. The backend selection only appears
// when more than one writable backend exists.
func buildForm(v *setupValues, backends []string) *huh.Form {
	fields := []huh.Field{
		huh.NewInput().
			Title("GitHub personal access token").
			Description("Create one at https://github.com/settings/tokens.\nLeave empty to keep the current credential.").
			EchoMode(huh.EchoModePassword).
			Value(&v.Token).
			Validate(validateTokenInput),
	}

	if len(backends) > 1 {
		options := make([]huh.Option[string], 0, len(backends))
		for _, b := range backends {
			options = append(options, huh.NewOption(b, b))
		}
		fields = append(fields, huh.NewSelect[string]().
			Title("Where should the token be stored?").
			Options(options...).
			Value(&v.Backend))
	}

	fields = append(fields,
		huh.NewInput().
			Title("Default owner").
			Description("Used when a command omits the owner parameter (optional).").
			Value(&v.Owner),
		huh.NewInput().
			Title("Default repository").
			Description("Used when a command omits the repo parameter (optional).").
			Value(&v.Repo),
		huh.NewInput().
			Title("API base URL").
			Description("Change this for GitHub Enterprise.").
			Value(&v.BaseURL),
		huh.NewConfirm().
			Title("Write configuration?").
			Affirmative("Save").
			Negative("Cancel").
			Value(&v.Confirmed),
	)

	return huh.NewForm(huh.NewGroup(fields...))
}

// validateTokenInput rejects values that cannot be a token. Empty is fine,
// it means "keep whatever credential is already stored".
func validateTokenInput(s string) error {
	if strings.ContainsAny(s, " \t\n") {
		return fmt.Errorf("token cannot contain whitespace")
	}
	return nil
}

// applySetup copies wizard answers onto the config. An emptied base URL is
// ignored so the API stays reachable.
func applySetup(cfg *config.Config, v setupValues) {
	cfg.Defaults.Owner = strings.TrimSpace(v.Owner)
	cfg.Defaults.Repo = strings.TrimSpace(v.Repo)
	if url := strings.TrimSpace(v.BaseURL); url != "" {
		cfg.API.BaseURL = url
	}
}

// writableBackendNames lists the backends a token can be stored in,
// highest priority first.
func writableBackendNames(resolver *secrets.Resolver) []string {
	var names []string
	for _, b := range resolver.Backends() {
		if ro, ok := b.(secrets.ReadOnlyBackend); ok && ro.ReadOnly() {
			continue
		}
		names = append(names, b.Name())
	}
	return names
}
