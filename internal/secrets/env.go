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

package secrets

import (
	"context"
	"fmt"
	"os"
	"strings"
)

const (
	// EnvBackendPriority puts environment variables first so they can
	// override stored secrets in CI and one-off shells.
	EnvBackendPriority = 100

	envSecretPrefix = "STAGEHAND_SECRET_"
)

// envAliases maps well-known secret keys to the conventional environment
// variables the wider ecosystem already sets.
var envAliases = map[string][]string{
	"github_token": {"GITHUB_TOKEN", "GH_TOKEN"},
}

// EnvBackend reads secrets from environment variables. A key such as
// "github_token" resolves from STAGEHAND_SECRET_GITHUB_TOKEN first, then
// from its conventional aliases (GITHUB_TOKEN, GH_TOKEN).
type EnvBackend struct{}

// NewEnvBackend returns the environment variable backend.
func NewEnvBackend() *EnvBackend {
	return &EnvBackend{}
}

func (e *EnvBackend) Name() string {
	return "env"
}

// Get resolves key from STAGEHAND_SECRET_* or a known alias.
func (e *EnvBackend) Get(ctx context.Context, key string) (string, error) {
	if value := os.Getenv(envKey(key)); value != "" {
		return value, nil
	}

	for _, alias := range envAliases[key] {
		if value := os.Getenv(alias); value != "" {
			return value, nil
		}
	}

	return "", fmt.Errorf("%w: environment variable not set", ErrSecretNotFound)
}

// Set always fails: processes cannot usefully mutate their own environment.
func (e *EnvBackend) Set(ctx context.Context, key, value string) error {
	return ErrReadOnlyBackend
}

func (e *EnvBackend) Delete(ctx context.Context, key string) error {
	return ErrReadOnlyBackend
}

// List returns the keys of all STAGEHAND_SECRET_* variables that are set.
// Aliases are not enumerated; they only answer direct lookups.
func (e *EnvBackend) List(ctx context.Context) ([]string, error) {
	var keys []string
	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, envSecretPrefix) {
			continue
		}
		name, value, ok := strings.Cut(env, "=")
		if !ok || value == "" {
			continue
		}
		keys = append(keys, strings.ToLower(strings.TrimPrefix(name, envSecretPrefix)))
	}
	return keys, nil
}

func (e *EnvBackend) Available() bool {
	return true
}

func (e *EnvBackend) Priority() int {
	return EnvBackendPriority
}

func (e *EnvBackend) ReadOnly() bool {
	return true
}

// envKey converts a secret key to its STAGEHAND_SECRET_* variable name.
// "github_token" becomes "STAGEHAND_SECRET_GITHUB_TOKEN".
func envKey(key string) string {
	normalized := strings.NewReplacer("-", "_", "/", "_", ".", "_").Replace(key)
	return envSecretPrefix + strings.ToUpper(normalized)
}
