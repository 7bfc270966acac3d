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

package auth

import (
	"context"
	"testing"

	"github.com/tombee/stagehand/internal/secrets"
)

// fakeBackend is a minimal Backend for exercising the resolver-dependent
// helpers without touching a real keychain.
type fakeBackend struct {
	name     string
	priority int
	readOnly bool
}

func (f *fakeBackend) Name() string { return f.name }

func (f *fakeBackend) Get(ctx context.Context, key string) (string, error) {
	return "", secrets.ErrSecretNotFound
}

func (f *fakeBackend) Set(ctx context.Context, key, value string) error {
	if f.readOnly {
		return secrets.ErrReadOnlyBackend
	}
	return nil
}

func (f *fakeBackend) Delete(ctx context.Context, key string) error {
	return secrets.ErrSecretNotFound
}

func (f *fakeBackend) List(ctx context.Context) ([]string, error) { return nil, nil }

func (f *fakeBackend) Available() bool { return true }

func (f *fakeBackend) Priority() int { return f.priority }

func (f *fakeBackend) ReadOnly() bool { return f.readOnly }

func TestStoredBackend_ExplicitRequest(t *testing.T) {
	resolver := secrets.NewResolver(
		&fakeBackend{name: "keychain", priority: 50},
		&fakeBackend{name: "file", priority: 25},
	)

	if got := storedBackend(resolver, "file"); got != "file" {
		t.Errorf("storedBackend() = %q, want file", got)
	}
}

func TestStoredBackend_SkipsReadOnly(t *testing.T) {
	resolver := secrets.NewResolver(
		&fakeBackend{name: "env", priority: 100, readOnly: true},
		&fakeBackend{name: "keychain", priority: 50},
		&fakeBackend{name: "file", priority: 25},
	)

	if got := storedBackend(resolver, ""); got != "keychain" {
		t.Errorf("storedBackend() = %q, want keychain", got)
	}
}

func TestStoredBackend_NothingWritable(t *testing.T) {
	resolver := secrets.NewResolver(
		&fakeBackend{name: "env", priority: 100, readOnly: true},
	)

	if got := storedBackend(resolver, ""); got != "unknown" {
		t.Errorf("storedBackend() = %q, want unknown", got)
	}
}
