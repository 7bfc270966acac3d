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

// Package secrets stores and retrieves credentials through a priority
// chain of backends: environment variables, the OS keychain, and an
// encrypted file. The GitHub token the request client needs is the main
// tenant, but any named secret can live here.
package secrets

import (
	"context"
	"errors"
)

var (
	// ErrSecretNotFound is returned when a key does not exist in a backend.
	ErrSecretNotFound = errors.New("secret not found")

	// ErrBackendUnavailable is returned when a backend cannot be used in
	// the current environment, such as a locked keychain.
	ErrBackendUnavailable = errors.New("backend unavailable")

	// ErrReadOnlyBackend is returned when writing to a read-only backend.
	ErrReadOnlyBackend = errors.New("backend is read-only")
)

// Backend provides storage for sensitive values. Backends are queried in
// priority order by the Resolver.
type Backend interface {
	// Name returns the backend identifier ("env", "keychain", "file").
	Name() string

	// Get retrieves a secret by key. Returns ErrSecretNotFound if absent.
	Get(ctx context.Context, key string) (string, error)

	// Set stores a secret. Returns ErrReadOnlyBackend if not supported.
	Set(ctx context.Context, key, value string) error

	// Delete removes a secret. Returns ErrSecretNotFound if absent and
	// ErrReadOnlyBackend if not supported.
	Delete(ctx context.Context, key string) error

	// List returns the secret keys (never values) this backend holds.
	List(ctx context.Context) ([]string, error)

	// Available reports whether the backend is usable right now.
	Available() bool

	// Priority orders resolution; higher is checked first.
	// Standard priorities: env 100, keychain 50, file 25.
	Priority() int
}

// ReadOnlyBackend marks backends that reject writes.
type ReadOnlyBackend interface {
	Backend
	ReadOnly() bool
}

// Metadata describes where a listed secret lives.
type Metadata struct {
	Key      string
	Backend  string
	ReadOnly bool
}
