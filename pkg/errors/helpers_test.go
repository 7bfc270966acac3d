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

package errors_test

import (
	"errors"
	"testing"

	stagehanderrors "github.com/tombee/stagehand/pkg/errors"
)

func TestWrap(t *testing.T) {
	t.Run("wraps non-nil error", func(t *testing.T) {
		base := errors.New("connection refused")
		wrapped := stagehanderrors.Wrap(base, "resolving token")

		if wrapped == nil {
			t.Fatal("Wrap() = nil, want error")
		}
		want := "resolving token: connection refused"
		if wrapped.Error() != want {
			t.Errorf("Wrap().Error() = %q, want %q", wrapped.Error(), want)
		}
		if !errors.Is(wrapped, base) {
			t.Error("errors.Is(wrapped, base) = false, want true")
		}
	})

	t.Run("nil error returns nil", func(t *testing.T) {
		if got := stagehanderrors.Wrap(nil, "context"); got != nil {
			t.Errorf("Wrap(nil) = %v, want nil", got)
		}
	})
}

func TestWrapf(t *testing.T) {
	t.Run("formats context", func(t *testing.T) {
		base := errors.New("no such file")
		wrapped := stagehanderrors.Wrapf(base, "loading pipeline %s", "triage.yaml")

		want := "loading pipeline triage.yaml: no such file"
		if wrapped.Error() != want {
			t.Errorf("Wrapf().Error() = %q, want %q", wrapped.Error(), want)
		}
	})

	t.Run("nil error returns nil", func(t *testing.T) {
		if got := stagehanderrors.Wrapf(nil, "loading %s", "x"); got != nil {
			t.Errorf("Wrapf(nil) = %v, want nil", got)
		}
	})
}

func TestAs(t *testing.T) {
	inner := &stagehanderrors.ValidationError{Field: "owner", Message: "is required"}
	wrapped := stagehanderrors.Wrap(inner, "running issues.create")

	var verr *stagehanderrors.ValidationError
	if !stagehanderrors.As(wrapped, &verr) {
		t.Fatal("As() = false, want true")
	}
	if verr.Field != "owner" {
		t.Errorf("Field = %q, want %q", verr.Field, "owner")
	}
}
