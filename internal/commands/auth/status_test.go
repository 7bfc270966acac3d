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
	"bytes"
	"strings"
	"testing"
)

func TestRenderStatusReport_TokenMode(t *testing.T) {
	var buf bytes.Buffer
	renderStatusReport(&buf, statusReport{
		ConfigPath:  "/home/octocat/.config/stagehand/config.yaml",
		BaseURL:     "https://api.github.com",
		Mode:        "token",
		TokenSecret: "github_token",
		Source:      "keychain",
		Token:       "...3456",
		Verified:    true,
		Login:       "octocat",
	}, false)

	out := buf.String()
	for _, want := range []string{
		"Config:", "/home/octocat/.config/stagehand/config.yaml",
		"API:", "https://api.github.com",
		`token from keychain (secret "github_token")`,
		"...3456",
		"authenticated as octocat",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderStatusReport_AppMode(t *testing.T) {
	var buf bytes.Buffer
	renderStatusReport(&buf, statusReport{
		ConfigPath: "/etc/stagehand/config.yaml",
		BaseURL:    "https://github.example.com/api/v3",
		Mode:       "app",
		AppID:      12345,
		Verified:   true,
	}, false)

	out := buf.String()
	if !strings.Contains(out, "GitHub App 12345") {
		t.Errorf("output missing app line:\n%s", out)
	}
	if strings.Contains(out, "Token:") {
		t.Errorf("app mode should not print a token line:\n%s", out)
	}
}

func TestRenderStatusReport_Rejected(t *testing.T) {
	var buf bytes.Buffer
	renderStatusReport(&buf, statusReport{
		ConfigPath:  "/home/octocat/.config/stagehand/config.yaml",
		BaseURL:     "https://api.github.com",
		Mode:        "token",
		TokenSecret: "github_token",
		Source:      "env",
		Token:       "...dead",
		Verified:    false,
		Error:       "GitHub rejected the credential (HTTP 401)",
	}, false)

	out := buf.String()
	if !strings.Contains(out, "credential check failed: GitHub rejected the credential (HTTP 401)") {
		t.Errorf("output missing failure line:\n%s", out)
	}
}

func TestRenderStatusReport_NoVerify(t *testing.T) {
	var buf bytes.Buffer
	renderStatusReport(&buf, statusReport{
		ConfigPath:  "/home/octocat/.config/stagehand/config.yaml",
		BaseURL:     "https://api.github.com",
		Mode:        "token",
		TokenSecret: "github_token",
		Source:      "file",
		Token:       "...3456",
	}, true)

	out := buf.String()
	if strings.Contains(out, "authenticated") || strings.Contains(out, "credential check") {
		t.Errorf("--no-verify output should stop at the credential summary:\n%s", out)
	}
	if !strings.Contains(out, "token from file") {
		t.Errorf("output missing source line:\n%s", out)
	}
}
