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

package githubauth

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
)

// Device authorization grant endpoints for github.com. GitHub Enterprise
// hosts serve the same paths under their own domain.
const (
	deviceAuthURL  = "https://github.com/login/device/code"
	deviceTokenURL = "https://github.com/login/oauth/access_token"
)

// DeviceFlowConfig holds what the device authorization grant needs.
// ClientID is the OAuth app's client ID and is required. AuthURL and
// TokenURL override the github.com endpoints for Enterprise hosts.
type DeviceFlowConfig struct {
	ClientID string
	Scopes   []string
	AuthURL  string
	TokenURL string
}

// PromptFunc shows the verification URI and one-time code to the person
// logging in. It is called once, before polling for their approval.
type PromptFunc func(verificationURI, userCode string)

// DeviceFlow runs the OAuth device authorization grant and returns the
// access token once the user approves. It blocks while polling, honoring
// ctx for cancellation.
func DeviceFlow(ctx context.Context, cfg DeviceFlowConfig, prompt PromptFunc) (string, error) {
	if cfg.ClientID == "" {
		return "", fmt.Errorf("client ID is required for device flow")
	}

	authURL := cfg.AuthURL
	if authURL == "" {
		authURL = deviceAuthURL
	}
	tokenURL := cfg.TokenURL
	if tokenURL == "" {
		tokenURL = deviceTokenURL
	}

	oc := &oauth2.Config{
		ClientID: cfg.ClientID,
		Scopes:   cfg.Scopes,
		Endpoint: oauth2.Endpoint{
			DeviceAuthURL: authURL,
			TokenURL:      tokenURL,
		},
	}

	auth, err := oc.DeviceAuth(ctx)
	if err != nil {
		return "", fmt.Errorf("starting device flow: %w", err)
	}

	if prompt != nil {
		prompt(auth.VerificationURI, auth.UserCode)
	}

	token, err := oc.DeviceAccessToken(ctx, auth)
	if err != nil {
		return "", fmt.Errorf("waiting for device authorization: %w", err)
	}

	return token.AccessToken, nil
}
