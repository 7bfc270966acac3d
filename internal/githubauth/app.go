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
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tombee/stagehand/pkg/httpclient"
)

const (
	// GitHub rejects app JWTs with a lifetime over ten minutes.
	appJWTLifetime = 10 * time.Minute
	// Issued-at is backdated to tolerate clock drift between us and GitHub.
	appJWTBackdate = 60 * time.Second
	// Installation tokens live for an hour; refresh well before expiry so
	// a token handed out here is never about to die mid-request.
	tokenRefreshMargin = 5 * time.Minute
)

// AppTokenSource mints installation access tokens for a GitHub App. The
// app's private key signs a short-lived JWT, which is exchanged at the
// installation's access_tokens endpoint. Tokens are cached until they
// near expiry.
type AppTokenSource struct {
	appID          int64
	installationID int64
	key            *rsa.PrivateKey
	baseURL        string
	client         *http.Client

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

// NewAppTokenSource loads the PEM private key at keyPath and prepares a
// source for the given app installation. baseURL is the API root the
// token exchange is sent to.
func NewAppTokenSource(appID, installationID int64, keyPath, baseURL string) (*AppTokenSource, error) {
	if appID <= 0 {
		return nil, fmt.Errorf("app ID must be positive, got %d", appID)
	}
	if installationID <= 0 {
		return nil, fmt.Errorf("installation ID must be positive, got %d", installationID)
	}

	pemBytes, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, fmt.Errorf("reading private key: %w", err)
	}
	key, err := jwt.ParseRSAPrivateKeyFromPEM(pemBytes)
	if err != nil {
		return nil, fmt.Errorf("parsing private key: %w", err)
	}

	client, err := httpclient.New(httpclient.DefaultConfig())
	if err != nil {
		return nil, fmt.Errorf("creating HTTP client: %w", err)
	}

	return &AppTokenSource{
		appID:          appID,
		installationID: installationID,
		key:            key,
		baseURL:        strings.TrimSuffix(baseURL, "/"),
		client:         client,
	}, nil
}

// Token returns a valid installation access token, minting a fresh one
// when the cached token is absent or close to expiring.
func (s *AppTokenSource) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != "" && time.Until(s.expiresAt) > tokenRefreshMargin {
		return s.token, nil
	}

	signed, err := s.appJWT(time.Now())
	if err != nil {
		return "", fmt.Errorf("signing app JWT: %w", err)
	}

	token, expiresAt, err := s.exchange(ctx, signed)
	if err != nil {
		return "", err
	}

	s.token = token
	s.expiresAt = expiresAt
	return s.token, nil
}

// appJWT builds the RS256-signed JWT that authenticates the app itself.
func (s *AppTokenSource) appJWT(now time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Issuer:    strconv.FormatInt(s.appID, 10),
		IssuedAt:  jwt.NewNumericDate(now.Add(-appJWTBackdate)),
		ExpiresAt: jwt.NewNumericDate(now.Add(appJWTLifetime)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(s.key)
}

func (s *AppTokenSource) exchange(ctx context.Context, appJWT string) (string, time.Time, error) {
	url := fmt.Sprintf("%s/app/installations/%d/access_tokens", s.baseURL, s.installationID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("building token request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+appJWT)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("requesting installation token: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("reading token response: %w", err)
	}

	if resp.StatusCode != http.StatusCreated {
		return "", time.Time{}, fmt.Errorf("installation token request failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload struct {
		Token     string    `json:"token"`
		ExpiresAt time.Time `json:"expires_at"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", time.Time{}, fmt.Errorf("decoding token response: %w", err)
	}
	if payload.Token == "" {
		return "", time.Time{}, fmt.Errorf("token response contained no token")
	}

	return payload.Token, payload.ExpiresAt, nil
}
