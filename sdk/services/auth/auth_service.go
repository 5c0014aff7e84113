// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

// Package auth implements the native-app authorization-code flow against
// the transfer service's auth server. The flow is interactive: the operator
// opens the authorize URL in a browser and pastes the resulting code back.
package auth

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/oauth2"
)

const transferScope = "urn:globus:auth:scope:transfer.api.globus.org:all"

// Flow is a single authorization attempt. The PKCE verifier is generated at
// construction, so the AuthorizeURL and Exchange of one Flow belong together.
type Flow struct {
	cfg      *oauth2.Config
	verifier string
}

func NewFlow(clientID, authBaseURL string) *Flow {
	base := strings.TrimSuffix(authBaseURL, "/")
	return &Flow{
		cfg: &oauth2.Config{
			ClientID: clientID,
			Endpoint: oauth2.Endpoint{
				AuthURL:  base + "/v2/oauth2/authorize",
				TokenURL: base + "/v2/oauth2/token",
			},
			// Out-of-band display page: the code is shown to the operator
			// instead of being delivered to a redirect listener.
			RedirectURL: base + "/v2/web/auth-code",
			Scopes:      []string{transferScope},
		},
		verifier: oauth2.GenerateVerifier(),
	}
}

// AuthorizeURL is the URL the operator must visit to obtain the code.
// Offline access is requested so the token source can refresh mid-run.
func (f *Flow) AuthorizeURL() string {
	return f.cfg.AuthCodeURL("",
		oauth2.AccessTypeOffline,
		oauth2.S256ChallengeOption(f.verifier),
	)
}

// Exchange trades the pasted authorization code for a refresh-capable
// Authorizer.
func (f *Flow) Exchange(ctx context.Context, code string) (*Authorizer, error) {
	tok, err := f.cfg.Exchange(ctx, strings.TrimSpace(code),
		oauth2.VerifierOption(f.verifier),
	)
	if err != nil {
		return nil, fmt.Errorf("authorization failed: %w", err)
	}
	return &Authorizer{ts: f.cfg.TokenSource(ctx, tok)}, nil
}

// Authorizer satisfies config.TokenProvider; the wrapped token source
// refreshes the access token transparently.
type Authorizer struct {
	ts oauth2.TokenSource
}

func (a *Authorizer) AccessToken(_ context.Context) (string, error) {
	tok, err := a.ts.Token()
	if err != nil {
		return "", fmt.Errorf("token refresh failed: %w", err)
	}
	return tok.AccessToken, nil
}

// StaticAuthorizer wraps a fixed token, for non-interactive use and tests.
type StaticAuthorizer string

func (s StaticAuthorizer) AccessToken(_ context.Context) (string, error) {
	return string(s), nil
}
