// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// TokenProvider yields the Bearer token for Transfer API calls. The token is
// asked for per request because the underlying source refreshes it.
type TokenProvider interface {
	AccessToken(ctx context.Context) (string, error)
}

type TransferHTTP interface {
	BuildURL(params map[string]string, segments ...string) string
	Do(ctx context.Context, method, url string, data []byte) ([]byte, int, error)
}

type transferHTTP struct {
	httpClient *http.Client
	baseURL    string
	tokens     TokenProvider
}

func NewTransferHTTP(httpClient *http.Client, baseURL string, tokens TokenProvider) TransferHTTP {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &transferHTTP{
		httpClient: httpClient,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		tokens:     tokens,
	}
}

func (t *transferHTTP) BuildURL(params map[string]string, segments ...string) string {
	u := t.baseURL
	for _, s := range segments {
		u += "/" + url.PathEscape(s)
	}
	q := url.Values{}
	for k, v := range params {
		if v != "" {
			q.Set(k, v)
		}
	}
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

func (t *transferHTTP) Do(ctx context.Context, method, url string, data []byte) ([]byte, int, error) {
	var body io.Reader
	if data != nil {
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, 0, err
	}
	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if t.tokens != nil {
		tok, err := t.tokens.AccessToken(ctx)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to obtain access token: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	b, rerr := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var m map[string]any
		if json.Unmarshal(b, &m) == nil {
			if msg, ok := m["message"].(string); ok && msg != "" {
				return b, resp.StatusCode, fmt.Errorf("transfer service responded with: %s - %s", resp.Status, msg)
			}
		}
		return b, resp.StatusCode, fmt.Errorf("transfer service responded with: %s", resp.Status)
	}
	return b, resp.StatusCode, rerr
}
