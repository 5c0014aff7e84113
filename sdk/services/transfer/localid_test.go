// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package transfer

import (
	"context"
	"errors"
	"testing"
)

type staticRunner struct {
	out []byte
	err error
}

func (r staticRunner) Run(_ context.Context, _ string, _ ...string) ([]byte, error) {
	return r.out, r.err
}

func TestLocalEndpointID(t *testing.T) {
	id, err := LocalEndpointID(context.Background(), staticRunner{out: []byte("abc-123\n")})
	if err != nil {
		t.Fatalf("LocalEndpointID: %v", err)
	}
	if id != "abc-123" {
		t.Errorf("id = %q, want abc-123", id)
	}
}

func TestLocalEndpointIDCommandFailure(t *testing.T) {
	_, err := LocalEndpointID(context.Background(), staticRunner{err: errors.New("globus: command not found")})
	if !errors.Is(err, ErrEndpointNotFound) {
		t.Fatalf("expected ErrEndpointNotFound, got %v", err)
	}
}

func TestLocalEndpointIDEmptyOutput(t *testing.T) {
	_, err := LocalEndpointID(context.Background(), staticRunner{out: []byte("  \n")})
	if !errors.Is(err, ErrEndpointNotFound) {
		t.Fatalf("expected ErrEndpointNotFound, got %v", err)
	}
}
