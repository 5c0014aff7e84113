// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package utils

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
)

// Runner abstracts the external command-line tools this CLI drives
// (the globus CLI for the local endpoint id, icommands for iRODS).
type Runner interface {
	// Run executes the command and returns its stdout. A non-zero exit
	// status is returned as an error.
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec. Stderr is passed through so the
// operator sees tool diagnostics directly.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &out
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return out.Bytes(), fmt.Errorf("%s failed: %w", name, err)
	}
	return out.Bytes(), nil
}
