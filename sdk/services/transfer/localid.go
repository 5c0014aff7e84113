// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package transfer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/scc-digitalhub/terraref-cli/sdk/utils"
)

// LocalEndpointID resolves the caller's own transfer endpoint through the
// globus CLI. The id is printed on stdout by `globus endpoint local-id`.
func LocalEndpointID(ctx context.Context, runner utils.Runner) (string, error) {
	out, err := runner.Run(ctx, "globus", "endpoint", "local-id")
	if err != nil {
		return "", fmt.Errorf("unable to get local endpoint id: %w",
			errors.Join(ErrEndpointNotFound, err))
	}
	id := strings.TrimSpace(string(out))
	if id == "" {
		return "", fmt.Errorf("unable to get local endpoint id: %w", ErrEndpointNotFound)
	}
	return id, nil
}
