// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package acquire

import (
	"fmt"
	"strings"
)

// FileFailure records one file that could not be retrieved or stored.
type FileFailure struct {
	RemotePath string
	Err        error
}

// PartialError aggregates per-file failures. Every file is attempted before
// this is returned; it never short-circuits the retrieval pass.
type PartialError struct {
	Failures []FileFailure
}

func (e *PartialError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "unable to retrieve all files individually (%d failed)", len(e.Failures))
	for _, f := range e.Failures {
		fmt.Fprintf(&b, "; %s: %v", f.RemotePath, f.Err)
	}
	return b.String()
}
