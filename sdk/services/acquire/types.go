// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

// Package acquire implements the acquisition run: enumerate remote folders,
// filter and select imagery files, record them in a manifest, and retrieve
// them through the transfer service.
package acquire

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/scc-digitalhub/terraref-cli/sdk/services/transfer"
)

type SelectionMode string

const (
	ModeAuto        SelectionMode = "auto"
	ModeInteractive SelectionMode = "interactive"
)

// FilterPolicy describes which listing entries qualify. Include and Exclude
// are mutually exclusive; exactly one is active per run.
type FilterPolicy struct {
	// Extensions accepted case-sensitively, without the leading dot.
	// "*" accepts anything.
	Extensions []string
	Include    []string
	Exclude    []string
	// FirstMatchOnly stops a folder's scan at the first include hit, so a
	// folder yields at most one candidate (one representative sample per
	// location).
	FirstMatchOnly bool
}

// Candidate is an entry that passed extension and substring filtering.
type Candidate struct {
	RemotePath string
	Folder     string
}

// Selected is a candidate chosen for retrieval.
type Selected struct {
	RemotePath string
}

// Artifact is a file that landed in the local storage root.
type Artifact struct {
	RemotePath string
	LocalPath  string
}

// TransferAPI is the slice of the transfer service this package consumes.
type TransferAPI interface {
	ResolveEndpoint(ctx context.Context, name string) (string, error)
	Ls(ctx context.Context, endpointID, path string) ([]transfer.Entry, error)
	Submit(ctx context.Context, req transfer.SubmitRequest) (string, error)
	TaskWait(ctx context.Context, taskID string, timeout, poll time.Duration) (bool, error)
}

// ArtifactStore receives successfully retrieved artifacts. Begin is called
// once before the retrieval loop and its failure aborts the run; Put is
// called per artifact and its failure is accumulated like a transfer
// failure.
type ArtifactStore interface {
	Begin(ctx context.Context) error
	Put(ctx context.Context, localPath string) error
}

// InputProvider supplies operator input for interactive steps, so batch
// runs can substitute a non-blocking implementation.
type InputProvider interface {
	ReadLine(prompt string) (string, error)
}

// StdinInput prompts on stdout and reads lines from stdin.
type StdinInput struct {
	r *bufio.Reader
}

func NewStdinInput() *StdinInput {
	return &StdinInput{r: bufio.NewReader(os.Stdin)}
}

func (s *StdinInput) ReadLine(prompt string) (string, error) {
	fmt.Print(prompt)
	line, err := s.r.ReadString('\n')
	if err != nil {
		// piped input may end without a trailing newline
		if errors.Is(err, io.EOF) && strings.TrimSpace(line) != "" {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}
