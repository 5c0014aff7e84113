// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package acquire

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/scc-digitalhub/terraref-cli/sdk/services/transfer"
)

const (
	defaultWaitTimeout  = 600 * time.Second
	defaultPollInterval = 5 * time.Second

	transferLabel = "Get image file"
)

// Driver wires one acquisition run together. The endpoint identities are
// resolved once and threaded through as values, never as ambient state.
type Driver struct {
	Transfer TransferAPI
	Store    ArtifactStore // nil disables the post-transfer upload
	Input    InputProvider
	Log      *zap.Logger

	LocalRoot       string
	LocalEndpointID string
	RemoteEndpoint  string // display or canonical name
	RemoteRoot      string

	Policy       FilterPolicy
	Mode         SelectionMode
	ManifestPath string

	WaitTimeout  time.Duration
	PollInterval time.Duration
}

// Run performs the full acquisition: resolve the remote endpoint, enumerate
// folders one level deep, filter and select files (writing the manifest as
// a side effect), then retrieve the selection.
func (d *Driver) Run(ctx context.Context) error {
	endpointID, err := d.Transfer.ResolveEndpoint(ctx, d.RemoteEndpoint)
	if err != nil {
		return err
	}

	folders := d.listFolders(ctx, endpointID)

	selected, err := d.selectFiles(ctx, endpointID, folders)
	if err != nil {
		return err
	}

	_, err = d.Retrieve(ctx, endpointID, selected)
	return err
}

// RunList retrieves a pre-selected list of remote paths, bypassing
// enumeration, filtering, selection and the manifest entirely.
func (d *Driver) RunList(ctx context.Context, listPath string) error {
	selected, err := ReadList(listPath)
	if err != nil {
		return err
	}

	endpointID, err := d.Transfer.ResolveEndpoint(ctx, d.RemoteEndpoint)
	if err != nil {
		return err
	}

	_, err = d.Retrieve(ctx, endpointID, selected)
	return err
}

// listFolders enumerates the direct subfolders of the remote root. A
// listing failure is soft: it is logged and yields no folders, it never
// aborts the run.
func (d *Driver) listFolders(ctx context.Context, endpointID string) []string {
	entries, err := d.Transfer.Ls(ctx, endpointID, d.RemoteRoot)
	if err != nil {
		d.Log.Error("continuing after listing failure",
			zap.String("path", d.RemoteRoot), zap.Error(err))
		return nil
	}

	var folders []string
	for _, entry := range entries {
		if entry.IsDir() {
			sub := path.Join(d.RemoteRoot, entry.Name)
			d.Log.Debug("remote sub folder", zap.String("path", sub))
			folders = append(folders, sub)
		}
	}
	return folders
}

func (d *Driver) selectFiles(ctx context.Context, endpointID string, folders []string) ([]Selected, error) {
	manifest, err := CreateManifest(d.ManifestPath)
	if err != nil {
		return nil, err
	}
	defer manifest.Close()

	selector := &Selector{
		Mode:     d.Mode,
		Input:    d.Input,
		Manifest: manifest,
		Log:      d.Log,
	}

	var selected []Selected
	for _, folder := range folders {
		entries, err := d.Transfer.Ls(ctx, endpointID, folder)
		if err != nil {
			d.Log.Error("continuing after listing failure",
				zap.String("path", folder), zap.Error(err))
			continue
		}

		candidates := FilterEntries(folder, entries, d.Policy)
		chosen, err := selector.Select(folder, candidates)
		if err != nil {
			return nil, err
		}
		selected = append(selected, chosen...)
	}

	d.Log.Info("done searching for files to download", zap.Int("found", len(selected)))
	return selected, nil
}

// Retrieve downloads the selected files sequentially. Files whose local
// destination already exists are skipped, which makes the run idempotent.
// Per-file failures are accumulated; every remaining file is still
// attempted, and the pass fails as a whole only after it completes.
func (d *Driver) Retrieve(ctx context.Context, endpointID string, selected []Selected) ([]Artifact, error) {
	type pendingTransfer struct {
		remotePath string
		localPath  string
	}

	var pending []pendingTransfer
	for _, sel := range selected {
		localPath := filepath.Join(d.LocalRoot, path.Base(sel.RemotePath))
		if _, err := os.Stat(localPath); err == nil {
			d.Log.Info("already present, skipping", zap.String("file", localPath))
			continue
		}
		pending = append(pending, pendingTransfer{remotePath: sel.RemotePath, localPath: localPath})
	}

	if len(pending) == 0 {
		return nil, nil
	}

	if d.Store != nil {
		if err := d.Store.Begin(ctx); err != nil {
			return nil, fmt.Errorf("store precondition failed: %w", err)
		}
	}

	timeout := d.WaitTimeout
	if timeout == 0 {
		timeout = defaultWaitTimeout
	}
	poll := d.PollInterval
	if poll == 0 {
		poll = defaultPollInterval
	}

	var artifacts []Artifact
	var failures []FileFailure
	for i, p := range pending {
		d.Log.Info("trying transfer",
			zap.Int("n", i+1), zap.String("file", p.remotePath))

		if err := d.retrieveOne(ctx, endpointID, p.remotePath, p.localPath, timeout, poll); err != nil {
			d.Log.Warn("failed to get image", zap.String("file", p.remotePath), zap.Error(err))
			failures = append(failures, FileFailure{RemotePath: p.remotePath, Err: err})
			continue
		}

		artifact := Artifact{RemotePath: p.remotePath, LocalPath: p.localPath}
		if d.Store != nil {
			if err := d.Store.Put(ctx, p.localPath); err != nil {
				d.Log.Warn("failed to store image", zap.String("file", p.localPath), zap.Error(err))
				failures = append(failures, FileFailure{RemotePath: p.remotePath, Err: err})
				continue
			}
		}
		artifacts = append(artifacts, artifact)
	}

	if len(failures) > 0 {
		return artifacts, &PartialError{Failures: failures}
	}
	return artifacts, nil
}

func (d *Driver) retrieveOne(ctx context.Context, endpointID, remotePath, localPath string, timeout, poll time.Duration) error {
	taskID, err := d.Transfer.Submit(ctx, transfer.SubmitRequest{
		SourceEndpoint:      endpointID,
		DestinationEndpoint: d.LocalEndpointID,
		Label:               transferLabel + " " + labelID(),
		Items: []transfer.Item{
			{Source: remotePath, Destination: localPath},
		},
	})
	if err != nil {
		return fmt.Errorf("submission failed: %w", err)
	}

	ok, err := d.Transfer.TaskWait(ctx, taskID, timeout, poll)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("unable to retrieve file: %s", remotePath)
	}
	if _, err := os.Stat(localPath); err != nil {
		return fmt.Errorf("unable to find downloaded file at: %s", localPath)
	}
	return nil
}

func labelID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
}
