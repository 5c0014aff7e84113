// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/scc-digitalhub/terraref-cli/sdk/utils"
)

// IrodsStore uploads artifacts through the iRODS icommands, which carry
// their own session state (iinit must have been run beforehand).
type IrodsStore struct {
	location string
	runner   utils.Runner
	log      *zap.Logger
}

func NewIrodsStore(location string, runner utils.Runner, log *zap.Logger) *IrodsStore {
	return &IrodsStore{location: location, runner: runner, log: log}
}

// Begin switches the iRODS working collection to the configured location.
// A failure here means the session is missing or the collection does not
// exist, so the whole retrieval pass is aborted before any transfer starts.
func (s *IrodsStore) Begin(ctx context.Context) error {
	if _, err := s.runner.Run(ctx, "icd", s.location); err != nil {
		return fmt.Errorf("unable to change to iRODS folder %s: %w", s.location, err)
	}
	return nil
}

// Put uploads one file with checksum registration, then removes the local
// copy. iput resolves relative names against the process working directory,
// so we chdir to the file's folder for the duration of the call.
func (s *IrodsStore) Put(ctx context.Context, localPath string) error {
	dir, base := filepath.Split(localPath)

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to determine working directory: %w", err)
	}
	if err := os.Chdir(dir); err != nil {
		return fmt.Errorf("failed to change to folder %s: %w", dir, err)
	}
	defer func() {
		if err := os.Chdir(cwd); err != nil {
			s.log.Warn("failed to restore working directory", zap.String("dir", cwd), zap.Error(err))
		}
	}()

	if _, err := s.runner.Run(ctx, "iput", "-K", "-f", base); err != nil {
		return fmt.Errorf("unable to upload %s to iRODS: %w", base, err)
	}

	s.log.Info("uploaded to iRODS", zap.String("file", base), zap.String("collection", s.location))
	if err := os.Remove(localPath); err != nil {
		return fmt.Errorf("failed to remove local copy %s: %w", localPath, err)
	}
	return nil
}
