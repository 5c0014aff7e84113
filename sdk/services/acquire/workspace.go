// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package acquire

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// EnsureLocalRoot makes sure the storage root exists. A newly created root
// is opened up to rwx for owner, group and others, matching the shared
// drop-box layout the pipeline expects.
func EnsureLocalRoot(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat storage root %s: %w", path, err)
	}

	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("failed to create storage root %s: %w", path, err)
	}
	if err := os.Chmod(path, 0o777); err != nil {
		return fmt.Errorf("failed to set permissions on %s: %w", path, err)
	}
	return nil
}

// ReadList reads pre-selected remote paths from a file, one per line.
// Blank lines are skipped; the paths are not validated further.
func ReadList(path string) ([]Selected, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file list %s: %w", path, err)
	}
	defer f.Close()

	var selected []Selected
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		selected = append(selected, Selected{RemotePath: line})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read file list %s: %w", path, err)
	}
	return selected, nil
}
