// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package acquire

import (
	"fmt"
	"os"
)

// Manifest records every chosen remote path, one per line, in selection
// order. It is created fresh at the start of the selection phase and held
// open until all folders are processed; it is a per-run record, not a
// cross-run ledger.
type Manifest struct {
	f    *os.File
	path string
}

func CreateManifest(path string) (*Manifest, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create manifest %s: %w", path, err)
	}
	return &Manifest{f: f, path: path}, nil
}

func (m *Manifest) Append(remotePath string) error {
	if _, err := fmt.Fprintln(m.f, remotePath); err != nil {
		return fmt.Errorf("failed to append to manifest %s: %w", m.path, err)
	}
	return nil
}

func (m *Manifest) Path() string { return m.path }

func (m *Manifest) Close() error { return m.f.Close() }
