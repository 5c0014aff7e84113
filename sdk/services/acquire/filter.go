// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package acquire

import (
	"path"
	"strings"

	"github.com/scc-digitalhub/terraref-cli/sdk/services/transfer"
)

// FilterEntries applies the extension and substring policy to one folder's
// listing. Directories are dropped, source order is preserved. Under an
// include policy with FirstMatchOnly the scan terminates at the first hit.
func FilterEntries(folder string, entries []transfer.Entry, policy FilterPolicy) []Candidate {
	var matches []Candidate

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !extensionAllowed(entry.Name, policy.Extensions) {
			continue
		}

		if len(policy.Include) > 0 {
			if !containsAny(entry.Name, policy.Include) {
				continue
			}
			matches = append(matches, Candidate{
				RemotePath: path.Join(folder, entry.Name),
				Folder:     folder,
			})
			if policy.FirstMatchOnly {
				break
			}
			continue
		}

		if len(policy.Exclude) > 0 && containsAny(entry.Name, policy.Exclude) {
			continue
		}

		matches = append(matches, Candidate{
			RemotePath: path.Join(folder, entry.Name),
			Folder:     folder,
		})
	}

	return matches
}

// extensionOf returns the substring after the last dot, or "" if the name
// has none.
func extensionOf(name string) string {
	ext := path.Ext(name)
	return strings.TrimPrefix(ext, ".")
}

func extensionAllowed(name string, allowed []string) bool {
	ext := extensionOf(name)
	for _, a := range allowed {
		if a == "*" || strings.TrimPrefix(a, ".") == ext {
			return true
		}
	}
	return false
}

func containsAny(name string, parts []string) bool {
	for _, p := range parts {
		if strings.Contains(name, p) {
			return true
		}
	}
	return false
}
