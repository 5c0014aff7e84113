// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"sigs.k8s.io/yaml"
)

// Profile describes one acquisition variant: which remote filenames qualify
// and how a file is picked per folder.
type Profile struct {
	// Extensions accepted case-sensitively, without the leading dot.
	// "*" accepts anything.
	Extensions []string `json:"extensions"`
	// Include and Exclude are mutually exclusive substring policies.
	Include []string `json:"include,omitempty"`
	Exclude []string `json:"exclude,omitempty"`
	// Selection is "auto" or "interactive".
	Selection string `json:"selection"`
	// FirstMatchOnly stops a folder's scan at the first include hit,
	// yielding at most one candidate per folder.
	FirstMatchOnly bool `json:"first_match_only,omitempty"`
	// Manifest is the file the chosen remote paths are recorded in,
	// relative to the local storage root.
	Manifest string `json:"manifest,omitempty"`
}

const (
	SelectionAuto        = "auto"
	SelectionInteractive = "interactive"
)

var tifExtensions = []string{"tif", "TIF", "tiff", "TIFF"}

// builtinProfiles are the two acquisition variants the pipeline has always
// shipped with: the reduced-resolution sample fetch and the operator-driven
// full-field fetch.
var builtinProfiles = map[string]Profile{
	"10pct": {
		Extensions:     tifExtensions,
		Include:        []string{"_10pct"},
		Selection:      SelectionAuto,
		FirstMatchOnly: true,
		Manifest:       "file_10pct.txt",
	},
	"fullfield": {
		Extensions: tifExtensions,
		Exclude:    []string{"_10pct", "_thumb", "_copy", "_mask", "_nrmac", "test"},
		Selection:  SelectionInteractive,
		Manifest:   "file_list.txt",
	},
}

// LoadProfile resolves name as a built-in profile first, then as a YAML file
// on disk.
func LoadProfile(name string) (*Profile, error) {
	if p, ok := builtinProfiles[name]; ok {
		return &p, nil
	}

	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile file: %w", err)
	}
	jsonBytes, err := yaml.YAMLToJSON(data)
	if err != nil {
		return nil, fmt.Errorf("yaml to json failed: %w", err)
	}
	var p Profile
	if err := json.Unmarshal(jsonBytes, &p); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid profile %s: %w", name, err)
	}
	return &p, nil
}

func (p *Profile) Validate() error {
	if len(p.Extensions) == 0 {
		return errors.New("at least one extension is required")
	}
	if len(p.Include) > 0 && len(p.Exclude) > 0 {
		return errors.New("include and exclude are mutually exclusive")
	}
	switch p.Selection {
	case SelectionAuto, SelectionInteractive:
	case "":
		return errors.New("selection is required")
	default:
		return fmt.Errorf("unknown selection mode: %s", p.Selection)
	}
	if p.Manifest == "" {
		return errors.New("manifest file name is required")
	}
	return nil
}
