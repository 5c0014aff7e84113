// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package acquire

import (
	"fmt"
	"path"
	"strconv"

	"go.uber.org/zap"
)

// Selector picks files out of a folder's candidates. Every selection is
// appended to the manifest immediately, in the order produced.
type Selector struct {
	Mode     SelectionMode
	Input    InputProvider
	Manifest *Manifest
	Log      *zap.Logger
}

// Select returns the chosen files for one folder. In auto mode every
// candidate is taken; in interactive mode the operator picks at most one
// (0 skips the folder). Out-of-range or non-numeric input re-prompts.
func (s *Selector) Select(folder string, candidates []Candidate) ([]Selected, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	if s.Mode == ModeAuto {
		selected := make([]Selected, 0, len(candidates))
		for _, c := range candidates {
			s.Log.Info("found wanted image", zap.String("file", c.RemotePath))
			if err := s.Manifest.Append(c.RemotePath); err != nil {
				return nil, err
			}
			selected = append(selected, Selected{RemotePath: c.RemotePath})
		}
		return selected, nil
	}

	for {
		fmt.Println("Remote folder", folder)
		fmt.Println("Please select file to download:")
		fmt.Println("0 . None")
		for i, c := range candidates {
			fmt.Println(i+1, ".", path.Base(c.RemotePath))
		}

		answer, err := s.Input.ReadLine("Enter the number associated with file: ")
		if err != nil {
			return nil, fmt.Errorf("failed to read selection: %w", err)
		}

		idx, convErr := strconv.Atoi(answer)
		switch {
		case convErr != nil || idx < 0:
			fmt.Println("Invalid entry")
		case idx == 0:
			fmt.Println("Skipping folder")
			return nil, nil
		case idx > len(candidates):
			fmt.Println("Entered value is out of range:", answer)
		default:
			chosen := candidates[idx-1]
			s.Log.Debug("file selected", zap.Int("index", idx), zap.String("file", chosen.RemotePath))
			if err := s.Manifest.Append(chosen.RemotePath); err != nil {
				return nil, err
			}
			return []Selected{{RemotePath: chosen.RemotePath}}, nil
		}
		fmt.Println("Please try again")
	}
}
