// Copyright 2024 Google, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package model defines the data structures of the composition engine. This
// file holds the composition request, the message that triggers a run. A
// request names a folder of source clips and how to transition between
// them: either one transition applied to every pair, or an explicit
// per-pair list.
package model

import (
	"fmt"

	"github.com/google/uuid"
)

// TransitionRequest is the wire form of one transition choice.
type TransitionRequest struct {
	Kind      string  `json:"kind"`                // The transition name (cut, fade, crossfade, slide, wipe, filter-crossfade, ai-bridge).
	Duration  float64 `json:"duration,omitempty"`  // The overlap window in seconds.
	FadeColor string  `json:"fade_color,omitempty"`
	Direction string  `json:"direction,omitempty"` // The slide entry edge.
	Prompt    string  `json:"prompt,omitempty"`    // The bridge interpolation prompt.
}

// ComposeRequest triggers one composition run.
type ComposeRequest struct {
	RunID string `json:"run_id,omitempty"` // Assigned when absent.
	// InputFolder is the gs:// prefix holding the source clips. Clips are
	// taken in alphabetical order of object name.
	InputFolder string `json:"input_folder"`
	// OutputName is the object name of the finished composition, relative
	// to the configured output prefix.
	OutputName string `json:"output_name"`
	// Transition applies to every adjacent pair unless Transitions is set.
	Transition *TransitionRequest `json:"transition,omitempty"`
	// Transitions lists one entry per adjacent pair, in clip order.
	Transitions []TransitionRequest `json:"transitions,omitempty"`
}

// NewComposeRequest builds a request with a fresh run ID derived from the
// input folder, so retried deliveries of the same message map to the same
// run.
func NewComposeRequest(inputFolder, outputName string) *ComposeRequest {
	return &ComposeRequest{
		RunID:       uuid.NewSHA1(uuid.NameSpaceURL, []byte(inputFolder+"/"+outputName)).String(),
		InputFolder: inputFolder,
		OutputName:  outputName,
	}
}

// Validate checks the request invariants that do not depend on the clip
// listing. Per-pair transition counts are checked later, once the clip
// count is known.
func (r *ComposeRequest) Validate() error {
	if r.InputFolder == "" {
		return fmt.Errorf("%w: compose request has no input folder", ErrInvalidInput)
	}
	if r.OutputName == "" {
		return fmt.Errorf("%w: compose request has no output name", ErrInvalidInput)
	}
	if r.Transition != nil && len(r.Transitions) > 0 {
		return fmt.Errorf("%w: compose request sets both a single transition and a per-pair list", ErrInvalidInput)
	}
	return nil
}

// SpecFor resolves the transition request for pair index i out of pairCount
// pairs, falling back to the shared transition or nil when nothing is set.
func (r *ComposeRequest) SpecFor(i, pairCount int) (*TransitionRequest, error) {
	if len(r.Transitions) > 0 {
		if len(r.Transitions) != pairCount {
			return nil, fmt.Errorf("%w: %d clip pairs but %d transitions listed", ErrInvalidInput, pairCount, len(r.Transitions))
		}
		return &r.Transitions[i], nil
	}
	return r.Transition, nil
}
