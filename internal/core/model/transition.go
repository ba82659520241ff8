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

// Package model defines the core data structures of the transition
// composition engine. This file holds the transition vocabulary: the closed
// set of transition kinds and the per-pair specification that configures one
// of them.
package model

import (
	"fmt"
	"strings"
)

// TransitionKind identifies one of the supported visual treatments applied
// where two adjacent clips meet.
type TransitionKind int

const (
	// TransitionCut joins two clips with no overlap and no effect.
	TransitionCut TransitionKind = iota
	// TransitionFade ramps the outgoing clip to the fade color while the
	// incoming clip ramps up at the same time. Both clips pass through half
	// opacity together, producing a visible dip. This mirrors the historical
	// behavior of the fade pipeline and is kept deliberately; use
	// TransitionCrossfade for a dip-free blend.
	TransitionFade
	// TransitionCrossfade ramps only the incoming clip from transparent to
	// opaque while the outgoing clip stays fully visible underneath.
	TransitionCrossfade
	// TransitionSlide moves the incoming clip from off-frame to centered
	// over the overlap window.
	TransitionSlide
	// TransitionWipe reveals the incoming clip behind a boundary that moves
	// across the frame width.
	TransitionWipe
	// TransitionFilterCrossfade delegates the blend to the render executor's
	// filter-graph capability (ffmpeg xfade/acrossfade).
	TransitionFilterCrossfade
	// TransitionAIBridge generates a new bridge clip from the boundary
	// frames of the two clips and splices it between them with no overlap.
	TransitionAIBridge
)

var transitionKindNames = map[TransitionKind]string{
	TransitionCut:             "cut",
	TransitionFade:            "fade",
	TransitionCrossfade:       "crossfade",
	TransitionSlide:           "slide",
	TransitionWipe:            "wipe",
	TransitionFilterCrossfade: "filter-crossfade",
	TransitionAIBridge:        "ai-bridge",
}

// String returns the configuration-file spelling of the kind.
func (k TransitionKind) String() string {
	if name, ok := transitionKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("transition(%d)", int(k))
}

// ParseTransitionKind maps a configuration string to its TransitionKind.
// Matching is case-insensitive.
func ParseTransitionKind(in string) (TransitionKind, error) {
	needle := strings.ToLower(strings.TrimSpace(in))
	for kind, name := range transitionKindNames {
		if name == needle {
			return kind, nil
		}
	}
	return TransitionCut, fmt.Errorf("%w: unknown transition kind %q", ErrInvalidInput, in)
}

// SlideDirection names the edge the incoming clip enters from during a slide.
type SlideDirection string

const (
	SlideFromRight  SlideDirection = "right"
	SlideFromLeft   SlideDirection = "left"
	SlideFromTop    SlideDirection = "top"
	SlideFromBottom SlideDirection = "bottom"
)

// DefaultFadeColor is the color faded through when a fade spec does not name
// one. The historical fade pipeline always dipped through black.
const DefaultFadeColor = "black"

// TransitionSpec configures one requested transition between two adjacent
// clips. A run over N clips carries exactly N-1 specs, and each spec is
// immutable once planning starts.
//
// The parameter fields are kind-specific: FadeColor applies to Fade,
// Direction to Slide, and Prompt to AIBridge. Unrelated fields are
// ignored by the other kinds.
type TransitionSpec struct {
	Kind TransitionKind `json:"kind"`
	// Duration of the requested transition in seconds. Zero is equivalent
	// to a cut. The realized overlap may be shorter; the scheduler clamps
	// it to the duration of the shorter neighboring clip.
	Duration float64 `json:"duration"`
	// FadeColor is the color a fade dips through. Empty means black.
	FadeColor string `json:"fade_color,omitempty"`
	// Direction the incoming clip slides in from. Empty means from the right.
	Direction SlideDirection `json:"direction,omitempty"`
	// Prompt is the text instruction sent with an AI bridge generation
	// request.
	Prompt string `json:"prompt,omitempty"`
}
