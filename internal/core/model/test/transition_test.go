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

// Package model_test contains unit tests for the composition data model:
// transition kind parsing, ramp evaluation, and envelope sampling.
package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/CE-Demos/veo-clip-transitions/internal/core/model"
)

// TestParseTransitionKind verifies the name round trip for every kind and
// the case-insensitive accept.
func TestParseTransitionKind(t *testing.T) {
	kinds := []model.TransitionKind{
		model.TransitionCut, model.TransitionFade, model.TransitionCrossfade,
		model.TransitionSlide, model.TransitionWipe,
		model.TransitionFilterCrossfade, model.TransitionAIBridge,
	}
	for _, kind := range kinds {
		parsed, err := model.ParseTransitionKind(kind.String())
		assert.NoError(t, err)
		assert.Equal(t, kind, parsed)
	}

	parsed, err := model.ParseTransitionKind("CROSSFADE")
	assert.NoError(t, err)
	assert.Equal(t, model.TransitionCrossfade, parsed)

	_, err = model.ParseTransitionKind("dissolve")
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

// TestRampClamps verifies linear interpolation with clamped endpoints.
func TestRampClamps(t *testing.T) {
	r := model.Ramp{From: 1, To: 0}
	assert.Equal(t, 1.0, r.At(-0.5))
	assert.InDelta(t, 0.75, r.At(0.25), 1e-9)
	assert.Equal(t, 0.0, r.At(2))
}

// TestEnvelopeDefaults verifies that an envelope with no positional or mask
// ramps samples to a fully revealed, unshifted incoming clip.
func TestEnvelopeDefaults(t *testing.T) {
	env := model.Envelope{
		Duration: 2,
		Outgoing: model.ClipEnvelope{Opacity: model.Ramp{From: 1, To: 1}},
		Incoming: model.ClipEnvelope{Opacity: model.Ramp{From: 0, To: 1}},
	}
	s := env.At(2)
	assert.Equal(t, 1.0, s.MaskReveal)
	assert.Equal(t, 0.0, s.IncomingOffsetX)
	assert.Equal(t, 0.0, s.IncomingOffsetY)
	assert.Equal(t, 1.0, s.IncomingOpacity)
}

// TestFrameSizeEquals verifies the exact-match comparison.
func TestFrameSizeEquals(t *testing.T) {
	a := model.FrameSize{Width: 1920, Height: 1080}
	assert.True(t, a.Equals(model.FrameSize{Width: 1920, Height: 1080}))
	assert.False(t, a.Equals(model.FrameSize{Width: 1920, Height: 1088}))
}
