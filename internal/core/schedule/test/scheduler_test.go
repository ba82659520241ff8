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

// Package schedule_test exercises the timeline scheduler: cursor placement,
// overlap capping, bridge splicing, and the determinism guarantee.
package schedule_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/CE-Demos/veo-clip-transitions/internal/core/model"
	"github.com/CE-Demos/veo-clip-transitions/internal/core/schedule"
)

// clip builds a test descriptor with a fixed 1920x1080 frame.
func clip(id int, duration float64) model.ClipDescriptor {
	return model.ClipDescriptor{
		ID:           id,
		SourceHandle: "gs://clips/in",
		Duration:     duration,
		FrameSize:    model.FrameSize{Width: 1920, Height: 1080},
	}
}

// cut builds a zero-overlap effect plan for the pair.
func cut(outgoing, incoming int) *model.EffectPlan {
	return &model.EffectPlan{
		Kind:       model.TransitionCut,
		OutgoingID: outgoing,
		IncomingID: incoming,
	}
}

// TestScheduleCutsSumDurations verifies that a timeline of pure cuts places
// each clip where the previous one ends, so the total duration is the plain
// sum of the clip durations.
func TestScheduleCutsSumDurations(t *testing.T) {
	clips := []model.ClipDescriptor{clip(0, 4), clip(1, 6), clip(2, 2.5)}
	effects := []*model.EffectPlan{cut(0, 1), cut(1, 2)}

	plan, err := schedule.Schedule(clips, effects)
	assert.NoError(t, err)
	assert.Equal(t, 12.5, plan.Duration)
	assert.Len(t, plan.Segments, 3)
	// Each segment starts exactly where the previous one ends.
	assert.Equal(t, 0.0, plan.Segments[0].Start)
	assert.Equal(t, 4.0, plan.Segments[1].Start)
	assert.Equal(t, 10.0, plan.Segments[2].Start)
	// Later clips stack above earlier ones.
	assert.Equal(t, 0, plan.Segments[0].ZOrder)
	assert.Equal(t, 2, plan.Segments[2].ZOrder)
}

// TestScheduleOverlapPullsStartBack verifies the cursor rule for
// overlapping transitions: the incoming clip starts overlap seconds before
// the outgoing clip ends, and each overlap shortens the total duration.
func TestScheduleOverlapPullsStartBack(t *testing.T) {
	clips := []model.ClipDescriptor{clip(0, 5), clip(1, 5)}
	effects := []*model.EffectPlan{{
		Kind:       model.TransitionCrossfade,
		OutgoingID: 0,
		IncomingID: 1,
		Overlap:    1.5,
		Envelope:   &model.Envelope{Duration: 1.5},
	}}

	plan, err := schedule.Schedule(clips, effects)
	assert.NoError(t, err)
	assert.Equal(t, 3.5, plan.Segments[1].Start)
	assert.Equal(t, 8.5, plan.Duration)
	assert.NotNil(t, plan.Segments[1].Envelope)
	assert.Equal(t, 1.5, plan.Segments[1].Envelope.Duration)
	assert.Equal(t, 0, plan.Clamped)
}

// TestScheduleCapsOverlapAtShorterClip verifies that an overlap longer than
// the shorter clip of the pair is capped at that clip's duration, counted in
// the plan, and carried into the stored envelope.
func TestScheduleCapsOverlapAtShorterClip(t *testing.T) {
	clips := []model.ClipDescriptor{clip(0, 10), clip(1, 2)}
	effects := []*model.EffectPlan{{
		Kind:       model.TransitionFade,
		OutgoingID: 0,
		IncomingID: 1,
		Overlap:    5,
		Envelope:   &model.Envelope{Duration: 5},
	}}

	plan, err := schedule.Schedule(clips, effects)
	assert.NoError(t, err)
	// Incoming clip lasts 2s, so the overlap caps at 2.
	assert.Equal(t, 8.0, plan.Segments[1].Start)
	assert.Equal(t, 10.0, plan.Duration)
	assert.Equal(t, 1, plan.Clamped)
	assert.Equal(t, 2.0, plan.Segments[1].Envelope.Duration)
	// The effect plan handed in is not mutated by the cap.
	assert.Equal(t, 5.0, effects[0].Envelope.Duration)
}

// TestScheduleDelegatedOffsetFollowsCap verifies that a capped overlap on a
// delegated (filter-backed) transition recomputes the filter offset against
// the outgoing clip duration.
func TestScheduleDelegatedOffsetFollowsCap(t *testing.T) {
	clips := []model.ClipDescriptor{clip(0, 6), clip(1, 1)}
	effects := []*model.EffectPlan{{
		Kind:       model.TransitionFilterCrossfade,
		OutgoingID: 0,
		IncomingID: 1,
		Overlap:    3,
		Envelope:   &model.Envelope{Duration: 3, Delegated: true, Offset: 3},
	}}

	plan, err := schedule.Schedule(clips, effects)
	assert.NoError(t, err)
	env := plan.Segments[1].Envelope
	assert.Equal(t, 1.0, env.Duration)
	// offset = outgoing duration - capped overlap.
	assert.Equal(t, 5.0, env.Offset)
}

// TestScheduleBridgeSplicesWithoutOverlap verifies that a bridge plan
// inserts the generated clip between the pair, butt-joined on both sides,
// stretching the timeline by the bridge duration.
func TestScheduleBridgeSplicesWithoutOverlap(t *testing.T) {
	clips := []model.ClipDescriptor{clip(0, 4), clip(1, 4)}
	bridge := clip(1, 1.25)
	bridge.SourceHandle = "gs://clips/bridge.mp4"
	effects := []*model.EffectPlan{{
		Kind:       model.TransitionAIBridge,
		OutgoingID: 0,
		IncomingID: 1,
		Bridge:     &bridge,
	}}

	plan, err := schedule.Schedule(clips, effects)
	assert.NoError(t, err)
	assert.Len(t, plan.Segments, 3)
	assert.True(t, plan.Segments[1].Bridge)
	assert.Equal(t, 4.0, plan.Segments[1].Start)
	assert.Equal(t, 5.25, plan.Segments[2].Start)
	assert.Equal(t, 9.25, plan.Duration)
}

// TestScheduleDegradedBridgeIsCut verifies that a bridge that fell back to a
// cut behaves exactly like a cut on the timeline while still being counted
// as degraded.
func TestScheduleDegradedBridgeIsCut(t *testing.T) {
	clips := []model.ClipDescriptor{clip(0, 4), clip(1, 4)}
	degraded := cut(0, 1)
	degraded.Kind = model.TransitionAIBridge
	degraded.Degraded = true
	plan, err := schedule.Schedule(clips, []*model.EffectPlan{degraded})
	assert.NoError(t, err)
	assert.Len(t, plan.Segments, 2)
	assert.Equal(t, 8.0, plan.Duration)
	assert.Equal(t, 1, plan.Degraded)
}

// TestScheduleSingleClip verifies that one clip and no transitions is a
// valid composition spanning just that clip.
func TestScheduleSingleClip(t *testing.T) {
	plan, err := schedule.Schedule([]model.ClipDescriptor{clip(0, 7)}, nil)
	assert.NoError(t, err)
	assert.Len(t, plan.Segments, 1)
	assert.Equal(t, 7.0, plan.Duration)
}

// TestScheduleEmptyClips verifies the empty input error.
func TestScheduleEmptyClips(t *testing.T) {
	_, err := schedule.Schedule(nil, nil)
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

// TestScheduleEffectCountMismatch verifies that the effect plan count must
// be exactly one less than the clip count.
func TestScheduleEffectCountMismatch(t *testing.T) {
	clips := []model.ClipDescriptor{clip(0, 4), clip(1, 4)}
	_, err := schedule.Schedule(clips, nil)
	assert.ErrorIs(t, err, model.ErrInvalidInput)
	_, err = schedule.Schedule(clips, []*model.EffectPlan{cut(0, 1), cut(1, 2)})
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

// TestScheduleDeterministic verifies the idempotence guarantee: scheduling
// the same inputs twice serializes to identical bytes.
func TestScheduleDeterministic(t *testing.T) {
	clips := []model.ClipDescriptor{clip(0, 5), clip(1, 3), clip(2, 8)}
	effects := []*model.EffectPlan{
		{
			Kind:       model.TransitionFade,
			OutgoingID: 0, IncomingID: 1,
			Overlap:  1,
			Envelope: &model.Envelope{Duration: 1, FadeColor: model.DefaultFadeColor},
		},
		cut(1, 2),
	}

	first, err := schedule.Schedule(clips, effects)
	assert.NoError(t, err)
	second, err := schedule.Schedule(clips, effects)
	assert.NoError(t, err)

	a, err := json.Marshal(first)
	assert.NoError(t, err)
	b, err := json.Marshal(second)
	assert.NoError(t, err)
	assert.Equal(t, a, b)
}
