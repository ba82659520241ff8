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

// Package schedule places evaluated clips on a shared timeline. The
// scheduler is deterministic and side-effect free: given the same clips and
// effect plans it emits the same composition plan, so callers can rebuild a
// plan at any point without drift.
package schedule

import (
	"fmt"
	"log/slog"

	"github.com/CE-Demos/veo-clip-transitions/internal/core/model"
)

// Schedule walks the clips in order with a timeline cursor and applies the
// effect plan for each adjacent pair. An overlapping transition pulls the
// incoming clip's start back by the overlap amount; a bridge plan splices
// the generated clip between the pair with no overlap on either side. The
// requested overlap is capped at the duration of the shorter clip of the
// pair; a capped overlap is logged and counted, never an error.
//
// len(effects) must be len(clips)-1. A single clip yields a one-segment
// plan; no clips is an input error.
func Schedule(clips []model.ClipDescriptor, effects []*model.EffectPlan) (*model.CompositionPlan, error) {
	if len(clips) == 0 {
		return nil, fmt.Errorf("%w: no clips to schedule", model.ErrInvalidInput)
	}
	if len(effects) != len(clips)-1 {
		return nil, fmt.Errorf("%w: %d clips need %d effect plans, got %d",
			model.ErrInvalidInput, len(clips), len(clips)-1, len(effects))
	}

	plan := &model.CompositionPlan{
		Segments: make([]model.PlacedSegment, 0, len(clips)+len(effects)),
	}

	cursor := 0.0
	place := func(clip model.ClipDescriptor, start float64, env *model.Envelope, bridge bool) {
		plan.Segments = append(plan.Segments, model.PlacedSegment{
			Clip:     clip,
			Start:    start,
			End:      start + clip.Duration,
			ZOrder:   len(plan.Segments),
			Envelope: env,
			Bridge:   bridge,
		})
		cursor = start + clip.Duration
	}

	place(clips[0], 0, nil, false)
	for i, effect := range effects {
		incoming := clips[i+1]
		if effect == nil {
			return nil, fmt.Errorf("%w: missing effect plan for pair %d", model.ErrInvalidInput, i)
		}
		if effect.Degraded {
			plan.Degraded++
		}
		if effect.Bridge != nil {
			// Generated bridge clip: butt-joined on both sides.
			place(*effect.Bridge, cursor, nil, true)
			place(incoming, cursor, nil, false)
			continue
		}

		overlap := effect.Overlap
		if max := min(clips[i].Duration, incoming.Duration); overlap > max {
			slog.Warn("transition overlap capped at shorter clip duration",
				"pair", i,
				"requested", overlap,
				"capped", max)
			overlap = max
			plan.Clamped++
		}
		env := effect.Envelope
		if env != nil && overlap != env.Duration {
			clone := *env
			clone.Duration = overlap
			if clone.Delegated {
				clone.Offset = clips[i].Duration - overlap
				if clone.Offset < 0 {
					clone.Offset = 0
				}
			}
			env = &clone
		}
		start := cursor - overlap
		if start < 0 {
			start = 0
		}
		place(incoming, start, env, false)
	}

	plan.Duration = cursor
	return plan, nil
}
