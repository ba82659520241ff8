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

// Package transition turns a requested transition between two adjacent clips
// into an effect plan the timeline scheduler can place. Each supported kind
// is one Strategy implementation behind a common contract; the historical
// codebase carried one full pipeline per kind, and this package is the
// single polymorphic replacement for that set.
//
// Strategies are pure with respect to scheduling: they never touch the
// composition plan, only describe the overlap effect (or bridge clip) for
// the one pair they were handed. The AI bridge strategy is the only one
// that performs I/O, and even its failures stay local: a failed or
// timed-out generation degrades that single pair to a cut instead of
// failing the run.
package transition

import (
	"context"
	"fmt"

	"github.com/CE-Demos/veo-clip-transitions/internal/core/model"
)

// Strategy is the common contract for every transition kind. Apply inspects
// the two adjacent clip descriptors and the spec and yields the effect plan
// for that pair.
type Strategy interface {
	// Kind identifies which transition this strategy renders.
	Kind() model.TransitionKind
	// Apply computes the effect plan for the pair (outgoing, incoming).
	Apply(ctx context.Context, outgoing, incoming model.ClipDescriptor, spec model.TransitionSpec) (*model.EffectPlan, error)
}

// cutPlan is the trivial effect plan shared by the cut strategy and by every
// degradation path: no overlap, both clips at constant full opacity.
func cutPlan(outgoing, incoming model.ClipDescriptor) *model.EffectPlan {
	return &model.EffectPlan{
		Kind:       model.TransitionCut,
		OutgoingID: outgoing.ID,
		IncomingID: incoming.ID,
	}
}

// requirePixelAligned rejects pairs whose frame sizes differ. Strategies
// that composite with pixel offsets or masks cannot operate across
// mismatched frames.
func requirePixelAligned(kind model.TransitionKind, outgoing, incoming model.ClipDescriptor) error {
	if outgoing.FrameSize.Equals(incoming.FrameSize) {
		return nil
	}
	return fmt.Errorf("%w: %s requires matching frames, clip %d is %dx%d and clip %d is %dx%d",
		model.ErrUnsupportedFrameSize, kind,
		outgoing.ID, outgoing.FrameSize.Width, outgoing.FrameSize.Height,
		incoming.ID, incoming.FrameSize.Width, incoming.FrameSize.Height)
}
