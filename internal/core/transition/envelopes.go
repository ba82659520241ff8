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
// into an effect plan. This file holds the five local, envelope-producing
// strategies: cut, fade, crossfade, slide, and wipe. None of them perform
// I/O; each is a pure mapping from (pair, spec) to an opacity, position, or
// mask envelope over the overlap window.
package transition

import (
	"context"

	"github.com/CE-Demos/veo-clip-transitions/internal/core/model"
)

// Cut joins the pair with no overlap and no effect. It never fails, which
// also makes it the universal degradation target.
type Cut struct{}

func (Cut) Kind() model.TransitionKind { return model.TransitionCut }

func (Cut) Apply(_ context.Context, outgoing, incoming model.ClipDescriptor, _ model.TransitionSpec) (*model.EffectPlan, error) {
	return cutPlan(outgoing, incoming), nil
}

// Fade ramps the outgoing clip down and the incoming clip up at the same
// time, so both sit at half opacity mid-window and the image dips through
// the fade color. The simultaneous double ramp reproduces the historical
// fade pipeline exactly; Crossfade below is the dip-free correction.
type Fade struct{}

func (Fade) Kind() model.TransitionKind { return model.TransitionFade }

func (Fade) Apply(_ context.Context, outgoing, incoming model.ClipDescriptor, spec model.TransitionSpec) (*model.EffectPlan, error) {
	if spec.Duration <= 0 {
		return cutPlan(outgoing, incoming), nil
	}
	color := spec.FadeColor
	if color == "" {
		color = model.DefaultFadeColor
	}
	return &model.EffectPlan{
		Kind:       model.TransitionFade,
		OutgoingID: outgoing.ID,
		IncomingID: incoming.ID,
		Overlap:    spec.Duration,
		Envelope: &model.Envelope{
			Duration:  spec.Duration,
			Outgoing:  model.ClipEnvelope{Opacity: model.Ramp{From: 1, To: 0}},
			Incoming:  model.ClipEnvelope{Opacity: model.Ramp{From: 0, To: 1}},
			FadeColor: color,
		},
	}, nil
}

// Crossfade ramps only the incoming clip from transparent to opaque while
// the outgoing clip remains fully visible underneath, which prevents the
// double-fade-to-black artifact of Fade.
type Crossfade struct{}

func (Crossfade) Kind() model.TransitionKind { return model.TransitionCrossfade }

func (Crossfade) Apply(_ context.Context, outgoing, incoming model.ClipDescriptor, spec model.TransitionSpec) (*model.EffectPlan, error) {
	if spec.Duration <= 0 {
		return cutPlan(outgoing, incoming), nil
	}
	return &model.EffectPlan{
		Kind:       model.TransitionCrossfade,
		OutgoingID: outgoing.ID,
		IncomingID: incoming.ID,
		Overlap:    spec.Duration,
		Envelope: &model.Envelope{
			Duration: spec.Duration,
			Outgoing: model.ClipEnvelope{Opacity: model.Ramp{From: 1, To: 1}},
			Incoming: model.ClipEnvelope{Opacity: model.Ramp{From: 0, To: 1}},
		},
	}, nil
}

// Slide moves the incoming clip from off-frame to its final centered
// position over the window while the outgoing clip stays static underneath.
// Both clips stay fully opaque throughout. Requires matching frame sizes.
type Slide struct{}

func (Slide) Kind() model.TransitionKind { return model.TransitionSlide }

func (Slide) Apply(_ context.Context, outgoing, incoming model.ClipDescriptor, spec model.TransitionSpec) (*model.EffectPlan, error) {
	if err := requirePixelAligned(model.TransitionSlide, outgoing, incoming); err != nil {
		return nil, err
	}
	if spec.Duration <= 0 {
		return cutPlan(outgoing, incoming), nil
	}

	incomingEnv := model.ClipEnvelope{Opacity: model.Ramp{From: 1, To: 1}}
	w := float64(incoming.FrameSize.Width)
	h := float64(incoming.FrameSize.Height)
	switch spec.Direction {
	case model.SlideFromLeft:
		incomingEnv.OffsetX = &model.Ramp{From: -w, To: 0}
	case model.SlideFromTop:
		incomingEnv.OffsetY = &model.Ramp{From: -h, To: 0}
	case model.SlideFromBottom:
		incomingEnv.OffsetY = &model.Ramp{From: h, To: 0}
	default:
		// The historical slide always entered from the right edge.
		incomingEnv.OffsetX = &model.Ramp{From: w, To: 0}
	}

	return &model.EffectPlan{
		Kind:       model.TransitionSlide,
		OutgoingID: outgoing.ID,
		IncomingID: incoming.ID,
		Overlap:    spec.Duration,
		Envelope: &model.Envelope{
			Duration: spec.Duration,
			Outgoing: model.ClipEnvelope{Opacity: model.Ramp{From: 1, To: 1}},
			Incoming: incomingEnv,
		},
	}, nil
}

// Wipe reveals the incoming clip behind a hard boundary that travels across
// the frame width over the window. The mask ramp is the revealed fraction of
// the frame. Requires matching frame sizes.
type Wipe struct{}

func (Wipe) Kind() model.TransitionKind { return model.TransitionWipe }

func (Wipe) Apply(_ context.Context, outgoing, incoming model.ClipDescriptor, spec model.TransitionSpec) (*model.EffectPlan, error) {
	if err := requirePixelAligned(model.TransitionWipe, outgoing, incoming); err != nil {
		return nil, err
	}
	if spec.Duration <= 0 {
		return cutPlan(outgoing, incoming), nil
	}
	return &model.EffectPlan{
		Kind:       model.TransitionWipe,
		OutgoingID: outgoing.ID,
		IncomingID: incoming.ID,
		Overlap:    spec.Duration,
		Envelope: &model.Envelope{
			Duration: spec.Duration,
			Outgoing: model.ClipEnvelope{Opacity: model.Ramp{From: 1, To: 1}},
			Incoming: model.ClipEnvelope{
				Opacity: model.Ramp{From: 1, To: 1},
				Mask:    &model.Ramp{From: 0, To: 1},
			},
		},
	}, nil
}

// FilterCrossfade delegates the blend entirely to the render executor's
// filter-graph capability. The effect plan records only the kind, the
// window, and the time offset of the window within the two-clip sub-render;
// the executor computes the actual per-frame opacities.
type FilterCrossfade struct{}

func (FilterCrossfade) Kind() model.TransitionKind { return model.TransitionFilterCrossfade }

func (FilterCrossfade) Apply(_ context.Context, outgoing, incoming model.ClipDescriptor, spec model.TransitionSpec) (*model.EffectPlan, error) {
	if spec.Duration <= 0 {
		return cutPlan(outgoing, incoming), nil
	}
	offset := outgoing.Duration - spec.Duration
	if offset < 0 {
		offset = 0
	}
	return &model.EffectPlan{
		Kind:       model.TransitionFilterCrossfade,
		OutgoingID: outgoing.ID,
		IncomingID: incoming.ID,
		Overlap:    spec.Duration,
		Envelope: &model.Envelope{
			Duration:  spec.Duration,
			Delegated: true,
			Offset:    offset,
		},
	}, nil
}
