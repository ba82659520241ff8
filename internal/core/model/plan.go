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
// composition engine. This file holds the planning output types: the effect
// plan produced by a transition strategy for one adjacent pair, and the
// composition plan produced by the timeline scheduler for the whole run.
//
// Envelopes are stored as linear ramp parameters rather than as function
// values. Evaluating a ramp at a point in local time is a pure computation,
// so the envelope behaves like the time-indexed function the engine needs
// while the plan itself stays a comparable, serializable value. Two plans
// built from identical inputs marshal to identical bytes.
package model

// Ramp describes a linear interpolation from From to To over an overlap
// window. Progress is expressed as a fraction of the window in [0, 1].
type Ramp struct {
	From float64 `json:"from"`
	To   float64 `json:"to"`
}

// At evaluates the ramp at the given progress fraction. Progress outside
// [0, 1] is clamped, so envelope evaluation is total over all of local time.
func (r Ramp) At(progress float64) float64 {
	if progress < 0 {
		progress = 0
	} else if progress > 1 {
		progress = 1
	}
	return r.From + (r.To-r.From)*progress
}

// Constant reports whether the ramp never changes value.
func (r Ramp) Constant() bool { return r.From == r.To }

// ClipEnvelope carries the per-clip component of an overlap effect: an
// opacity ramp, an optional positional offset in pixels, and an optional
// mask-reveal ramp expressed as a fraction of the frame width.
type ClipEnvelope struct {
	Opacity Ramp  `json:"opacity"`
	OffsetX *Ramp `json:"offset_x,omitempty"`
	OffsetY *Ramp `json:"offset_y,omitempty"`
	Mask    *Ramp `json:"mask,omitempty"`
}

// Envelope is the time-indexed description of how the two participating
// clips are composited inside one overlap window. Local time zero is the
// start of the window; the window ends at Duration seconds.
type Envelope struct {
	// Duration of the overlap window in seconds. This is the realized
	// overlap, after clamping, not necessarily the requested duration.
	Duration float64 `json:"duration"`
	// Outgoing is the envelope applied to the earlier clip.
	Outgoing ClipEnvelope `json:"outgoing"`
	// Incoming is the envelope applied to the later clip, painted above the
	// outgoing clip unless stated otherwise.
	Incoming ClipEnvelope `json:"incoming"`
	// FadeColor is set for fade effects that dip through a solid color.
	FadeColor string `json:"fade_color,omitempty"`
	// Delegated marks an envelope whose opacity and mask values are computed
	// by the render executor's own filter graph rather than by this engine.
	// The executor receives only the kind, the window duration, and the
	// Offset below.
	Delegated bool `json:"delegated,omitempty"`
	// Offset is the start of the overlap window measured from the beginning
	// of the two-clip sub-render. Only meaningful when Delegated is true.
	Offset float64 `json:"offset,omitempty"`
}

// Sample is one evaluated point of an envelope: the opacities of the two
// clips, the incoming clip's positional offset, and the mask reveal fraction.
type Sample struct {
	OutgoingOpacity float64
	IncomingOpacity float64
	IncomingOffsetX float64
	IncomingOffsetY float64
	MaskReveal      float64
}

// At evaluates the envelope at local time t seconds into the overlap window.
func (e *Envelope) At(t float64) Sample {
	progress := 0.0
	if e.Duration > 0 {
		progress = t / e.Duration
	}
	s := Sample{
		OutgoingOpacity: e.Outgoing.Opacity.At(progress),
		IncomingOpacity: e.Incoming.Opacity.At(progress),
		MaskReveal:      1,
	}
	if e.Incoming.OffsetX != nil {
		s.IncomingOffsetX = e.Incoming.OffsetX.At(progress)
	}
	if e.Incoming.OffsetY != nil {
		s.IncomingOffsetY = e.Incoming.OffsetY.At(progress)
	}
	if e.Incoming.Mask != nil {
		s.MaskReveal = e.Incoming.Mask.At(progress)
	}
	return s
}

// EffectPlan is the output of one transition strategy invocation for one
// adjacent clip pair. Exactly one of Envelope or Bridge is set: an envelope
// describes an overlap-based effect, a bridge references a newly generated
// clip spliced between the pair with zero overlap. An effect plan never
// refers to clips other than the two it was computed for.
type EffectPlan struct {
	Kind TransitionKind `json:"kind"`
	// OutgoingID and IncomingID are the IDs of the two clips the plan was
	// computed for.
	OutgoingID int `json:"outgoing_id"`
	IncomingID int `json:"incoming_id"`
	// Overlap is the requested overlap in seconds. Zero for cuts and for
	// bridge plans. The scheduler may realize less after clamping.
	Overlap  float64   `json:"overlap"`
	Envelope *Envelope `json:"envelope,omitempty"`
	Bridge   *ClipDescriptor `json:"bridge,omitempty"`
	// Degraded is set when the strategy fell back to a cut after a failed
	// or timed-out generation job.
	Degraded bool `json:"degraded,omitempty"`
}

// PlacedSegment is one clip placed on the shared timeline of a composition
// plan. Segments are ordered by start offset; a segment may overlap only its
// immediate predecessor and successor, and every overlap is explained by
// exactly one pairwise transition.
type PlacedSegment struct {
	Clip ClipDescriptor `json:"clip"`
	// Start and End are offsets in seconds from the plan origin.
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	// ZOrder is the paint order when segments overlap. The later-placed
	// clip carries the higher z-order and is painted on top unless its
	// envelope says otherwise.
	ZOrder int `json:"z_order"`
	// Envelope, when set, shapes this segment's entry over the overlap it
	// shares with its predecessor.
	Envelope *Envelope `json:"envelope,omitempty"`
	// Bridge marks a segment that is a generated bridge clip rather than a
	// source clip.
	Bridge bool `json:"bridge,omitempty"`
}

// CompositionPlan is the scheduler's output: every segment placed on one
// shared timeline, plus the total duration. The plan is a pure value; the
// render executor consumes it to produce the final media file.
type CompositionPlan struct {
	Segments []PlacedSegment `json:"segments"`
	// Duration is the final cursor value: the sum of clip durations, minus
	// the realized overlaps, plus the durations of any inserted bridges.
	Duration float64 `json:"duration"`
	// Clamped counts the transitions whose requested duration exceeded a
	// neighboring clip and was reduced.
	Clamped int `json:"clamped,omitempty"`
	// Degraded counts the transitions that fell back to a cut.
	Degraded int `json:"degraded,omitempty"`
}
