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

// Package render_test pins the pure filter-graph builders. These strings
// are what FFmpeg actually receives, so they are asserted byte for byte.
package render_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/CE-Demos/veo-clip-transitions/internal/core/model"
	"github.com/CE-Demos/veo-clip-transitions/internal/core/render"
)

// envelopeFor builds the envelope each strategy kind emits, without going
// through the strategy layer.
func slideEnvelope(from float64) *model.Envelope {
	return &model.Envelope{
		Duration: 1,
		Outgoing: model.ClipEnvelope{Opacity: model.Ramp{From: 1, To: 1}},
		Incoming: model.ClipEnvelope{
			Opacity: model.Ramp{From: 1, To: 1},
			OffsetX: &model.Ramp{From: from, To: 0},
		},
	}
}

// TestJoinTransitionName verifies the envelope-shape to xfade-name mapping
// for every strategy output.
func TestJoinTransitionName(t *testing.T) {
	// Fade: double ramp dipping through a color.
	fade := &model.Envelope{
		Duration:  1,
		Outgoing:  model.ClipEnvelope{Opacity: model.Ramp{From: 1, To: 0}},
		Incoming:  model.ClipEnvelope{Opacity: model.Ramp{From: 0, To: 1}},
		FadeColor: "black",
	}
	assert.Equal(t, "fadeblack", render.JoinTransitionName(fade))
	fade.FadeColor = "white"
	assert.Equal(t, "fadewhite", render.JoinTransitionName(fade))

	// Crossfade: incoming ramp over a held outgoing clip.
	crossfade := &model.Envelope{
		Duration: 1,
		Outgoing: model.ClipEnvelope{Opacity: model.Ramp{From: 1, To: 1}},
		Incoming: model.ClipEnvelope{Opacity: model.Ramp{From: 0, To: 1}},
	}
	assert.Equal(t, "fade", render.JoinTransitionName(crossfade))

	// Slides: the entry edge follows the sign of the positional ramp.
	assert.Equal(t, "slideleft", render.JoinTransitionName(slideEnvelope(1920)))
	assert.Equal(t, "slideright", render.JoinTransitionName(slideEnvelope(-1920)))

	// Wipe: mask ramp.
	wipe := &model.Envelope{
		Duration: 1,
		Outgoing: model.ClipEnvelope{Opacity: model.Ramp{From: 1, To: 1}},
		Incoming: model.ClipEnvelope{
			Opacity: model.Ramp{From: 1, To: 1},
			Mask:    &model.Ramp{From: 0, To: 1},
		},
	}
	assert.Equal(t, "wiperight", render.JoinTransitionName(wipe))

	// Delegated filter crossfade: the plain blend.
	delegated := &model.Envelope{Duration: 1, Delegated: true, Offset: 4}
	assert.Equal(t, "fade", render.JoinTransitionName(delegated))
}

// TestJoinFilterComputesOffset verifies the blend window placement: offset
// is the first input's duration minus the window, and a delegated envelope
// uses its recorded offset verbatim.
func TestJoinFilterComputesOffset(t *testing.T) {
	crossfade := &model.Envelope{
		Duration: 0.6,
		Outgoing: model.ClipEnvelope{Opacity: model.Ramp{From: 1, To: 1}},
		Incoming: model.ClipEnvelope{Opacity: model.Ramp{From: 0, To: 1}},
	}
	assert.Equal(t,
		"[0:v][1:v]xfade=transition=fade:duration=0.6:offset=4.4,format=yuv420p[v];[0:a][1:a]acrossfade=d=0.6[a]",
		render.JoinFilter(crossfade, 5, "0:a", "1:a"))

	delegated := &model.Envelope{Duration: 2, Delegated: true, Offset: 7.5}
	assert.Equal(t,
		"[0:v][1:v]xfade=transition=fade:duration=2:offset=7.5,format=yuv420p[v];[0:a][1:a]acrossfade=d=2[a]",
		render.JoinFilter(delegated, 100, "0:a", "1:a"))

	// A window longer than the first input floors the offset at zero.
	assert.Contains(t, render.JoinFilter(crossfade, 0.2, "0:a", "1:a"), "offset=0,")
}

// TestJoinFilterSilentSide verifies a silent side reads its audio from a
// substitute input label instead of a stream the file does not have.
func TestJoinFilterSilentSide(t *testing.T) {
	crossfade := &model.Envelope{
		Duration: 0.6,
		Outgoing: model.ClipEnvelope{Opacity: model.Ramp{From: 1, To: 1}},
		Incoming: model.ClipEnvelope{Opacity: model.Ramp{From: 0, To: 1}},
	}
	assert.Equal(t,
		"[0:v][1:v]xfade=transition=fade:duration=0.6:offset=4.4,format=yuv420p[v];[0:a][2:a]acrossfade=d=0.6[a]",
		render.JoinFilter(crossfade, 5, "0:a", "2:a"))
}

// TestConcatFilter pins the butt-join graph used for cuts and bridges,
// including the silent-bridge case where the second side's audio comes
// from a substitute input.
func TestConcatFilter(t *testing.T) {
	assert.Equal(t, "[0:v][0:a][1:v][1:a]concat=n=2:v=1:a=1[v][a]", render.ConcatFilter("0:a", "1:a"))
	assert.Equal(t, "[0:v][0:a][1:v][2:a]concat=n=2:v=1:a=1[v][a]", render.ConcatFilter("0:a", "2:a"))
}

// TestSilentAudioArgs pins the lavfi input that stands in for a missing
// audio track.
func TestSilentAudioArgs(t *testing.T) {
	assert.Equal(t,
		[]string{"-f", "lavfi", "-t", "1.25", "-i", "anullsrc=channel_layout=stereo:sample_rate=48000"},
		render.SilentAudioArgs(1.25))
}

// TestBridgePostFilters pins the decimation and speed stages applied to
// raw generated clips.
func TestBridgePostFilters(t *testing.T) {
	video, audio := render.DecimationFilters()
	assert.Equal(t, "select='not(mod(n,2))',setpts=N/FRAME_RATE/TB", video)
	assert.Equal(t, "aselect='not(mod(n,2))',asetpts=N/SR/TB", audio)

	video, audio = render.SpeedFilters(2)
	assert.Equal(t, "setpts=PTS/2", video)
	assert.Equal(t, "atempo=2", audio)
}
