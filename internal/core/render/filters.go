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

// Package render drives FFmpeg and ffprobe. This file builds the
// filter-graph strings for joining two clips. All builders are pure: given
// the same envelope they emit the same string, which keeps rendered output
// as deterministic as the plan that produced it.
package render

import (
	"fmt"
	"strconv"

	"github.com/CE-Demos/veo-clip-transitions/internal/core/model"
)

// JoinTransitionName maps an overlap envelope to the xfade transition that
// realizes it. The mapping reads the envelope's shape, not a kind tag, so a
// scheduler-capped or hand-built envelope still renders correctly:
//
//   - a positional ramp on the incoming clip is a slide from the edge the
//     ramp starts beyond
//   - a mask ramp is a wipe
//   - a double opacity ramp that dips through a color is a fade through
//     black or white
//   - anything else, including the delegated filter crossfade, is the plain
//     xfade blend
func JoinTransitionName(env *model.Envelope) string {
	if env == nil {
		return ""
	}
	if in := env.Incoming; in.OffsetX != nil || in.OffsetY != nil {
		switch {
		case in.OffsetX != nil && in.OffsetX.From > 0:
			return "slideleft"
		case in.OffsetX != nil:
			return "slideright"
		case in.OffsetY != nil && in.OffsetY.From > 0:
			return "slideup"
		default:
			return "slidedown"
		}
	}
	if env.Incoming.Mask != nil {
		return "wiperight"
	}
	if !env.Outgoing.Opacity.Constant() && env.FadeColor != "" {
		if env.FadeColor == "white" {
			return "fadewhite"
		}
		return "fadeblack"
	}
	return "fade"
}

// silentAudioSource is the lavfi expression that stands in for the audio
// track of a clip that has none, such as a generated bridge clip.
const silentAudioSource = "anullsrc=channel_layout=stereo:sample_rate=48000"

// SilentAudioArgs returns the ffmpeg input arguments for a silent stereo
// track trimmed to the given duration. The caller references it in the
// filter graph by the input index it lands on.
func SilentAudioArgs(duration float64) []string {
	return []string{"-f", "lavfi", "-t", formatSeconds(duration), "-i", silentAudioSource}
}

// JoinFilter builds the filter_complex for stitching two inputs with an
// overlap envelope. The blend window starts offset seconds into the first
// input; for delegated envelopes the recorded offset is used, otherwise it
// is derived from the first input's duration. Audio crossfades over the
// same window, reading from the given stream labels so a silent side can
// point at a substitute input.
func JoinFilter(env *model.Envelope, firstDuration float64, firstAudio, secondAudio string) string {
	offset := env.Offset
	if !env.Delegated {
		offset = firstDuration - env.Duration
		if offset < 0 {
			offset = 0
		}
	}
	return fmt.Sprintf(
		"[0:v][1:v]xfade=transition=%s:duration=%s:offset=%s,format=yuv420p[v];[%s][%s]acrossfade=d=%s[a]",
		JoinTransitionName(env),
		formatSeconds(env.Duration),
		formatSeconds(offset),
		firstAudio,
		secondAudio,
		formatSeconds(env.Duration))
}

// ConcatFilter builds the filter_complex for a butt join of two inputs,
// used for cuts and for splicing bridge clips. Audio stream labels are
// passed in for the same reason as in JoinFilter.
func ConcatFilter(firstAudio, secondAudio string) string {
	return fmt.Sprintf("[0:v][%s][1:v][%s]concat=n=2:v=1:a=1[v][a]", firstAudio, secondAudio)
}

// DecimationFilters returns the video and audio filters for one halving
// pass of frame removal: every second frame is dropped and the timestamps
// are rebuilt so the clip plays at the same rate with half the length.
func DecimationFilters() (video, audio string) {
	return "select='not(mod(n,2))',setpts=N/FRAME_RATE/TB",
		"aselect='not(mod(n,2))',asetpts=N/SR/TB"
}

// SpeedFilters returns the video and audio filters for a playback speed
// change. Speed must be in atempo's accepted range of 0.5 to 2 per filter
// stage; the engine only uses the 2x stage.
func SpeedFilters(speed float64) (video, audio string) {
	return fmt.Sprintf("setpts=PTS/%s", formatSeconds(speed)),
		fmt.Sprintf("atempo=%s", formatSeconds(speed))
}

// formatSeconds renders a float without trailing zeros so filter strings
// stay byte-stable across runs.
func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
