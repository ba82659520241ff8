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

// Package render drives FFmpeg and ffprobe. This file flattens a scheduled
// composition plan into one output file by stitching left to right: the
// running result is joined with the next segment, overlapped segments via
// the xfade graph and butt-joined segments via concat. Segment source
// handles must be local file paths.
package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/CE-Demos/veo-clip-transitions/internal/core/model"
)

// Render flattens the plan into outputPath. Intermediate files live in a
// temp directory that is removed when the render finishes. A single-segment
// plan is a plain transcode of that segment.
func (e *Executor) Render(ctx context.Context, plan *model.CompositionPlan, outputPath string) error {
	if plan == nil || len(plan.Segments) == 0 {
		return fmt.Errorf("%w: empty composition plan", model.ErrInvalidInput)
	}

	workDir, err := os.MkdirTemp("", "compose-render-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(workDir)

	current := plan.Segments[0].Clip.SourceHandle
	// runningDuration tracks the length of the accumulated result, which
	// the next join's offset is computed against.
	runningDuration := plan.Segments[0].Clip.Duration
	// Every stitched intermediate carries an [a] stream, so only the very
	// first segment can leave the accumulated side silent.
	runningHasAudio := plan.Segments[0].Clip.HasAudio

	for i := 1; i < len(plan.Segments); i++ {
		segment := plan.Segments[i]
		next := filepath.Join(workDir, fmt.Sprintf("stitch_%03d.mp4", i))
		if i == len(plan.Segments)-1 {
			next = outputPath
		}

		if err := e.stitchPair(ctx, current, runningHasAudio, segment, runningDuration, next); err != nil {
			return fmt.Errorf("joining segment %d: %w", i, err)
		}

		if env := segment.Envelope; env != nil {
			runningDuration += segment.Clip.Duration - env.Duration
		} else {
			runningDuration += segment.Clip.Duration
		}
		current = next
		runningHasAudio = true
	}

	if len(plan.Segments) == 1 {
		return e.run(ctx, []string{
			"-y", "-hide_banner",
			"-i", current,
			"-movflags", "+faststart",
			outputPath,
		})
	}
	return nil
}

// stitchPair joins the accumulated result with one more segment. A side
// without an audio stream gets a silent lavfi input appended and its graph
// label pointed there, so the audio half of the join always has two real
// streams to read.
func (e *Executor) stitchPair(ctx context.Context, first string, firstHasAudio bool, segment model.PlacedSegment, firstDuration float64, outputPath string) error {
	args := []string{
		"-y", "-hide_banner",
		"-i", first,
		"-i", segment.Clip.SourceHandle,
	}
	firstAudio, secondAudio := "0:a", "1:a"
	nextInput := 2
	if !firstHasAudio {
		args = append(args, SilentAudioArgs(firstDuration)...)
		firstAudio = fmt.Sprintf("%d:a", nextInput)
		nextInput++
	}
	if !segment.Clip.HasAudio {
		args = append(args, SilentAudioArgs(segment.Clip.Duration)...)
		secondAudio = fmt.Sprintf("%d:a", nextInput)
	}

	filter := ConcatFilter(firstAudio, secondAudio)
	if segment.Envelope != nil {
		filter = JoinFilter(segment.Envelope, firstDuration, firstAudio, secondAudio)
	}
	args = append(args,
		"-filter_complex", filter,
		"-map", "[v]",
		"-map", "[a]",
		"-movflags", "+faststart",
		outputPath,
	)
	return e.run(ctx, args)
}
