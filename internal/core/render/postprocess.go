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

// Package render drives FFmpeg and ffprobe. This file post-processes raw
// generated bridge clips: the generation service produces them longer and
// slower than the timeline wants, so each decimation pass halves the frame
// count and a final speed-up compresses what remains. The result's duration
// must match what the bridge strategy predicted when it built the plan.
package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// PostProcessBridge rewrites a raw bridge clip into its timeline form:
// passes halving decimations followed by a speed-up. A speed of zero or
// less skips the speed stage. Generated clips usually carry no audio
// stream, in which case the audio filters are left off entirely.
func (e *Executor) PostProcessBridge(ctx context.Context, inputPath, outputPath string, passes int, speed float64) error {
	info, err := e.Probe(ctx, inputPath)
	if err != nil {
		return err
	}

	workDir, err := os.MkdirTemp("", "bridge-post-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(workDir)

	current := inputPath
	for i := 0; i < passes; i++ {
		next := filepath.Join(workDir, fmt.Sprintf("decimated_%d.mp4", i))
		if speed <= 0 && i == passes-1 {
			next = outputPath
		}
		video, audio := DecimationFilters()
		args := []string{"-y", "-hide_banner", "-i", current, "-vf", video}
		if info.HasAudio {
			args = append(args, "-af", audio)
		}
		if err := e.run(ctx, append(args, next)); err != nil {
			return fmt.Errorf("decimation pass %d: %w", i+1, err)
		}
		current = next
	}

	if speed <= 0 {
		if passes == 0 {
			return copyFile(current, outputPath)
		}
		return nil
	}
	video, audio := SpeedFilters(speed)
	args := []string{"-y", "-hide_banner", "-i", current, "-vf", video}
	if info.HasAudio {
		args = append(args, "-af", audio)
	}
	if err := e.run(ctx, append(args, outputPath)); err != nil {
		return fmt.Errorf("speed stage: %w", err)
	}
	return nil
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o644)
}
