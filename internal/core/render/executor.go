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

// Package render drives FFmpeg and ffprobe: probing clip metadata,
// extracting boundary stills, post-processing generated bridge clips, and
// flattening a composition plan into an output file. Everything that shells
// out lives behind the Executor; the filter-graph builders are pure string
// functions so they can be pinned in tests without a binary present.
package render

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
)

// Executor locates and runs the ffmpeg and ffprobe binaries.
type Executor struct {
	ffmpegPath  string
	ffprobePath string
}

// NewExecutor resolves both binaries from PATH. Either missing is a hard
// startup error; the engine cannot degrade its way around a missing
// renderer.
func NewExecutor() (*Executor, error) {
	ffmpegPath, err := exec.LookPath("ffmpeg")
	if err != nil {
		return nil, fmt.Errorf("ffmpeg not found in PATH: %w", err)
	}
	ffprobePath, err := exec.LookPath("ffprobe")
	if err != nil {
		return nil, fmt.Errorf("ffprobe not found in PATH: %w", err)
	}
	return &Executor{ffmpegPath: ffmpegPath, ffprobePath: ffprobePath}, nil
}

// NewExecutorAt builds an executor over explicit binary paths, used by
// configuration that pins the tool locations.
func NewExecutorAt(ffmpegPath, ffprobePath string) *Executor {
	return &Executor{ffmpegPath: ffmpegPath, ffprobePath: ffprobePath}
}

// run executes ffmpeg with the given arguments, surfacing stderr in the
// process output on failure.
func (e *Executor) run(ctx context.Context, args []string) error {
	slog.Debug("running ffmpeg", "args", args)
	cmd := exec.CommandContext(ctx, e.ffmpegPath, args...)
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg failed: %w", err)
	}
	return nil
}

// probe executes ffprobe and returns its stdout.
func (e *Executor) probe(ctx context.Context, args []string) ([]byte, error) {
	slog.Debug("running ffprobe", "args", args)
	out, err := exec.CommandContext(ctx, e.ffprobePath, args...).Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}
	return out, nil
}
