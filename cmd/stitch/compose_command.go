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

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/CE-Demos/veo-clip-transitions/internal/cloud"
	"github.com/CE-Demos/veo-clip-transitions/internal/core/model"
	"github.com/CE-Demos/veo-clip-transitions/internal/core/render"
	"github.com/CE-Demos/veo-clip-transitions/internal/core/schedule"
	"github.com/CE-Demos/veo-clip-transitions/internal/core/transition"
)

type composeFlags struct {
	output      string
	kind        string
	duration    float64
	fadeColor   string
	direction   string
	workers     int
	ffmpegPath  string
	ffprobePath string
}

func newComposeCommand() *cobra.Command {
	flags := &composeFlags{}

	cmd := &cobra.Command{
		Use:   "stitch <clip-directory>",
		Short: "Join the video files of a directory with the chosen transition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompose(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "composition.mp4", "path of the output file")
	cmd.Flags().StringVarP(&flags.kind, "transition", "t", "cut", "transition between clips (cut, fade, crossfade, slide, wipe, filter-crossfade)")
	cmd.Flags().Float64VarP(&flags.duration, "duration", "d", 0.5, "transition duration in seconds")
	cmd.Flags().StringVar(&flags.fadeColor, "fade-color", "", "color a fade dips through")
	cmd.Flags().StringVar(&flags.direction, "direction", "", "edge a slide enters from (right, left, top, bottom)")
	cmd.Flags().IntVar(&flags.workers, "workers", 0, "concurrent transition evaluations (0 for the default)")
	cmd.Flags().StringVar(&flags.ffmpegPath, "ffmpeg", "", "path to the ffmpeg binary (defaults to PATH lookup)")
	cmd.Flags().StringVar(&flags.ffprobePath, "ffprobe", "", "path to the ffprobe binary (defaults to PATH lookup)")

	return cmd
}

func runCompose(cmd *cobra.Command, dir string, flags *composeFlags) error {
	kind, err := model.ParseTransitionKind(flags.kind)
	if err != nil {
		return err
	}
	if kind == model.TransitionAIBridge {
		return fmt.Errorf("bridge transitions need the composition server; pick a local transition")
	}

	executor, err := newExecutor(flags)
	if err != nil {
		return err
	}

	paths, err := listClipFiles(dir)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no video files found in %s", dir)
	}

	ctx := cmd.Context()
	clips := make([]model.ClipDescriptor, 0, len(paths))
	for i, path := range paths {
		clip, err := executor.DescribeClip(ctx, i, path)
		if err != nil {
			return fmt.Errorf("probe %s: %w", path, err)
		}
		clips = append(clips, clip)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Found %d clips in %s\n", len(clips), dir)

	spec := model.TransitionSpec{
		Kind:      kind,
		Duration:  flags.duration,
		FadeColor: flags.fadeColor,
		Direction: model.SlideDirection(flags.direction),
	}
	specs := make([]model.TransitionSpec, len(clips)-1)
	for i := range specs {
		specs[i] = spec
	}

	planner := transition.NewDefaultPlanner()
	if flags.workers > 0 {
		planner.SetWorkers(flags.workers)
	}
	effects, err := planner.Evaluate(ctx, clips, specs)
	if err != nil {
		return err
	}

	plan, err := schedule.Schedule(clips, effects)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Planned %.2fs timeline (%d clamped transitions)\n", plan.Duration, plan.Clamped)

	if err := executor.Render(ctx, plan, flags.output); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", flags.output)
	return nil
}

func newExecutor(flags *composeFlags) (*render.Executor, error) {
	if flags.ffmpegPath != "" && flags.ffprobePath != "" {
		return render.NewExecutorAt(flags.ffmpegPath, flags.ffprobePath), nil
	}
	return render.NewExecutor()
}

// listClipFiles returns the video files of a directory in name order, the
// same ordering the server applies to a clip folder in GCS.
func listClipFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if !cloud.IsVideoObject(entry.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}
