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

// Package render drives FFmpeg and ffprobe. This file reads clip metadata
// via ffprobe's JSON output.
package render

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/CE-Demos/veo-clip-transitions/internal/core/model"
)

// ProbeInfo is the subset of ffprobe output the engine needs.
type ProbeInfo struct {
	Duration float64
	Width    int
	Height   int
	HasAudio bool
}

// probeResult mirrors the ffprobe JSON layout.
type probeResult struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
	Streams []struct {
		CodecType string `json:"codec_type"`
		Width     int    `json:"width"`
		Height    int    `json:"height"`
	} `json:"streams"`
}

// Probe reads the container duration and the dimensions of the first video
// stream of a local file.
func (e *Executor) Probe(ctx context.Context, path string) (ProbeInfo, error) {
	out, err := e.probe(ctx, []string{
		"-v", "error",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	})
	if err != nil {
		return ProbeInfo{}, err
	}

	var result probeResult
	if err := json.Unmarshal(out, &result); err != nil {
		return ProbeInfo{}, fmt.Errorf("parsing ffprobe output for %s: %w", path, err)
	}

	info := ProbeInfo{}
	info.Duration, err = strconv.ParseFloat(result.Format.Duration, 64)
	if err != nil {
		return ProbeInfo{}, fmt.Errorf("no usable duration for %s: %w", path, err)
	}
	for _, stream := range result.Streams {
		switch stream.CodecType {
		case "video":
			if info.Width == 0 {
				info.Width = stream.Width
				info.Height = stream.Height
			}
		case "audio":
			info.HasAudio = true
		}
	}
	if info.Width == 0 {
		return ProbeInfo{}, fmt.Errorf("%w: %s has no video stream", model.ErrInvalidInput, path)
	}
	return info, nil
}

// DescribeClip probes a local file into a clip descriptor. The source
// handle of the descriptor is the local path, which downstream frame
// extraction and rendering operate on.
func (e *Executor) DescribeClip(ctx context.Context, id int, path string) (model.ClipDescriptor, error) {
	info, err := e.Probe(ctx, path)
	if err != nil {
		return model.ClipDescriptor{}, err
	}
	return model.ClipDescriptor{
		ID:           id,
		SourceHandle: path,
		Duration:     info.Duration,
		FrameSize:    model.FrameSize{Width: info.Width, Height: info.Height},
		HasAudio:     info.HasAudio,
	}, nil
}
