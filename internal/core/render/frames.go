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

// Package render drives FFmpeg and ffprobe. This file extracts the boundary
// stills that anchor a bridge generation request. Clip descriptors must
// carry local file paths by the time they reach this layer.
package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/CE-Demos/veo-clip-transitions/internal/core/generation"
	"github.com/CE-Demos/veo-clip-transitions/internal/core/model"
)

const frameMIMEType = "image/png"

// ExtractFirstFrame decodes the first frame of the clip to a PNG still.
func (e *Executor) ExtractFirstFrame(ctx context.Context, clip model.ClipDescriptor) (generation.FrameImage, error) {
	return e.extractFrame(ctx, clip, []string{
		"-y", "-hide_banner",
		"-i", clip.SourceHandle,
		"-frames:v", "1",
	})
}

// ExtractLastFrame decodes the final frame of the clip. Seeking relative to
// the end of file avoids decoding the whole clip; -update keeps ffmpeg
// overwriting the single output image until the final frame lands in it.
func (e *Executor) ExtractLastFrame(ctx context.Context, clip model.ClipDescriptor) (generation.FrameImage, error) {
	return e.extractFrame(ctx, clip, []string{
		"-y", "-hide_banner",
		"-sseof", "-0.25",
		"-i", clip.SourceHandle,
		"-update", "1",
	})
}

func (e *Executor) extractFrame(ctx context.Context, clip model.ClipDescriptor, args []string) (generation.FrameImage, error) {
	dir, err := os.MkdirTemp("", "frame-extract-")
	if err != nil {
		return generation.FrameImage{}, err
	}
	defer os.RemoveAll(dir)

	out := filepath.Join(dir, fmt.Sprintf("clip_%d.png", clip.ID))
	if err := e.run(ctx, append(args, out)); err != nil {
		return generation.FrameImage{}, fmt.Errorf("extracting frame of clip %d: %w", clip.ID, err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		return generation.FrameImage{}, fmt.Errorf("reading extracted frame of clip %d: %w", clip.ID, err)
	}
	return generation.FrameImage{Bytes: data, MIMEType: frameMIMEType}, nil
}
