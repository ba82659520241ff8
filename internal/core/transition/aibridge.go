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
// into an effect plan. This file holds the AI bridge strategy, the only one
// backed by a remote service. It extracts the boundary frames of the pair,
// submits an interpolation job, and waits for the long-running operation. A
// successful job yields a bridge-reference plan: a brand new clip spliced
// between the pair with zero overlap. Any failure, submission, service
// error, timeout, or pipeline cancellation, degrades that single pair to a
// cut and lets the run continue.
package transition

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/CE-Demos/veo-clip-transitions/internal/core/generation"
	"github.com/CE-Demos/veo-clip-transitions/internal/core/model"
)

// FrameExtractor supplies the boundary stills an interpolation request is
// built from. The render executor implements it.
type FrameExtractor interface {
	// ExtractFirstFrame returns the first frame of the clip as an encoded
	// still image.
	ExtractFirstFrame(ctx context.Context, clip model.ClipDescriptor) (generation.FrameImage, error)
	// ExtractLastFrame returns the final frame of the clip.
	ExtractLastFrame(ctx context.Context, clip model.ClipDescriptor) (generation.FrameImage, error)
}

// BridgeConfig tunes the generated bridge clips.
type BridgeConfig struct {
	// OutputURIPrefix is the gs:// prefix generated videos are written
	// under. The pair index is appended per job.
	OutputURIPrefix string
	// ClipDurationSeconds is the raw duration requested from the
	// generation service.
	ClipDurationSeconds float64
	// DecimationPasses is how many halving passes of frame removal the
	// post-processing stage applies to the raw clip.
	DecimationPasses int
	// SpeedFactor multiplies playback speed after decimation. Values <= 0
	// leave the rate untouched. The same factor drives the render-side
	// post-processing, so the planned duration always matches the clip
	// that lands on disk.
	SpeedFactor float64
	// Polling carries the job poll interval and attempt ceiling.
	Polling generation.Options
}

// EffectiveBridgeDuration computes the on-timeline duration of a generated
// clip after post-processing: each decimation pass halves it, then the speed
// factor divides what remains.
func EffectiveBridgeDuration(raw float64, passes int, speed float64) float64 {
	out := raw
	for i := 0; i < passes; i++ {
		out /= 2
	}
	if speed > 0 {
		out /= speed
	}
	return out
}

// AIBridge generates an interpolated bridge clip between the pair via the
// remote generation service.
type AIBridge struct {
	frames  FrameExtractor
	service generation.Service
	cfg     BridgeConfig
}

// NewAIBridge wires the strategy with its frame source, its generation
// service, and the bridge tuning options.
func NewAIBridge(frames FrameExtractor, service generation.Service, cfg BridgeConfig) *AIBridge {
	return &AIBridge{frames: frames, service: service, cfg: cfg}
}

func (*AIBridge) Kind() model.TransitionKind { return model.TransitionAIBridge }

// Apply runs the full round trip for one pair. The outgoing clip's last
// frame and the incoming clip's first frame anchor the interpolation; the
// job is then polled to a terminal state. Every failure path resolves to the
// cut plan for the same pair, marked degraded, with a warning diagnostic.
// Frame extraction failures degrade the same way since they leave nothing to
// submit.
func (s *AIBridge) Apply(ctx context.Context, outgoing, incoming model.ClipDescriptor, spec model.TransitionSpec) (*model.EffectPlan, error) {
	firstFrame, err := s.frames.ExtractLastFrame(ctx, outgoing)
	if err != nil {
		return s.degrade(outgoing, incoming, fmt.Errorf("extracting last frame of clip %d: %w", outgoing.ID, err)), nil
	}
	lastFrame, err := s.frames.ExtractFirstFrame(ctx, incoming)
	if err != nil {
		return s.degrade(outgoing, incoming, fmt.Errorf("extracting first frame of clip %d: %w", incoming.ID, err)), nil
	}

	req := generation.SubmitRequest{
		FirstFrame: firstFrame,
		LastFrame:  lastFrame,
		Prompt:     spec.Prompt,
		OutputURI:  fmt.Sprintf("%s/transition_%d", s.cfg.OutputURIPrefix, outgoing.ID),
	}

	job, err := generation.Submit(ctx, s.service, req, s.cfg.Polling)
	if err != nil {
		return s.degrade(outgoing, incoming, err), nil
	}
	resultURI, err := job.Wait(ctx)
	if err != nil {
		return s.degrade(outgoing, incoming, err), nil
	}

	slog.Info("bridge clip generated",
		"operation", job.ID(),
		"attempts", job.AttemptCount(),
		"result", resultURI)

	return &model.EffectPlan{
		Kind:       model.TransitionAIBridge,
		OutgoingID: outgoing.ID,
		IncomingID: incoming.ID,
		Bridge: &model.ClipDescriptor{
			ID:           incoming.ID,
			SourceHandle: resultURI,
			Duration:     EffectiveBridgeDuration(s.cfg.ClipDurationSeconds, s.cfg.DecimationPasses, s.cfg.SpeedFactor),
			FrameSize:    outgoing.FrameSize,
		},
	}, nil
}

// degrade resolves a failed bridge to the cut plan for the same pair. The
// failure is surfaced as a diagnostic, never as a run error.
func (s *AIBridge) degrade(outgoing, incoming model.ClipDescriptor, cause error) *model.EffectPlan {
	slog.Warn("bridge generation degraded to cut",
		"outgoing_clip", outgoing.ID,
		"incoming_clip", incoming.ID,
		"cause", cause)
	plan := cutPlan(outgoing, incoming)
	plan.Degraded = true
	return plan
}
