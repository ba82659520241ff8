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

// Package transition_test covers the AI bridge strategy against fake frame
// extraction and generation services: the bridge plan on success and the
// cut degradation on every failure path.
package transition_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/CE-Demos/veo-clip-transitions/internal/core/generation"
	"github.com/CE-Demos/veo-clip-transitions/internal/core/model"
	"github.com/CE-Demos/veo-clip-transitions/internal/core/transition"
)

// fakeFrames serves canned stills and can be failed per side.
type fakeFrames struct {
	firstErr, lastErr error
}

func (f *fakeFrames) ExtractFirstFrame(_ context.Context, _ model.ClipDescriptor) (generation.FrameImage, error) {
	if f.firstErr != nil {
		return generation.FrameImage{}, f.firstErr
	}
	return generation.FrameImage{Bytes: []byte("first"), MIMEType: "image/png"}, nil
}

func (f *fakeFrames) ExtractLastFrame(_ context.Context, _ model.ClipDescriptor) (generation.FrameImage, error) {
	if f.lastErr != nil {
		return generation.FrameImage{}, f.lastErr
	}
	return generation.FrameImage{Bytes: []byte("last"), MIMEType: "image/png"}, nil
}

// scriptedService scripts the generation round trip.
type scriptedService struct {
	submitErr error
	responses []generation.PollResponse
	lastReq   generation.SubmitRequest
}

func (s *scriptedService) Submit(_ context.Context, req generation.SubmitRequest) (string, error) {
	s.lastReq = req
	if s.submitErr != nil {
		return "", s.submitErr
	}
	return "operations/bridge-1", nil
}

func (s *scriptedService) Poll(_ context.Context, _ string) (generation.PollResponse, error) {
	if len(s.responses) == 0 {
		return generation.PollResponse{}, nil
	}
	next := s.responses[0]
	if len(s.responses) > 1 {
		s.responses = s.responses[1:]
	}
	return next, nil
}

func bridgeStrategy(svc generation.Service, frames transition.FrameExtractor) *transition.AIBridge {
	return transition.NewAIBridge(frames, svc, transition.BridgeConfig{
		OutputURIPrefix:     "gs://bridges/run-1",
		ClipDurationSeconds: 5,
		DecimationPasses:    2,
		SpeedFactor:         2,
		Polling:             generation.Options{PollInterval: time.Microsecond, MaxAttempts: 10},
	})
}

// TestAIBridgeSuccess verifies the happy path: the boundary frames feed the
// request, and the plan references the generated clip with the
// post-processed duration (5s raw, two halving passes, then 2x speed gives
// 0.625s) and the outgoing clip's frame size.
func TestAIBridgeSuccess(t *testing.T) {
	svc := &scriptedService{responses: []generation.PollResponse{
		{}, {Done: true, ResultURI: "gs://bridges/run-1/transition_0/out.mp4"},
	}}
	s := bridgeStrategy(svc, &fakeFrames{})

	plan, err := s.Apply(context.Background(), hd(0, 8), hd(1, 8),
		model.TransitionSpec{Kind: model.TransitionAIBridge, Prompt: "match the motion"})
	assert.NoError(t, err)
	assert.Equal(t, model.TransitionAIBridge, plan.Kind)
	assert.False(t, plan.Degraded)
	assert.NotNil(t, plan.Bridge)
	assert.Equal(t, "gs://bridges/run-1/transition_0/out.mp4", plan.Bridge.SourceHandle)
	assert.Equal(t, 0.625, plan.Bridge.Duration)
	assert.Equal(t, model.FrameSize{Width: 1920, Height: 1080}, plan.Bridge.FrameSize)
	assert.Equal(t, 0.0, plan.Overlap)

	// The request carried the outgoing clip's last frame, the incoming
	// clip's first frame, and the prompt.
	assert.Equal(t, []byte("last"), svc.lastReq.FirstFrame.Bytes)
	assert.Equal(t, []byte("first"), svc.lastReq.LastFrame.Bytes)
	assert.Equal(t, "match the motion", svc.lastReq.Prompt)
	assert.Equal(t, "gs://bridges/run-1/transition_0", svc.lastReq.OutputURI)
}

// TestAIBridgeDegradesOnSubmitFailure verifies that a rejected submission
// yields the cut plan for the pair, degraded, with no error.
func TestAIBridgeDegradesOnSubmitFailure(t *testing.T) {
	svc := &scriptedService{submitErr: errors.New("permission denied")}
	s := bridgeStrategy(svc, &fakeFrames{})

	plan, err := s.Apply(context.Background(), hd(0, 8), hd(1, 8), model.TransitionSpec{Kind: model.TransitionAIBridge})
	assert.NoError(t, err)
	assert.Equal(t, model.TransitionCut, plan.Kind)
	assert.True(t, plan.Degraded)
	assert.Nil(t, plan.Bridge)
}

// TestAIBridgeDegradesOnGenerationFailure verifies the fallback when the
// operation completes with a service error.
func TestAIBridgeDegradesOnGenerationFailure(t *testing.T) {
	svc := &scriptedService{responses: []generation.PollResponse{
		{Done: true, Err: errors.New("generation rejected")},
	}}
	plan, err := bridgeStrategy(svc, &fakeFrames{}).
		Apply(context.Background(), hd(0, 8), hd(1, 8), model.TransitionSpec{Kind: model.TransitionAIBridge})
	assert.NoError(t, err)
	assert.True(t, plan.Degraded)
	assert.Equal(t, model.TransitionCut, plan.Kind)
}

// TestAIBridgeDegradesOnTimeout verifies the fallback when the poll ceiling
// is exhausted.
func TestAIBridgeDegradesOnTimeout(t *testing.T) {
	svc := &scriptedService{} // never done
	plan, err := bridgeStrategy(svc, &fakeFrames{}).
		Apply(context.Background(), hd(0, 8), hd(1, 8), model.TransitionSpec{Kind: model.TransitionAIBridge})
	assert.NoError(t, err)
	assert.True(t, plan.Degraded)
}

// TestAIBridgeDegradesOnFrameExtraction verifies that failing to extract
// either boundary frame degrades without ever submitting a job.
func TestAIBridgeDegradesOnFrameExtraction(t *testing.T) {
	svc := &scriptedService{}
	plan, err := bridgeStrategy(svc, &fakeFrames{lastErr: errors.New("no stream")}).
		Apply(context.Background(), hd(0, 8), hd(1, 8), model.TransitionSpec{Kind: model.TransitionAIBridge})
	assert.NoError(t, err)
	assert.True(t, plan.Degraded)
	assert.Empty(t, svc.lastReq.OutputURI)
}

// TestAIBridgeDegradesOnCancel verifies that a canceled pipeline resolves
// the pair as a cut instead of an error.
func TestAIBridgeDegradesOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	svc := &scriptedService{}
	s := transition.NewAIBridge(&fakeFrames{}, svc, transition.BridgeConfig{
		OutputURIPrefix:     "gs://bridges/run-1",
		ClipDurationSeconds: 5,
		Polling:             generation.Options{PollInterval: time.Hour, MaxAttempts: 10},
	})
	plan, err := s.Apply(ctx, hd(0, 8), hd(1, 8), model.TransitionSpec{Kind: model.TransitionAIBridge})
	assert.NoError(t, err)
	assert.True(t, plan.Degraded)
}

// TestAIBridgePlannedDurationTracksConfig verifies the planned bridge
// duration comes from the bridge configuration alone, so it always agrees
// with the post-processing the render side applies to the downloaded clip.
func TestAIBridgePlannedDurationTracksConfig(t *testing.T) {
	svc := &scriptedService{responses: []generation.PollResponse{
		{Done: true, ResultURI: "gs://bridges/run-1/transition_0/out.mp4"},
	}}
	s := bridgeStrategy(svc, &fakeFrames{})

	plan, err := s.Apply(context.Background(), hd(0, 8), hd(1, 8),
		model.TransitionSpec{Kind: model.TransitionAIBridge, Duration: 4, Prompt: "sweep"})
	assert.NoError(t, err)
	assert.Equal(t, transition.EffectiveBridgeDuration(5, 2, 2), plan.Bridge.Duration)
}

// TestEffectiveBridgeDuration pins the post-processing arithmetic.
func TestEffectiveBridgeDuration(t *testing.T) {
	assert.Equal(t, 1.25, transition.EffectiveBridgeDuration(5, 2, 0))
	assert.Equal(t, 0.625, transition.EffectiveBridgeDuration(5, 2, 2))
	assert.Equal(t, 5.0, transition.EffectiveBridgeDuration(5, 0, 0))
}
