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

// Package cloud provides components for interacting with Google Cloud services.
// This file implements the generation service contract on top of the Veo
// long-running operation API. Submission starts a predict operation seeded
// with the two boundary frames; polling reads the operation back until it
// reports done. The engine's job layer owns the polling cadence and state
// machine; this file only translates between the service contract and the
// GenAI client types.
//
// Structs:
//   - VeoGenerationService: The generation.Service implementation backed by Veo.
//
// Functions:
//   - NewVeoGenerationService: Constructor wiring the client, the rate-limited
//     model wrapper, and the model configuration.
package cloud

import (
	"context"
	"fmt"
	"sync"

	"google.golang.org/genai"

	"github.com/CE-Demos/veo-clip-transitions/internal/core/generation"
)

// VeoGenerationService implements generation.Service against the Veo API.
// Operations are tracked by name so polls can rehydrate the long-running
// operation handle the client requires.
type VeoGenerationService struct {
	client *genai.Client
	model  *QuotaAwareVeoModel
	config VeoModel

	mu         sync.Mutex
	operations map[string]*genai.GenerateVideosOperation
}

// NewVeoGenerationService builds the service over an initialized GenAI
// client and a rate-limited model wrapper.
func NewVeoGenerationService(client *genai.Client, model *QuotaAwareVeoModel, config VeoModel) *VeoGenerationService {
	return &VeoGenerationService{
		client:     client,
		model:      model,
		config:     config,
		operations: make(map[string]*genai.GenerateVideosOperation),
	}
}

// Submit starts one interpolation operation. The request's first frame
// seeds the generation and the last frame is carried in the configuration,
// so Veo generates the in-between motion. The returned ID is the operation
// name assigned by the service.
func (s *VeoGenerationService) Submit(ctx context.Context, req generation.SubmitRequest) (string, error) {
	duration := int32(s.config.DurationSeconds)
	cfg := &genai.GenerateVideosConfig{
		NumberOfVideos:  1,
		DurationSeconds: &duration,
		OutputGCSURI:    req.OutputURI,
		LastFrame: &genai.Image{
			ImageBytes: req.LastFrame.Bytes,
			MIMEType:   req.LastFrame.MIMEType,
		},
	}
	image := &genai.Image{
		ImageBytes: req.FirstFrame.Bytes,
		MIMEType:   req.FirstFrame.MIMEType,
	}

	op, err := s.model.GenerateVideos(ctx, req.Prompt, image, cfg)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.operations[op.Name] = op
	s.mu.Unlock()
	return op.Name, nil
}

// Poll reads the operation's current state. A done operation with no
// generated video is reported as a service error rather than success, which
// covers safety-filter rejections that complete the operation empty-handed.
func (s *VeoGenerationService) Poll(ctx context.Context, jobID string) (generation.PollResponse, error) {
	s.mu.Lock()
	op, ok := s.operations[jobID]
	s.mu.Unlock()
	if !ok {
		return generation.PollResponse{}, fmt.Errorf("unknown operation %q", jobID)
	}

	op, err := s.client.Operations.GetVideosOperation(ctx, op, nil)
	if err != nil {
		return generation.PollResponse{}, err
	}
	s.mu.Lock()
	s.operations[jobID] = op
	s.mu.Unlock()

	if !op.Done {
		return generation.PollResponse{}, nil
	}
	s.mu.Lock()
	delete(s.operations, jobID)
	s.mu.Unlock()

	if op.Error != nil {
		return generation.PollResponse{Done: true, Err: fmt.Errorf("veo operation failed: %v", op.Error)}, nil
	}
	if op.Response == nil || len(op.Response.GeneratedVideos) == 0 || op.Response.GeneratedVideos[0].Video == nil {
		return generation.PollResponse{Done: true, Err: fmt.Errorf("veo operation %s completed without a video", jobID)}, nil
	}
	return generation.PollResponse{Done: true, ResultURI: op.Response.GeneratedVideos[0].Video.URI}, nil
}
