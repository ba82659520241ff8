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
// This file implements a wrapper around the Veo video generation entry point.
// The wrapper uses the Decorator design pattern to add rate limiting to the
// generation call without altering the underlying client.
//
// Why this is important:
//   - Rate Limiting: Veo enforces a low quota on long-running generation
//     submissions per minute. This wrapper blocks submissions at the
//     configured rate so a burst of bridge transitions queues instead of
//     erroring out.
//
// Structs:
//   - QuotaAwareVeoModel: A struct that wraps the Veo model handle and adds
//     a rate limiter in front of submission.
//
// Functions:
//   - NewQuotaAwareVeoModel: A constructor to create a new instance of the wrapped model.
//   - GenerateVideos: An overridden submission method that waits on the limiter first.
package cloud

import (
	"context"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// QuotaAwareVeoModel is a decorator over the Veo model handle. It carries
// the model name, the base generation configuration applied to every
// request, and a rate limiter that paces submissions.
type QuotaAwareVeoModel struct {
	GenerateConfig *genai.GenerateVideosConfig // The base generation configuration shared by every submission.
	ModelName      string                      // The Veo model name.
	ModelHandle    *genai.Models               // The underlying model entry point on the GenAI client.
	RateLimit      *rate.Limiter               // Paces submissions to stay inside the per-minute quota.
}

// NewQuotaAwareVeoModel is a constructor function that creates a new
// QuotaAwareVeoModel. The rate limit is expressed in requests per minute to
// match how the Veo quota is published.
//
// Inputs:
//   - config: The base *genai.GenerateVideosConfig applied to every submission.
//   - name: The Veo model name.
//   - handle: The *genai.Models entry point of the client.
//   - requestsPerMinute: The maximum number of submissions allowed per minute.
//
// Outputs:
//   - *QuotaAwareVeoModel: A pointer to the newly created wrapper.
func NewQuotaAwareVeoModel(config *genai.GenerateVideosConfig, name string, handle *genai.Models, requestsPerMinute int) *QuotaAwareVeoModel {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 1
	}
	return &QuotaAwareVeoModel{
		GenerateConfig: config,
		ModelName:      name,
		ModelHandle:    handle,
		RateLimit:      rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), requestsPerMinute),
	}
}

// GenerateVideos submits one generation request, blocking on the rate
// limiter first. A canceled context releases the wait and returns the
// context error. Submission failures are not retried here: the calling job
// layer treats them as terminal and degrades the transition instead.
//
// Inputs:
//   - ctx: The context for the request.
//   - prompt: The interpolation prompt.
//   - image: The starting frame for the generated clip.
//   - config: The per-request configuration, carrying the final frame and output URI.
//
// Outputs:
//   - *genai.GenerateVideosOperation: The long-running operation reference.
//   - error: An error if the limiter wait or the submission fails.
func (q *QuotaAwareVeoModel) GenerateVideos(ctx context.Context, prompt string, image *genai.Image, config *genai.GenerateVideosConfig) (*genai.GenerateVideosOperation, error) {
	if err := q.RateLimit.Wait(ctx); err != nil {
		return nil, err
	}
	return q.ModelHandle.GenerateVideos(ctx, q.ModelName, prompt, image, config)
}
