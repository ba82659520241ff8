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

// Package generation implements the asynchronous generation job used by the
// AI bridge transition. A remote service accepts two boundary frames and a
// prompt, starts a long-running operation, and is polled until the operation
// completes, fails, or the poll ceiling is reached. The Service interface
// abstracts the remote endpoint so the state machine can be exercised in
// tests against a scripted fake; the production implementation lives in the
// cloud package and talks to Vertex AI Veo.
package generation

import "context"

// SubmitRequest carries everything the remote service needs to start one
// interpolation job: the two boundary frame images, the text prompt, and the
// storage location the generated video should land in.
type SubmitRequest struct {
	// FirstFrame is the PNG or JPEG image the generated clip starts from,
	// extracted from the end of the outgoing clip.
	FirstFrame FrameImage
	// LastFrame is the image the generated clip ends on, extracted from the
	// start of the incoming clip.
	LastFrame FrameImage
	// Prompt is the text instruction guiding the interpolation.
	Prompt string
	// OutputURI is the gs:// location the service writes the generated
	// video under.
	OutputURI string
}

// FrameImage is one still image handed to the generation service.
type FrameImage struct {
	// Bytes is the encoded image data.
	Bytes []byte
	// MIMEType is "image/png" or "image/jpeg".
	MIMEType string
}

// PollResponse is the classification of one status request. Exactly one of
// the three shapes occurs: not done yet (Done false), done with a result
// (Done true, ResultURI set), or done with an error (Done true, Err set).
type PollResponse struct {
	Done      bool
	ResultURI string
	Err       error
}

// Service is the remote generation endpoint. Submit returns an opaque job
// identifier assigned by the service; Poll reports the status of that job.
// A non-nil error from Poll is a transport failure, distinct from the
// service reporting a completed-with-error operation inside the response.
type Service interface {
	Submit(ctx context.Context, req SubmitRequest) (jobID string, err error)
	Poll(ctx context.Context, jobID string) (PollResponse, error)
}
