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

package model

import "errors"

// Error taxonomy for the composition engine. Callers match these with
// errors.Is after unwrapping.
var (
	// ErrInvalidInput marks a precondition violation such as an empty clip
	// list or a spec count that does not match the clip count. Fatal to the
	// run.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedFrameSize is returned by strategies that require
	// pixel-aligned compositing when the two clips differ in frame size.
	// Fatal for the affected pair unless the caller substitutes a cut.
	ErrUnsupportedFrameSize = errors.New("unsupported frame size")

	// ErrSubmission marks a failed generation-job creation call. The job
	// never left the gate; there is no retry.
	ErrSubmission = errors.New("generation submit failed")

	// ErrGenerationFailed marks a generation job that the remote service
	// reported as failed, or whose polling transport broke.
	ErrGenerationFailed = errors.New("generation failed")

	// ErrGenerationTimeout marks a generation job that exhausted its poll
	// attempt ceiling without completing.
	ErrGenerationTimeout = errors.New("generation timed out")
)
