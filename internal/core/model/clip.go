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

// Package model defines the core data structures of the transition
// composition engine: clip descriptors, transition specifications, effect
// plans, and the composition plan handed to the render executor. All of the
// types in this package are plain values. They are created once during
// ingestion or planning, never mutated afterward, and carry no references to
// service clients, which keeps the scheduling layer pure and the structures
// trivially comparable in tests.
package model

// FrameSize holds the pixel dimensions of a clip's video stream.
type FrameSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Equals reports whether two frame sizes are pixel-identical. Strategies that
// composite the two clips with pixel-aligned masks or offsets require this.
func (f FrameSize) Equals(other FrameSize) bool {
	return f.Width == other.Width && f.Height == other.Height
}

// ClipDescriptor is the immutable metadata for one source clip. It is created
// once per input clip during ingestion and shared read-only by every strategy
// and by the scheduler for the remainder of the run.
type ClipDescriptor struct {
	// ID is the stable sequence index of the clip within the run. Clips are
	// ordered alphabetically by their source object name, matching the
	// ordering of the input listing.
	ID int `json:"id"`
	// SourceHandle is an opaque reference to decodable media, typically a
	// local temp-file path or a gs:// URI. The engine never opens it; only
	// the render executor does.
	SourceHandle string `json:"source_handle"`
	// Duration of the clip in seconds. Always > 0 for an ingested clip.
	Duration float64 `json:"duration"`
	// FrameSize of the clip's video stream.
	FrameSize FrameSize `json:"frame_size"`
	// HasAudio reports whether the clip carries an audio stream. Generated
	// bridge clips do not; the render executor substitutes silence for them
	// so a join never references a stream that is not there.
	HasAudio bool `json:"has_audio"`
}
