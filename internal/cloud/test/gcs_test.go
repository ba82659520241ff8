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

// This file tests the GCS object helpers: URI parsing and formatting, and
// the video extension filter applied when listing a clip folder.
package cloud_test

import (
	"testing"

	"github.com/zeebo/assert"

	"github.com/CE-Demos/veo-clip-transitions/internal/cloud"
)

func TestParseGCSURI(t *testing.T) {
	bucket, object, err := cloud.ParseGCSURI("gs://my-bucket/folders/clip_001.mp4")
	assert.NoError(t, err)
	assert.Equal(t, "my-bucket", bucket)
	assert.Equal(t, "folders/clip_001.mp4", object)
}

func TestParseGCSURIRejectsOtherSchemes(t *testing.T) {
	_, _, err := cloud.ParseGCSURI("https://storage.googleapis.com/my-bucket/clip.mp4")
	assert.Error(t, err)
}

func TestParseGCSURIRejectsBucketOnly(t *testing.T) {
	_, _, err := cloud.ParseGCSURI("gs://my-bucket")
	assert.Error(t, err)

	_, _, err = cloud.ParseGCSURI("gs://my-bucket/")
	assert.Error(t, err)
}

// The URI method must produce a string ParseGCSURI accepts, since object
// references cross the two forms on their way through the pipeline.
func TestGCSObjectURIRoundTrip(t *testing.T) {
	object := cloud.GCSObject{Bucket: "out-bucket", Name: "compositions/final.mp4"}
	assert.Equal(t, "gs://out-bucket/compositions/final.mp4", object.URI())

	bucket, name, err := cloud.ParseGCSURI(object.URI())
	assert.NoError(t, err)
	assert.Equal(t, object.Bucket, bucket)
	assert.Equal(t, object.Name, name)
}

func TestIsVideoObject(t *testing.T) {
	assert.True(t, cloud.IsVideoObject("shoot/clip_001.mp4"))
	assert.True(t, cloud.IsVideoObject("clip_002.MOV"))
	assert.True(t, cloud.IsVideoObject("clip_003.webm"))
	assert.False(t, cloud.IsVideoObject("notes.txt"))
	assert.False(t, cloud.IsVideoObject("poster.png"))
	// A folder placeholder object has no extension at all.
	assert.False(t, cloud.IsVideoObject("shoot/"))
}
