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

// Package cloud contains data structures and utilities for interacting with
// Google Cloud services. This file holds the GCS-facing helpers: a
// simplified object reference, gs:// URI parsing, and the video extension
// filter applied when listing a clip folder.
//
// Structs:
//   - GCSObject: A simplified internal model for GCS objects used in processing workflows.
//
// Functions:
//   - ParseGCSURI: Splits a gs:// URI into bucket and object name.
//   - IsVideoObject: Reports whether an object name carries a known video extension.
package cloud

import (
	"fmt"
	"strings"
)

// GCSObject is a simplified, internal representation of a Google Cloud
// Storage (GCS) object, lightweight enough to pass between commands in a
// processing workflow.
type GCSObject struct {
	Bucket   string // The name of the GCS bucket.
	Name     string // The name of the object.
	MIMEType string // The MIME type of the object (e.g., "video/mp4").
}

// URI returns the gs:// form of the object reference.
func (o GCSObject) URI() string {
	return fmt.Sprintf("gs://%s/%s", o.Bucket, o.Name)
}

// ParseGCSURI splits a gs://bucket/object URI into its components.
func ParseGCSURI(uri string) (bucket, object string, err error) {
	trimmed, ok := strings.CutPrefix(uri, "gs://")
	if !ok {
		return "", "", fmt.Errorf("invalid GCS URI format: %s", uri)
	}
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid GCS URI: unable to determine bucket and object from %s", uri)
	}
	return parts[0], parts[1], nil
}

// videoExtensions are the container formats accepted when listing a clip
// folder. Anything else in the folder is ignored.
var videoExtensions = []string{".mp4", ".mov", ".avi", ".mkv", ".webm"}

// IsVideoObject reports whether the object name ends in a known video
// container extension. The check is case-insensitive.
func IsVideoObject(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range videoExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
