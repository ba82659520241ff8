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

// Package model defines the data structures of the composition engine. This
// file holds the persistent record of one composition run, written to
// BigQuery when a run completes. The `bigquery` struct tags map the fields
// to table columns.
package model

import "time"

// CompositionRun is the durable record of one run of the engine.
type CompositionRun struct {
	RunID       string    `bigquery:"run_id" json:"run_id"`
	InputFolder string    `bigquery:"input_folder" json:"input_folder"`
	OutputURI   string    `bigquery:"output_uri" json:"output_uri"`
	ClipCount   int       `bigquery:"clip_count" json:"clip_count"`
	Duration    float64   `bigquery:"duration_seconds" json:"duration_seconds"`
	Clamped     int       `bigquery:"clamped_transitions" json:"clamped_transitions"`
	Degraded    int       `bigquery:"degraded_transitions" json:"degraded_transitions"`
	StartTime   time.Time `bigquery:"start_time" json:"start_time"`
	EndTime     time.Time `bigquery:"end_time" json:"end_time"`
}

// NewCompositionRun stamps the start of a run.
func NewCompositionRun(runID, inputFolder string) *CompositionRun {
	return &CompositionRun{
		RunID:       runID,
		InputFolder: inputFolder,
		StartTime:   time.Now(),
	}
}
