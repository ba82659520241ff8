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

// Package services contains the business logic for interacting with data
// sources. This file centralizes the BigQuery SQL query strings used by
// the run service. The `%s` placeholder in each query is the fully
// qualified run table name, injected with `fmt.Sprintf`; value filters are
// bound as named query parameters (`@run_id`, `@input_folder`) so
// user-supplied strings never reach the SQL text.
package services

const (
	// QryFindRunById looks up one composition run record by its run ID.
	QryFindRunById = "SELECT * FROM `%s` WHERE run_id = @run_id"

	// QryListRuns returns the most recent run records. The second
	// placeholder is the row limit.
	QryListRuns = "SELECT * FROM `%s` ORDER BY start_time DESC LIMIT %d"

	// QryFindRunsByFolder returns every run recorded for one input
	// folder, newest first.
	QryFindRunsByFolder = "SELECT * FROM `%s` WHERE input_folder = @input_folder ORDER BY start_time DESC"

	// QryRunStats aggregates the run table into one summary row for the
	// stats endpoint.
	QryRunStats = "SELECT COUNT(*) AS total_runs, IFNULL(SUM(clip_count), 0) AS total_clips, IFNULL(SUM(duration_seconds), 0) AS total_duration_seconds, IFNULL(SUM(clamped_transitions), 0) AS clamped_transitions, IFNULL(SUM(degraded_transitions), 0) AS degraded_transitions FROM `%s`"
)
