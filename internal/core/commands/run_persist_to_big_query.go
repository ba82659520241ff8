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

// This file defines the command that records a finished composition run in
// BigQuery. It completes the run record stamped by the trigger reader with
// the plan statistics and the published output URI, then streams the row
// through a table inserter. The inserter maps struct fields to columns via
// the `bigquery` tags on model.CompositionRun.
package commands

import (
	"fmt"
	"log/slog"
	"time"

	"cloud.google.com/go/bigquery"

	"github.com/CE-Demos/veo-clip-transitions/internal/core/cor"
	"github.com/CE-Demos/veo-clip-transitions/internal/core/model"
)

// RunPersistToBigQuery writes the completed run record to BigQuery.
type RunPersistToBigQuery struct {
	cor.BaseCommand
	client  *bigquery.Client
	dataset string
	table   string
}

// NewRunPersistToBigQuery is the constructor for the RunPersistToBigQuery command.
func NewRunPersistToBigQuery(name string, client *bigquery.Client, dataset string, table string) *RunPersistToBigQuery {
	return &RunPersistToBigQuery{BaseCommand: *cor.NewBaseCommand(name), client: client, dataset: dataset, table: table}
}

// IsExecutable requires the run record stamped at trigger time, in addition
// to the upload output.
func (s *RunPersistToBigQuery) IsExecutable(context cor.Context) bool {
	return s.BaseCommand.IsExecutable(context) && context.Get(GetCompositionRunName()) != nil
}

// Execute completes the run record and inserts it.
func (s *RunPersistToBigQuery) Execute(context cor.Context) {
	uploaded := context.Get(s.GetInputParam()).(*UploadedComposition)
	run := context.Get(GetCompositionRunName()).(*model.CompositionRun)
	ctx := context.GetContext()

	run.OutputURI = uploaded.OutputURI
	run.ClipCount = len(uploaded.Clips)
	run.Duration = uploaded.Plan.Duration
	run.Clamped = uploaded.Plan.Clamped
	run.Degraded = uploaded.Plan.Degraded
	run.EndTime = time.Now()

	inserter := s.client.Dataset(s.dataset).Table(s.table).Inserter()
	if err := inserter.Put(ctx, run); err != nil {
		s.GetErrorCounter().Add(ctx, 1)
		context.AddError(s.GetName(), fmt.Errorf("bigquery insert failed for run %s: %w", run.RunID, err))
		return
	}

	s.GetSuccessCounter().Add(ctx, 1)
	slog.Info("persisted composition run",
		"run", run.RunID,
		"output", run.OutputURI,
		"elapsed", run.EndTime.Sub(run.StartTime).Round(time.Millisecond))
	context.Add(cor.CtxOut, run)
}
