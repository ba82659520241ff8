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

// Package workflow defines the high-level business logic orchestrations,
// combining various commands into coherent pipelines. This file implements
// the composition workflow: the end-to-end pipeline that turns a compose
// request into a finished video in the output bucket and a run record in
// BigQuery.
package workflow

import (
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/storage"

	"github.com/CE-Demos/veo-clip-transitions/internal/cloud"
	"github.com/CE-Demos/veo-clip-transitions/internal/core/commands"
	"github.com/CE-Demos/veo-clip-transitions/internal/core/cor"
	"github.com/CE-Demos/veo-clip-transitions/internal/core/generation"
	"github.com/CE-Demos/veo-clip-transitions/internal/core/render"
	"github.com/CE-Demos/veo-clip-transitions/internal/core/transition"
)

// ComposeWorkflow orchestrates one composition run. It is structured as a
// Chain of Responsibility (cor.Chain) whose commands parse the trigger,
// ingest and probe the source clips, evaluate the requested transitions
// (including any remote bridge generations), place everything on a
// timeline, render it with ffmpeg, publish the result, and record the run.
//
// The workflow is typically triggered by a Pub/Sub message carrying a
// model.ComposeRequest as JSON.
type ComposeWorkflow struct {
	cor.BaseCommand
	config         *cloud.Config
	storageClient  *storage.Client
	bigqueryClient *bigquery.Client
	executor       *render.Executor
	planner        *transition.Planner
	veo            cloud.VeoModel
	chain          cor.Chain
}

// Execute runs the whole composition pipeline by invoking the underlying
// chain.
func (w *ComposeWorkflow) Execute(context cor.Context) {
	w.chain.Execute(context)
}

// initializeChain builds the sequence of commands that make up this
// workflow. Each command is an atomic unit of work whose output feeds the
// next command in the chain.
func (w *ComposeWorkflow) initializeChain() {
	out := cor.NewBaseChain(w.GetName())

	// Step 1: Parse and validate the incoming compose request and stamp
	// the run record that the final step completes.
	out.AddCommand(commands.NewComposeTriggerReader("compose-trigger-reader"))

	// Step 2: List the input folder, download each video object, and probe
	// it into a clip descriptor. Clips are ordered by object name.
	out.AddCommand(commands.NewClipIngest("clip-ingest", w.storageClient, w.executor))

	// Step 3: Resolve the per-pair transition specs and evaluate them
	// concurrently. Bridge transitions run their generation jobs here and
	// degrade to cuts on failure rather than failing the chain.
	out.AddCommand(commands.NewTransitionPlan("transition-plan", w.planner, w.config.Transitions))

	// Step 4: Place the clips and evaluated effects on a shared timeline.
	out.AddCommand(commands.NewTimelineSchedule("timeline-schedule"))

	// Step 5: Localize generated bridge clips, post-process them, and
	// stitch the timeline into a single local file.
	out.AddCommand(commands.NewCompositionRender("composition-render", w.storageClient, w.executor, w.veo))

	// Step 6: Publish the finished file to the output bucket.
	out.AddCommand(commands.NewCompositionUpload("composition-upload", w.storageClient, w.config.Storage))

	// Step 7: Complete and persist the run record.
	out.AddCommand(commands.NewRunPersistToBigQuery(
		"write-run-to-bigquery",
		w.bigqueryClient,
		w.config.BigQueryDataSource.DatasetName,
		w.config.BigQueryDataSource.RunTable))

	w.chain = out
}

// NewComposeWorkflow is the constructor for the ComposeWorkflow. It builds
// the strategy planner, wiring in the bridge strategy when the named Veo
// model is configured, and initializes the command chain.
//
// Inputs:
//   - config: The application's overall configuration.
//   - serviceClients: A struct containing initialized clients for GCP services.
//   - executor: The ffmpeg/ffprobe executor shared by probing, frame
//     extraction, and rendering.
//   - veoModelName: The key of the Veo model config used for bridge
//     generation (e.g., "bridge"). An unknown key leaves the bridge
//     strategy unregistered, so bridge requests fail planning instead of
//     degrading silently.
func NewComposeWorkflow(
	config *cloud.Config,
	serviceClients *cloud.ServiceClients,
	executor *render.Executor,
	veoModelName string) *ComposeWorkflow {

	planner := transition.NewDefaultPlanner()
	if config.Transitions.Workers > 0 {
		planner.SetWorkers(config.Transitions.Workers)
	}

	veo := config.VeoModels[veoModelName]
	if model, ok := serviceClients.VeoModels[veoModelName]; ok {
		service := cloud.NewVeoGenerationService(serviceClients.GenAIClient, model, veo)
		bridgePrefix := cloud.GCSObject{
			Bucket: config.Storage.OutputBucket,
			Name:   config.Storage.BridgePrefix,
		}
		planner.Register(transition.NewAIBridge(executor, service, transition.BridgeConfig{
			OutputURIPrefix:     bridgePrefix.URI(),
			ClipDurationSeconds: float64(veo.DurationSeconds),
			DecimationPasses:    veo.DecimationPasses,
			SpeedFactor:         veo.SpeedFactor,
			Polling: generation.Options{
				PollInterval: time.Duration(veo.PollIntervalSeconds) * time.Second,
				MaxAttempts:  veo.MaxPollAttempts,
			},
		}))
	}

	pipeline := &ComposeWorkflow{
		BaseCommand:    *cor.NewBaseCommand("compose-pipeline"),
		config:         config,
		storageClient:  serviceClients.StorageClient,
		bigqueryClient: serviceClients.BigQueryClient,
		executor:       executor,
		planner:        planner,
		veo:            veo,
	}
	pipeline.initializeChain()
	return pipeline
}
