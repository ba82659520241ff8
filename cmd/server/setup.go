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

package main

import (
	"context"
	"log"
	"os"

	"github.com/CE-Demos/veo-clip-transitions/internal/cloud"
	"github.com/CE-Demos/veo-clip-transitions/internal/core/render"
	"github.com/CE-Demos/veo-clip-transitions/internal/core/services"
	"github.com/CE-Demos/veo-clip-transitions/internal/core/workflow"
)

// ComposeSubscription is the logical name of the Pub/Sub subscription that
// carries compose requests, as keyed in the configuration files.
const ComposeSubscription = "ComposeRequests"

// BridgeModel is the logical name of the Veo model configuration used for
// bridge generation.
const BridgeModel = "bridge"

type StateManager struct {
	config     *cloud.Config
	cloud      *cloud.ServiceClients
	executor   *render.Executor
	runService *services.RunService
}

var state = &StateManager{}

func SetupOS() (err error) {
	err = os.Setenv(cloud.EnvConfigFilePrefix, "configs/")
	if err != nil {
		return err
	}
	err = os.Setenv(cloud.EnvConfigRuntime, "local")
	return err
}

func GetConfig() *cloud.Config {
	if state.config == nil {
		err := SetupOS()
		if err != nil {
			log.Fatalf("failed to setup os environment: %v\n", err)
		}
		// Create a default cloud config
		config := cloud.NewConfig()
		// Load it from the TOML files
		cloud.LoadConfig(config)
		state.config = config
	}
	return state.config
}

// InitState wires the application together: cloud clients, the ffmpeg
// executor, the run query service, and the composition workflow attached
// to its Pub/Sub listener.
func InitState(ctx context.Context) {
	config := GetConfig()

	cloudClients, err := cloud.NewCloudServiceClients(ctx, config)
	if err != nil {
		panic(err)
	}
	state.cloud = cloudClients

	// Resolve the ffmpeg and ffprobe binaries. Pinned paths in the config
	// win over a PATH lookup.
	if config.Application.FFmpegPath != "" && config.Application.FFprobePath != "" {
		state.executor = render.NewExecutorAt(config.Application.FFmpegPath, config.Application.FFprobePath)
	} else {
		executor, err := render.NewExecutor()
		if err != nil {
			log.Fatalf("failed to locate ffmpeg tools: %v\n", err)
		}
		state.executor = executor
	}

	state.runService = &services.RunService{
		BigqueryClient: cloudClients.BigQueryClient,
		StorageClient:  cloudClients.StorageClient,
		IAMClient:      cloudClients.IAMClient,
		SignerEmail:    config.Application.SignerServiceAccountEmail,
		DatasetName:    config.BigQueryDataSource.DatasetName,
		RunTable:       config.BigQueryDataSource.RunTable,
	}

	SetupListeners(ctx, config, cloudClients)
}

// SetupListeners attaches the composition workflow to the compose-request
// subscription and starts receiving.
func SetupListeners(ctx context.Context, config *cloud.Config, cloudClients *cloud.ServiceClients) {
	composeWorkflow := workflow.NewComposeWorkflow(config, cloudClients, state.executor, BridgeModel)
	cloudClients.PubSubListeners[ComposeSubscription].SetCommand(composeWorkflow)
	cloudClients.PubSubListeners[ComposeSubscription].Listen(ctx)
}
