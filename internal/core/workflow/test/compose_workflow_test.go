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

// This file contains the end-to-end integration test for the composition
// workflow. It feeds a compose-request message through the full chain
// against the test-runtime cloud resources, so it needs GCP credentials,
// the test buckets populated with clips, and ffmpeg on the PATH; it skips
// when any of those are missing.
package workflow_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/CE-Demos/veo-clip-transitions/internal/core/cor"
	"github.com/CE-Demos/veo-clip-transitions/internal/core/render"
	"github.com/CE-Demos/veo-clip-transitions/internal/core/workflow"
	test "github.com/CE-Demos/veo-clip-transitions/internal/testutil"
)

func TestComposeWorkflow(t *testing.T) {
	clients := requireCloud(t)

	executor, err := render.NewExecutor()
	if err != nil {
		t.Skipf("ffmpeg tools unavailable: %v", err)
	}

	spanCtx, span := tracer.Start(ctx, "test-compose-workflow")
	defer span.End()
	logger.InfoContext(spanCtx, "starting composition workflow test")

	pipeline := workflow.NewComposeWorkflow(config, clients, executor, "bridge")

	chainCtx := cor.NewBaseContext()
	chainCtx.SetContext(spanCtx)
	chainCtx.Add(cor.CtxIn, test.GetTestComposeMessageText())
	defer chainCtx.Close()

	pipeline.Execute(chainCtx)

	for step, stepErr := range chainCtx.GetErrors() {
		t.Errorf("workflow step %s failed: %v", step, stepErr)
	}
	require.False(t, chainCtx.HasErrors())
}
