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

// This file tests the local segment of the composition command chain: the
// trigger reader, the transition planner command, and the timeline
// scheduler command. These commands carry no cloud clients, so they can be
// chained here exactly as the workflow chains them, with fabricated clip
// descriptors standing in for the ingest step.
package commands_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CE-Demos/veo-clip-transitions/internal/cloud"
	"github.com/CE-Demos/veo-clip-transitions/internal/core/commands"
	"github.com/CE-Demos/veo-clip-transitions/internal/core/cor"
	"github.com/CE-Demos/veo-clip-transitions/internal/core/model"
	"github.com/CE-Demos/veo-clip-transitions/internal/core/transition"
	test "github.com/CE-Demos/veo-clip-transitions/internal/testutil"
)

// newChainContext builds a chain context carrying the given input value.
func newChainContext(in interface{}) cor.Context {
	chainCtx := cor.NewBaseContext()
	chainCtx.SetContext(context.Background())
	chainCtx.Add(cor.CtxIn, in)
	return chainCtx
}

// testClips fabricates an ingested clip set: three 1080p clips of four,
// six, and five seconds.
func testClips(request *model.ComposeRequest) *commands.ClipSet {
	size := model.FrameSize{Width: 1920, Height: 1080}
	return &commands.ClipSet{
		Request: request,
		Clips: []model.ClipDescriptor{
			{ID: 0, SourceHandle: "/tmp/clip_000.mp4", Duration: 4, FrameSize: size},
			{ID: 1, SourceHandle: "/tmp/clip_001.mp4", Duration: 6, FrameSize: size},
			{ID: 2, SourceHandle: "/tmp/clip_002.mp4", Duration: 5, FrameSize: size},
		},
	}
}

func testDefaults() cloud.Transitions {
	return cloud.Transitions{
		DefaultKind:     "cut",
		DefaultDuration: 0.5,
		FadeColor:       "black",
		SlideDirection:  "right",
		BridgePrompt:    "a smooth cinematic camera move connecting the two scenes",
		Workers:         2,
	}
}

func TestComposeTriggerReaderParsesMessage(t *testing.T) {
	reader := commands.NewComposeTriggerReader("trigger-reader")
	chainCtx := newChainContext(test.GetTestComposeMessageText())

	reader.Execute(chainCtx)
	require.False(t, chainCtx.HasErrors())

	request := chainCtx.Get(commands.GetComposeRequestName()).(*model.ComposeRequest)
	assert.Equal(t, "gs://composition_input_resources/test-shoot-001/", request.InputFolder)
	assert.Equal(t, "test-shoot-001.mp4", request.OutputName)
	require.NotNil(t, request.Transition)
	assert.Equal(t, "crossfade", request.Transition.Kind)
	// The reader assigns a run ID when the message carries none.
	assert.NotEmpty(t, request.RunID)

	// The run record is stamped alongside the request for the final
	// persistence step.
	run := chainCtx.Get(commands.GetCompositionRunName()).(*model.CompositionRun)
	assert.Equal(t, request.RunID, run.RunID)
	assert.Equal(t, request.InputFolder, run.InputFolder)
	assert.False(t, run.StartTime.IsZero())
}

func TestComposeTriggerReaderRejectsMalformedJSON(t *testing.T) {
	reader := commands.NewComposeTriggerReader("trigger-reader")
	chainCtx := newChainContext(`{"input_folder": `)

	reader.Execute(chainCtx)
	assert.True(t, chainCtx.HasErrors())
}

func TestComposeTriggerReaderRejectsInvalidRequest(t *testing.T) {
	reader := commands.NewComposeTriggerReader("trigger-reader")
	chainCtx := newChainContext(`{"input_folder": "gs://clips/a/"}`)

	reader.Execute(chainCtx)
	assert.True(t, chainCtx.HasErrors())
}

func TestTransitionPlanUsesRequestTransition(t *testing.T) {
	request := model.NewComposeRequest("gs://clips/shoot/", "out.mp4")
	request.Transition = &model.TransitionRequest{Kind: "crossfade", Duration: 0.75}

	plan := commands.NewTransitionPlan("transition-plan", transition.NewDefaultPlanner(), testDefaults())
	chainCtx := newChainContext(testClips(request))

	plan.Execute(chainCtx)
	require.False(t, chainCtx.HasErrors())

	planned := chainCtx.Get(cor.CtxOut).(*commands.PlannedComposition)
	require.Len(t, planned.Effects, 2)
	for _, effect := range planned.Effects {
		assert.Equal(t, model.TransitionCrossfade, effect.Kind)
		assert.Equal(t, 0.75, effect.Overlap)
	}
}

// A request that names no transition at all falls back to the configured
// default kind.
func TestTransitionPlanAppliesDefaults(t *testing.T) {
	request := model.NewComposeRequest("gs://clips/shoot/", "out.mp4")

	plan := commands.NewTransitionPlan("transition-plan", transition.NewDefaultPlanner(), testDefaults())
	chainCtx := newChainContext(testClips(request))

	plan.Execute(chainCtx)
	require.False(t, chainCtx.HasErrors())

	planned := chainCtx.Get(cor.CtxOut).(*commands.PlannedComposition)
	require.Len(t, planned.Effects, 2)
	for _, effect := range planned.Effects {
		assert.Equal(t, model.TransitionCut, effect.Kind)
	}
}

func TestTransitionPlanPerPairList(t *testing.T) {
	request := model.NewComposeRequest("gs://clips/shoot/", "out.mp4")
	request.Transitions = []model.TransitionRequest{
		{Kind: "fade", Duration: 1},
		{Kind: "wipe", Duration: 0.5},
	}

	plan := commands.NewTransitionPlan("transition-plan", transition.NewDefaultPlanner(), testDefaults())
	chainCtx := newChainContext(testClips(request))

	plan.Execute(chainCtx)
	require.False(t, chainCtx.HasErrors())

	planned := chainCtx.Get(cor.CtxOut).(*commands.PlannedComposition)
	require.Len(t, planned.Effects, 2)
	assert.Equal(t, model.TransitionFade, planned.Effects[0].Kind)
	assert.Equal(t, model.TransitionWipe, planned.Effects[1].Kind)
}

// A bridge request without a configured generation service must fail
// planning loudly rather than quietly producing cuts. The request arrives
// the way the listener delivers it, through the trigger reader.
func TestTransitionPlanRejectsUnregisteredBridge(t *testing.T) {
	reader := commands.NewComposeTriggerReader("trigger-reader")
	chainCtx := newChainContext(test.GetTestBridgeComposeMessageText())
	reader.Execute(chainCtx)
	require.False(t, chainCtx.HasErrors())

	request := chainCtx.Get(commands.GetComposeRequestName()).(*model.ComposeRequest)
	require.NotNil(t, request.Transition)
	assert.Equal(t, "ai-bridge", request.Transition.Kind)

	plan := commands.NewTransitionPlan("transition-plan", transition.NewDefaultPlanner(), testDefaults())
	planCtx := newChainContext(testClips(request))

	plan.Execute(planCtx)
	assert.True(t, planCtx.HasErrors())
}

func TestTransitionPlanRejectsUnknownKind(t *testing.T) {
	request := model.NewComposeRequest("gs://clips/shoot/", "out.mp4")
	request.Transition = &model.TransitionRequest{Kind: "dissolve"}

	plan := commands.NewTransitionPlan("transition-plan", transition.NewDefaultPlanner(), testDefaults())
	chainCtx := newChainContext(testClips(request))

	plan.Execute(chainCtx)
	assert.True(t, chainCtx.HasErrors())
}

// Runs the planner and scheduler commands back to back, the way the chain
// does, and checks the placed timeline.
func TestTimelineScheduleProducesPlan(t *testing.T) {
	request := model.NewComposeRequest("gs://clips/shoot/", "out.mp4")
	request.Transition = &model.TransitionRequest{Kind: "crossfade", Duration: 1}

	planCmd := commands.NewTransitionPlan("transition-plan", transition.NewDefaultPlanner(), testDefaults())
	chainCtx := newChainContext(testClips(request))
	planCmd.Execute(chainCtx)
	require.False(t, chainCtx.HasErrors())
	planned := chainCtx.Get(cor.CtxOut).(*commands.PlannedComposition)

	scheduleCmd := commands.NewTimelineSchedule("timeline-schedule")
	scheduleCtx := newChainContext(planned)
	scheduleCmd.Execute(scheduleCtx)
	require.False(t, scheduleCtx.HasErrors())

	scheduled := scheduleCtx.Get(cor.CtxOut).(*commands.ScheduledComposition)
	require.Len(t, scheduled.Plan.Segments, 3)
	// 4 + 6 + 5 seconds of footage minus two 1-second overlaps.
	assert.InDelta(t, 13.0, scheduled.Plan.Duration, 1e-9)
	assert.Equal(t, 0, scheduled.Plan.Clamped)
}

func TestTimelineScheduleSurfacesSchedulerErrors(t *testing.T) {
	request := model.NewComposeRequest("gs://clips/shoot/", "out.mp4")
	planned := &commands.PlannedComposition{
		ClipSet: testClips(request),
		Effects: nil, // wrong effect count for three clips
	}

	scheduleCmd := commands.NewTimelineSchedule("timeline-schedule")
	chainCtx := newChainContext(planned)
	scheduleCmd.Execute(chainCtx)
	assert.True(t, chainCtx.HasErrors())
}
