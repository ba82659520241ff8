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

// This file defines the timeline scheduling command. It is a thin COR
// wrapper around the pure scheduler: effects in, placed segments out. The
// command exists so the placement step shows up as its own span and error
// site in the chain rather than being folded into planning or rendering.
package commands

import (
	"log/slog"

	"github.com/CE-Demos/veo-clip-transitions/internal/core/cor"
	"github.com/CE-Demos/veo-clip-transitions/internal/core/model"
	"github.com/CE-Demos/veo-clip-transitions/internal/core/schedule"
)

// ScheduledComposition carries the placed timeline alongside the planning
// output it was derived from.
type ScheduledComposition struct {
	*PlannedComposition
	Plan *model.CompositionPlan
}

// TimelineSchedule places the evaluated effects on a shared timeline.
type TimelineSchedule struct {
	cor.BaseCommand
}

// NewTimelineSchedule is the constructor for the TimelineSchedule command.
func NewTimelineSchedule(name string) *TimelineSchedule {
	return &TimelineSchedule{BaseCommand: *cor.NewBaseCommand(name)}
}

// Execute runs the cursor scheduler over the planned composition.
func (c *TimelineSchedule) Execute(context cor.Context) {
	planned := context.Get(c.GetInputParam()).(*PlannedComposition)
	ctx := context.GetContext()

	plan, err := schedule.Schedule(planned.Clips, planned.Effects)
	if err != nil {
		c.GetErrorCounter().Add(ctx, 1)
		context.AddError(c.GetName(), err)
		return
	}

	c.GetSuccessCounter().Add(ctx, 1)
	slog.Info("scheduled composition",
		"run", planned.Request.RunID,
		"segments", len(plan.Segments),
		"duration", plan.Duration,
		"clamped", plan.Clamped,
		"degraded", plan.Degraded)
	context.Add(c.GetOutputParam(), &ScheduledComposition{PlannedComposition: planned, Plan: plan})
}
