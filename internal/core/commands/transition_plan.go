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

// Package commands provides the concrete implementations of the Chain of
// Responsibility (COR) pattern's Command interface for the composition
// workflow. This file defines the transition planning command: it resolves
// the request's transition choices into per-pair specs and evaluates them
// through the strategy planner. Bridge transitions run their full
// generation round trip here, concurrently across pairs, so everything
// after this command is local work.
package commands

import (
	"fmt"
	"log/slog"

	"github.com/CE-Demos/veo-clip-transitions/internal/cloud"
	"github.com/CE-Demos/veo-clip-transitions/internal/core/cor"
	"github.com/CE-Demos/veo-clip-transitions/internal/core/model"
	"github.com/CE-Demos/veo-clip-transitions/internal/core/transition"
)

// PlannedComposition carries the clip set plus its evaluated effect plans.
type PlannedComposition struct {
	*ClipSet
	Effects []*model.EffectPlan
}

// TransitionPlan evaluates the request's transitions against the clip set.
type TransitionPlan struct {
	cor.BaseCommand
	planner  *transition.Planner
	defaults cloud.Transitions
}

// NewTransitionPlan is the constructor for the TransitionPlan command.
func NewTransitionPlan(name string, planner *transition.Planner, defaults cloud.Transitions) *TransitionPlan {
	return &TransitionPlan{BaseCommand: *cor.NewBaseCommand(name), planner: planner, defaults: defaults}
}

// Execute builds the per-pair specs and runs the planner.
func (c *TransitionPlan) Execute(context cor.Context) {
	set := context.Get(c.GetInputParam()).(*ClipSet)
	ctx := context.GetContext()

	specs, err := c.resolveSpecs(set.Request, len(set.Clips)-1)
	if err != nil {
		c.GetErrorCounter().Add(ctx, 1)
		context.AddError(c.GetName(), err)
		return
	}

	effects, err := c.planner.Evaluate(ctx, set.Clips, specs)
	if err != nil {
		c.GetErrorCounter().Add(ctx, 1)
		context.AddError(c.GetName(), err)
		return
	}

	c.GetSuccessCounter().Add(ctx, 1)
	slog.Info("evaluated transitions", "run", set.Request.RunID, "pairs", len(effects))
	context.Add(c.GetOutputParam(), &PlannedComposition{ClipSet: set, Effects: effects})
}

// resolveSpecs maps the request's transition choices onto one spec per
// adjacent pair, filling unset fields from the configured defaults.
func (c *TransitionPlan) resolveSpecs(request *model.ComposeRequest, pairCount int) ([]model.TransitionSpec, error) {
	specs := make([]model.TransitionSpec, pairCount)
	for i := 0; i < pairCount; i++ {
		raw, err := request.SpecFor(i, pairCount)
		if err != nil {
			return nil, err
		}
		spec, err := c.toSpec(raw)
		if err != nil {
			return nil, fmt.Errorf("transition %d: %w", i, err)
		}
		specs[i] = spec
	}
	return specs, nil
}

func (c *TransitionPlan) toSpec(raw *model.TransitionRequest) (model.TransitionSpec, error) {
	kindName := c.defaults.DefaultKind
	if raw != nil && raw.Kind != "" {
		kindName = raw.Kind
	}
	kind, err := model.ParseTransitionKind(kindName)
	if err != nil {
		return model.TransitionSpec{}, err
	}

	spec := model.TransitionSpec{
		Kind:      kind,
		Duration:  c.defaults.DefaultDuration,
		FadeColor: c.defaults.FadeColor,
		Direction: model.SlideDirection(c.defaults.SlideDirection),
		Prompt:    c.defaults.BridgePrompt,
	}
	if raw == nil {
		return spec, nil
	}
	if raw.Duration > 0 {
		spec.Duration = raw.Duration
	}
	if raw.FadeColor != "" {
		spec.FadeColor = raw.FadeColor
	}
	if raw.Direction != "" {
		spec.Direction = model.SlideDirection(raw.Direction)
	}
	if raw.Prompt != "" {
		spec.Prompt = raw.Prompt
	}
	return spec, nil
}
