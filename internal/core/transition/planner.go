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

package transition

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/CE-Demos/veo-clip-transitions/internal/core/model"
)

// DefaultEvaluationWorkers bounds concurrent strategy evaluations. Bridge
// generation dominates the wall clock, so the bound mostly caps in-flight
// generation jobs.
const DefaultEvaluationWorkers = 4

// Planner resolves transition specs against a strategy registry and
// evaluates them for adjacent clip pairs.
type Planner struct {
	strategies map[model.TransitionKind]Strategy
	workers    int
}

// NewPlanner builds a planner over the given strategies. Registering the
// same kind twice keeps the last one.
func NewPlanner(strategies ...Strategy) *Planner {
	p := &Planner{
		strategies: make(map[model.TransitionKind]Strategy),
		workers:    DefaultEvaluationWorkers,
	}
	for _, s := range strategies {
		p.strategies[s.Kind()] = s
	}
	return p
}

// NewDefaultPlanner registers the locally computed strategies. The AI
// bridge strategy needs cloud wiring and is added by the caller when
// configured.
func NewDefaultPlanner() *Planner {
	return NewPlanner(&Cut{}, &Fade{}, &Crossfade{}, &Slide{}, &Wipe{}, &FilterCrossfade{})
}

// Register adds or replaces the strategy for its kind.
func (p *Planner) Register(s Strategy) { p.strategies[s.Kind()] = s }

// SetWorkers overrides the evaluation concurrency bound. Values < 1 are
// ignored.
func (p *Planner) SetWorkers(n int) {
	if n >= 1 {
		p.workers = n
	}
}

// Strategy returns the registered strategy for the kind, or an input error
// when none is registered.
func (p *Planner) Strategy(kind model.TransitionKind) (Strategy, error) {
	s, ok := p.strategies[kind]
	if !ok {
		return nil, fmt.Errorf("%w: no strategy registered for transition %q", model.ErrInvalidInput, kind)
	}
	return s, nil
}

// Evaluate applies spec i to the clip pair (clips[i], clips[i+1]) and
// returns the plans in pair order. Pairs are evaluated concurrently, bounded
// by the worker limit, which matters once bridge generation jobs are in the
// mix. A single clip needs no transitions and yields an empty slice.
func (p *Planner) Evaluate(ctx context.Context, clips []model.ClipDescriptor, specs []model.TransitionSpec) ([]*model.EffectPlan, error) {
	if len(clips) == 0 {
		return nil, fmt.Errorf("%w: no clips to compose", model.ErrInvalidInput)
	}
	if len(specs) != len(clips)-1 {
		return nil, fmt.Errorf("%w: %d clips need %d transitions, got %d",
			model.ErrInvalidInput, len(clips), len(clips)-1, len(specs))
	}
	if len(specs) == 0 {
		return []*model.EffectPlan{}, nil
	}

	plans := make([]*model.EffectPlan, len(specs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, spec := range specs {
		strategy, err := p.Strategy(spec.Kind)
		if err != nil {
			return nil, err
		}
		g.Go(func() error {
			plan, err := strategy.Apply(gctx, clips[i], clips[i+1], spec)
			if err != nil {
				return fmt.Errorf("transition %d (%s): %w", i, spec.Kind, err)
			}
			plans[i] = plan
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return plans, nil
}
