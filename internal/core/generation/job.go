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

// Package generation implements the asynchronous generation job used by the
// AI bridge transition. This file holds the job state machine itself.
//
// State flow:
//
//	Submitted -> Polling -> Succeeded
//	                     -> Failed
//	                     -> TimedOut
//
// Submitted is entered by a successful creation call; a creation failure
// never produces a job at all and surfaces as a submission error. The move
// to Polling is immediate. While polling, a status request is issued every
// fixed interval: a not-done response keeps the job polling, a done response
// with a result moves it to Succeeded, a done response carrying a service
// error moves it to Failed, and a transport failure also moves it to Failed
// with no further requests. A hard ceiling on the attempt count forces
// TimedOut. Terminal states are never re-entered; the owning strategy
// invocation discards the job once it is terminal.
package generation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/CE-Demos/veo-clip-transitions/internal/core/model"
)

// State is the lifecycle position of a generation job.
type State int

const (
	StateSubmitted State = iota
	StatePolling
	StateSucceeded
	StateFailed
	StateTimedOut
)

var stateNames = map[State]string{
	StateSubmitted: "submitted",
	StatePolling:   "polling",
	StateSucceeded: "succeeded",
	StateFailed:    "failed",
	StateTimedOut:  "timed-out",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Terminal reports whether the state is one of the three end states.
func (s State) Terminal() bool {
	return s == StateSucceeded || s == StateFailed || s == StateTimedOut
}

// Default polling policy, matching the remote service's guidance of roughly
// ten-second status checks and an upper bound that caps a job at about one
// hour and forty minutes of waiting.
const (
	DefaultPollInterval = 10 * time.Second
	DefaultMaxAttempts  = 600
)

// Options tunes the polling loop of a job.
type Options struct {
	// PollInterval is the fixed wait between status requests. Zero or
	// negative selects DefaultPollInterval.
	PollInterval time.Duration
	// MaxAttempts is the hard ceiling on status requests before the job is
	// forced to TimedOut. Zero or negative selects DefaultMaxAttempts.
	MaxAttempts int
}

func (o Options) normalized() Options {
	if o.PollInterval <= 0 {
		o.PollInterval = DefaultPollInterval
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = DefaultMaxAttempts
	}
	return o
}

// Job tracks one remote generation operation from submission to a terminal
// state. A job is owned by the single strategy invocation that created it
// and must not be shared across goroutines.
type Job struct {
	service Service
	opts    Options

	id           string
	state        State
	resultHandle string
	attemptCount int
}

// Submit creates the remote operation and returns a job ready to poll. A
// creation failure, network or auth, returns a nil job wrapped in
// model.ErrSubmission; there is no retry at this layer.
func Submit(ctx context.Context, service Service, req SubmitRequest, opts Options) (*Job, error) {
	id, err := service.Submit(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrSubmission, err)
	}
	return &Job{
		service: service,
		opts:    opts.normalized(),
		id:      id,
		state:   StateSubmitted,
	}, nil
}

// ID returns the opaque identifier assigned by the remote service.
func (j *Job) ID() string { return j.id }

// State returns the job's current lifecycle position.
func (j *Job) State() State { return j.state }

// AttemptCount returns the number of status requests issued so far.
func (j *Job) AttemptCount() int { return j.attemptCount }

// ResultHandle returns the URI of the generated video. Set only once the
// job has reached Succeeded.
func (j *Job) ResultHandle() string { return j.resultHandle }

// Wait drives the job to a terminal state and returns the result handle on
// success. The first status request is issued immediately; subsequent
// requests wait out the configured interval on a timer, so the goroutine
// suspends rather than spins between attempts. Cancelling ctx abandons the
// operation (no remote cancellation is assumed to exist) and resolves the
// job as Failed so the owning strategy can fall back.
//
// The error identifies the terminal state: nil for Succeeded,
// model.ErrGenerationFailed for Failed, model.ErrGenerationTimeout for
// TimedOut. Calling Wait on an already terminal job returns its outcome
// without issuing any further requests.
func (j *Job) Wait(ctx context.Context) (string, error) {
	if j.state.Terminal() {
		return j.resultHandle, j.terminalErr()
	}
	j.state = StatePolling

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			j.state = StateFailed
			return "", fmt.Errorf("%w: abandoned: %v", model.ErrGenerationFailed, ctx.Err())
		case <-timer.C:
		}

		if j.attemptCount >= j.opts.MaxAttempts {
			j.state = StateTimedOut
			return "", fmt.Errorf("%w: operation %s after %d attempts", model.ErrGenerationTimeout, j.id, j.attemptCount)
		}
		j.attemptCount++

		resp, err := j.service.Poll(ctx, j.id)
		if err != nil {
			// Transport failures are not retried; polling does not try to
			// distinguish transient from permanent ones.
			j.state = StateFailed
			return "", fmt.Errorf("%w: polling operation %s: %v", model.ErrGenerationFailed, j.id, err)
		}

		if resp.Done {
			if resp.Err != nil {
				j.state = StateFailed
				return "", fmt.Errorf("%w: operation %s: %v", model.ErrGenerationFailed, j.id, resp.Err)
			}
			j.state = StateSucceeded
			j.resultHandle = resp.ResultURI
			return j.resultHandle, nil
		}

		slog.Debug("generation operation not done",
			"operation", j.id,
			"attempt", j.attemptCount,
			"interval", j.opts.PollInterval)
		timer.Reset(j.opts.PollInterval)
	}
}

func (j *Job) terminalErr() error {
	switch j.state {
	case StateFailed:
		return fmt.Errorf("%w: operation %s", model.ErrGenerationFailed, j.id)
	case StateTimedOut:
		return fmt.Errorf("%w: operation %s", model.ErrGenerationTimeout, j.id)
	default:
		return nil
	}
}
