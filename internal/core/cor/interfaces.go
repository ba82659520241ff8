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

// Package cor is a small chain-of-responsibility framework. The composition
// pipeline is expressed as a chain of commands sharing one context: each
// command reads its input from the context, does one unit of work (ingest a
// clip folder, plan transitions, render, upload), and writes its output back
// for the next command. This file defines the interfaces.
package cor

import (
	"context"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// CtxIn and CtxOut are the well-known context keys the chain pipes data
// through: after each command runs, the value under CtxOut becomes the next
// command's CtxIn.
const (
	CtxIn  = "__IN__"
	CtxOut = "__OUT__"
)

// Context is the shared state of one workflow execution: a property bag for
// inter-command data, an error map keyed by command name, and a temp-file
// registry cleaned up when the run closes.
type Context interface {
	// SetContext sets the Go context carrying cancellation and the current
	// trace span. The chain swaps it per command.
	SetContext(context context.Context)

	// GetContext returns the current Go context.
	GetContext() context.Context

	// Add stores a value and returns the Context for chaining.
	Add(key string, value interface{}) Context

	// AddError records a command failure. The key is the command name.
	AddError(key string, err error)

	// GetErrors returns every recorded failure.
	GetErrors() map[string]error

	// Get returns the value under key, or nil.
	Get(key string) interface{}

	// Remove drops a key.
	Remove(key string)

	// HasErrors reports whether any command has failed.
	HasErrors() bool

	// AddTempFile registers a file for removal when the context closes.
	// Downloaded clips and render intermediates go through this.
	AddTempFile(file string)

	// GetTempFiles returns the registered temp file paths.
	GetTempFiles() []string

	// Close removes the registered temp files. Defer it when starting a run.
	Close()
}

// Executable is anything with a single unit of work against a Context.
type Executable interface {
	Execute(context Context)
}

// Command is one atomic, individually traceable step of a workflow.
type Command interface {
	Executable

	// GetName identifies the command in logs, traces, and the error map.
	GetName() string

	// GetInputParam is the context key the command reads its input from.
	GetInputParam() string

	// GetOutputParam is the context key the command writes its output to.
	GetOutputParam() string

	// IsExecutable is the precondition check run before Execute.
	IsExecutable(context Context) bool

	GetTracer() trace.Tracer
	GetMeter() metric.Meter
	GetSuccessCounter() metric.Int64Counter
	GetErrorCounter() metric.Int64Counter
}

// Chain is an ordered sequence of commands. A Chain is itself a Command, so
// chains nest.
type Chain interface {
	Command

	// ContinueOnFailure controls whether later commands still run after one
	// records an error. The composition chain keeps the default, stop on
	// first failure.
	ContinueOnFailure(bool) Chain

	// AddCommand appends a command to the sequence.
	AddCommand(command Command) Chain
}
