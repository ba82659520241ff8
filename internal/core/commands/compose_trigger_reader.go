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
// workflow. This file defines the initial command of the chain: parsing a
// compose-request message into a validated request object.
//
// Logic Flow:
//  1. The command receives the raw Pub/Sub message data as a JSON string
//     from the context.
//  2. It unmarshals the JSON into a `model.ComposeRequest`.
//  3. It validates the request and assigns a run ID when the message
//     carried none.
//  4. The request is placed back into the context under a well-known key
//     and as the output for the next command in the chain.
package commands

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/CE-Demos/veo-clip-transitions/internal/core/cor"
	"github.com/CE-Demos/veo-clip-transitions/internal/core/model"
)

// GetComposeRequestName returns the context key the parsed compose request
// is stored under, so later commands in the chain can reach it directly.
func GetComposeRequestName() string {
	return "__COMPOSE__REQ__"
}

// GetCompositionRunName returns the context key the run record is stored
// under. The record is stamped here so its start time covers the whole
// chain, and completed by the persistence command at the end.
func GetCompositionRunName() string {
	return "__COMPOSE__RUN__"
}

// ComposeTriggerReader parses a compose-request Pub/Sub message into a
// validated model.ComposeRequest.
type ComposeTriggerReader struct {
	cor.BaseCommand
}

// NewComposeTriggerReader is the constructor for the ComposeTriggerReader command.
func NewComposeTriggerReader(name string) *ComposeTriggerReader {
	return &ComposeTriggerReader{BaseCommand: *cor.NewBaseCommand(name)}
}

// Execute parses and validates the trigger message.
func (c *ComposeTriggerReader) Execute(context cor.Context) {
	in := context.Get(c.GetInputParam()).(string)

	var request model.ComposeRequest
	if err := json.Unmarshal([]byte(in), &request); err != nil {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), fmt.Errorf("failed to unmarshal compose request: %w", err))
		return
	}
	if err := request.Validate(); err != nil {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), err)
		return
	}
	if request.RunID == "" {
		request.RunID = uuid.NewSHA1(uuid.NameSpaceURL, []byte(request.InputFolder+"/"+request.OutputName)).String()
	}

	c.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(GetComposeRequestName(), &request)
	context.Add(GetCompositionRunName(), model.NewCompositionRun(request.RunID, request.InputFolder))
	context.Add(c.GetOutputParam(), &request)
}
