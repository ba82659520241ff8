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

// Package cloud provides components for interacting with Google Cloud
// services. This file holds the Pub/Sub listener that drives composition
// runs: each message on the compose-request subscription is handed to the
// workflow chain as its raw input, and the message is acknowledged only
// when the whole chain succeeds. A failed run leaves the message
// unacknowledged, so the subscription's retry policy redelivers it.
package cloud

import (
	"context"
	"log"

	"cloud.google.com/go/pubsub"
	"github.com/CE-Demos/veo-clip-transitions/internal/core/cor"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// PubSubListener binds one subscription to the command that processes its
// messages. Listeners outlive individual requests, so they live with the
// cloud clients rather than the HTTP layer.
type PubSubListener struct {
	client       *pubsub.Client
	subscription *pubsub.Subscription
	command      cor.Command
}

// NewPubSubListener builds a listener for the given subscription ID. The
// command may be nil at construction and attached later with SetCommand,
// which is how the service wires listeners before the workflow exists.
func NewPubSubListener(
	pubsubClient *pubsub.Client,
	subscriptionID string,
	command cor.Command,
) (cmd *PubSubListener, err error) {
	sub := pubsubClient.Subscription(subscriptionID)

	cmd = &PubSubListener{
		client:       pubsubClient,
		subscription: sub,
		command:      command,
	}
	return cmd, nil
}

// SetCommand attaches the processing command. A command already attached is
// kept; the first wiring wins.
func (m *PubSubListener) SetCommand(command cor.Command) {
	if m.command == nil {
		m.command = command
	}
}

// Listen starts receiving in a background goroutine. Canceling ctx stops
// the receive loop, which is how graceful shutdown drains the listener.
func (m *PubSubListener) Listen(ctx context.Context) {
	log.Printf("listening: %s", m.subscription)

	go func() {
		tracer := otel.Tracer("message-listener")

		err := m.subscription.Receive(ctx, func(_ context.Context, msg *pubsub.Message) {
			spanCtx, span := tracer.Start(ctx, "receive-message")
			span.SetName("receive-message")
			span.SetAttributes(attribute.String("msg", string(msg.Data)))
			log.Println("received message")

			// Each message gets a fresh chain context seeded with the raw
			// payload; the trigger reader at the head of the chain parses it.
			chainCtx := cor.NewBaseContext()
			chainCtx.SetContext(spanCtx)
			chainCtx.Add(cor.CtxIn, string(msg.Data))

			m.command.Execute(chainCtx)

			if !chainCtx.HasErrors() {
				span.SetStatus(codes.Ok, "success")
				msg.Ack()
			} else {
				span.SetStatus(codes.Error, "failed")
				for _, e := range chainCtx.GetErrors() {
					log.Printf("error executing chain: %v", e)
				}
				// No Ack and no Nack: the ack deadline lapses and the
				// message is redelivered per the subscription settings.
			}

			span.End()
		})

		if err != nil {
			log.Printf("error receiving data: %v", err)
		}
	}()
}
