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
	"encoding/json"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"cloud.google.com/go/pubsub"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/CE-Demos/veo-clip-transitions/internal/core/model"
	"github.com/CE-Demos/veo-clip-transitions/internal/telemetry"
)

func main() {
	telemetry.SetupLogging()
	slog.Info("Logging initialized")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	config := GetConfig()

	_, err := telemetry.SetupOpenTelemetry(ctx, config)
	if err != nil {
		slog.Error("Failed to setup OpenTelemetry", "error", err)
		log.Fatal(err)
	}
	slog.Info("Tracing initialized")

	InitState(ctx)
	slog.Info("Initialized State")

	r := gin.Default()

	// Add OpenTelemetry middleware
	r.Use(otelgin.Middleware("composition-server"))

	// Allow all origins, methods, and headers. Safe for local development,
	// where the trigger UI and the server run on different ports.
	r.Use(cors.Default())

	apiV1 := r.Group("/api/v1")
	{
		CompositionRouter(apiV1)
		RunRouter(apiV1)
		Dashboard(apiV1)
	}

	srv := &http.Server{
		Addr:    ":8080",
		Handler: r,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("failed to listen: ", "error", err)
		}
	}()
	slog.Info("Server Ready on port 8080")

	// Wait for an interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutdown Server ...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server Shutdown Failed:", "error", err)
	}

	log.Println("Server exiting")
}

// CompositionRouter sets up the route that triggers a composition run. The
// request is validated synchronously but executed asynchronously: the
// handler publishes it to the compose-request topic and the Pub/Sub
// listener drives the workflow.
func CompositionRouter(r *gin.RouterGroup) {
	compositions := r.Group("/compositions")
	{
		compositions.POST("", func(c *gin.Context) {
			var request model.ComposeRequest
			if err := c.ShouldBindJSON(&request); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if err := request.Validate(); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if request.RunID == "" {
				request.RunID = model.NewComposeRequest(request.InputFolder, request.OutputName).RunID
			}

			data, err := json.Marshal(&request)
			if err != nil {
				c.Status(http.StatusInternalServerError)
				return
			}

			topicName := state.config.TopicSubscriptions[ComposeSubscription].Topic
			topic := state.cloud.PubsubClient.Topic(topicName)
			result := topic.Publish(c, &pubsub.Message{Data: data})
			if _, err := result.Get(c); err != nil {
				slog.Error("failed to publish compose request", "run", request.RunID, "error", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "could not enqueue composition"})
				return
			}

			c.JSON(http.StatusAccepted, gin.H{"run_id": request.RunID})
		})
	}
}

// RunRouter sets up the routes for inspecting composition runs and
// downloading their output.
func RunRouter(r *gin.RouterGroup) {
	runs := r.Group("/runs")
	{
		runs.GET("", func(c *gin.Context) {
			if folder := c.Query("folder"); folder != "" {
				out, err := state.runService.ListByFolder(c, folder)
				if err != nil {
					slog.Error("failed to list runs by folder", "folder", folder, "error", err)
					c.Status(http.StatusInternalServerError)
					return
				}
				c.JSON(http.StatusOK, out)
				return
			}

			count, err := strconv.Atoi(c.DefaultQuery("count", "50"))
			if err != nil {
				count = 50
			}
			out, err := state.runService.List(c, count)
			if err != nil {
				slog.Error("failed to list runs", "error", err)
				c.Status(http.StatusInternalServerError)
				return
			}
			c.JSON(http.StatusOK, out)
		})

		runs.GET("/:id", func(c *gin.Context) {
			out, err := state.runService.Get(c, c.Param("id"))
			if err != nil {
				c.Status(http.StatusNotFound)
				return
			}
			c.JSON(http.StatusOK, out)
		})

		// Generates a short-lived signed URL for downloading the finished
		// composition.
		runs.GET("/:id/download", func(c *gin.Context) {
			run, err := state.runService.Get(c, c.Param("id"))
			if err != nil {
				c.JSON(http.StatusNotFound, gin.H{"error": "Run not found"})
				return
			}
			if run.OutputURI == "" {
				c.JSON(http.StatusConflict, gin.H{"error": "Run has no output yet"})
				return
			}

			expires := time.Duration(state.config.Storage.SignedURLExpirationMinutes) * time.Minute
			if expires <= 0 {
				expires = 15 * time.Minute
			}
			signedURL, err := state.runService.GenerateSignedURL(c, run.OutputURI, expires)
			if err != nil {
				slog.Error("failed to sign output URL", "run", run.RunID, "error", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate download URL"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"url": signedURL})
		})
	}
}
